/*
Package observability turns model lifecycle hooks into Prometheus metrics.

A Collector registers its counters and histograms once and hands out a
domain.LifecycleHooks value that can be merged with any other hooks and passed
to model.WithHooks.
*/
package observability
