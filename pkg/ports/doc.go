/*
Package ports defines the driven ports (interfaces) of the model engine.

These interfaces decouple the engine from external implementations, so a
populated model can be persisted to any backend.

# Key Interfaces

  - DocumentStore: saves, loads and lists dumped model documents.
*/
package ports
