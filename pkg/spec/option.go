package spec

import (
	"fmt"

	"github.com/aretw0/mframework/pkg/domain"
)

// itemConfig collects the options shared by properties and feature entries.
type itemConfig struct {
	required    bool
	singleton   bool
	hasDefault  bool
	def         any
	minItems    int
	maxItems    int
	uidRequired bool
	doc         string
	err         error
}

func newItemConfig(opts []Option) itemConfig {
	cfg := itemConfig{required: true, singleton: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Option configures a property or feature registration.
// Items are required and singleton unless configured otherwise.
type Option func(*itemConfig)

// Optional marks the item as not required.
func Optional() Option {
	return func(c *itemConfig) {
		c.required = false
	}
}

// Default sets the value used for an absent property at run time.
// It implies Optional. For a Multiple property the default must be a list.
// Not valid on feature entries.
func Default(v any) Option {
	return func(c *itemConfig) {
		c.required = false
		c.hasDefault = true
		c.def = v
	}
}

// Multiple makes the item hold an ordered sequence instead of a single value.
func Multiple() Option {
	return func(c *itemConfig) {
		c.singleton = false
	}
}

// MaxItems bounds the number of entries of a Multiple item.
func MaxItems(n int) Option {
	return func(c *itemConfig) {
		if n < 1 {
			c.err = fmt.Errorf("%w: max items must be positive, got %d", domain.ErrInvalidSpec, n)
			return
		}
		c.maxItems = n
	}
}

// MinItems sets how many entries a required item needs for the model to be
// complete. It implies the item is required; values above one need Multiple.
func MinItems(n int) Option {
	return func(c *itemConfig) {
		if n < 1 {
			c.err = fmt.Errorf("%w: min items must be positive, got %d", domain.ErrInvalidSpec, n)
			return
		}
		c.required = true
		c.minItems = n
	}
}

// UIDRequired makes every entry of a Multiple item carry a unique
// user-supplied identifier. Entries are then added with AddWithUID or
// AddFeatureWithUID and serialized as a mapping from uid to value.
func UIDRequired() Option {
	return func(c *itemConfig) {
		c.uidRequired = true
	}
}

// Doc attaches a description used by generated documentation.
func Doc(text string) Option {
	return func(c *itemConfig) {
		c.doc = text
	}
}

func (c *itemConfig) check(name string) error {
	if c.err != nil {
		return fmt.Errorf("%q: %w", name, c.err)
	}
	if c.maxItems > 0 && c.singleton {
		return fmt.Errorf("%w: %q: max items requires Multiple", domain.ErrInvalidSpec, name)
	}
	if c.minItems > 1 && c.singleton {
		return fmt.Errorf("%w: %q: min items above one requires Multiple", domain.ErrInvalidSpec, name)
	}
	if c.minItems > 0 && !c.required {
		return fmt.Errorf("%w: %q: min items conflicts with Optional or Default", domain.ErrInvalidSpec, name)
	}
	if c.maxItems > 0 && c.minItems > c.maxItems {
		return fmt.Errorf("%w: %q: min items %d exceeds max items %d", domain.ErrInvalidSpec, name, c.minItems, c.maxItems)
	}
	if c.uidRequired && c.singleton {
		return fmt.Errorf("%w: %q: uids require Multiple", domain.ErrInvalidSpec, name)
	}
	if c.uidRequired && c.hasDefault {
		return fmt.Errorf("%w: %q: an item with uids cannot declare a default", domain.ErrInvalidSpec, name)
	}
	return nil
}
