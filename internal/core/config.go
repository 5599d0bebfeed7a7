package core

import (
	"github.com/go-faster/errors"
)

// Config holds the declaration of one enumeration.
type Config struct {
	Name        string   // Type name, used in logs and errors
	Encoding    Encoding // Sequential or direct
	Minimum     uint64   // Origin of the fast-path index
	Maximum     uint64   // Highest representable ordinal
	Inheritance *uint64  // First ordinal a derived enumeration may use
	Extension   *uint64  // First ordinal reserved for runtime growth
	Base        *Descriptor
	Registry    *Registry // Owner of the extension container; created on demand
	// DeriveLabels fills empty labels from names.
	DeriveLabels bool
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() Config {
	return Config{
		Encoding: EncodingSequential,
		Minimum:  0,
	}
}

// HasInheritance reports whether derived enumerations may borrow ordinals.
func (c *Config) HasInheritance() bool { return c.Inheritance != nil }

// HasExtension reports whether the enumeration can grow at run time.
func (c *Config) HasExtension() bool { return c.Extension != nil }

// Validate checks the declaration against its static entries.
func (c *Config) Validate(entries []Entry) error {
	fail := func(format string, args ...any) error {
		return errors.Wrapf(ErrInvalidConfig, "%s: "+format, append([]any{c.Name}, args...)...)
	}

	if c.Encoding != EncodingSequential && c.Encoding != EncodingDirect {
		return fail("unknown encoding %v", c.Encoding)
	}
	if c.Minimum > c.Maximum {
		return fail("minimum %d exceeds maximum %d", c.Minimum, c.Maximum)
	}
	for _, e := range entries {
		if e.Value > c.Maximum {
			return fail("entry %q value %d exceeds maximum %d", e.Name, e.Value, c.Maximum)
		}
	}

	if c.HasInheritance() {
		inherit := *c.Inheritance
		if inherit > c.Maximum {
			return fail("inheritance threshold %d exceeds maximum %d", inherit, c.Maximum)
		}
		for _, e := range entries {
			if e.Value >= inherit {
				return fail("entry %q value %d lies in the inherited range starting at %d", e.Name, e.Value, inherit)
			}
		}
	}

	if c.HasExtension() {
		ext := *c.Extension
		if ext > c.Maximum {
			return fail("extension threshold %d exceeds maximum %d", ext, c.Maximum)
		}
		if c.HasInheritance() && ext < *c.Inheritance {
			return fail("extension threshold %d precedes inheritance threshold %d", ext, *c.Inheritance)
		}
		for _, e := range entries {
			if e.Value >= ext {
				return fail("entry %q value %d lies in the extension range starting at %d", e.Name, e.Value, ext)
			}
		}
	}

	if c.Base != nil {
		if err := c.validateBase(entries); err != nil {
			return fail("%s", err.Error())
		}
	}
	return nil
}

func (c *Config) validateBase(entries []Entry) error {
	base := c.Base
	if base.inheritance == nil {
		return errors.Errorf("base %s declares no inheritance threshold", base.name)
	}
	if base.derived.Load() != nil {
		return errors.Errorf("base %s is already specialized by %s", base.name, base.derived.Load().name)
	}
	if c.Maximum > base.max {
		return errors.Errorf("maximum %d exceeds base maximum %d", c.Maximum, base.max)
	}
	lo, hi := base.Inherit(), base.InheritExtension()
	for _, e := range entries {
		if e.Value < lo || e.Value >= hi {
			return errors.Errorf("entry %q value %d outside inherited range [%d, %d)", e.Name, e.Value, lo, hi)
		}
	}
	if c.HasExtension() {
		ext := *c.Extension
		if ext < lo {
			return errors.Errorf("extension threshold %d precedes base inheritance threshold %d", ext, lo)
		}
		if base.extension != nil && ext < base.max && *base.extension < c.Maximum {
			return errors.Errorf("extension range [%d, %d) overlaps base extension range [%d, %d)",
				ext, c.Maximum, *base.extension, base.max)
		}
	}
	return nil
}
