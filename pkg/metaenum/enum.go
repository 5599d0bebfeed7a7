// Package metaenum gives Go integer enumerations name/label metadata,
// arbitrary-width flag sets and run-time extension of their value space.
//
// An enumeration is declared once with Define (or Derive, for an enumeration
// that widens another one) and queried through the returned *Enum. Flag sets
// are built from a SetKind, which fixes their bit length and storage.
package metaenum

import (
	"fmt"
	"iter"

	"github.com/go-faster/errors"

	"metaenumgo/internal/core"
)

// Ordinal is the underlying type of an enumeration.
type Ordinal interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~int8 | ~int16 | ~int32 | ~int64 | ~int
}

// Entry is the metadata of one enumeration value.
type Entry[E Ordinal] struct {
	Value E
	Name  string
	Label string
}

func (e Entry[E]) raw() core.Entry {
	return core.Entry{Value: uint64(e.Value), Name: e.Name, Label: e.Label}
}

func entryOf[E Ordinal](e core.Entry) Entry[E] {
	return Entry[E]{Value: E(e.Value), Name: e.Name, Label: e.Label}
}

var (
	ErrInvalidConfig     = core.ErrInvalidConfig
	ErrNotExtensible     = core.ErrNotExtensible
	ErrCapacityExhausted = core.ErrCapacityExhausted
	ErrInvalidName       = core.ErrInvalidName
	ErrNameTaken         = core.ErrNameTaken
	ErrStorageTooNarrow  = core.ErrStorageTooNarrow
	// ErrUnknownName is returned when decoding a set member with no entry.
	ErrUnknownName = errors.New("unknown enumeration name")
	// ErrInvalidMember is returned when decoding a number the set cannot hold.
	ErrInvalidMember = errors.New("value cannot be a set member")
)

// Option adjusts the declaration of an enumeration.
type Option func(*core.Config) error

// WithDirectEncoding declares values that already are bit masks.
func WithDirectEncoding() Option {
	return func(c *core.Config) error {
		c.Encoding = core.EncodingDirect
		return nil
	}
}

// WithMinimum sets the ordinal the static table is indexed from. Defaults to 0.
func WithMinimum[E Ordinal](min E) Option {
	return func(c *core.Config) error {
		c.Minimum = uint64(min)
		return nil
	}
}

// WithMaximum overrides the maximum ordinal. Derive defaults it to the base's.
func WithMaximum[E Ordinal](max E) Option {
	return func(c *core.Config) error {
		c.Maximum = uint64(max)
		return nil
	}
}

// WithInheritance reserves ordinals from threshold upward for a derived enumeration.
func WithInheritance[E Ordinal](threshold E) Option {
	return func(c *core.Config) error {
		v := uint64(threshold)
		c.Inheritance = &v
		return nil
	}
}

// WithExtension reserves ordinals from threshold up to (excluding) the
// maximum for values added at run time.
func WithExtension[E Ordinal](threshold E) Option {
	return func(c *core.Config) error {
		v := uint64(threshold)
		c.Extension = &v
		return nil
	}
}

// WithRegistry binds the enumeration's extensions to r. Extensible
// enumerations declared without one get a private registry.
func WithRegistry(r *Registry) Option {
	return func(c *core.Config) error {
		if r == nil {
			return errors.Wrap(core.ErrInvalidConfig, "nil registry")
		}
		c.Registry = r
		return nil
	}
}

// WithDerivedLabels fills empty labels from names ("ALLY_SPOT" -> "ally spot").
func WithDerivedLabels() Option {
	return func(c *core.Config) error {
		c.DeriveLabels = true
		return nil
	}
}

// WithName overrides the type name used in logs and errors.
func WithName(name string) Option {
	return func(c *core.Config) error {
		c.Name = name
		return nil
	}
}

// Enum is a declared enumeration.
type Enum[E Ordinal] struct {
	desc *core.Descriptor
}

// Define declares an enumeration with the given maximum ordinal and static
// entries, listed in ascending order.
func Define[E Ordinal](max E, entries []Entry[E], opts ...Option) (*Enum[E], error) {
	cfg := core.DefaultConfig()
	cfg.Name = fmt.Sprintf("%T", max)
	cfg.Maximum = uint64(max)
	return define(cfg, entries, opts)
}

// MustDefine is like Define but panics on a configuration error. It is meant
// for package-level declarations.
func MustDefine[E Ordinal](max E, entries []Entry[E], opts ...Option) *Enum[E] {
	e, err := Define(max, entries, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Derive declares D as a specialization of base: D's values live in base's
// inherited range and base resolves them through D. A base can be derived
// from once.
func Derive[D, B Ordinal](base *Enum[B], entries []Entry[D], opts ...Option) (*Enum[D], error) {
	var zero D
	cfg := core.DefaultConfig()
	cfg.Name = fmt.Sprintf("%T", zero)
	cfg.Maximum = base.desc.InheritMaximum()
	cfg.Encoding = base.desc.Encoding()
	cfg.Base = base.desc
	return define(cfg, entries, opts)
}

// MustDerive is like Derive but panics on a configuration error.
func MustDerive[D, B Ordinal](base *Enum[B], entries []Entry[D], opts ...Option) *Enum[D] {
	e, err := Derive[D](base, entries, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func define[E Ordinal](cfg core.Config, entries []Entry[E], opts []Option) (*Enum[E], error) {
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	raw := make([]core.Entry, len(entries))
	for i, e := range entries {
		raw[i] = e.raw()
	}
	desc, err := core.NewDescriptor(cfg, raw)
	if err != nil {
		return nil, err
	}
	return &Enum[E]{desc: desc}, nil
}

// Name returns the enumeration's type name.
func (e *Enum[E]) Name() string { return e.desc.Name() }

// Max returns the highest representable ordinal.
func (e *Enum[E]) Max() E { return E(e.desc.Max()) }

// Sequential reports whether values are dense ordinals rather than bit masks.
func (e *Enum[E]) Sequential() bool { return e.desc.Encoding() == core.EncodingSequential }

// Find returns the entry of v.
func (e *Enum[E]) Find(v E) (Entry[E], bool) {
	raw, ok := e.desc.Find(uint64(v))
	if !ok {
		return Entry[E]{}, false
	}
	return entryOf[E](raw), true
}

// FindName returns the entry named name.
func (e *Enum[E]) FindName(name string) (Entry[E], bool) {
	raw, ok := e.desc.FindName(name)
	if !ok {
		return Entry[E]{}, false
	}
	return entryOf[E](raw), true
}

// NameOf returns the name of v, or "" if v has no entry.
func (e *Enum[E]) NameOf(v E) string { return e.desc.NameOf(uint64(v)) }

// LabelOf returns the label of v, or "" if v has no entry.
func (e *Enum[E]) LabelOf(v E) string { return e.desc.LabelOf(uint64(v)) }

// ValueOf returns the value named name, or the zero value if there is none.
func (e *Enum[E]) ValueOf(name string) E { return E(e.desc.ValueOf(name)) }

// Lookup returns the value named name.
func (e *Enum[E]) Lookup(name string) (E, bool) {
	raw, ok := e.desc.FindName(name)
	return E(raw.Value), ok
}

// String returns the name of v, or its number when v has no entry.
func (e *Enum[E]) String(v E) string {
	if name := e.NameOf(v); name != "" {
		return name
	}
	return fmt.Sprint(uint64(v))
}

// Entries iterates the static entries in declared order.
func (e *Enum[E]) Entries() iter.Seq[Entry[E]] {
	return func(yield func(Entry[E]) bool) {
		for raw := range e.desc.Entries() {
			if !yield(entryOf[E](raw)) {
				return
			}
		}
	}
}

// Inherit returns the first ordinal a derived enumeration may use.
func (e *Enum[E]) Inherit() (E, bool) {
	v, ok := e.desc.Inheritance()
	return E(v), ok
}

// InheritMaximum returns the ceiling a derived enumeration shares.
func (e *Enum[E]) InheritMaximum() E { return E(e.desc.InheritMaximum()) }

// InheritExtension returns where the extension range starts, or the maximum
// if the enumeration is not extensible. Derived values stay below it.
func (e *Enum[E]) InheritExtension() E { return E(e.desc.InheritExtension()) }

// Widen converts a derived value to its base enumeration's representation.
func Widen[B, D Ordinal](v D) B { return B(v) }

// Narrow converts a base value to a derived enumeration's representation.
func Narrow[D, B Ordinal](v B) D { return D(v) }
