package core

import (
	"iter"
	"slices"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/iancoleman/strcase"
	"go.uber.org/zap"

	"metaenumgo/internal/util"
)

// Descriptor is the immutable definition of one enumeration: its metadata
// table, encoding policy, bounds and optional inheritance/extension fields.
//
// The only field written after construction is the derived back-link, set
// once when a derived enumeration registers against this one.
type Descriptor struct {
	name     string
	encoding Encoding
	min      uint64
	max      uint64

	inheritance *uint64
	extension   *uint64
	base        *Descriptor
	derived     atomic.Pointer[Descriptor]

	entries      []Entry
	names        nameIndex
	registry     *Registry
	deriveLabels bool
}

// NewDescriptor validates cfg and builds the descriptor. When cfg.Base is set
// the base is linked back to the new descriptor.
func NewDescriptor(cfg Config, entries []Entry) (*Descriptor, error) {
	if err := cfg.Validate(entries); err != nil {
		return nil, err
	}

	d := &Descriptor{
		name:         cfg.Name,
		encoding:     cfg.Encoding,
		min:          cfg.Minimum,
		max:          cfg.Maximum,
		inheritance:  cloneOrdinal(cfg.Inheritance),
		extension:    cloneOrdinal(cfg.Extension),
		base:         cfg.Base,
		entries:      slices.Clone(entries),
		registry:     cfg.Registry,
		deriveLabels: cfg.DeriveLabels,
	}
	if d.deriveLabels {
		for i := range d.entries {
			d.entries[i].Label = d.labelFor(d.entries[i].Name, d.entries[i].Label)
		}
	}
	d.names = newNameIndex(d.entries)
	if d.extension != nil && d.registry == nil {
		d.registry = NewRegistry()
	}

	if d.base != nil && !d.base.derived.CompareAndSwap(nil, d) {
		return nil, errors.Wrapf(ErrInvalidConfig, "%s: base %s is already specialized", d.name, d.base.name)
	}

	util.Logger.Debug("enumeration defined",
		zap.String("enum", d.name),
		zap.Stringer("encoding", d.encoding),
		zap.Int("entries", len(d.entries)),
		zap.Uint64("max", d.max))
	return d, nil
}

func cloneOrdinal(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (d *Descriptor) labelFor(name, label string) string {
	if label != "" || !d.deriveLabels {
		return label
	}
	return strcase.ToDelimited(name, ' ')
}

// Name returns the enumeration's type name.
func (d *Descriptor) Name() string { return d.name }

// Encoding returns the encoding policy.
func (d *Descriptor) Encoding() Encoding { return d.encoding }

// Min returns the fast-path origin.
func (d *Descriptor) Min() uint64 { return d.min }

// Max returns the highest representable ordinal.
func (d *Descriptor) Max() uint64 { return d.max }

// Base returns the enumeration this one widens, or nil.
func (d *Descriptor) Base() *Descriptor { return d.base }

// Derived returns the enumeration that names ordinals past the inheritance
// threshold, or nil.
func (d *Descriptor) Derived() *Descriptor { return d.derived.Load() }

// Registry returns the registry owning the extension container, or nil.
func (d *Descriptor) Registry() *Registry { return d.registry }

// Inheritance returns the inheritance threshold if declared.
func (d *Descriptor) Inheritance() (uint64, bool) {
	if d.inheritance == nil {
		return 0, false
	}
	return *d.inheritance, true
}

// Extension returns the extension threshold if declared.
func (d *Descriptor) Extension() (uint64, bool) {
	if d.extension == nil {
		return 0, false
	}
	return *d.extension, true
}

// Inherit returns the first ordinal a derived enumeration may use. Without an
// inheritance threshold that is the maximum, leaving no room.
func (d *Descriptor) Inherit() uint64 {
	if d.inheritance == nil {
		return d.max
	}
	return *d.inheritance
}

// InheritMaximum returns the absolute ceiling shared with derived enumerations.
func (d *Descriptor) InheritMaximum() uint64 { return d.max }

// InheritExtension returns the start of the reserved extension range, or the
// maximum when the enumeration is not extensible.
func (d *Descriptor) InheritExtension() uint64 {
	if d.extension == nil {
		return d.max
	}
	return *d.extension
}

// Len returns the number of static entries.
func (d *Descriptor) Len() int { return len(d.entries) }

// Entry returns the static entry at position i.
func (d *Descriptor) Entry(i int) Entry { return d.entries[i] }

// Entries iterates the static table in declared order.
func (d *Descriptor) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range d.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Extensions returns the entries added at run time.
func (d *Descriptor) Extensions() []Entry {
	if d.extension == nil {
		return nil
	}
	c := d.registry.Lookup(d)
	if c == nil {
		return nil
	}
	return slices.Clone(c.Entries())
}

// Extend appends a runtime entry. See Registry.Extend.
func (d *Descriptor) Extend(name, label string) (uint64, error) {
	if d.registry == nil {
		return 0, errors.Wrapf(ErrNotExtensible, "%s", d.name)
	}
	return d.registry.Extend(d, name, label)
}
