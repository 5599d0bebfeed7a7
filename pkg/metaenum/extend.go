package metaenum

import (
	"go.uber.org/zap"

	"metaenumgo/internal/core"
)

// Registry holds the run-time extensions of the enumerations bound to it.
// Extend calls on one enumeration are serialized internally; lookups never
// block and observe either the state before or after an Extend.
type Registry = core.Registry

// RegistryOption configures a Registry.
type RegistryOption = core.RegistryOption

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	return core.NewRegistry(opts...)
}

// WithLogger sets the logger a registry reports extensions to.
func WithLogger(l *zap.Logger) RegistryOption {
	return core.WithLogger(l)
}

// WithVerbose logs extensions at info level.
func WithVerbose(v bool) RegistryOption {
	return core.WithVerbose(v)
}

// Extensible reports whether values can be added at run time.
func (e *Enum[E]) Extensible() bool {
	_, ok := e.desc.Extension()
	return ok
}

// Registry returns the registry holding e's extensions, or nil.
func (e *Enum[E]) Registry() *Registry { return e.desc.Registry() }

// Extend registers a new value named name and returns it. Values are handed
// out in ascending order from the extension threshold. An optional label may
// follow the name.
//
// Extend fails with ErrNotExtensible, ErrInvalidName, ErrNameTaken or
// ErrCapacityExhausted; on failure nothing is recorded.
func (e *Enum[E]) Extend(name string, label ...string) (E, error) {
	var l string
	if len(label) > 0 {
		l = label[0]
	}
	v, err := e.desc.Extend(name, l)
	if err != nil {
		var zero E
		return zero, err
	}
	return E(v), nil
}

// MustExtend is like Extend but panics on error.
func (e *Enum[E]) MustExtend(name string, label ...string) E {
	v, err := e.Extend(name, label...)
	if err != nil {
		panic(err)
	}
	return v
}

// Extensions returns the values added at run time, in allocation order.
func (e *Enum[E]) Extensions() []Entry[E] {
	raw := e.desc.Extensions()
	out := make([]Entry[E], len(raw))
	for i, r := range raw {
		out[i] = entryOf[E](r)
	}
	return out
}

// Remaining returns how many values can still be added.
func (e *Enum[E]) Remaining() uint64 {
	ext, ok := e.desc.Extension()
	if !ok {
		return 0
	}
	if c := e.desc.Registry().Lookup(e.desc); c != nil {
		return c.Remaining()
	}
	return e.desc.Max() - ext
}
