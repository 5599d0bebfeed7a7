package core

import (
	"sync"
	"sync/atomic"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"metaenumgo/internal/util"
)

// Registry owns the extension containers of the enumerations bound to it,
// one container per descriptor, created on the first Extend.
type Registry struct {
	containers sync.Map // *Descriptor -> *Container
	logger     *zap.Logger
	verbose    bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for extension events.
func WithLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithVerbose logs extension events at info level instead of debug.
func WithVerbose(v bool) RegistryOption {
	return func(r *Registry) {
		r.verbose = v
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{logger: util.Logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns the container of d, or nil if d was never extended.
func (r *Registry) Lookup(d *Descriptor) *Container {
	if r == nil {
		return nil
	}
	c, ok := r.containers.Load(d)
	if !ok {
		return nil
	}
	return c.(*Container)
}

func (r *Registry) container(d *Descriptor) *Container {
	if c := r.Lookup(d); c != nil {
		return c
	}
	c, _ := r.containers.LoadOrStore(d, newContainer(*d.extension, d.max))
	return c.(*Container)
}

// Extend allocates the next free ordinal of d's extension range, records
// name and label under it and returns it. The container state is left
// untouched on error.
func (r *Registry) Extend(d *Descriptor, name, label string) (uint64, error) {
	if d.extension == nil {
		return 0, errors.Wrapf(ErrNotExtensible, "%s", d.name)
	}
	if d.registry != r {
		return 0, errors.Wrapf(ErrInvalidConfig, "%s: bound to another registry", d.name)
	}
	if name == "" {
		return 0, errors.Wrapf(ErrInvalidName, "%s: empty name", d.name)
	}

	c := r.container(d)
	c.mu.Lock()
	defer c.mu.Unlock()

	// names are unique across the hierarchy; FindName on the root reaches
	// every table and container below it
	root := d
	for root.base != nil {
		root = root.base
	}
	if e, ok := root.FindName(name); ok {
		return 0, errors.Wrapf(ErrNameTaken, "%s: %q resolves to %d in %s", d.name, name, e.Value, root.name)
	}

	v, err := c.append(name, d.labelFor(name, label))
	if err != nil {
		r.logger.Warn("extension rejected",
			zap.String("enum", d.name),
			zap.String("name", name),
			zap.Uint64("max", d.max),
			zap.Error(err))
		return 0, errors.Wrapf(err, "%s: extend %q", d.name, name)
	}

	util.Log(r.logger, r.verbose, "enumeration extended",
		zap.String("enum", d.name),
		zap.String("name", name),
		zap.Uint64("value", v))
	return v, nil
}

// Container is the growable table behind one extensible enumeration.
// Entries are only ever appended; readers load a published snapshot and
// never observe a partially written entry.
type Container struct {
	threshold uint64
	max       uint64

	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[containerSnapshot]
}

type containerSnapshot struct {
	entries []Entry
	next    uint64
}

func newContainer(threshold, max uint64) *Container {
	c := &Container{threshold: threshold, max: max}
	c.snap.Store(&containerSnapshot{next: threshold})
	return c
}

// Entries returns the current snapshot. The caller must not modify it.
func (c *Container) Entries() []Entry {
	return c.snap.Load().entries
}

// Next returns the ordinal the next Extend will hand out.
func (c *Container) Next() uint64 {
	return c.snap.Load().next
}

// Threshold returns the first extension ordinal.
func (c *Container) Threshold() uint64 {
	return c.threshold
}

// Remaining returns how many ordinals are still free.
func (c *Container) Remaining() uint64 {
	return c.max - c.Next()
}

// append must be called with c.mu held.
func (c *Container) append(name, label string) (uint64, error) {
	cur := c.snap.Load()
	if cur.next >= c.max {
		return 0, ErrCapacityExhausted
	}
	v := cur.next
	// Writing past len(cur.entries) never touches what readers can see.
	entries := append(cur.entries, Entry{Value: v, Name: name, Label: label})
	c.snap.Store(&containerSnapshot{entries: entries, next: v + 1})
	return v, nil
}
