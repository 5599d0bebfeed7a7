// metaenumgo/internal/core/registry_test.go
package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func extensible(t *testing.T, r *Registry, ext, max uint64) *Descriptor {
	cfg := seqConfig(fmt.Sprintf("Ext%d_%d", ext, max), max)
	cfg.Extension = ordinal(ext)
	cfg.Registry = r
	return mustDescriptor(t, cfg, []Entry{{0, "NONE", ""}, {1, "FIRST", ""}})
}

func TestExtendAllocatesInOrder(t *testing.T) {
	d := extensible(t, nil, 8, 12)
	if d.Registry() == nil {
		t.Fatalf("extensible descriptor has no registry")
	}

	for i, name := range []string{"A", "B", "C", "D"} {
		v, err := d.Extend(name, "")
		if err != nil {
			t.Fatalf("Extend(%s) failed: %v", name, err)
		}
		if want := uint64(8 + i); v != want {
			t.Errorf("Extend(%s) = %d, want %d", name, v, want)
		}
	}

	c := d.Registry().Lookup(d)
	if c.Next() != 12 || c.Remaining() != 0 || c.Threshold() != 8 {
		t.Errorf("container next=%d remaining=%d threshold=%d", c.Next(), c.Remaining(), c.Threshold())
	}

	_, err := d.Extend("E", "")
	if !errors.Is(err, ErrCapacityExhausted) {
		t.Fatalf("Extend past capacity error = %v, want ErrCapacityExhausted", err)
	}
	if c.Next() != 12 || len(c.Entries()) != 4 {
		t.Errorf("failed Extend changed state: next=%d entries=%d", c.Next(), len(c.Entries()))
	}
	if _, ok := d.FindName("E"); ok {
		t.Errorf("rejected name resolves")
	}

	exts := d.Extensions()
	for i, e := range exts {
		if e.Value != uint64(8+i) {
			t.Errorf("Extensions()[%d] = %v", i, e)
		}
	}
}

func TestExtendNoCapacity(t *testing.T) {
	d := extensible(t, nil, 5, 5)
	if _, err := d.Extend("A", ""); !errors.Is(err, ErrCapacityExhausted) {
		t.Errorf("Extend on an empty range error = %v, want ErrCapacityExhausted", err)
	}
}

func TestExtendRejectsNames(t *testing.T) {
	d := extensible(t, nil, 4, 8)

	tests := []struct {
		name string
		want error
	}{
		{"", ErrInvalidName},
		{"FIRST", ErrNameTaken},
		{"NONE", ErrNameTaken},
	}
	for _, tt := range tests {
		if _, err := d.Extend(tt.name, ""); !errors.Is(err, tt.want) {
			t.Errorf("Extend(%q) error = %v, want %v", tt.name, err, tt.want)
		}
	}

	if _, err := d.Extend("NEW", ""); err != nil {
		t.Fatalf("Extend(NEW) failed: %v", err)
	}
	if _, err := d.Extend("NEW", ""); !errors.Is(err, ErrNameTaken) {
		t.Errorf("second Extend(NEW) error = %v, want ErrNameTaken", err)
	}
	if next := d.Registry().Lookup(d).Next(); next != 5 {
		t.Errorf("next = %d after one successful Extend, want 5", next)
	}
}

func TestExtendNameTakenByDerived(t *testing.T) {
	base, _ := hierarchy(t)
	if _, err := base.Extend("RECEIPT", ""); !errors.Is(err, ErrNameTaken) {
		t.Errorf("Extend(RECEIPT) error = %v, want ErrNameTaken", err)
	}
}

func TestExtendDerivedNameTakenByBase(t *testing.T) {
	cfg := seqConfig("Shape", 12)
	cfg.Inheritance = ordinal(4)
	cfg.Extension = ordinal(11)
	base := mustDescriptor(t, cfg, []Entry{{0, "NONE", ""}, {1, "CIRCLE", ""}})

	dcfg := seqConfig("ShapeExtended", 12)
	dcfg.Base = base
	dcfg.Extension = ordinal(8)
	dcfg.Maximum = 11
	derived := mustDescriptor(t, dcfg, []Entry{{4, "SQUARE", ""}})

	if _, err := base.Extend("HEXAGON", ""); err != nil {
		t.Fatalf("base Extend failed: %v", err)
	}
	for _, name := range []string{"CIRCLE", "SQUARE", "HEXAGON"} {
		if _, err := derived.Extend(name, ""); !errors.Is(err, ErrNameTaken) {
			t.Errorf("derived Extend(%s) error = %v, want ErrNameTaken", name, err)
		}
	}
	v, err := derived.Extend("OCTAGON", "")
	if err != nil {
		t.Fatalf("derived Extend(OCTAGON) failed: %v", err)
	}
	if got := base.NameOf(v); got != "OCTAGON" {
		t.Errorf("base.NameOf(%d) = %q, want OCTAGON", v, got)
	}
	if _, err := base.Extend("OCTAGON", ""); !errors.Is(err, ErrNameTaken) {
		t.Errorf("base Extend(OCTAGON) error = %v, want ErrNameTaken", err)
	}
}

func TestExtendNotExtensible(t *testing.T) {
	d := targetTypes(t)
	if d.Registry() != nil {
		t.Fatalf("non-extensible descriptor got a registry")
	}
	if _, err := d.Extend("X", ""); !errors.Is(err, ErrNotExtensible) {
		t.Errorf("Extend error = %v, want ErrNotExtensible", err)
	}
	if _, err := NewRegistry().Extend(d, "X", ""); !errors.Is(err, ErrNotExtensible) {
		t.Errorf("Registry.Extend error = %v, want ErrNotExtensible", err)
	}
	if d.Extensions() != nil {
		t.Errorf("Extensions() should be nil")
	}
}

func TestRegistryBinding(t *testing.T) {
	shared := NewRegistry()
	a := extensible(t, shared, 4, 8)
	b := extensible(t, shared, 10, 12)

	if _, err := a.Extend("X", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Extend("X", ""); err != nil {
		t.Fatalf("containers of different enumerations must be independent: %v", err)
	}
	if a.ValueOf("X") != 4 || b.ValueOf("X") != 10 {
		t.Errorf("ValueOf(X) = %d / %d, want 4 / 10", a.ValueOf("X"), b.ValueOf("X"))
	}

	other := NewRegistry()
	if _, err := other.Extend(a, "Y", ""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Extend through a foreign registry error = %v, want ErrInvalidConfig", err)
	}
	if other.Lookup(a) != nil {
		t.Errorf("foreign registry created a container")
	}
	var nilRegistry *Registry
	if nilRegistry.Lookup(a) != nil {
		t.Errorf("nil registry Lookup should return nil")
	}
}

func TestRegistryLogging(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	r := NewRegistry(WithLogger(zap.New(obsCore)), WithVerbose(true))
	d := extensible(t, r, 6, 7)

	if _, err := d.Extend("A", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Extend("B", ""); err == nil {
		t.Fatal("Extend past capacity succeeded")
	}

	extended := logs.FilterMessage("enumeration extended").All()
	if len(extended) != 1 || extended[0].Level != zapcore.InfoLevel {
		t.Errorf("got %d extension records, want one at info level", len(extended))
	}
	if got := logs.FilterMessage("extension rejected").FilterField(zap.String("name", "B")).Len(); got != 1 {
		t.Errorf("got %d rejection records, want 1", got)
	}
}

func TestConcurrentExtend(t *testing.T) {
	const (
		ext     = 100
		workers = 8
		perWork = 25
	)
	d := extensible(t, nil, ext, ext+workers*perWork)

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWork+4*500)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWork; i++ {
				if _, err := d.Extend(fmt.Sprintf("W%d_%d", w, i), ""); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	// readers run alongside the writers and must only see complete entries
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				v := uint64(ext + i%(workers*perWork))
				if e, ok := d.Find(v); ok && (e.Value != v || e.Name == "") {
					errs <- fmt.Errorf("Find(%d) observed a partial entry %v", v, e)
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	exts := d.Extensions()
	if len(exts) != workers*perWork {
		t.Fatalf("got %d extensions, want %d", len(exts), workers*perWork)
	}
	values := make([]int, len(exts))
	for i, e := range exts {
		values[i] = int(e.Value)
		if got := d.ValueOf(e.Name); got != e.Value {
			t.Errorf("ValueOf(%s) = %d, want %d", e.Name, got, e.Value)
		}
	}
	sort.Ints(values)
	for i, v := range values {
		if v != ext+i {
			t.Fatalf("allocated values are not contiguous: %v", values)
		}
	}
	if d.Registry().Lookup(d).Remaining() != 0 {
		t.Errorf("capacity should be used up")
	}
}
