package core

// Find resolves an ordinal to its entry. It tries, in order: the fast index
// (sequential encodings only), the derived enumeration for ordinals past the
// inheritance threshold, the extension container, and a full scan of the
// static table.
func (d *Descriptor) Find(v uint64) (Entry, bool) {
	if d.encoding == EncodingSequential {
		if i, ok := d.findQuickSelf(v); ok {
			return d.entries[i], true
		}
	}
	if e, ok := d.findInherited(v); ok {
		return e, true
	}
	if e, ok := d.findExtended(v); ok {
		return e, true
	}
	return d.FindLinear(v)
}

// FindLinear scans the static table in declared order.
func (d *Descriptor) FindLinear(v uint64) (Entry, bool) {
	for _, e := range d.entries {
		if e.Value == v {
			return e, true
		}
	}
	return Entry{}, false
}

// quickIndex is the table position v would occupy in a dense table. A derived
// table is indexed from the base's inheritance threshold, shifted by one for
// the root slot it does not carry. Wraps for ordinals below the origin, which
// the bounds checks in findQuickSelf reject.
func (d *Descriptor) quickIndex(v uint64) uint64 {
	if d.base != nil {
		return v - *d.base.inheritance + 1
	}
	return v - d.min
}

func (d *Descriptor) findQuickSelf(v uint64) (int, bool) {
	idx := d.quickIndex(v)
	n := uint64(len(d.entries))

	if idx < n && d.entries[idx].Value == v {
		return int(idx), true
	}
	// one retry, one slot back: tables may leave out the leading "none" entry
	if idx > 0 && idx <= n && d.entries[idx-1].Value == v {
		return int(idx - 1), true
	}
	return -1, false
}

func (d *Descriptor) findInherited(v uint64) (Entry, bool) {
	if d.inheritance == nil || v < *d.inheritance {
		return Entry{}, false
	}
	derived := d.derived.Load()
	if derived == nil {
		return Entry{}, false
	}
	return derived.Find(v)
}

func (d *Descriptor) findExtended(v uint64) (Entry, bool) {
	if d.extension == nil || v < *d.extension {
		return Entry{}, false
	}
	c := d.registry.Lookup(d)
	if c == nil {
		return Entry{}, false
	}
	entries := c.Entries()
	idx := v - *d.extension
	if idx < uint64(len(entries)) && entries[idx].Value == v {
		return entries[idx], true
	}
	return Entry{}, false
}

// FindName resolves a name: the static table first, then the derived
// enumeration, then the extension container. Matching is exact and
// case-sensitive; the first match wins.
func (d *Descriptor) FindName(name string) (Entry, bool) {
	if i, ok := d.names.lookup(d.entries, name); ok {
		return d.entries[i], true
	}
	if derived := d.derived.Load(); derived != nil {
		if e, ok := derived.FindName(name); ok {
			return e, true
		}
	}
	return d.findExtendedName(name)
}

func (d *Descriptor) findExtendedName(name string) (Entry, bool) {
	if d.extension == nil {
		return Entry{}, false
	}
	c := d.registry.Lookup(d)
	if c == nil {
		return Entry{}, false
	}
	for _, e := range c.Entries() {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// NameOf returns the name of v, or "" when v has no entry.
func (d *Descriptor) NameOf(v uint64) string {
	e, _ := d.Find(v)
	return e.Name
}

// LabelOf returns the label of v, or "" when v has no entry.
func (d *Descriptor) LabelOf(v uint64) string {
	e, _ := d.Find(v)
	return e.Label
}

// ValueOf returns the ordinal named name, or 0 when the name is unknown.
func (d *Descriptor) ValueOf(name string) uint64 {
	e, _ := d.FindName(name)
	return e.Value
}
