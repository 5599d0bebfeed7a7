package metaenum

import (
	"iter"
	"strings"

	"github.com/go-faster/errors"

	"metaenumgo/internal/core"
	"metaenumgo/internal/serial"
)

// Word is native storage for sets up to 64 bits wide.
type Word = core.Word

// Wide is storage for sets of any width.
type Wide = core.WideBitVector

// SetKind fixes the bit length, storage and codec of a family of flag sets
// over one enumeration. Sets of different kinds must not be combined.
type SetKind[E Ordinal, S core.Storage[S]] struct {
	enum  *Enum[E]
	width uint64
	codec core.Codec[S]
	limit S
}

// NewSetKind declares sets of enum values width bits wide, stored in S.
// Word storage is limited to 64 bits. Sets over a directly encoded
// enumeration are limited to the bit size of E; for sequential enumerations
// the width must cover the maximum ordinal.
func NewSetKind[E Ordinal, S core.Storage[S]](enum *Enum[E], width uint64) (*SetKind[E, S], error) {
	var zero S
	if width == 0 {
		return nil, errors.Wrapf(core.ErrInvalidConfig, "%s: zero set width", enum.Name())
	}
	if width > zero.MaxWidth() {
		return nil, errors.Wrapf(core.ErrStorageTooNarrow, "%s: %d bits requested, %T holds %d",
			enum.Name(), width, zero, zero.MaxWidth())
	}
	if !enum.Sequential() {
		if top := uint64(1) << (width - 1); width > 64 || uint64(E(top)) != top {
			return nil, errors.Wrapf(core.ErrInvalidConfig, "%s: set width %d exceeds the bits of a direct value",
				enum.Name(), width)
		}
	}
	if enum.Sequential() && uint64(enum.Max()) > width {
		return nil, errors.Wrapf(core.ErrInvalidConfig, "%s: set width %d cannot hold maximum ordinal %d",
			enum.Name(), width, uint64(enum.Max()))
	}
	return &SetKind[E, S]{
		enum:  enum,
		width: width,
		codec: core.NewCodec[S](enum.desc.Encoding(), width),
		limit: zero.Ones(width),
	}, nil
}

// MustSetKind is like NewSetKind but panics on error.
func MustSetKind[E Ordinal, S core.Storage[S]](enum *Enum[E], width uint64) *SetKind[E, S] {
	k, err := NewSetKind[E, S](enum, width)
	if err != nil {
		panic(err)
	}
	return k
}

// Width returns the bit length of the kind's sets.
func (k *SetKind[E, S]) Width() uint64 { return k.width }

// Enum returns the enumeration the sets hold values of.
func (k *SetKind[E, S]) Enum() *Enum[E] { return k.enum }

// Empty returns a set with no members.
func (k *SetKind[E, S]) Empty() Set[E, S] {
	var zero S
	return Set[E, S]{kind: k, bits: zero.Empty(k.width)}
}

// Of returns a set holding values.
func (k *SetKind[E, S]) Of(values ...E) Set[E, S] {
	s := k.Empty()
	s.Insert(values...)
	return s
}

// All returns a set with every bit up to the width set. Not every bit needs to
// belong to a declared value.
func (k *SetKind[E, S]) All() Set[E, S] {
	return Set[E, S]{kind: k, bits: k.limit}
}

// FromData wraps raw storage; bits past the width are dropped.
func (k *SetKind[E, S]) FromData(data S) Set[E, S] {
	return Set[E, S]{kind: k, bits: data.And(k.limit)}
}

// Encode returns the storage bits of a single value.
func (k *SetKind[E, S]) Encode(v E) S { return k.codec.Encode(uint64(v)) }

// Decode returns the value represented by data.
func (k *SetKind[E, S]) Decode(data S) E { return E(k.codec.Decode(data)) }

// Set is a flag set of enumeration values. The zero value is an empty set
// with no kind; it can be combined with sets of any kind but not grown.
type Set[E Ordinal, S core.Storage[S]] struct {
	kind *SetKind[E, S]
	bits S
}

func (s Set[E, S]) pair(o Set[E, S]) *SetKind[E, S] {
	switch {
	case s.kind == nil:
		return o.kind
	case o.kind == nil || o.kind == s.kind:
		return s.kind
	}
	panic("metaenum: combining sets of different kinds")
}

func (s *Set[E, S]) mustKind() *SetKind[E, S] {
	if s.kind == nil {
		panic("metaenum: set has no kind; build it with SetKind.Empty or SetKind.Of")
	}
	return s.kind
}

// Kind returns the set's kind, or nil for the zero value.
func (s Set[E, S]) Kind() *SetKind[E, S] { return s.kind }

// Data returns the raw storage.
func (s Set[E, S]) Data() S { return s.bits }

// IsEmpty reports whether the set has no members.
func (s Set[E, S]) IsEmpty() bool { return s.bits.IsZero() }

// Len returns the number of members.
func (s Set[E, S]) Len() int { return s.bits.OnesCount() }

// Contains reports whether v is a member. Values that encode to no bit, such
// as ordinal 0 of a sequential enumeration, are never members.
func (s Set[E, S]) Contains(v E) bool {
	if s.kind == nil {
		return false
	}
	enc := s.kind.codec.Encode(uint64(v))
	if enc.IsZero() {
		return false
	}
	return s.bits.And(enc).Equal(enc)
}

// ContainsAll reports whether every member of o is a member of s.
func (s Set[E, S]) ContainsAll(o Set[E, S]) bool {
	return s.bits.And(o.bits).Equal(o.bits)
}

// ContainsAny reports whether s and o share a member.
func (s Set[E, S]) ContainsAny(o Set[E, S]) bool {
	return !s.bits.And(o.bits).IsZero()
}

// Equal reports whether both sets have the same members.
func (s Set[E, S]) Equal(o Set[E, S]) bool {
	return s.bits.Equal(o.bits)
}

// Is reports whether v is the set's only content.
func (s Set[E, S]) Is(v E) bool {
	if s.kind == nil {
		return false
	}
	return s.bits.Equal(s.kind.codec.Encode(uint64(v)))
}

// Insert adds values.
func (s *Set[E, S]) Insert(values ...E) {
	k := s.mustKind()
	for _, v := range values {
		s.bits = s.bits.Or(k.codec.Encode(uint64(v)))
	}
}

// Remove drops values.
func (s *Set[E, S]) Remove(values ...E) {
	if s.kind == nil {
		return
	}
	for _, v := range values {
		s.bits = s.bits.AndNot(s.kind.codec.Encode(uint64(v)))
	}
}

// Put inserts v when on is true and removes it otherwise.
func (s *Set[E, S]) Put(v E, on bool) {
	if on {
		s.Insert(v)
		return
	}
	s.Remove(v)
}

// Clear removes every member.
func (s *Set[E, S]) Clear() {
	if s.kind == nil {
		var zero S
		s.bits = zero
		return
	}
	s.bits = s.bits.Empty(s.kind.width)
}

// Union returns s | o.
func (s Set[E, S]) Union(o Set[E, S]) Set[E, S] {
	return Set[E, S]{kind: s.pair(o), bits: s.bits.Or(o.bits)}
}

// Intersect returns s & o.
func (s Set[E, S]) Intersect(o Set[E, S]) Set[E, S] {
	return Set[E, S]{kind: s.pair(o), bits: s.bits.And(o.bits)}
}

// Difference returns the members of s that are not in o.
func (s Set[E, S]) Difference(o Set[E, S]) Set[E, S] {
	return Set[E, S]{kind: s.pair(o), bits: s.bits.AndNot(o.bits)}
}

// SymmetricDifference returns s ^ o.
func (s Set[E, S]) SymmetricDifference(o Set[E, S]) Set[E, S] {
	return Set[E, S]{kind: s.pair(o), bits: s.bits.Xor(o.bits)}
}

// Complement returns every bit up to the width that is not in s.
func (s Set[E, S]) Complement() Set[E, S] {
	k := s.mustKind()
	return Set[E, S]{kind: k, bits: s.bits.Not().And(k.limit)}
}

// With returns a copy of s with values added.
func (s Set[E, S]) With(values ...E) Set[E, S] {
	s.Insert(values...)
	return s
}

// Without returns a copy of s with values removed.
func (s Set[E, S]) Without(values ...E) Set[E, S] {
	s.Remove(values...)
	return s
}

// All iterates the members in ascending storage order. Each call starts a
// fresh pass; empty words are skipped whole.
func (s Set[E, S]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		if s.kind == nil {
			return
		}
		width := s.kind.width
		for pos, ok := s.bits.NextSet(0); ok && pos < width; pos, ok = s.bits.NextSet(pos + 1) {
			if !yield(E(s.kind.codec.BitOwner(pos))) {
				return
			}
		}
	}
}

// Backward iterates the members in descending storage order.
func (s Set[E, S]) Backward() iter.Seq[E] {
	return func(yield func(E) bool) {
		if s.kind == nil {
			return
		}
		pos, ok := s.bits.PrevSet(s.kind.width - 1)
		for ok {
			if !yield(E(s.kind.codec.BitOwner(pos))) || pos == 0 {
				return
			}
			pos, ok = s.bits.PrevSet(pos - 1)
		}
	}
}

// Values returns the members in ascending order.
func (s Set[E, S]) Values() []E {
	out := make([]E, 0, s.Len())
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}

// At returns the i-th member in ascending order.
func (s Set[E, S]) At(i int) (E, bool) {
	for v := range s.All() {
		if i == 0 {
			return v, true
		}
		i--
	}
	var zero E
	return zero, false
}

// String lists member names separated by ", ". Members without a name are
// printed as numbers.
func (s Set[E, S]) String() string {
	if s.kind == nil {
		return ""
	}
	var b strings.Builder
	for v := range s.All() {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.kind.enum.String(v))
	}
	return b.String()
}

// MarshalBinary encodes the set's storage.
func (s Set[E, S]) MarshalBinary() ([]byte, error) {
	return serial.TryMarshal(s.bits)
}

// UnmarshalBinary decodes storage produced by MarshalBinary into a set that
// already has a kind.
func (s *Set[E, S]) UnmarshalBinary(data []byte) error {
	k := s.kind
	if k == nil {
		return errors.New("metaenum: unmarshal into a set without a kind")
	}
	bits, err := serial.Unmarshal[S](data)
	if err != nil {
		return err
	}
	if want := k.limit.Size(); bits.Size() != want {
		return errors.Wrapf(core.ErrInvalidConfig, "%s: payload holds %d bits, set kind %d",
			k.enum.Name(), bits.Size(), want)
	}
	*s = k.FromData(bits)
	return nil
}
