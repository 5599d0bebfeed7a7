package core

import (
	"encoding/binary"
	"io"
	"math/bits"
)

// Storage is the bit container behind a flag set. Word covers widths up to 64
// bits, WideBitVector covers anything wider. The factory methods (Empty, Ones,
// Bit, FromUint64) ignore their receiver and are called on the zero value.
type Storage[S any] interface {
	And(S) S
	Or(S) S
	Xor(S) S
	AndNot(S) S
	Not() S
	Shl(k uint64) S
	Shr(k uint64) S
	Equal(S) bool
	IsZero() bool
	HasBit(pos uint64) bool
	NextSet(pos uint64) (uint64, bool)
	PrevSet(pos uint64) (uint64, bool)
	OnesCount() int
	Low64() uint64
	// Size is the number of bits the value holds.
	Size() uint64

	MaxWidth() uint64
	Empty(width uint64) S
	Ones(width uint64) S
	Bit(width, pos uint64) S
	FromUint64(width, v uint64) S
}

// Word is native 64-bit storage.
type Word uint64

func (w Word) And(o Word) Word    { return w & o }
func (w Word) Or(o Word) Word     { return w | o }
func (w Word) Xor(o Word) Word    { return w ^ o }
func (w Word) AndNot(o Word) Word { return w &^ o }
func (w Word) Not() Word          { return ^w }

// Shl shifts left; k >= 64 yields zero.
func (w Word) Shl(k uint64) Word {
	if k >= 64 {
		return 0
	}
	return w << k
}

// Shr shifts right; k >= 64 yields zero.
func (w Word) Shr(k uint64) Word {
	if k >= 64 {
		return 0
	}
	return w >> k
}

func (w Word) Equal(o Word) bool { return w == o }
func (w Word) IsZero() bool      { return w == 0 }
func (w Word) OnesCount() int    { return bits.OnesCount64(uint64(w)) }
func (w Word) Low64() uint64     { return uint64(w) }
func (Word) Size() uint64        { return 64 }

// HasBit returns true if bit pos is set.
func (w Word) HasBit(pos uint64) bool {
	return pos < 64 && w&(1<<pos) != 0
}

// NextSet returns the lowest set bit at or after pos.
func (w Word) NextSet(pos uint64) (uint64, bool) {
	if pos >= 64 {
		return 0, false
	}
	rest := uint64(w) >> pos
	if rest == 0 {
		return 0, false
	}
	return pos + uint64(bits.TrailingZeros64(rest)), true
}

// PrevSet returns the highest set bit at or before pos.
func (w Word) PrevSet(pos uint64) (uint64, bool) {
	if pos >= 64 {
		pos = 63
	}
	rest := uint64(w) << (63 - pos)
	if rest == 0 {
		return 0, false
	}
	return pos - uint64(bits.LeadingZeros64(rest)), true
}

func (Word) MaxWidth() uint64 { return 64 }

func (Word) Empty(uint64) Word { return 0 }

// Ones returns the low width bits set.
func (Word) Ones(width uint64) Word {
	if width >= 64 {
		return ^Word(0)
	}
	return Word(1)<<width - 1
}

func (w Word) Bit(width, pos uint64) Word {
	if pos >= width || pos >= 64 {
		return 0
	}
	return 1 << pos
}

func (w Word) FromUint64(width, v uint64) Word {
	return Word(v) & w.Ones(width)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (w Word) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(w))
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (w *Word) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return io.ErrUnexpectedEOF
	}
	*w = Word(binary.LittleEndian.Uint64(data))
	return nil
}
