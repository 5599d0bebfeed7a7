package core

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/bits"

	"github.com/go-faster/errors"
)

// WideBitVector is a fixed-width unsigned integer of arbitrary bit length,
// stored as little-endian 64-bit words. It has value semantics: every
// operation returns a new vector and never writes into its operands.
//
// Bits past Size() are padding and are always zero.
type WideBitVector struct {
	bits []uint64
	size uint64 // Number of bits stored
}

// NewWideBitVector creates a zeroed vector holding size bits.
func NewWideBitVector(size uint64) WideBitVector {
	numWords := (size + 63) / 64
	return WideBitVector{
		bits: make([]uint64, numWords),
		size: size,
	}
}

// WideOnes returns a vector of the given size with every bit set.
func WideOnes(size uint64) WideBitVector {
	bv := NewWideBitVector(size)
	for i := range bv.bits {
		bv.bits[i] = math.MaxUint64
	}
	bv.trim()
	return bv
}

// Size returns the number of bits the vector conceptually holds.
func (bv WideBitVector) Size() uint64 {
	return bv.size
}

// NumWords returns the number of 64-bit words used for storage.
func (bv WideBitVector) NumWords() int {
	return len(bv.bits)
}

// Words returns a copy of the underlying words.
func (bv WideBitVector) Words() []uint64 {
	out := make([]uint64, len(bv.bits))
	copy(out, bv.bits)
	return out
}

// Clone returns a vector that does not share storage with bv.
func (bv WideBitVector) Clone() WideBitVector {
	return WideBitVector{bits: bv.Words(), size: bv.size}
}

// trim clears the padding bits of the last word.
func (bv WideBitVector) trim() {
	if len(bv.bits) == 0 {
		return
	}
	if rest := bv.size % 64; rest != 0 {
		bv.bits[len(bv.bits)-1] &= (uint64(1) << rest) - 1
	}
}

// align returns both operands at a common size. A zero-value vector stands in
// for an all-zero vector of the other operand's size.
func (bv WideBitVector) align(other WideBitVector) (WideBitVector, WideBitVector) {
	switch {
	case bv.size == other.size:
		return bv, other
	case bv.size == 0 && len(bv.bits) == 0:
		return NewWideBitVector(other.size), other
	case other.size == 0 && len(other.bits) == 0:
		return bv, NewWideBitVector(bv.size)
	}
	panic(fmt.Sprintf("WideBitVector: operand size mismatch (%d vs %d)", bv.size, other.size))
}

func (bv WideBitVector) combine(other WideBitVector, op func(a, b uint64) uint64) WideBitVector {
	a, b := bv.align(other)
	out := WideBitVector{bits: make([]uint64, len(a.bits)), size: a.size}
	for i := range out.bits {
		out.bits[i] = op(a.bits[i], b.bits[i])
	}
	out.trim()
	return out
}

// And returns bv & other.
func (bv WideBitVector) And(other WideBitVector) WideBitVector {
	return bv.combine(other, func(a, b uint64) uint64 { return a & b })
}

// Or returns bv | other.
func (bv WideBitVector) Or(other WideBitVector) WideBitVector {
	return bv.combine(other, func(a, b uint64) uint64 { return a | b })
}

// Xor returns bv ^ other.
func (bv WideBitVector) Xor(other WideBitVector) WideBitVector {
	return bv.combine(other, func(a, b uint64) uint64 { return a ^ b })
}

// AndNot returns bv &^ other.
func (bv WideBitVector) AndNot(other WideBitVector) WideBitVector {
	return bv.combine(other, func(a, b uint64) uint64 { return a &^ b })
}

// Not returns the complement of bv within its size.
func (bv WideBitVector) Not() WideBitVector {
	out := WideBitVector{bits: make([]uint64, len(bv.bits)), size: bv.size}
	for i, w := range bv.bits {
		out.bits[i] = ^w
	}
	out.trim()
	return out
}

// Shl shifts the whole vector left by k bits as if it were one integer.
// Bits shifted past Size() are lost; k >= Size() yields zero.
func (bv WideBitVector) Shl(k uint64) WideBitVector {
	if k == 0 {
		return bv.Clone()
	}
	out := NewWideBitVector(bv.size)
	if k >= bv.size {
		return out
	}

	offset := int(k / 64)
	rest := k % 64
	n := len(bv.bits)
	for r, w := 0, offset; w < n; r, w = r+1, w+1 {
		out.bits[w] = bv.bits[r] << rest
		if rest > 0 && r > 0 {
			// carry the high bits of the previous source word
			out.bits[w] |= bv.bits[r-1] >> (64 - rest)
		}
	}
	out.trim()
	return out
}

// Shr shifts the whole vector right by k bits (logical shift).
// k >= Size() yields zero.
func (bv WideBitVector) Shr(k uint64) WideBitVector {
	if k == 0 {
		return bv.Clone()
	}
	out := NewWideBitVector(bv.size)
	if k >= bv.size {
		return out
	}

	offset := int(k / 64)
	rest := k % 64
	n := len(bv.bits)
	for w, r := 0, offset; r < n; w, r = w+1, r+1 {
		out.bits[w] = bv.bits[r] >> rest
		if rest > 0 && r+1 < n {
			out.bits[w] |= bv.bits[r+1] << (64 - rest)
		}
	}
	return out
}

// Equal reports whether both vectors hold the same bits.
func (bv WideBitVector) Equal(other WideBitVector) bool {
	if bv.size != other.size {
		// a zero-value vector equals an all-zero vector of any size
		if len(bv.bits) == 0 {
			return other.IsZero()
		}
		if len(other.bits) == 0 {
			return bv.IsZero()
		}
		return false
	}
	for i := range bv.bits {
		if bv.bits[i] != other.bits[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether no bit is set.
func (bv WideBitVector) IsZero() bool {
	for _, w := range bv.bits {
		if w != 0 {
			return false
		}
	}
	return true
}

// HasBit returns true if bit pos is set. Positions past Size() are never set.
func (bv WideBitVector) HasBit(pos uint64) bool {
	if pos >= bv.size {
		return false
	}
	return bv.bits[pos/64]&(1<<(pos%64)) != 0
}

// SetBit returns a copy of bv with bit pos set.
func (bv WideBitVector) SetBit(pos uint64) WideBitVector {
	if pos >= bv.size {
		panic("WideBitVector.SetBit: position out of bounds")
	}
	out := bv.Clone()
	out.bits[pos/64] |= 1 << (pos % 64)
	return out
}

// ClearBit returns a copy of bv with bit pos cleared.
func (bv WideBitVector) ClearBit(pos uint64) WideBitVector {
	out := bv.Clone()
	if pos < bv.size {
		out.bits[pos/64] &^= 1 << (pos % 64)
	}
	return out
}

// OnesCount returns the number of set bits.
func (bv WideBitVector) OnesCount() int {
	n := 0
	for _, w := range bv.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// Low64 returns the lowest 64 bits.
func (bv WideBitVector) Low64() uint64 {
	if len(bv.bits) == 0 {
		return 0
	}
	return bv.bits[0]
}

// NextSet returns the lowest set bit at or after pos.
func (bv WideBitVector) NextSet(pos uint64) (uint64, bool) {
	if pos >= bv.size {
		return 0, false
	}
	x := int(pos / 64)
	if first := bv.bits[x] >> (pos % 64); first != 0 {
		return pos + uint64(bits.TrailingZeros64(first)), true
	}
	for x++; x < len(bv.bits); x++ {
		if w := bv.bits[x]; w != 0 {
			return uint64(x)*64 + uint64(bits.TrailingZeros64(w)), true
		}
	}
	return 0, false
}

// PrevSet returns the highest set bit at or before pos.
func (bv WideBitVector) PrevSet(pos uint64) (uint64, bool) {
	if bv.size == 0 {
		return 0, false
	}
	if pos >= bv.size {
		pos = bv.size - 1
	}
	x := int(pos / 64)
	if last := bv.bits[x] << (63 - pos%64); last != 0 {
		return pos - uint64(bits.LeadingZeros64(last)), true
	}
	for x--; x >= 0; x-- {
		if w := bv.bits[x]; w != 0 {
			return uint64(x)*64 + 63 - uint64(bits.LeadingZeros64(w)), true
		}
	}
	return 0, false
}

// MaxWidth reports that a wide vector can hold any bit length.
func (WideBitVector) MaxWidth() uint64 {
	return math.MaxUint64
}

// Empty returns an all-zero vector of the given width.
func (WideBitVector) Empty(width uint64) WideBitVector {
	return NewWideBitVector(width)
}

// Ones returns a vector of the given width with every bit set.
func (WideBitVector) Ones(width uint64) WideBitVector {
	return WideOnes(width)
}

// Bit returns a vector of the given width with only bit pos set, or an empty
// vector if pos is out of range.
func (WideBitVector) Bit(width, pos uint64) WideBitVector {
	bv := NewWideBitVector(width)
	if pos < width {
		bv.bits[pos/64] = 1 << (pos % 64)
	}
	return bv
}

// FromUint64 returns a vector of the given width whose low word is v.
func (WideBitVector) FromUint64(width, v uint64) WideBitVector {
	bv := NewWideBitVector(width)
	if len(bv.bits) > 0 {
		bv.bits[0] = v
		bv.trim()
	}
	return bv
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (bv WideBitVector) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 8+8+len(bv.bits)*8) // size + numWords + data
	binary.LittleEndian.PutUint64(buf[0:8], bv.size)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(len(bv.bits)))
	for i, w := range bv.bits {
		binary.LittleEndian.PutUint64(buf[16+i*8:16+(i+1)*8], w)
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (bv *WideBitVector) UnmarshalBinary(data []byte) error {
	if len(data) < 16 {
		return io.ErrUnexpectedEOF
	}
	size := binary.LittleEndian.Uint64(data[0:8])
	numWords := binary.LittleEndian.Uint64(data[8:16])
	want := size / 64
	if size%64 != 0 {
		want++
	}
	if numWords != want {
		return errors.Errorf("invalid WideBitVector data: %d words cannot hold exactly %d bits", numWords, size)
	}
	if uint64(len(data)-16)/8 < numWords {
		return io.ErrUnexpectedEOF
	}
	out := WideBitVector{bits: make([]uint64, numWords), size: size}
	for i := range out.bits {
		out.bits[i] = binary.LittleEndian.Uint64(data[16+i*8 : 16+(i+1)*8])
	}
	out.trim()
	*bv = out
	return nil
}

// String renders the vector as hex words, most significant first.
func (bv WideBitVector) String() string {
	s := fmt.Sprintf("WideBitVector(%d)[", bv.size)
	for i := len(bv.bits) - 1; i >= 0; i-- {
		s += fmt.Sprintf("%016x", bv.bits[i])
		if i > 0 {
			s += " "
		}
	}
	return s + "]"
}
