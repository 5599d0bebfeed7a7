package core

// Codec converts between an ordinal and its storage encoding.
type Codec[S Storage[S]] interface {
	// Encode returns the storage bits for ordinal.
	Encode(ordinal uint64) S
	// Decode returns the ordinal represented by data.
	Decode(data S) uint64
	// BitOwner returns the ordinal that owns storage bit pos (0-based).
	BitOwner(pos uint64) uint64
	Sequential() bool
	Width() uint64
}

// NewCodec picks the codec for an encoding policy.
func NewCodec[S Storage[S]](enc Encoding, width uint64) Codec[S] {
	if enc == EncodingDirect {
		return DirectCodec[S]{width: width}
	}
	return SequentialCodec[S]{width: width}
}

// SequentialCodec maps ordinal k to storage bit k-1. Ordinal 0 is "no value".
type SequentialCodec[S Storage[S]] struct {
	width uint64
}

// Encode returns an empty encoding for 0 and for ordinals past the width.
func (c SequentialCodec[S]) Encode(ordinal uint64) S {
	var zero S
	if ordinal == 0 || ordinal > c.width {
		return zero.Empty(c.width)
	}
	return zero.Bit(c.width, ordinal-1)
}

// Decode returns the ordinal of the lowest set bit.
func (c SequentialCodec[S]) Decode(data S) uint64 {
	pos, ok := data.NextSet(0)
	if !ok {
		return 0
	}
	return pos + 1
}

func (c SequentialCodec[S]) BitOwner(pos uint64) uint64 { return pos + 1 }
func (c SequentialCodec[S]) Sequential() bool           { return true }
func (c SequentialCodec[S]) Width() uint64              { return c.width }

// DirectCodec passes through values that already are bit masks.
type DirectCodec[S Storage[S]] struct {
	width uint64
}

func (c DirectCodec[S]) Encode(ordinal uint64) S {
	var zero S
	return zero.FromUint64(c.width, ordinal)
}

func (c DirectCodec[S]) Decode(data S) uint64 { return data.Low64() }

func (c DirectCodec[S]) BitOwner(pos uint64) uint64 {
	if pos >= 64 {
		return 0
	}
	return 1 << pos
}

func (c DirectCodec[S]) Sequential() bool { return false }
func (c DirectCodec[S]) Width() uint64    { return c.width }
