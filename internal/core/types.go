package core

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Encoding selects how ordinals map onto flag-set storage.
type Encoding int

const (
	// EncodingSequential assigns ordinal k to bit k-1.
	EncodingSequential Encoding = iota
	// EncodingDirect treats ordinals as ready-made bit masks.
	EncodingDirect
)

func (e Encoding) String() string {
	switch e {
	case EncodingSequential:
		return "sequential"
	case EncodingDirect:
		return "direct"
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

// Entry is one row of a metadata table.
type Entry struct {
	Value uint64
	Name  string
	Label string
}

// String provides a string representation.
func (e Entry) String() string {
	return fmt.Sprintf("{Value: %d, Name: %q, Label: %q}", e.Value, e.Name, e.Label)
}

var (
	// ErrInvalidConfig marks an enumeration declared with inconsistent descriptor fields.
	ErrInvalidConfig = errors.New("invalid enumeration config")
	// ErrNotExtensible is returned when extending an enumeration without an extension threshold.
	ErrNotExtensible = errors.New("enumeration is not extensible")
	// ErrCapacityExhausted is returned when the extension range has no free ordinal left.
	ErrCapacityExhausted = errors.New("extension capacity exhausted")
	// ErrInvalidName is returned when extending with an empty name.
	ErrInvalidName = errors.New("invalid entry name")
	// ErrNameTaken is returned when extending with a name the enumeration already resolves.
	ErrNameTaken = errors.New("entry name already taken")
	// ErrStorageTooNarrow is returned when a flag-set storage cannot hold the requested width.
	ErrStorageTooNarrow = errors.New("storage too narrow")
)
