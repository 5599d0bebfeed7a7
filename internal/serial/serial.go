// Package serial provides serialization utilities.
package serial

import (
	"encoding"

	"github.com/go-faster/errors"
)

// TryMarshal attempts to marshal an object if it implements BinaryMarshaler.
func TryMarshal(v any) ([]byte, error) {
	if marshaler, ok := v.(encoding.BinaryMarshaler); ok {
		return marshaler.MarshalBinary()
	}
	return nil, errors.Errorf("type %T does not implement encoding.BinaryMarshaler", v)
}

// TryUnmarshal attempts to unmarshal data into a pointer if it implements BinaryUnmarshaler.
// v must be a pointer to the target object.
func TryUnmarshal(v any, data []byte) error {
	if unmarshaler, ok := v.(encoding.BinaryUnmarshaler); ok {
		return unmarshaler.UnmarshalBinary(data)
	}
	return errors.Errorf("type %T does not implement encoding.BinaryUnmarshaler", v)
}

// Unmarshal decodes data into a fresh T through *T's BinaryUnmarshaler.
func Unmarshal[T any](data []byte) (T, error) {
	var v T
	if err := TryUnmarshal(&v, data); err != nil {
		var zero T
		return zero, errors.Wrapf(err, "unmarshal %T", v)
	}
	return v, nil
}
