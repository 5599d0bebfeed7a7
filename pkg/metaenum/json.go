package metaenum

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// EncodeJX writes the set as a JSON array of member names. Members without a
// name are written as numbers.
func (s Set[E, S]) EncodeJX(e *jx.Encoder) {
	e.ArrStart()
	if s.kind != nil {
		for v := range s.All() {
			if name := s.kind.enum.NameOf(v); name != "" {
				e.Str(name)
				continue
			}
			e.UInt64(uint64(v))
		}
	}
	e.ArrEnd()
}

// MarshalJSON implements json.Marshaler.
func (s Set[E, S]) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.EncodeJX(&e)
	return e.Bytes(), nil
}

// DecodeJX reads an array of names or numbers into s, replacing its members.
// s must already have a kind.
func (s *Set[E, S]) DecodeJX(d *jx.Decoder) error {
	if s.kind == nil {
		return errors.New("metaenum: decode into a set without a kind")
	}
	out := s.kind.Empty()
	err := d.Arr(func(d *jx.Decoder) error {
		switch d.Next() {
		case jx.String:
			name, err := d.Str()
			if err != nil {
				return err
			}
			v, ok := s.kind.enum.Lookup(name)
			if !ok {
				return errors.Wrapf(ErrUnknownName, "%s: %q", s.kind.enum.Name(), name)
			}
			out.Insert(v)
		case jx.Number:
			n, err := d.UInt64()
			if err != nil {
				return err
			}
			codec := s.kind.codec
			if n == 0 || uint64(E(n)) != n || codec.Decode(codec.Encode(n)) != n {
				return errors.Wrapf(ErrInvalidMember, "%s: %d", s.kind.enum.Name(), n)
			}
			out.Insert(E(n))
		default:
			return errors.Errorf("metaenum: unexpected %v in set", d.Next())
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "decode set")
	}
	*s = out
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Set[E, S]) UnmarshalJSON(data []byte) error {
	return s.DecodeJX(jx.DecodeBytes(data))
}
