package cursor

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrOverflow is returned when a value does not fit the width a codec
// writes it in.
var ErrOverflow = errors.New("value out of range")

// Codec serializes a Layout. The two implementations produce different,
// mutually incompatible byte streams; callers pick one explicitly.
type Codec interface {
	Encode(l Layout) ([]byte, error)
}

// BinaryCodec writes each field as big-endian binary at its fixed offset.
// Its output is what Layout.Decode reads back.
type BinaryCodec struct{}

// Encode implements Codec.
func (BinaryCodec) Encode(l Layout) ([]byte, error) {
	b := make([]byte, l.Size())
	if err := l.Encode(b); err != nil {
		return nil, err
	}
	return b, nil
}

// HexASCIICodec concatenates the fields in table order, ignoring offsets.
// ASCII fields are written verbatim, NUL padded to their width, and integer
// fields as four upper-case hexadecimal digits. Integer values above 0xFFFF
// fail with ErrOverflow. The result cannot be read back with Layout.Decode.
type HexASCIICodec struct{}

// Encode implements Codec.
func (HexASCIICodec) Encode(l Layout) ([]byte, error) {
	b := new(bytes.Buffer)
	for _, f := range l {
		switch f.Kind {
		case ASCII:
			s, err := f.text()
			if err != nil {
				return nil, err
			}
			tmp := make([]byte, f.Width)
			copy(tmp, s)
			b.Write(tmp)
		case Uint16, Uint32:
			u, err := f.word()
			if err != nil {
				return nil, err
			}
			if u > 0xffff {
				return nil, fmt.Errorf("%w: %s is 0x%X, more than four hex digits", ErrOverflow, f.Name, u)
			}
			fmt.Fprintf(b, "%04X", u)
		default:
			return nil, fmt.Errorf("cursor: %s field %s has no hex form", f.Kind, f.Name)
		}
	}
	return b.Bytes(), nil
}
