/*
Package cursor reads and writes the fixed-width big-endian fields used by the
texture container headers.

Every accessor takes an explicit offset into a flat byte buffer and fails with
ErrTruncated rather than panicking when the field would run past the end of
the buffer.
*/
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrTruncated is returned whenever a field or region extends beyond the end
// of the buffer.
var ErrTruncated = errors.New("truncated input")

func check(b []byte, offset, n int) error {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return fmt.Errorf("%w: %d bytes at 0x%X exceeds buffer of %d bytes", ErrTruncated, n, offset, len(b))
	}
	return nil
}

// Slice returns the n bytes of b starting at offset.
func Slice(b []byte, offset, n int) ([]byte, error) {
	if err := check(b, offset, n); err != nil {
		return nil, err
	}
	return b[offset : offset+n], nil
}

// ReadU16 reads a big-endian uint16 at offset.
func ReadU16(b []byte, offset int) (uint16, error) {
	if err := check(b, offset, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[offset:]), nil
}

// ReadU32 reads a big-endian uint32 at offset.
func ReadU32(b []byte, offset int) (uint32, error) {
	if err := check(b, offset, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[offset:]), nil
}

// ReadF32 reads a big-endian IEEE-754 float32 at offset.
func ReadF32(b []byte, offset int) (float32, error) {
	v, err := ReadU32(b, offset)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadASCII reads n bytes at offset as a string. Bytes are taken as-is, no
// trimming of trailing NULs is done.
func ReadASCII(b []byte, offset, n int) (string, error) {
	s, err := Slice(b, offset, n)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// WriteU16 writes v as a big-endian uint16 at offset.
func WriteU16(b []byte, offset int, v uint16) error {
	if err := check(b, offset, 2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(b[offset:], v)
	return nil
}

// WriteU32 writes v as a big-endian uint32 at offset.
func WriteU32(b []byte, offset int, v uint32) error {
	if err := check(b, offset, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b[offset:], v)
	return nil
}

// WriteF32 writes v as a big-endian IEEE-754 float32 at offset.
func WriteF32(b []byte, offset int, v float32) error {
	return WriteU32(b, offset, math.Float32bits(v))
}

// WriteASCII writes s into the n bytes at offset, NUL padding or truncating
// as required.
func WriteASCII(b []byte, offset, n int, s string) error {
	if err := check(b, offset, n); err != nil {
		return err
	}
	dst := b[offset : offset+n]
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, s)
	return nil
}
