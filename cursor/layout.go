package cursor

import (
	"errors"
	"fmt"
)

// Kind identifies how a field is stored.
type Kind int

// Supported field kinds.
const (
	ASCII Kind = iota
	Uint16
	Uint32
	Float32
)

func (k Kind) String() string {
	switch k {
	case ASCII:
		return "ascii"
	case Uint16:
		return "u16"
	case Uint32:
		return "u32"
	case Float32:
		return "f32"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// NullUint32 is a 32-bit field that may not have a known value. It is
// written as its Value (zero when not Valid) but callers can tell a real
// zero from a placeholder.
type NullUint32 struct {
	Value uint32
	Valid bool
}

// Uint32Of returns a valid NullUint32 holding v.
func Uint32Of(v uint32) NullUint32 {
	return NullUint32{Value: v, Valid: true}
}

func (n NullUint32) String() string {
	if !n.Valid {
		return "undetermined"
	}
	return fmt.Sprintf("0x%X", n.Value)
}

// NullString is the string equivalent of NullUint32.
type NullString struct {
	String string
	Valid  bool
}

// Field describes one fixed-offset header field. Value must be a pointer
// matching Kind: *string or *NullString for ASCII, *uint16 for Uint16,
// *uint32 or *NullUint32 for Uint32 and *float32 for Float32.
type Field struct {
	Name   string
	Offset int
	Width  int
	Kind   Kind
	Value  interface{}
}

// Text returns an ASCII field of the given width.
func Text(name string, offset, width int, v interface{}) Field {
	return Field{Name: name, Offset: offset, Width: width, Kind: ASCII, Value: v}
}

// U16 returns a 16-bit integer field.
func U16(name string, offset int, v *uint16) Field {
	return Field{Name: name, Offset: offset, Width: 2, Kind: Uint16, Value: v}
}

// U32 returns a 32-bit integer field bound to a *uint32 or *NullUint32.
func U32(name string, offset int, v interface{}) Field {
	return Field{Name: name, Offset: offset, Width: 4, Kind: Uint32, Value: v}
}

// F32 returns a 32-bit float field.
func F32(name string, offset int, v *float32) Field {
	return Field{Name: name, Offset: offset, Width: 4, Kind: Float32, Value: v}
}

var errBadBinding = errors.New("cursor: field bound to wrong type")

func (f Field) bindingError() error {
	return fmt.Errorf("%w: %s (%s) bound to %T", errBadBinding, f.Name, f.Kind, f.Value)
}

// Layout is a table of fields making up a fixed-size record.
type Layout []Field

// Size returns the number of bytes spanned by the layout, from offset zero
// to the end of the furthest field.
func (l Layout) Size() int {
	var n int
	for _, f := range l {
		if end := f.Offset + f.Width; end > n {
			n = end
		}
	}
	return n
}

// Decode reads every field in l from b. Bounds are checked once for the
// whole layout so either all fields are populated or none are.
func (l Layout) Decode(b []byte) error {
	if err := check(b, 0, l.Size()); err != nil {
		return err
	}
	for _, f := range l {
		if err := f.decode(b); err != nil {
			return err
		}
	}
	return nil
}

func (f Field) decode(b []byte) error {
	switch f.Kind {
	case ASCII:
		s, err := ReadASCII(b, f.Offset, f.Width)
		if err != nil {
			return err
		}
		switch v := f.Value.(type) {
		case *string:
			*v = s
		case *NullString:
			*v = NullString{String: s, Valid: true}
		default:
			return f.bindingError()
		}
	case Uint16:
		u, err := ReadU16(b, f.Offset)
		if err != nil {
			return err
		}
		v, ok := f.Value.(*uint16)
		if !ok {
			return f.bindingError()
		}
		*v = u
	case Uint32:
		u, err := ReadU32(b, f.Offset)
		if err != nil {
			return err
		}
		switch v := f.Value.(type) {
		case *uint32:
			*v = u
		case *NullUint32:
			*v = Uint32Of(u)
		default:
			return f.bindingError()
		}
	case Float32:
		u, err := ReadF32(b, f.Offset)
		if err != nil {
			return err
		}
		v, ok := f.Value.(*float32)
		if !ok {
			return f.bindingError()
		}
		*v = u
	default:
		return f.bindingError()
	}
	return nil
}

// Encode writes every field in l into b at its offset.
func (l Layout) Encode(b []byte) error {
	if err := check(b, 0, l.Size()); err != nil {
		return err
	}
	for _, f := range l {
		if err := f.encode(b); err != nil {
			return err
		}
	}
	return nil
}

func (f Field) encode(b []byte) error {
	switch f.Kind {
	case ASCII:
		s, err := f.text()
		if err != nil {
			return err
		}
		return WriteASCII(b, f.Offset, f.Width, s)
	case Uint16:
		v, ok := f.Value.(*uint16)
		if !ok {
			return f.bindingError()
		}
		return WriteU16(b, f.Offset, *v)
	case Uint32:
		u, err := f.word()
		if err != nil {
			return err
		}
		return WriteU32(b, f.Offset, u)
	case Float32:
		v, ok := f.Value.(*float32)
		if !ok {
			return f.bindingError()
		}
		return WriteF32(b, f.Offset, *v)
	default:
		return f.bindingError()
	}
}

func (f Field) text() (string, error) {
	switch v := f.Value.(type) {
	case *string:
		return *v, nil
	case *NullString:
		if !v.Valid {
			return "", nil
		}
		return v.String, nil
	default:
		return "", f.bindingError()
	}
}

func (f Field) word() (uint32, error) {
	switch v := f.Value.(type) {
	case *uint16:
		return uint32(*v), nil
	case *uint32:
		return *v, nil
	case *NullUint32:
		return v.Value, nil
	default:
		return 0, f.bindingError()
	}
}
