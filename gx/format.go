/*
Package gx enumerates the texel formats shared by the T64 and TEX0 texture
containers. The numbering is that of the console's graphics hardware, so a
format value is copied between containers unchanged.
*/
package gx

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for containers or texture features that
// cannot be converted, such as an unrecognised magic or a colour-indexed
// texture.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format is a texel encoding identifier.
type Format uint32

// Known formats.
const (
	I4     Format = 0
	I8     Format = 1
	IA4    Format = 2
	IA8    Format = 3
	RGB565 Format = 4
	RGB5A3 Format = 5
	RGBA8  Format = 6
	C4     Format = 8
	C8     Format = 9
	C14X2  Format = 10
	CMPR   Format = 14
)

var formatNames = map[Format]string{
	I4:     "I4",
	I8:     "I8",
	IA4:    "IA4",
	IA8:    "IA8",
	RGB565: "RGB565",
	RGB5A3: "RGB5A3",
	RGBA8:  "RGBA8",
	C4:     "C4",
	C8:     "C8",
	C14X2:  "C14X2",
	CMPR:   "CMPR",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", uint32(f))
}

// IsColorIndexed reports whether texels of this format index into a
// separate palette.
func (f Format) IsColorIndexed() bool {
	switch f {
	case C4, C8, C14X2:
		return true
	}
	return false
}
