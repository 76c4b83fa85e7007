package gx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsColorIndexed(t *testing.T) {
	for f := Format(0); f < 32; f++ {
		want := f == 8 || f == 9 || f == 10
		assert.Equal(t, want, f.IsColorIndexed(), f.String())
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "RGB5A3", RGB5A3.String())
	assert.Equal(t, "C14X2", C14X2.String())
	assert.Equal(t, "Format(7)", Format(7).String())
}
