package service

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNRGeneratorFormat(t *testing.T) {
	gen := NewPNRGenerator()

	for i := 0; i < 1000; i++ {
		pnr := gen.Generate()

		require.Len(t, pnr, 10)
		assert.True(t, IsValidPNR(pnr), "generated pnr %q is not valid", pnr)
		assert.NotEqual(t, byte('0'), pnr[0], "pnr must not have a leading zero")

		n, err := strconv.ParseInt(pnr, 10, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1_000_000_000))
		assert.LessOrEqual(t, n, int64(9_999_999_999))
	}
}

func TestPNRGeneratorBounds(t *testing.T) {
	// Pin the draw to both edges of the range.
	gen := &PNRGenerator{intN: func(n int64) int64 { return 0 }}
	assert.Equal(t, "1000000000", gen.Generate())

	gen = &PNRGenerator{intN: func(n int64) int64 { return n - 1 }}
	assert.Equal(t, "9999999999", gen.Generate())
}

func TestIsValidPNR(t *testing.T) {
	tests := []struct {
		pnr   string
		valid bool
	}{
		{"1234567890", true},
		{"9999999999", true},
		{"123456789", false},   // too short
		{"12345678901", false}, // too long
		{"12345abc90", false},
		{" 1234567890", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidPNR(tt.pnr), "pnr %q", tt.pnr)
	}
}
