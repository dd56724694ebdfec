package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestF32FromBitsIsBitExact(t *testing.T) {
	bits := uint32(0x40490fdb) // pi, binary32
	f := F32FromBits(bits)
	assert.InDelta(t, math.Pi, float64(f), 1e-6)
	assert.Equal(t, bits, math.Float32bits(f))
}

func TestF32FromBitsPreservesNaNPayload(t *testing.T) {
	bits := uint32(0x7fc00001)
	f := F32FromBits(bits)
	assert.True(t, math.IsNaN(float64(f)))
	assert.Equal(t, bits, math.Float32bits(f))
}

func TestF64FromBitsIsBitExact(t *testing.T) {
	bits := math.Float64bits(math.Pi)
	f := F64FromBits(bits)
	assert.Equal(t, math.Pi, f)
	assert.Equal(t, bits, math.Float64bits(f))
}
