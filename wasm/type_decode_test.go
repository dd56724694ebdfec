package wasm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le32(bits uint32) []byte {
	return []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
}

func TestReadF32BitExact(t *testing.T) {
	// S4: 1.0 and pi as binary32.
	v, err := readF32(NewStream(le32(math.Float32bits(1.0))))
	require.NoError(t, err)
	assert.Equal(t, float32(1.0), v)

	v, err = readF32(NewStream(le32(math.Float32bits(float32(math.Pi)))))
	require.NoError(t, err)
	assert.Equal(t, float32(math.Pi), v)
}

func TestReadF32PreservesNaN(t *testing.T) {
	bits := uint32(0x7fc00001)
	v, err := readF32(NewStream(le32(bits)))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(v)))
	assert.Equal(t, bits, math.Float32bits(v))
}

func TestReadFuncType(t *testing.T) {
	// S5: `60 01 7F 01 7E` -> (i32) -> (i64).
	ft, err := readFuncType(NewStream([]byte{0x60, 0x01, 0x7f, 0x01, 0x7e}))
	require.NoError(t, err)
	assert.Equal(t, []ValueType{ValueTypeI32}, ft.Params)
	assert.Equal(t, ResultType{ValueTypeI64}, ft.Results)
}

func TestReadTypeSectionTwoEntries(t *testing.T) {
	// S5: `02 60 01 7F 01 7E 60 01 7D 01 7C` -> two func types.
	types, err := readVec(NewStream([]byte{
		0x02,
		0x60, 0x01, 0x7f, 0x01, 0x7e,
		0x60, 0x01, 0x7d, 0x01, 0x7c,
	}), readFuncType)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, []ValueType{ValueTypeI32}, types[0].Params)
	assert.Equal(t, ResultType{ValueTypeI64}, types[0].Results)
	assert.Equal(t, []ValueType{ValueTypeF32}, types[1].Params)
	assert.Equal(t, ResultType{ValueTypeF64}, types[1].Results)
}

func TestReadLimitsWithoutMax(t *testing.T) {
	l, err := readLimits(NewStream([]byte{0x00, 0x02}))
	require.NoError(t, err)
	assert.EqualValues(t, 2, l.Min)
	assert.False(t, l.HasMax())
}

func TestReadLimitsWithMax(t *testing.T) {
	l, err := readLimits(NewStream([]byte{0x01, 0x01, 0x05}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, l.Min)
	require.True(t, l.HasMax())
	assert.EqualValues(t, 5, *l.Max)
}

func TestReadBlockResultTypeEmpty(t *testing.T) {
	rt, err := readBlockResultType(NewStream([]byte{0x40}))
	require.NoError(t, err)
	assert.Nil(t, rt)
}

func TestReadBlockResultTypeValue(t *testing.T) {
	rt, err := readBlockResultType(NewStream([]byte{0x7f}))
	require.NoError(t, err)
	assert.Equal(t, ResultType{ValueTypeI32}, rt)
}
