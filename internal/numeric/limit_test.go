package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxUnsigned(t *testing.T) {
	assert.EqualValues(t, 127, MaxUnsigned(7))
	assert.EqualValues(t, math.MaxUint32, MaxUnsigned(32))
	assert.EqualValues(t, ^uint64(0), MaxUnsigned(64))
}

func TestMaxMinSigned(t *testing.T) {
	assert.EqualValues(t, 63, MaxSigned(7))
	assert.EqualValues(t, -64, MinSigned(7))
	assert.EqualValues(t, math.MaxInt32, MaxSigned(32))
	assert.EqualValues(t, math.MinInt32, MinSigned(32))
	assert.EqualValues(t, math.MaxInt64, MaxSigned(64))
	assert.EqualValues(t, math.MinInt64, MinSigned(64))
}

func TestFitsUnsigned(t *testing.T) {
	assert.True(t, FitsUnsigned(255, 8))
	assert.False(t, FitsUnsigned(256, 8))
}
