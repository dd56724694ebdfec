package numeric

import (
	"math"

	"github.com/chewxy/math32"
)

// F32FromBits reinterprets the 32 bits of bits as an IEEE-754 binary32
// value, preserving NaN payloads bit-exactly. It goes through math32's
// Float32frombits rather than the standard library's
// math.Float32frombits.
func F32FromBits(bits uint32) float32 {
	return math32.Float32frombits(bits)
}

// F64FromBits reinterprets the 64 bits of bits as an IEEE-754 binary64 value.
func F64FromBits(bits uint64) float64 {
	return math.Float64frombits(bits)
}
