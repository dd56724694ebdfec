// Package leb128 decodes LEB128 and signed-LEB128 variable-length
// integers as used throughout the WebAssembly binary format.
//
// This replaces the teacher repository's two divergent leb128
// implementations (one reading from a byte-buffer type, one reading
// straight off an io.Reader) with a single bit-width-checked decoder
// built on the standard io.ByteReader interface, so it composes with
// any byte source — including wasm.Stream.
package leb128

import (
	"fmt"
	"io"

	"github.com/charlieprice/wasmcore/internal/numeric"
)

// ErrOverflow is returned when an encoding carries more bits than the
// requested bit width allows, either because a byte sets bits outside
// the remaining budget or because the encoding runs past 64 bits.
type ErrOverflow struct {
	Bits uint32
}

func (e *ErrOverflow) Error() string {
	return fmt.Sprintf("leb128: value does not fit in %d bits", e.Bits)
}

// ReadUnsigned reads an unsigned LEB128 integer constrained to bits
// bits, per https://webassembly.github.io/spec/core/binary/values.html#binary-int.
func ReadUnsigned(r io.ByteReader, bits uint32) (uint64, error) {
	var result uint64
	var shift uint32
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		low := uint64(b & 0x7f)
		if shift+7 > bits {
			valid := uint32(0)
			if bits > shift {
				valid = bits - shift
			}
			mask := byte(0x7f &^ numeric.MaxUnsigned(valid))
			if b&mask != 0 {
				return 0, &ErrOverflow{Bits: bits}
			}
		}
		result |= low << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 70 {
			return 0, &ErrOverflow{Bits: bits}
		}
	}
	if !numeric.FitsUnsigned(result, bits) {
		return 0, &ErrOverflow{Bits: bits}
	}
	return result, nil
}

// ReadSigned reads a signed LEB128 integer constrained to bits bits.
func ReadSigned(r io.ByteReader, bits uint32) (int64, error) {
	var result int64
	var shift uint32
	var last byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		last = b
		if shift < 64 {
			result |= int64(b&0x7f) << shift
		}
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 70 {
			return 0, &ErrOverflow{Bits: bits}
		}
	}
	if shift < 64 && last&0x40 != 0 {
		result |= -1 << shift
	}
	if bits < 64 {
		if result < numeric.MinSigned(bits) || result > numeric.MaxSigned(bits) {
			return 0, &ErrOverflow{Bits: bits}
		}
	}
	return result, nil
}

// ReadUint32 reads an unsigned 32-bit LEB128 integer.
func ReadUint32(r io.ByteReader) (uint32, error) {
	v, err := ReadUnsigned(r, 32)
	return uint32(v), err
}

// ReadUint64 reads an unsigned 64-bit LEB128 integer.
func ReadUint64(r io.ByteReader) (uint64, error) {
	return ReadUnsigned(r, 64)
}

// ReadInt32 reads a signed 32-bit LEB128 integer (i32.const immediates).
func ReadInt32(r io.ByteReader) (int32, error) {
	v, err := ReadSigned(r, 32)
	return int32(v), err
}

// ReadInt64 reads a signed 64-bit LEB128 integer (i64.const immediates).
func ReadInt64(r io.ByteReader) (int64, error) {
	return ReadSigned(r, 64)
}
