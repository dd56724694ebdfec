package wasm

import (
	"unicode/utf8"

	"github.com/charlieprice/wasmcore/internal/numeric"
	"github.com/charlieprice/wasmcore/leb128"
)

// readU32 reads a 4-byte little-endian unsigned integer, used for the
// magic/version preamble (those two fields are fixed-width, not LEB128).
func readU32(s *Stream) (uint32, error) {
	b, err := s.ConsumeBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// readF32 reads 4 little-endian bytes and reinterprets their bit
// pattern as an IEEE-754 binary32 value, preserving NaN payloads
// bit-exactly per §4.C.
func readF32(s *Stream) (float32, error) {
	b, err := s.ConsumeBytes(4)
	if err != nil {
		return 0, err
	}
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return numeric.F32FromBits(bits), nil
}

// readF64 reads 8 little-endian bytes and reinterprets their bit
// pattern as an IEEE-754 binary64 value.
func readF64(s *Stream) (float64, error) {
	b, err := s.ConsumeBytes(8)
	if err != nil {
		return 0, err
	}
	var bits uint64
	for i := 7; i >= 0; i-- {
		bits = bits<<8 | uint64(b[i])
	}
	return numeric.F64FromBits(bits), nil
}

// readVec reads a u32 LEB128 element count n, then applies readElem
// exactly n times in order. n is bounded against the stream's
// remaining bytes before the backing slice is allocated, so an
// over-declared length (e.g. a corrupt section claiming billions of
// elements) fails fast with ErrUnexpectedEnd instead of attempting a
// multi-gigabyte allocation up front.
func readVec[T any](s *Stream, readElem func(*Stream) (T, error)) ([]T, error) {
	n, err := leb128.ReadUint32(s)
	if err != nil {
		return nil, err
	}
	if uint64(n) > s.Remaining() {
		return nil, &DecodeError{Kind: ErrUnexpectedEnd, Position: s.Position()}
	}
	out := make([]T, n)
	for i := range out {
		v, err := readElem(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func readRawByte(s *Stream) (byte, error) {
	return s.Consume()
}

// readName reads a length-prefixed UTF-8 string.
func readName(s *Stream) (string, error) {
	raw, err := readVec(s, readRawByte)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", &DecodeError{Kind: ErrInvalidUnicode, Position: s.Position(), Bytes: raw}
	}
	return string(raw), nil
}
