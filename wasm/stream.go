package wasm

import (
	"fmt"
)

// Stream is a positioned, forward-only byte reader over a complete
// in-memory module image. It generalizes the teacher repository's
// util.ByteReader with the peek/consume/consume_expected vocabulary
// the decoder's grammar is specified in terms of; there is no seek,
// matching the streaming, single-pass nature of the binary format.
type Stream struct {
	b   []byte
	pos uint64
}

// NewStream wraps b for sequential decoding.
func NewStream(b []byte) *Stream {
	return &Stream{b: b}
}

// Position returns the number of bytes consumed so far.
func (s *Stream) Position() uint64 {
	return s.pos
}

// Remaining returns the number of unread bytes.
func (s *Stream) Remaining() uint64 {
	return uint64(len(s.b)) - s.pos
}

// Peek returns the next byte without consuming it.
func (s *Stream) Peek() (byte, error) {
	if s.pos >= uint64(len(s.b)) {
		return 0, &DecodeError{Kind: ErrUnexpectedEnd, Position: s.pos}
	}
	return s.b[s.pos], nil
}

// Consume reads and returns the next byte, advancing position by one.
func (s *Stream) Consume() (byte, error) {
	b, err := s.Peek()
	if err != nil {
		return 0, err
	}
	s.pos++
	return b, nil
}

// ReadByte implements io.ByteReader so Stream can feed leb128 readers
// directly.
func (s *Stream) ReadByte() (byte, error) {
	return s.Consume()
}

// ConsumeExpected consumes the next byte and requires it to equal want,
// failing with a DecodeError naming both the found and expected byte.
func (s *Stream) ConsumeExpected(want byte) error {
	got, err := s.Consume()
	if err != nil {
		return err
	}
	if got != want {
		return &DecodeError{
			Kind:     ErrUnexpected,
			Position: s.pos - 1,
			Found:    got,
			Expected: []byte{want},
		}
	}
	return nil
}

// ConsumeIn consumes the next byte and requires it to be a member of
// set, failing with a DecodeError listing the allowed bytes otherwise.
func (s *Stream) ConsumeIn(set ...byte) (byte, error) {
	got, err := s.Consume()
	if err != nil {
		return 0, err
	}
	for _, want := range set {
		if got == want {
			return got, nil
		}
	}
	return 0, &DecodeError{
		Kind:     ErrUnexpected,
		Position: s.pos - 1,
		Found:    got,
		Expected: set,
	}
}

// ConsumeBytes reads and returns the next n bytes verbatim.
func (s *Stream) ConsumeBytes(n uint32) ([]byte, error) {
	if s.Remaining() < uint64(n) {
		return nil, &DecodeError{Kind: ErrUnexpectedEnd, Position: s.pos}
	}
	b := s.b[s.pos : s.pos+uint64(n)]
	s.pos += uint64(n)
	return b, nil
}

// Sub returns a bounded sub-stream over the next n bytes and advances
// this stream past them, used by the section framer to enforce a
// section's declared size against what its body decoder actually
// consumes.
func (s *Stream) Sub(n uint32) (*Stream, error) {
	b, err := s.ConsumeBytes(n)
	if err != nil {
		return nil, err
	}
	return &Stream{b: b}, nil
}

func (s *Stream) String() string {
	return fmt.Sprintf("stream@%d/%d", s.pos, len(s.b))
}
