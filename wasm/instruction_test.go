package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInstructionBareNumeric(t *testing.T) {
	s := NewStream(nil)
	ins, err := decodeInstruction(s, OpI32Add)
	require.NoError(t, err)
	assert.Equal(t, OpI32Add, ins.Op)
	assert.Nil(t, ins.Block)
}

func TestDecodeInstructionI32Const(t *testing.T) {
	// i32.const 2 encodes as signed LEB `02`.
	ins, err := decodeInstruction(NewStream([]byte{0x02}), OpI32Const)
	require.NoError(t, err)
	assert.EqualValues(t, 2, ins.ConstI32)
}

func TestDecodeInstructionLocalGet(t *testing.T) {
	ins, err := decodeInstruction(NewStream([]byte{0x01}), OpLocalGet)
	require.NoError(t, err)
	assert.EqualValues(t, 1, ins.LocalIdx)
}

func TestDecodeInstructionMemArg(t *testing.T) {
	ins, err := decodeInstruction(NewStream([]byte{0x02, 0x04}), OpI32Load)
	require.NoError(t, err)
	assert.EqualValues(t, 2, ins.MemArg.Align)
	assert.EqualValues(t, 4, ins.MemArg.Offset)
}

func TestDecodeInstructionCallIndirectRequiresReservedZero(t *testing.T) {
	_, err := decodeInstruction(NewStream([]byte{0x01, 0x00}), OpCallIndirect)
	require.NoError(t, err)

	_, err = decodeInstruction(NewStream([]byte{0x00, 0x07}), OpCallIndirect)
	require.Error(t, err)
}

func TestDecodeInstructionUnknownOpcode(t *testing.T) {
	_, err := decodeInstruction(NewStream(nil), Opcode(0xC0))
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ErrUnexpected, de.Kind)
}

func TestDecodeExpressionExcludesEnd(t *testing.T) {
	// nop; end
	ins, term, err := decodeExpression(NewStream([]byte{0x01, 0x0B}))
	require.NoError(t, err)
	assert.Equal(t, byte(OpEnd), term)
	require.Len(t, ins, 1)
	assert.Equal(t, OpNop, ins[0].Op)
}

func TestDecodeIfBodyWithElse(t *testing.T) {
	// if (empty) { nop } else { end-of-then } ... decodeIfBody only reads the then-branch.
	then, sawElse, err := decodeIfBody(NewStream([]byte{0x01, 0x05}))
	require.NoError(t, err)
	assert.True(t, sawElse)
	require.Len(t, then, 1)
	assert.Equal(t, OpNop, then[0].Op)
}

func TestDecodeIfBodyWithoutElse(t *testing.T) {
	then, sawElse, err := decodeIfBody(NewStream([]byte{0x01, 0x0B}))
	require.NoError(t, err)
	assert.False(t, sawElse)
	require.Len(t, then, 1)
}

func TestDecodeNestedBlock(t *testing.T) {
	// block (empty) { nop } end ; end
	s := NewStream([]byte{0x02, 0x40, 0x01, 0x0B, 0x0B})
	op, err := s.Consume()
	require.NoError(t, err)
	ins, err := decodeInstruction(s, Opcode(op))
	require.NoError(t, err)
	require.NotNil(t, ins.Block)
	assert.Nil(t, ins.Block.Result)
	require.Len(t, ins.Block.Then, 1)
	assert.Equal(t, OpNop, ins.Block.Then[0].Op)
}
