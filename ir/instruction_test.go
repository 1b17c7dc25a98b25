package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		op    Opcode
		class Class
	}{
		{OpNop, ClassNoArg},
		{OpProc, ClassNoArg},
		{OpLbl, ClassNoResult},
		{OpCall, ClassNoResult},
		{OpRtrn, ClassNoResult},
		{OpAss, ClassUnaryResult},
		{OpInc, ClassUnaryResult},
		{OpDref, ClassUnaryResult},
		{OpRef, ClassBinaryResult},
		{OpAdd, ClassBinaryResult},
		{OpCpy, ClassBinaryResult},
	}
	for _, tc := range cases {
		class, ok := Classify(tc.op)
		assert.True(t, ok, tc.op.String())
		assert.Equal(t, tc.class, class, tc.op.String())
	}
}

func TestTerminator(t *testing.T) {
	assert.True(t, OpJmp.Terminator())
	assert.True(t, OpCall.Terminator())
	assert.True(t, OpRtrn.Terminator())
	assert.False(t, OpAdd.Terminator())
	assert.False(t, OpLbl.Terminator())
}

func TestParseOpcodeRoundTrip(t *testing.T) {
	for op := OpNop; op < opcodeCount; op++ {
		parsed, ok := ParseOpcode(op.String())
		assert.True(t, ok, op.String())
		assert.Equal(t, op, parsed)
	}
	_, ok := ParseOpcode("not_a_real_opcode")
	assert.False(t, ok)
}
