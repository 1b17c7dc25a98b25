package blockform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mplcg/diag"
	"mplcg/ir"
)

func mustRoutine(t *testing.T) *ir.Object {
	t.Helper()
	r, err := ir.NewRoutine(ir.ClassPublic)
	require.NoError(t, err)
	require.NoError(t, r.SetName("f"))
	return r
}

func TestFormSplitsOnLabelsAndTerminators(t *testing.T) {
	r := mustRoutine(t)
	x := ir.NewPrime(ir.ClassTemp)
	require.NoError(t, x.SetName("t0"))
	lbl := ir.NewPrime(ir.ClassPrivate)
	require.NoError(t, lbl.SetName("loop_top"))

	stream := []ir.Instruction{
		{Op: ir.OpInc, Left: ir.Arg(x)},
		{Op: ir.OpJmp, Left: ir.Arg(lbl)},
		{Op: ir.OpLbl, Left: ir.Arg(lbl)},
		{Op: ir.OpInc, Left: ir.Arg(x)},
	}

	require.NoError(t, Form(r, stream))
	require.Len(t, r.Routine.Blocks, 2)
	assert.Equal(t, 2, r.Routine.Blocks[0].Len())
	assert.Equal(t, 2, r.Routine.Blocks[1].Len())
}

func TestFormRejectsEmptyStream(t *testing.T) {
	r := mustRoutine(t)
	err := Form(r, nil)
	assert.True(t, diag.Is(err, diag.EmptyRoutine))
}

func TestFormRejectsNonRoutine(t *testing.T) {
	p := ir.NewPrime(ir.ClassPrivate)
	require.NoError(t, p.SetName("p"))
	err := Form(p, []ir.Instruction{{Op: ir.OpNop}})
	assert.True(t, diag.Is(err, diag.BadCast))
}
