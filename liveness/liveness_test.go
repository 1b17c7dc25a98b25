package liveness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mplcg/ir"
)

func newNamed(t *testing.T, storage ir.StorageClass, name string) *ir.Object {
	t.Helper()
	o := ir.NewPrime(storage)
	require.NoError(t, o.SetName(name))
	return o
}

func TestRunPrunesDeadTemp(t *testing.T) {
	c := ir.NewContainer()
	a := newNamed(t, ir.ClassPrivate, "a")
	t2 := newNamed(t, ir.ClassTemp, "t2")
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(t2))

	r, err := ir.NewRoutine(ir.ClassPublic)
	require.NoError(t, err)
	require.NoError(t, r.SetName("f"))

	block := ir.NewBlock()
	block.Append(ir.Instruction{Op: ir.OpInc, Left: ir.Arg(a)})
	block.Append(ir.Instruction{Op: ir.OpAdd, Result: ir.Result(t2), Left: ir.Arg(a), Right: ir.Arg(a)})
	require.NoError(t, r.AddBlock(block))

	require.NoError(t, Run(c, r, nil))

	assert.Equal(t, 1, r.Routine.Blocks[0].Len())
	_, err = c.Find("t2")
	assert.Error(t, err)
}

func TestRunSetsUsedNextAndPeakTemps(t *testing.T) {
	c := ir.NewContainer()
	a := newNamed(t, ir.ClassPrivate, "a")
	b := newNamed(t, ir.ClassPrivate, "b")
	cc := newNamed(t, ir.ClassPrivate, "c")
	x := newNamed(t, ir.ClassPrivate, "x")
	t0 := newNamed(t, ir.ClassTemp, "t0")
	t1 := newNamed(t, ir.ClassTemp, "t1")
	for _, o := range []*ir.Object{a, b, cc, x, t0, t1} {
		require.NoError(t, c.Add(o))
	}

	r, err := ir.NewRoutine(ir.ClassPublic)
	require.NoError(t, err)
	require.NoError(t, r.SetName("g"))

	block := ir.NewBlock()
	block.Append(ir.Instruction{Op: ir.OpAdd, Result: ir.Result(t0), Left: ir.Arg(a), Right: ir.Arg(b)})
	block.Append(ir.Instruction{Op: ir.OpAdd, Result: ir.Result(t1), Left: ir.Arg(t0), Right: ir.Arg(cc)})
	block.Append(ir.Instruction{Op: ir.OpAss, Result: ir.Result(x), Left: ir.Arg(t1)})
	require.NoError(t, r.AddBlock(block))

	require.NoError(t, Run(c, r, nil))

	require.Len(t, r.Routine.Blocks[0].Instructions, 3)
	assert.True(t, r.Routine.Blocks[0].Instructions[0].UsedNext)
	assert.True(t, r.Routine.Blocks[0].Instructions[1].UsedNext)
	assert.False(t, r.Routine.Blocks[0].Instructions[2].UsedNext)
	assert.Equal(t, 1, r.Routine.PeakTemps)
}
