package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mplcg/diag"
	"mplcg/ir"
	"mplcg/layout"
	"mplcg/target"
)

// buildIncRoutine returns a one-block routine computing x++ on a stack
// automatic and returning it, laid out and ready for EmitRoutine.
func buildIncRoutine(t *testing.T, mode target.Mode) (*ir.Container, *ir.Object) {
	t.Helper()
	c := ir.NewContainer()

	x := ir.NewPrime(ir.ClassStack)
	require.NoError(t, x.Prime.SetWidth(ir.WidthByte4))
	require.NoError(t, x.Prime.SetSigned(true))

	r, err := ir.NewRoutine(ir.ClassPublic)
	require.NoError(t, err)
	require.NoError(t, r.SetName("bump"))
	require.NoError(t, r.Routine.Autos.AddMember("x", x))

	block := ir.NewBlock()
	block.Append(ir.Instruction{Op: ir.OpInc, Left: ir.Arg(x)})
	block.Append(ir.Instruction{Op: ir.OpRtrn, Left: ir.Arg(x)})
	require.NoError(t, r.AddBlock(block))

	require.NoError(t, c.Add(r))
	require.NoError(t, layout.Compute(r, mode, nil))
	return c, r
}

func TestEmitRoutineIncAndReturn(t *testing.T) {
	c, r := buildIncRoutine(t, target.Protected)
	ctx := NewCtx(target.Protected, c, &diag.Warnings{}, nil)

	require.NoError(t, EmitRoutine(ctx, r))

	out := ctx.Output()
	assert.Contains(t, out, "bump:")
	assert.Contains(t, out, "enter 4, 0")
	assert.Contains(t, out, "inc eax")
	assert.Contains(t, out, "leave")
	assert.Contains(t, out, "ret 0")
}

func TestEmitRoutineRejectsEmpty(t *testing.T) {
	r, err := ir.NewRoutine(ir.ClassPublic)
	require.NoError(t, err)
	require.NoError(t, r.SetName("empty"))
	ctx := NewCtx(target.Protected, ir.NewContainer(), nil, nil)

	err = EmitRoutine(ctx, r)
	assert.True(t, diag.Is(err, diag.EmptyRoutine))
}

func TestEmitRoutineLongModeUsesExtendedNames(t *testing.T) {
	c, r := buildIncRoutine(t, target.Long)
	ctx := NewCtx(target.Long, c, &diag.Warnings{}, nil)

	require.NoError(t, EmitRoutine(ctx, r))
	assert.True(t, strings.Contains(ctx.Output(), "rbp"))
}
