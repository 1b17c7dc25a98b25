package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mplcg/diag"
	"mplcg/ir"
	"mplcg/target"
)

func primeWidth(w ir.Width) *ir.Object {
	p := ir.NewPrime(ir.ClassMember)
	_ = p.Prime.SetWidth(w)
	_ = p.Prime.SetSigned(false)
	return p
}

func TestComputePrimeWidths(t *testing.T) {
	for _, tc := range []struct {
		width ir.Width
		mode  target.Mode
		want  int
	}{
		{ir.WidthByte, target.Protected, 1},
		{ir.WidthByte2, target.Protected, 2},
		{ir.WidthByte4, target.Protected, 4},
		{ir.WidthPtr, target.Protected, 4},
		{ir.WidthPtr, target.Long, 8},
		{ir.WidthByte8, target.Long, 8},
	} {
		p := primeWidth(tc.width)
		require.NoError(t, Compute(p, tc.mode, nil))
		assert.Equal(t, tc.want, p.Size())
	}
}

func TestComputeByte8RejectedInProtectedMode(t *testing.T) {
	p := primeWidth(ir.WidthByte8)
	err := Compute(p, target.Protected, nil)
	assert.True(t, diag.Is(err, diag.InvalidWidth))
}

func TestComputeStructDefPadding(t *testing.T) {
	def := ir.NewStructDef(ir.ClassPrivate)
	require.NoError(t, def.SetName("rec"))
	byteField := primeWidth(ir.WidthByte)
	ptrField := primeWidth(ir.WidthPtr)
	require.NoError(t, def.AddMember("flag", byteField))
	require.NoError(t, def.AddMember("handle", ptrField))

	warnings := &diag.Warnings{}
	require.NoError(t, Compute(def, target.Protected, warnings))

	flagMember, ok := def.Member("flag")
	require.True(t, ok)
	handleMember, ok := def.Member("handle")
	require.True(t, ok)

	assert.Equal(t, 0, flagMember.Offset)
	assert.Equal(t, 4, handleMember.Offset)
	assert.Equal(t, 8, def.Size())
	assert.Len(t, warnings.All(), 1)
}

func TestComputeIsIdempotent(t *testing.T) {
	p := primeWidth(ir.WidthByte4)
	require.NoError(t, Compute(p, target.Protected, nil))
	require.NoError(t, Compute(p, target.Protected, nil))
	assert.Equal(t, 4, p.Size())
}

func TestRoutineFrameOffsets(t *testing.T) {
	r, err := ir.NewRoutine(ir.ClassPublic)
	require.NoError(t, err)
	require.NoError(t, r.SetName("f"))

	param0 := primeWidth(ir.WidthPtr)
	auto0 := primeWidth(ir.WidthByte4)
	require.NoError(t, r.Routine.Params.AddMember("p0", param0))
	require.NoError(t, r.Routine.Autos.AddMember("x", auto0))

	require.NoError(t, Compute(r, target.Protected, nil))

	assert.Equal(t, ParamBase(target.Protected), param0.Offset())
	assert.Equal(t, 0, auto0.Offset())
	assert.Equal(t, 4, FrameSize(r, target.Protected))
	assert.Equal(t, 4, ParamBytes(r))
}
