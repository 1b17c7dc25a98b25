package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mplcg/diag"
	"mplcg/ir"
	"mplcg/target"
)

func TestResolveRegisterValueTakesPriority(t *testing.T) {
	c := NewCtx(target.Protected, ir.NewContainer(), nil, nil)
	obj := ir.NewPrime(ir.ClassStack)
	require.NoError(t, obj.Prime.SetWidth(ir.WidthByte4))
	require.NoError(t, obj.SetSize(4))
	require.NoError(t, obj.SetOffset(0))
	c.ResetRoutine(nil, 4, 4, 0)

	c.Desc.SetValue(RegB, obj)
	operand, err := c.Resolve(obj)
	require.NoError(t, err)
	assert.Equal(t, "ebx", operand)
}

func TestResolveStackOperand(t *testing.T) {
	c := NewCtx(target.Protected, ir.NewContainer(), nil, nil)
	obj := ir.NewPrime(ir.ClassStack)
	require.NoError(t, obj.Prime.SetWidth(ir.WidthByte4))
	require.NoError(t, obj.SetSize(4))
	require.NoError(t, obj.SetOffset(0))
	c.ResetRoutine(nil, 4, 4, 0)

	operand, err := c.Resolve(obj)
	require.NoError(t, err)
	assert.Equal(t, "dword [ebp - 4]", operand)
}

func TestResolveParamOperand(t *testing.T) {
	c := NewCtx(target.Protected, ir.NewContainer(), nil, nil)
	obj := ir.NewPrime(ir.ClassParam)
	require.NoError(t, obj.Prime.SetWidth(ir.WidthByte4))
	require.NoError(t, obj.SetSize(4))
	require.NoError(t, obj.SetOffset(ParamBaseForTest()))
	c.ResetRoutine(nil, 0, 0, 4)

	operand, err := c.Resolve(obj)
	require.NoError(t, err)
	assert.Equal(t, "dword [ebp + 8]", operand)
}

func TestResolveConstImmediate(t *testing.T) {
	c := NewCtx(target.Protected, ir.NewContainer(), nil, nil)
	obj := ir.NewPrime(ir.ClassConst)
	require.NoError(t, obj.Prime.SetWidth(ir.WidthByte4))
	obj.Prime.SetConst(42)
	require.NoError(t, obj.SetSize(4))
	c.ResetRoutine(nil, 0, 0, 0)

	operand, err := c.Resolve(obj)
	require.NoError(t, err)
	assert.Equal(t, "42", operand)
}

func TestResolveMemberUnsupportedDirectly(t *testing.T) {
	c := NewCtx(target.Protected, ir.NewContainer(), nil, nil)
	obj := ir.NewPrime(ir.ClassMember)
	require.NoError(t, obj.SetSize(4))
	c.ResetRoutine(nil, 0, 0, 0)

	_, err := c.Resolve(obj)
	assert.True(t, diag.Is(err, diag.BadCast))
}

// ParamBaseForTest mirrors layout.ParamBase(target.Protected) without
// importing layout here, to keep this an isolated unit test of Resolve.
func ParamBaseForTest() int { return 2 * 4 }
