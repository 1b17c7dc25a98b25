package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mplcg/ir"
)

func TestDescriptorValueAndReference(t *testing.T) {
	d := NewDescriptor()
	obj := ir.NewPrime(ir.ClassTemp)

	assert.True(t, d.IsEmpty(RegA))
	d.SetValue(RegA, obj)
	assert.False(t, d.IsEmpty(RegA))

	reg, ok := d.FindValue(obj)
	require.True(t, ok)
	assert.Equal(t, RegA, reg)

	_, ok = d.FindReference(obj)
	assert.False(t, ok)

	d.Clear(RegA)
	assert.True(t, d.IsEmpty(RegA))
}

func TestDescriptorExchange(t *testing.T) {
	d := NewDescriptor()
	a := ir.NewPrime(ir.ClassTemp)
	b := ir.NewPrime(ir.ClassTemp)
	d.SetValue(RegA, a)
	d.SetReference(RegB, b)

	d.Exchange(RegA, RegB)

	occ, isRef, ok := d.Occupant(RegA)
	require.True(t, ok)
	assert.Same(t, b, occ)
	assert.True(t, isRef)

	occ, isRef, ok = d.Occupant(RegB)
	require.True(t, ok)
	assert.Same(t, a, occ)
	assert.False(t, isRef)
}

func TestMemoryBacked(t *testing.T) {
	temp := ir.NewPrime(ir.ClassTemp)
	stack := ir.NewPrime(ir.ClassStack)
	assert.False(t, MemoryBacked(temp))
	assert.True(t, MemoryBacked(stack))
}
