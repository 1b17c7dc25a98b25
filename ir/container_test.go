package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mplcg/diag"
)

func TestContainerAddFindRemove(t *testing.T) {
	c := NewContainer()

	a := NewPrime(ClassPrivate)
	require.NoError(t, a.SetName("a"))
	require.NoError(t, c.Add(a))

	b := NewPrime(ClassPrivate)
	require.NoError(t, b.SetName("b"))
	require.NoError(t, c.Add(b))

	got, err := c.Find("a")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = c.Find("missing")
	assert.True(t, diag.Is(err, diag.NotFound))

	require.NoError(t, c.Remove("a"))
	_, err = c.Find("a")
	assert.True(t, diag.Is(err, diag.NotFound))
	assert.Equal(t, []string{"b"}, c.Names())
}

func TestContainerAddDuplicateAndUnnamed(t *testing.T) {
	c := NewContainer()
	x := NewPrime(ClassPrivate)
	err := c.Add(x)
	assert.True(t, diag.Is(err, diag.Unnamed))

	require.NoError(t, x.SetName("x"))
	require.NoError(t, c.Add(x))

	y := NewPrime(ClassPrivate)
	require.NoError(t, y.SetName("x"))
	err = c.Add(y)
	assert.True(t, diag.Is(err, diag.DuplicateName))
}

func TestObjectNameSetOnce(t *testing.T) {
	o := NewPrime(ClassPrivate)
	require.NoError(t, o.SetName("once"))
	err := o.SetName("twice")
	assert.True(t, diag.Is(err, diag.ConstructionError))
}
