package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mplcg/irtext"
	"mplcg/target"
)

const addTwoProgram = `
; a tiny routine: result = a + b; return result
prime a param byte4 signed
prime b param byte4 signed
prime result stack byte4 signed
prime t0 temp byte4 signed

routine add_two public
param add_two pa a
param add_two pb b
auto add_two r result

code add_two
  add t0 a b
  ass result t0
  rtrn _ result _
endcode
`

func TestCompileProducesAssembler(t *testing.T) {
	prog, err := irtext.Load(strings.NewReader(addTwoProgram))
	require.NoError(t, err)

	var out strings.Builder
	warnings, err := Compile(prog, target.Protected, &out, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings.All())

	text := out.String()
	assert.Contains(t, text, "add_two:")
	assert.Contains(t, text, "enter")
	assert.Contains(t, text, "leave")
	assert.Contains(t, text, "ret ")
	assert.Contains(t, text, "; End of MPL generated file")
}

func TestCompileLongMode(t *testing.T) {
	prog, err := irtext.Load(strings.NewReader(addTwoProgram))
	require.NoError(t, err)

	var out strings.Builder
	_, err = Compile(prog, target.Long, &out, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "rbp")
}
