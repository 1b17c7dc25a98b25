package ir

import (
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders the container's objects, and for every routine its blocks
// and annotated instructions, in a form meant for -d/--trace debugging
// and for golden tests that want to assert exactly which temps survived
// or were pruned by the liveness pass.
func (c *Container) Dump() string {
	var sb strings.Builder
	for _, o := range c.order {
		sb.WriteString(dumpObject(o))
	}
	return sb.String()
}

func dumpObject(o *Object) string {
	var sb strings.Builder
	sb.WriteString(o.storage.String())
	sb.WriteByte(' ')
	sb.WriteString(o.variant.String())
	sb.WriteByte(' ')
	sb.WriteString(o.name)
	if o.sizeSet {
		sb.WriteString(dumpConfig.Sprintf(" size=%d", o.size))
	}
	sb.WriteByte('\n')
	if o.variant == VariantRoutine {
		for bi, b := range o.Routine.Blocks {
			sb.WriteString(dumpConfig.Sprintf("  block %d\n", bi))
			for _, inst := range b.Instructions {
				sb.WriteString("    ")
				sb.WriteString(dumpInstruction(inst))
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

func dumpInstruction(inst Instruction) string {
	var sb strings.Builder
	sb.WriteString(inst.Op.String())
	for _, opnd := range []Operand{inst.Result, inst.Left, inst.Right} {
		if opnd.IsNull() {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(opnd.Object.name)
		if opnd.Live {
			sb.WriteString("[live]")
		}
	}
	if inst.UsedNext {
		sb.WriteString(" {used_next}")
	}
	return sb.String()
}
