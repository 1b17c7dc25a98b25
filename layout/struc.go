package layout

import (
	"fmt"
	"io"
	"strings"

	"mplcg/ir"
)

// EmitStructDefs writes one `struc NAME ... endstruc` block per
// struct_def in the container, in insertion order, each followed by an
// emitter-level `%if (N != STRUC_size) %error ... %endif` sanity check
// (§6) that the assembler's own size computation agrees with ours. Sizes
// must already be computed (layout.Compute run) before calling this.
func EmitStructDefs(w io.Writer, container *ir.Container) error {
	var sb strings.Builder
	for _, obj := range container.Iterate() {
		if obj.Variant() != ir.VariantStructDef {
			continue
		}
		writeStrucBlock(&sb, obj)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeStrucBlock(sb *strings.Builder, obj *ir.Object) {
	name := obj.Name()
	sb.WriteString(fmt.Sprintf("struc %s\n", name))
	for _, m := range obj.StructDef.Members {
		sb.WriteString(fmt.Sprintf("    .%s: resb %d\n", m.Name, m.Object.Size()))
	}
	sb.WriteString("endstruc\n")
	sb.WriteString(fmt.Sprintf("%%if (%d != %s_size)\n", obj.Size(), name))
	sb.WriteString(fmt.Sprintf("    %%error \"layout mismatch for %s\"\n", name))
	sb.WriteString("%endif\n\n")
}
