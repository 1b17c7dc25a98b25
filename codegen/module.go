package codegen

import (
	"io"

	"mplcg/diag"
	"mplcg/ir"
	"mplcg/layout"
	"mplcg/target"
)

// Generate renders the whole compilation unit to w, in the fixed section
// order of §4.5.7: header comment, struct layout directives, visibility
// directives, `.data`, `.code`, trailer comment. container must already
// be fully laid out (layout.Compute on every object) and every routine's
// blocks formed and liveness-annotated before calling this.
func Generate(w io.Writer, container *ir.Container, mode target.Mode, warnings *diag.Warnings, log *diag.Log) error {
	c := NewCtx(mode, container, warnings, log)

	c.Line("; Generated by mplcg — do not edit by hand.")
	c.Linef("; target: %s mode", mode.String())
	c.Line("")

	if err := layout.EmitStructDefs(c.out, container); err != nil {
		return err
	}

	EmitVisibility(c)
	c.Line("")

	c.Line("section .data")
	c.Linef("align %d", mode.PointerSize())
	if err := EmitStaticData(c); err != nil {
		return err
	}
	c.Line("")

	c.Line("section .code")
	c.Linef("align %d", mode.PointerSize())
	for _, obj := range container.Iterate() {
		if obj.Variant() != ir.VariantRoutine {
			continue
		}
		if log != nil {
			log.Debug("codegen", "emitting routine "+obj.Name())
		}
		if err := EmitRoutine(c, obj); err != nil {
			return err
		}
	}

	c.Line("; End of MPL generated file")

	_, err := io.WriteString(w, c.Output())
	return err
}
