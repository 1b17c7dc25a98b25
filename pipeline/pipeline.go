// Package pipeline wires the five stages of §2 (container, block former,
// liveness, layout, emitter) into the single linear sequence the
// concurrency model requires: block-forming → liveness → layout → emit,
// with no component mutating IR state behind another's back.
package pipeline

import (
	"io"

	"mplcg/blockform"
	"mplcg/codegen"
	"mplcg/diag"
	"mplcg/ir"
	"mplcg/irtext"
	"mplcg/layout"
	"mplcg/liveness"
	"mplcg/target"
)

// Compile runs every stage over prog and writes the resulting assembler
// text to w. It returns the warnings collected along the way even when
// it also returns a hard error, so a caller can report both.
func Compile(prog *irtext.Program, mode target.Mode, w io.Writer, log *diag.Log) (*diag.Warnings, error) {
	warnings := &diag.Warnings{}
	container := prog.Container

	for _, obj := range container.Iterate() {
		if obj.Variant() != ir.VariantRoutine {
			continue
		}
		stream := prog.Streams[obj.Name()]
		if log != nil {
			log.Debug("blockform", "forming blocks for "+obj.Name())
		}
		if err := blockform.Form(obj, stream); err != nil {
			return warnings, err
		}
	}

	for _, obj := range container.Iterate() {
		if obj.Variant() != ir.VariantRoutine {
			continue
		}
		if err := liveness.Run(container, obj, log); err != nil {
			return warnings, err
		}
	}

	for _, obj := range container.Iterate() {
		if err := layout.Compute(obj, mode, warnings); err != nil {
			return warnings, err
		}
	}

	if err := codegen.Generate(w, container, mode, warnings, log); err != nil {
		return warnings, err
	}
	return warnings, nil
}
