// Package blockform partitions a routine's linear instruction stream into
// basic blocks using the leader rules of §4.2.
package blockform

import (
	"mplcg/diag"
	"mplcg/ir"
)

// Form drains stream into routine as a sequence of basic blocks and
// attaches them to routine in order. stream is the routine's raw,
// un-partitioned instruction list as produced by the front-end.
//
// Leader rules: an instruction is a leader if it is the first instruction
// of the routine, it is a label (lbl), or it immediately follows a
// terminator. A block is always closed after a terminator, and closed
// (if non-empty) whenever a new leader is seen.
func Form(routine *ir.Object, stream []ir.Instruction) error {
	if routine.Variant() != ir.VariantRoutine {
		return diag.Errorf(diag.BadCast, "blockform.Form", routine.Name())
	}
	if len(stream) == 0 {
		return diag.Errorf(diag.EmptyRoutine, "blockform.Form", routine.Name())
	}

	var cur *ir.Block
	afterTerminator := false

	closeCurrent := func() error {
		if cur == nil {
			return nil
		}
		if err := cur.Validate(); err != nil {
			return err
		}
		if err := routine.AddBlock(cur); err != nil {
			return err
		}
		cur = nil
		return nil
	}

	for i, inst := range stream {
		isLeader := i == 0 || inst.Op == ir.OpLbl || afterTerminator
		if isLeader && cur != nil {
			if err := closeCurrent(); err != nil {
				return err
			}
		}
		if cur == nil {
			cur = ir.NewBlock()
		}
		cur.Append(inst)
		afterTerminator = inst.Op.Terminator()
	}

	return closeCurrent()
}
