// Package layout computes byte sizes for every data object and byte
// offsets for every struct member (§4.4), honouring the alignment rules
// of the chosen machine mode, and renders the NASM struc preludes the
// emitter writes ahead of everything else.
package layout

import (
	"fmt"

	"mplcg/diag"
	"mplcg/ir"
	"mplcg/target"
)

// widthBytes is the Width -> byte-size mapping of §4.4.
func widthBytes(w ir.Width, mode target.Mode) (int, error) {
	switch w {
	case ir.WidthByte:
		return 1, nil
	case ir.WidthByte2:
		return 2, nil
	case ir.WidthByte4:
		return 4, nil
	case ir.WidthByte8:
		if mode == target.Long {
			return 8, nil
		}
		return 0, diag.Errorf(diag.InvalidWidth, "layout.widthBytes", "byte8")
	case ir.WidthWord, ir.WidthPtr, ir.WidthMax:
		return mode.PointerSize(), nil
	default:
		return 0, diag.Errorf(diag.InvalidWidth, "layout.widthBytes", w.String())
	}
}

// Compute sets the byte size of obj (and, recursively, anything it's
// built from) for the given mode. Re-running it on an already-sized
// object tree is a no-op (§8 "Round-trip / idempotence": layout run twice
// sets identical sizes and offsets).
func Compute(obj *ir.Object, mode target.Mode, warnings *diag.Warnings) error {
	switch obj.Variant() {
	case ir.VariantPrime:
		return computePrime(obj, mode)
	case ir.VariantArray:
		return computeArray(obj, mode, warnings)
	case ir.VariantStructDef:
		return computeStructDef(obj, mode, warnings, 0)
	case ir.VariantStructInst:
		return computeStructInst(obj, mode, warnings)
	case ir.VariantRoutine:
		return computeRoutineFrame(obj, mode, warnings)
	default:
		return diag.Errorf(diag.BadCast, "layout.Compute", obj.Name())
	}
}

func computePrime(obj *ir.Object, mode target.Mode) error {
	if obj.SizeComputed() {
		return nil
	}
	n, err := widthBytes(obj.Prime.Width(), mode)
	if err != nil {
		return err
	}
	return obj.SetSize(n)
}

func computeArray(obj *ir.Object, mode target.Mode, warnings *diag.Warnings) error {
	if obj.SizeComputed() {
		return nil
	}
	child := obj.Array.Child()
	if err := Compute(child, mode, warnings); err != nil {
		return err
	}
	total := child.Size() * obj.Array.Count()
	if init := obj.Array.Init(); len(init) > total {
		return diag.Errorf(diag.ConstructionError, "layout.computeArray", obj.Name())
	}
	return obj.SetSize(total)
}

// computeStructDef lays out members in declaration order with alignment
// padding: a member whose size exceeds the machine pointer size aligns to
// the pointer size, otherwise it aligns to its own (natural) size. The
// struct's total size is the offset immediately after the last member,
// never padded to a trailing multiple. base offsets the first member
// (used for parameter frames, which start past the return address and
// saved base pointer rather than at zero).
func computeStructDef(obj *ir.Object, mode target.Mode, warnings *diag.Warnings, base int) error {
	if obj.SizeComputed() {
		return nil
	}
	ptrSize := mode.PointerSize()
	offset := base
	for i := range obj.StructDef.Members {
		m := &obj.StructDef.Members[i]
		if err := Compute(m.Object, mode, warnings); err != nil {
			return err
		}
		size := m.Object.Size()
		align := size
		if size > ptrSize {
			align = ptrSize
		}
		if align > 0 {
			rem := offset % align
			if rem != 0 {
				pad := align - rem
				if warnings != nil {
					warnings.Add("layout", obj.Name(), fmt.Sprintf(
						"%d byte(s) padding inserted before member %q", pad, m.Name))
				}
				offset += pad
			}
		}
		m.Offset = offset
		offset += size
	}
	return obj.SetSize(offset - base)
}

func computeStructInst(obj *ir.Object, mode target.Mode, warnings *diag.Warnings) error {
	if obj.SizeComputed() {
		return nil
	}
	def := obj.StructInst.Def
	if err := Compute(def, mode, warnings); err != nil {
		return err
	}
	return obj.SetSize(def.Size())
}

// ParamBase is the byte offset, relative to BP, of the first caller
// parameter: past the saved BP and the return address (§4.5.2,
// "BP + 2*W + i*W").
func ParamBase(mode target.Mode) int {
	return 2 * mode.PointerSize()
}

// computeRoutineFrame lays out the parameter and auto structs that back a
// routine's activation record (§4.5.2). The routine object itself is
// never sized. Unlike a general struct_def's members — which may be type
// descriptors shared across many struct_defs and so must never cache an
// offset on the member object itself — every param/auto object belongs
// to exactly one routine's frame, so it is safe (and required, for
// operand resolution) to also stamp the offset onto the object directly.
func computeRoutineFrame(obj *ir.Object, mode target.Mode, warnings *diag.Warnings) error {
	if err := computeStructDef(obj.Routine.Params, mode, warnings, ParamBase(mode)); err != nil {
		return err
	}
	if err := computeStructDef(obj.Routine.Autos, mode, warnings, 0); err != nil {
		return err
	}
	for _, m := range obj.Routine.Params.StructDef.Members {
		if m.Object.OffsetComputed() {
			continue
		}
		if err := m.Object.SetOffset(m.Offset); err != nil {
			return err
		}
	}
	for _, m := range obj.Routine.Autos.StructDef.Members {
		if m.Object.OffsetComputed() {
			continue
		}
		if err := m.Object.SetOffset(m.Offset); err != nil {
			return err
		}
	}
	return nil
}

// FrameSize returns the byte count of automatics + spilled temps in a
// routine's current frame — what the §4.5.2 prologue reserves with ENTER.
// The spill region is PeakTemps machine words, sized after liveness.Run
// has set Routine.PeakTemps for this routine.
func FrameSize(routine *ir.Object, mode target.Mode) int {
	return routine.Routine.Autos.Size() + routine.Routine.PeakTemps*mode.PointerSize()
}

// ParamBytes returns the byte count of caller-pushed parameters — what
// the §4.5.2 epilogue's RET unloads.
func ParamBytes(routine *ir.Object) int {
	return routine.Routine.Params.Size()
}
