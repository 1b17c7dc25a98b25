package codegen

import (
	"fmt"

	"mplcg/diag"
	"mplcg/ir"
)

// sizePrefix names the NASM size-override keyword for a width in bytes,
// used whenever a memory operand's size would otherwise be ambiguous.
func sizePrefix(bytes int) string {
	switch bytes {
	case 1:
		return "byte"
	case 2:
		return "word"
	case 4:
		return "dword"
	case 8:
		return "qword"
	default:
		return "byte"
	}
}

// bpName is the base-pointer register name for the context's mode.
func (c *Ctx) bpName() string {
	if c.Mode.PointerSize() == 8 {
		return "rbp"
	}
	return "ebp"
}

// frameOperand renders a BP-relative memory reference at the given signed
// displacement from the base pointer, sized to bytes.
func (c *Ctx) frameOperand(bytes, displacement int) string {
	bp := c.bpName()
	switch {
	case displacement > 0:
		return fmt.Sprintf("%s [%s + %d]", sizePrefix(bytes), bp, displacement)
	case displacement < 0:
		return fmt.Sprintf("%s [%s - %d]", sizePrefix(bytes), bp, -displacement)
	default:
		return fmt.Sprintf("%s [%s]", sizePrefix(bytes), bp)
	}
}

// tempSlotOffset assigns (on first use) or returns the stack offset of a
// spilled temp's home slot, within the region Autos.Size() bytes into the
// frame and PeakTemps*W bytes deep (§4.4 FrameSize, §4.5.4 Stash).
func (c *Ctx) tempSlotOffset(obj *ir.Object) int {
	idx, ok := c.tempSlots[obj]
	if !ok {
		idx = c.nextTempSlot
		c.nextTempSlot++
		c.tempSlots[obj] = idx
	}
	return c.autosSize + idx*c.PointerSize()
}

// Resolve produces the textual operand for reading obj's current value,
// following the priority order of §4.5.3: a live register holding the
// value, then a live register holding a reference to it, then its home
// location by storage class, then (for constants) an immediate.
func (c *Ctx) Resolve(obj *ir.Object) (string, error) {
	bytes := operandWidth(obj)

	if reg, ok := c.Desc.FindValue(obj); ok {
		return Name(reg, bytes), nil
	}
	if reg, ok := c.Desc.FindReference(obj); ok {
		return fmt.Sprintf("%s [%s]", sizePrefix(bytes), Name(reg, c.PointerSize())), nil
	}

	switch obj.Storage() {
	case ir.ClassPrivate, ir.ClassPublic, ir.ClassExtern:
		return fmt.Sprintf("%s [%s]", sizePrefix(bytes), obj.Name()), nil
	case ir.ClassStack:
		return c.frameOperand(bytes, -c.frameSize+obj.Offset()), nil
	case ir.ClassParam:
		return c.frameOperand(bytes, obj.Offset()), nil
	case ir.ClassMember:
		return "", diag.Errorf(diag.BadCast, "codegen.Resolve", obj.Name())
	case ir.ClassTemp:
		return c.frameOperand(bytes, -c.frameSize+c.tempSlotOffset(obj)), nil
	case ir.ClassConst:
		if obj.Variant() != ir.VariantPrime {
			return "", diag.Errorf(diag.BadCast, "codegen.Resolve", obj.Name())
		}
		v, _ := obj.Prime.ConstValue()
		return fmt.Sprintf("%d", v), nil
	default:
		return "", diag.Errorf(diag.BadCast, "codegen.Resolve", obj.Name())
	}
}

// operandWidth is the byte width to use when sizing a reference to obj:
// the already-computed layout size for anything sized, or a machine word
// for an object the layout pass never sizes (routines are never sized,
// but never appear as data operands either).
func operandWidth(obj *ir.Object) int {
	if obj.SizeComputed() {
		return obj.Size()
	}
	return 4
}

// HomeIsMemory reports whether obj's canonical home is an actual memory
// location that Store must write back to. Constants have none: they
// resolve to immediates.
func HomeIsMemory(obj *ir.Object) bool {
	return MemoryBacked(obj) && obj.Storage() != ir.ClassConst
}
