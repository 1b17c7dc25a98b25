// Package codegen is the emitter: it walks annotated, laid-out IR and
// renders NASM assembler text through a greedy, block-local register
// allocation scheme (§4.5). Nothing here mutates IR; everything it needs
// per routine (register descriptor, frame size, temp slots) lives on Ctx.
package codegen

import (
	"mplcg/diag"
	"mplcg/ir"
	"mplcg/layout"
)

// EmitRoutine renders one routine's prologue, body, and epilogue. The
// routine's frame must already be laid out (layout.Compute run) and its
// blocks already formed and annotated (blockform.Form, liveness.Run).
func EmitRoutine(c *Ctx, routine *ir.Object) error {
	if routine.Variant() != ir.VariantRoutine {
		return diag.Errorf(diag.BadCast, "codegen.EmitRoutine", routine.Name())
	}
	if len(routine.Routine.Blocks) == 0 {
		return diag.Errorf(diag.EmptyRoutine, "codegen.EmitRoutine", routine.Name())
	}

	frameSize := layout.FrameSize(routine, c.Mode)
	autosSize := routine.Routine.Autos.Size()
	paramBytes := layout.ParamBytes(routine)
	c.ResetRoutine(routine, frameSize, autosSize, paramBytes)

	c.Linef("%s:", routine.Name())
	c.Linef("    enter %d, 0", frameSize)

	for _, block := range routine.Routine.Blocks {
		for _, inst := range block.Instructions {
			if err := c.emitInstruction(inst); err != nil {
				return err
			}
		}
		if err := c.FlushBlockEnd(); err != nil {
			return err
		}
	}
	last := routine.Routine.Blocks[len(routine.Routine.Blocks)-1]
	if term, ok := last.Terminator(); !ok || term.Op != ir.OpRtrn {
		c.Linef("    leave")
		c.Linef("    ret %d", c.paramBytes)
	}
	return nil
}

func (c *Ctx) emitInstruction(inst ir.Instruction) error {
	switch inst.Op {
	case ir.OpNop, ir.OpProc:
		return nil
	case ir.OpLbl:
		return c.emitLbl(inst)
	case ir.OpJmp:
		c.Linef("    jmp %s", inst.Left.Object.Name())
		return nil
	case ir.OpJz:
		return c.emitJz(inst)
	case ir.OpLoop:
		c.Linef("    loop %s", inst.Left.Object.Name())
		return nil
	case ir.OpParm:
		return c.emitParm(inst)
	case ir.OpCall:
		return c.emitCall(inst)
	case ir.OpRtrn:
		return c.emitRtrn(inst)
	case ir.OpAss:
		return c.emitAss(inst)
	case ir.OpInc:
		return c.emitIncDec(inst, "inc")
	case ir.OpDec:
		return c.emitIncDec(inst, "dec")
	case ir.OpNeg:
		return c.emitUnaryArith(inst, "neg")
	case ir.OpNot:
		return c.emitUnaryArith(inst, "not")
	case ir.OpInv:
		return c.emitBooleanInvert(inst)
	case ir.OpDref:
		return c.emitDref(inst)
	case ir.OpSz:
		return c.emitSz(inst)
	case ir.OpRef:
		return c.emitRef(inst)
	case ir.OpAdd:
		return c.emitBinary(inst, "add")
	case ir.OpSub:
		return c.emitBinary(inst, "sub")
	case ir.OpBand:
		return c.emitBinary(inst, "and")
	case ir.OpBor:
		return c.emitBinary(inst, "or")
	case ir.OpXor:
		return c.emitBinary(inst, "xor")
	case ir.OpLsh:
		return c.emitShift(inst, "shl")
	case ir.OpRsh:
		return c.emitShift(inst, "shr")
	case ir.OpRol:
		return c.emitShift(inst, "rol")
	case ir.OpRor:
		return c.emitShift(inst, "ror")
	case ir.OpMul:
		return c.emitMul(inst)
	case ir.OpDiv:
		return c.emitDivMod(inst, false)
	case ir.OpMod:
		return c.emitDivMod(inst, true)
	case ir.OpEq:
		return c.emitRelational(inst, "sete")
	case ir.OpNeq:
		return c.emitRelational(inst, "setne")
	case ir.OpLt:
		return c.emitRelational(inst, "setl")
	case ir.OpGt:
		return c.emitRelational(inst, "setg")
	case ir.OpLte:
		return c.emitRelational(inst, "setle")
	case ir.OpGte:
		return c.emitRelational(inst, "setge")
	case ir.OpAnd:
		return c.emitLogical(inst, "and")
	case ir.OpOr:
		return c.emitLogical(inst, "or")
	case ir.OpCpy:
		return c.emitCpy(inst)
	default:
		return diag.Errorf(diag.UnknownOpcode, "codegen.emitInstruction", inst.Op.String())
	}
}

func (c *Ctx) emitLbl(inst ir.Instruction) error {
	if inst.Left.IsNull() {
		return diag.Errorf(diag.BadCast, "codegen.emitLbl", "")
	}
	c.Linef("%s:", inst.Left.Object.Name())
	return nil
}

func (c *Ctx) emitJz(inst ir.Instruction) error {
	if err := c.Load(RegA, inst.Left.Object); err != nil {
		return err
	}
	c.Linef("    cmp %s, 0", Name(RegA, operandWidth(inst.Left.Object)))
	c.Linef("    jz %s", inst.Right.Object.Name())
	return nil
}

// emitParm pushes one argument ahead of a call; the front-end is
// responsible for emitting parm instructions in reverse argument order
// so the callee's frame offsets (§4.5.2) come out left-to-right.
func (c *Ctx) emitParm(inst ir.Instruction) error {
	operand, err := c.Resolve(inst.Left.Object)
	if err != nil {
		return err
	}
	c.Linef("    push %s", operand)
	return nil
}

func (c *Ctx) emitCall(inst ir.Instruction) error {
	if err := c.Store(RegA); err != nil {
		return err
	}
	c.Desc.Clear(RegA)
	c.Linef("    call %s", inst.Left.Object.Name())
	if !inst.Result.IsNull() {
		return c.settle(RegA, inst.Result.Object, inst.UsedNext)
	}
	return nil
}

// emitRtrn loads the (optional) return value into the accumulator, then
// tears down the frame: LEAVE, RET param_bytes (§4.5.2).
func (c *Ctx) emitRtrn(inst ir.Instruction) error {
	if !inst.Left.IsNull() {
		if err := c.Load(RegA, inst.Left.Object); err != nil {
			return err
		}
	}
	c.Linef("    leave")
	c.Linef("    ret %d", c.paramBytes)
	return nil
}

// emitAss implements ass(dest, src) (§4.5.5): size/signedness mismatches
// are warnings, not errors; the source is always loaded into the
// accumulator and then settled into dest, whatever the operands' homes.
func (c *Ctx) emitAss(inst ir.Instruction) error {
	dest, src := inst.Result.Object, inst.Left.Object
	if dest == nil || src == nil {
		return diag.Errorf(diag.BadCast, "codegen.emitAss", "")
	}
	if dest.Variant() == ir.VariantPrime && src.Variant() == ir.VariantPrime {
		c.warnAssMismatch(dest, src)
	}
	if err := c.Load(RegA, src); err != nil {
		return err
	}
	return c.settle(RegA, dest, inst.UsedNext)
}

func (c *Ctx) warnAssMismatch(dest, src *ir.Object) {
	if c.Warnings == nil {
		return
	}
	if dest.SizeComputed() && src.SizeComputed() && dest.Size() != src.Size() {
		c.Warnings.Add("codegen", dest.Name(), "size mismatch in assignment")
	}
	if dest.Prime.Signed() != src.Prime.Signed() {
		c.Warnings.Add("codegen", dest.Name(), "signedness mismatch in assignment")
	}
}

func (c *Ctx) emitIncDec(inst ir.Instruction, mnemonic string) error {
	x := inst.Left.Object
	if err := c.Load(RegA, x); err != nil {
		return err
	}
	c.Linef("    %s %s", mnemonic, Name(RegA, operandWidth(x)))
	return c.settle(RegA, x, inst.UsedNext)
}

func (c *Ctx) emitUnaryArith(inst ir.Instruction, mnemonic string) error {
	x := inst.Left.Object
	if err := c.Load(RegA, x); err != nil {
		return err
	}
	c.Linef("    %s %s", mnemonic, Name(RegA, operandWidth(x)))
	return c.settle(RegA, inst.Result.Object, inst.UsedNext)
}

// emitDref implements dref(r, ptr): load the pointer, then read through it.
func (c *Ctx) emitDref(inst ir.Instruction) error {
	ptr := inst.Left.Object
	if err := c.Load(RegSI, ptr); err != nil {
		return err
	}
	width := operandWidth(inst.Result.Object)
	c.Linef("    mov %s, %s [%s]", Name(RegA, width), sizePrefix(width), Name(RegSI, c.PointerSize()))
	return c.settle(RegA, inst.Result.Object, inst.UsedNext)
}

// emitSz resolves the sz opcode at compile time (§9 open question):
// fails if the operand's size has not yet been computed by layout.
func (c *Ctx) emitSz(inst ir.Instruction) error {
	x := inst.Left.Object
	if !x.SizeComputed() {
		return diag.Errorf(diag.InvalidWidth, "codegen.emitSz", x.Name())
	}
	result := inst.Result.Object
	c.Linef("    mov %s, %d", Name(RegA, operandWidth(result)), x.Size())
	return c.settle(RegA, result, inst.UsedNext)
}

// emitRef loads an effective address: a bare home-location LEA for a
// scalar, or a scaled LEA combining a cached base with an index operand
// for an array/struct element (§4.5.3, §4.5.5).
func (c *Ctx) emitRef(inst ir.Instruction) error {
	obj, idx := inst.Left.Object, inst.Right.Object
	result := inst.Result.Object
	if idx == nil {
		operand, err := c.Resolve(obj)
		if err != nil {
			return err
		}
		c.Linef("    lea %s, [%s]", Name(RegSI, c.PointerSize()), stripSizePrefix(operand))
		c.Desc.SetReference(RegSI, obj)
		return c.settle(RegSI, result, inst.UsedNext)
	}

	elemSize := elementSize(obj)
	baseOperand, err := c.Resolve(obj)
	if err != nil {
		return err
	}
	if err := c.Load(RegD, idx); err != nil {
		return err
	}
	scale := scaleFactor(elemSize)
	if scale > 0 {
		c.Linef("    lea %s, [%s + %s*%d]", Name(RegSI, c.PointerSize()),
			stripSizePrefix(baseOperand), Name(RegD, c.PointerSize()), scale)
	} else {
		c.Linef("    imul %s, %d", Name(RegD, c.PointerSize()), elemSize)
		c.Linef("    lea %s, [%s + %s]", Name(RegSI, c.PointerSize()),
			stripSizePrefix(baseOperand), Name(RegD, c.PointerSize()))
	}
	c.Desc.SetReference(RegSI, obj)
	return c.settle(RegSI, result, inst.UsedNext)
}

func elementSize(obj *ir.Object) int {
	if obj.Variant() == ir.VariantArray {
		return obj.Array.Child().Size()
	}
	return 1
}

// scaleFactor returns the LEA-eligible scale (1, 2, 4, 8) for an element
// size, or 0 if the size must go through an explicit multiply instead.
func scaleFactor(size int) int {
	switch size {
	case 1, 2, 4, 8:
		return size
	default:
		return 0
	}
}

// stripSizePrefix removes a leading "byte "/"word "/"dword "/"qword "
// token and the enclosing brackets, leaving the bare address expression,
// so a resolved memory operand can be embedded inside a larger
// addressing expression (LEA never takes a size prefix).
func stripSizePrefix(operand string) string {
	for _, prefix := range []string{"byte [", "word [", "dword [", "qword ["} {
		if len(operand) > len(prefix) && operand[:len(prefix)] == prefix && operand[len(operand)-1] == ']' {
			return operand[len(prefix) : len(operand)-1]
		}
	}
	return operand
}

func (c *Ctx) emitBinary(inst ir.Instruction, mnemonic string) error {
	result, left, right := inst.Result.Object, inst.Left.Object, inst.Right.Object
	if err := c.Load(RegA, left); err != nil {
		return err
	}
	rhs, err := c.Resolve(right)
	if err != nil {
		return err
	}
	c.Linef("    %s %s, %s", mnemonic, Name(RegA, operandWidth(left)), rhs)
	return c.settle(RegA, result, inst.UsedNext)
}

func (c *Ctx) emitShift(inst ir.Instruction, mnemonic string) error {
	result, left, count := inst.Result.Object, inst.Left.Object, inst.Right.Object
	if err := c.Load(RegA, left); err != nil {
		return err
	}
	if count.Storage() == ir.ClassConst {
		v, _ := count.Prime.ConstValue()
		c.Linef("    %s %s, %d", mnemonic, Name(RegA, operandWidth(left)), v)
	} else {
		if err := c.Load(RegC, count); err != nil {
			return err
		}
		c.Linef("    %s %s, cl", mnemonic, Name(RegA, operandWidth(left)))
	}
	return c.settle(RegA, result, inst.UsedNext)
}

func (c *Ctx) emitMul(inst ir.Instruction) error {
	result, left, right := inst.Result.Object, inst.Left.Object, inst.Right.Object
	if err := c.Load(RegA, left); err != nil {
		return err
	}
	rhs, err := c.Resolve(right)
	if err != nil {
		return err
	}
	mnemonic := "imul"
	if !signedOperand(left) && !signedOperand(right) {
		mnemonic = "mul"
	}
	c.Linef("    %s %s", mnemonic, rhs)
	return c.settle(RegA, result, inst.UsedNext)
}

// emitDivMod loads the numerator into the accumulator, fills the data
// register as the high half (sign-extended with cdq for signed division,
// zeroed for unsigned), and emits signed or unsigned division;
// div's result lives in the accumulator, mod's in the data register.
func (c *Ctx) emitDivMod(inst ir.Instruction, wantRemainder bool) error {
	result, left, right := inst.Result.Object, inst.Left.Object, inst.Right.Object
	if err := c.Stash(RegD); err != nil {
		return err
	}
	if err := c.Load(RegA, left); err != nil {
		return err
	}
	rhs, err := c.Resolve(right)
	if err != nil {
		return err
	}
	signed := signedOperand(left) || signedOperand(right)
	width := operandWidth(left)
	if signed {
		c.Linef("    cdq")
		c.Linef("    idiv %s", rhs)
	} else {
		c.Linef("    xor %s, %s", Name(RegD, width), Name(RegD, width))
		c.Linef("    div %s", rhs)
	}
	if wantRemainder {
		c.Desc.Clear(RegA)
		return c.settle(RegD, result, inst.UsedNext)
	}
	c.Desc.Clear(RegD)
	return c.settle(RegA, result, inst.UsedNext)
}

func signedOperand(obj *ir.Object) bool {
	return obj.Variant() == ir.VariantPrime && obj.Prime.Signed()
}

func (c *Ctx) emitRelational(inst ir.Instruction, setcc string) error {
	result, left, right := inst.Result.Object, inst.Left.Object, inst.Right.Object
	if err := c.Load(RegA, left); err != nil {
		return err
	}
	rhs, err := c.Resolve(right)
	if err != nil {
		return err
	}
	c.Linef("    cmp %s, %s", Name(RegA, operandWidth(left)), rhs)
	c.Linef("    %s al", setcc)
	c.Linef("    movzx %s, al", Name(RegA, operandWidth(result)))
	return c.settle(RegA, result, inst.UsedNext)
}

// emitBooleanInvert implements inv, the boolean complement that pairs with
// the relational and/or family: unlike not (the bitwise complement, ~x),
// inv reduces its operand to 0/1 truthiness and flips it.
func (c *Ctx) emitBooleanInvert(inst ir.Instruction) error {
	result, left := inst.Result.Object, inst.Left.Object
	if err := c.Load(RegA, left); err != nil {
		return err
	}
	c.Linef("    cmp %s, 0", Name(RegA, operandWidth(left)))
	c.Linef("    sete al")
	c.Linef("    movzx %s, al", Name(RegA, operandWidth(result)))
	return c.settle(RegA, result, inst.UsedNext)
}

// emitLogical implements the non-short-circuiting and/or (§3): each side
// is reduced to a 0/1 boolean before combining, since the operands may
// be arbitrary-width integers rather than pre-normalised flags.
func (c *Ctx) emitLogical(inst ir.Instruction, mnemonic string) error {
	result, left, right := inst.Result.Object, inst.Left.Object, inst.Right.Object
	if err := c.Load(RegA, left); err != nil {
		return err
	}
	c.Linef("    cmp %s, 0", Name(RegA, operandWidth(left)))
	c.Linef("    setne al")
	c.Linef("    movzx %s, al", Name(RegA, operandWidth(result)))
	c.Desc.Clear(RegA)
	if err := c.Load(RegC, right); err != nil {
		return err
	}
	c.Linef("    cmp %s, 0", Name(RegC, operandWidth(right)))
	c.Linef("    setne cl")
	c.Linef("    movzx %s, cl", Name(RegC, operandWidth(result)))
	c.Linef("    %s %s, %s", mnemonic, Name(RegA, operandWidth(result)), Name(RegC, operandWidth(result)))
	c.Desc.Clear(RegC)
	return c.settle(RegA, result, inst.UsedNext)
}

// emitCpy implements a byte-granularity block copy between memory-backed
// aggregates (arrays, struct instances) using the string-move primitive.
func (c *Ctx) emitCpy(inst ir.Instruction) error {
	dest, src := inst.Result.Object, inst.Left.Object
	if err := c.emitRefInto(RegDI, dest); err != nil {
		return err
	}
	if err := c.emitRefInto(RegSI, src); err != nil {
		return err
	}
	n := dest.Size()
	c.Linef("    mov %s, %d", Name(RegC, c.PointerSize()), n)
	c.Linef("    rep movsb")
	c.Desc.Clear(RegDI)
	c.Desc.Clear(RegSI)
	c.Desc.Clear(RegC)
	return nil
}

// emitRefInto loads obj's effective address into reg, for opcodes (like
// cpy) that need a raw address rather than a settled result operand.
func (c *Ctx) emitRefInto(reg Reg, obj *ir.Object) error {
	operand, err := c.Resolve(obj)
	if err != nil {
		return err
	}
	c.Linef("    lea %s, [%s]", Name(reg, c.PointerSize()), stripSizePrefix(operand))
	c.Desc.SetReference(reg, obj)
	return nil
}
