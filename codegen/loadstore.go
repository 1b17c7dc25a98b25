package codegen

import (
	"mplcg/ir"
)

// Load ensures reg holds src's value (§4.5.4). If src already occupies a
// different register as a value, the two registers are exchanged rather
// than re-read from memory. Otherwise reg's current occupant is stashed
// out of the way first, then src is moved in from its home location.
func (c *Ctx) Load(reg Reg, src *ir.Object) error {
	if occ, isRef, ok := c.Desc.Occupant(reg); ok && !isRef && occ == src {
		return nil
	}
	if other, ok := c.Desc.FindValue(src); ok {
		c.Linef("    xchg %s, %s", Name(reg, operandWidth(src)), Name(other, operandWidth(src)))
		c.Desc.Exchange(reg, other)
		return nil
	}
	if err := c.Stash(reg); err != nil {
		return err
	}
	operand, err := c.Resolve(src)
	if err != nil {
		return err
	}
	c.Linef("    mov %s, %s", Name(reg, operandWidth(src)), operand)
	c.Desc.SetValue(reg, src)
	return nil
}

// Stash clears reg for a new occupant (§4.5.4). A non-temp occupant is
// simply dropped (its home location already holds the authoritative
// value, or Store will be called on it explicitly before the drop); a
// live temp occupant has exactly one further use by construction of the
// IR, so it is relocated once: to another free register if one exists,
// else to a newly reserved slot in the frame's temp region.
func (c *Ctx) Stash(reg Reg) error {
	occ, isRef, ok := c.Desc.Occupant(reg)
	if !ok || isRef || occ.Storage() != ir.ClassTemp {
		c.Desc.Clear(reg)
		return nil
	}

	for _, free := range Allocatable(c.Mode) {
		if free == reg {
			continue
		}
		if c.Desc.IsEmpty(free) {
			c.Linef("    mov %s, %s", Name(free, operandWidth(occ)), Name(reg, operandWidth(occ)))
			c.Desc.SetValue(free, occ)
			c.Desc.Clear(reg)
			return nil
		}
	}

	home := c.frameOperand(operandWidth(occ), -c.frameSize+c.tempSlotOffset(occ))
	c.Linef("    mov %s, %s", home, Name(reg, operandWidth(occ)))
	c.Desc.Clear(reg)
	return nil
}

// Store writes reg's current value back to its occupant's home location,
// but only when that occupant is memory-backed (§4.5.4); the descriptor
// is left unchanged — callers that also want the register freed call
// Stash or Clear separately.
func (c *Ctx) Store(reg Reg) error {
	occ, isRef, ok := c.Desc.Occupant(reg)
	if !ok || isRef || !HomeIsMemory(occ) {
		return nil
	}
	// Resolve against an empty descriptor so it yields occ's home location
	// rather than the register that currently holds it.
	desc := c.Desc
	c.Desc = NewDescriptor()
	home, err := c.Resolve(occ)
	c.Desc = desc
	if err != nil {
		return err
	}
	c.Linef("    mov %s, %s", home, Name(reg, operandWidth(occ)))
	return nil
}

// FlushBlockEnd writes back every memory-backed register occupant before
// falling through to the next block (§4.5.1: long-lived values must not
// cross block boundaries in registers), then clears the descriptor.
func (c *Ctx) FlushBlockEnd() error {
	for _, reg := range c.Desc.Occupied() {
		if err := c.Store(reg); err != nil {
			return err
		}
	}
	c.Desc.ClearAll()
	return nil
}

// settle finishes a result-producing opcode (§4.5.5): the result is
// recorded as living in reg; if used_next is false it is immediately
// retired — pushed to its temp slot if it's a temp, else stored to its
// home location and cleared from the register. A non-temp result that is
// used next is also stored to its home, but stays in reg.
func (c *Ctx) settle(reg Reg, result *ir.Object, usedNext bool) error {
	c.Desc.SetValue(reg, result)
	if usedNext {
		if result.Storage() == ir.ClassTemp {
			return nil
		}
		return c.Store(reg)
	}
	if result.Storage() == ir.ClassTemp {
		slot := c.frameOperand(operandWidth(result), -c.frameSize+c.tempSlotOffset(result))
		c.Linef("    mov %s, %s", slot, Name(reg, operandWidth(result)))
		c.Desc.Clear(reg)
		return nil
	}
	if err := c.Store(reg); err != nil {
		return err
	}
	c.Desc.Clear(reg)
	return nil
}
