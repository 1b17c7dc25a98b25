package codegen

import (
	"sort"

	"mplcg/ir"
)

// Descriptor tracks, per physical register, which IR object currently
// occupies it and whether the register holds the object's value or a
// reference (address) to it (§4.5.1). Cleared at the start of each
// routine; every non-empty register whose content is memory-backed must
// be flushed before falling through a block's end (long-lived values
// must not cross block boundaries in registers).
type Descriptor struct {
	occupant map[Reg]*ir.Object
	isRef    map[Reg]bool
}

// NewDescriptor returns a cleared descriptor, as at the start of a routine.
func NewDescriptor() *Descriptor {
	return &Descriptor{occupant: make(map[Reg]*ir.Object), isRef: make(map[Reg]bool)}
}

// ClearAll empties every register.
func (d *Descriptor) ClearAll() {
	d.occupant = make(map[Reg]*ir.Object)
	d.isRef = make(map[Reg]bool)
}

// Clear empties a single register.
func (d *Descriptor) Clear(reg Reg) {
	delete(d.occupant, reg)
	delete(d.isRef, reg)
}

// SetValue records that reg now holds obj's value.
func (d *Descriptor) SetValue(reg Reg, obj *ir.Object) {
	d.occupant[reg] = obj
	d.isRef[reg] = false
}

// SetReference records that reg now holds a reference (address) to obj.
func (d *Descriptor) SetReference(reg Reg, obj *ir.Object) {
	d.occupant[reg] = obj
	d.isRef[reg] = true
}

// IsEmpty reports whether reg currently holds nothing.
func (d *Descriptor) IsEmpty(reg Reg) bool {
	_, ok := d.occupant[reg]
	return !ok
}

// Occupant returns what reg currently holds, and whether it's a
// reference rather than a value.
func (d *Descriptor) Occupant(reg Reg) (obj *ir.Object, isRef bool, ok bool) {
	obj, ok = d.occupant[reg]
	return obj, d.isRef[reg], ok
}

// FindValue returns the register holding obj's value, if any.
func (d *Descriptor) FindValue(obj *ir.Object) (Reg, bool) {
	for r, o := range d.occupant {
		if o == obj && !d.isRef[r] {
			return r, true
		}
	}
	return 0, false
}

// FindReference returns the register holding a reference to obj, if any.
func (d *Descriptor) FindReference(obj *ir.Object) (Reg, bool) {
	for r, o := range d.occupant {
		if o == obj && d.isRef[r] {
			return r, true
		}
	}
	return 0, false
}

// Exchange swaps the contents (occupant and reference-ness) of a and b.
func (d *Descriptor) Exchange(a, b Reg) {
	oa, ra, hasA := d.occupant[a]
	ob, rb, hasB := d.occupant[b]
	if hasB {
		d.occupant[a] = ob
		d.isRef[a] = rb
	} else {
		d.Clear(a)
	}
	if hasA {
		d.occupant[b] = oa
		d.isRef[b] = ra
	} else {
		d.Clear(b)
	}
}

// MemoryBacked reports whether obj's home is an actual memory location
// (as opposed to e.g. a value that only ever lives in a register) —
// every storage class except temp has one.
func MemoryBacked(obj *ir.Object) bool {
	return obj.Storage() != ir.ClassTemp
}

// Occupied returns every register currently holding something, sorted by
// Reg, so end-of-block flush logic iterates in deterministic order.
func (d *Descriptor) Occupied() []Reg {
	out := make([]Reg, 0, len(d.occupant))
	for r := range d.occupant {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
