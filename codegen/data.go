package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"mplcg/diag"
	"mplcg/ir"
)

// widthDirective maps a byte width to the NASM data-definition directive.
func widthDirective(bytes int) string {
	switch bytes {
	case 1:
		return "db"
	case 2:
		return "dw"
	case 4:
		return "dd"
	case 8:
		return "dq"
	default:
		return "db"
	}
}

// EmitVisibility writes one `global`/`extern` directive per public or
// extern object in the container, in insertion order (§4.5.6 "up front").
func EmitVisibility(c *Ctx) {
	for _, obj := range c.Container.Iterate() {
		switch obj.Storage() {
		case ir.ClassPublic:
			c.Linef("global %s", obj.Name())
		case ir.ClassExtern:
			c.Linef("extern %s", obj.Name())
		}
	}
}

// EmitStaticData renders the `.data` section body: every private/public
// object gets its initialiser or a reserved span; routines are skipped
// here entirely (§4.5.6).
func EmitStaticData(c *Ctx) error {
	for _, obj := range c.Container.Iterate() {
		if obj.Storage() != ir.ClassPrivate && obj.Storage() != ir.ClassPublic {
			continue
		}
		switch obj.Variant() {
		case ir.VariantPrime:
			c.emitPrimeData(obj)
		case ir.VariantArray:
			if err := c.emitArrayData(obj); err != nil {
				return err
			}
		case ir.VariantStructInst:
			c.Linef("%s: resb %d", obj.Name(), obj.Size())
		case ir.VariantStructDef:
			// struct_defs contribute only the struc layout emitted by
			// layout.EmitStructDefs; they hold no storage of their own.
		case ir.VariantRoutine:
			// not data (§4.5.6)
		default:
			return diag.Errorf(diag.BadCast, "codegen.EmitStaticData", obj.Name())
		}
	}
	return nil
}

func (c *Ctx) emitPrimeData(obj *ir.Object) {
	width := operandWidth(obj)
	v, has := obj.Prime.ConstValue()
	if !has {
		v = 0
	}
	c.Linef("%s: %s %d", obj.Name(), widthDirective(width), v)
}

func (c *Ctx) emitArrayData(obj *ir.Object) error {
	init := obj.Array.Init()
	if len(init) == 0 {
		c.Linef("%s: resb %d", obj.Name(), obj.Size())
		return nil
	}
	var items []string
	for _, b := range init {
		items = append(items, arrayByteLiteral(b))
	}
	c.Linef("%s: db %s", obj.Name(), strings.Join(items, ", "))
	return nil
}

// arrayByteLiteral renders an initialiser byte as a printable-ASCII
// character literal when possible, else as a hex number (§4.5.6).
func arrayByteLiteral(b byte) string {
	if b >= 0x20 && b < 0x7f && b != '\'' && b != '\\' {
		return fmt.Sprintf("'%c'", b)
	}
	return "0x" + strconv.FormatUint(uint64(b), 16)
}
