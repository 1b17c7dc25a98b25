package codegen

import (
	"fmt"

	"mplcg/target"
)

// Reg is one physical register of the fixed enumeration described in
// §4.5.1: accumulator, base, counter, data, source-index, destination-
// index, base-pointer, stack-pointer, and eight extended registers
// available only in long mode.
type Reg int

const (
	RegA Reg = iota
	RegB
	RegC
	RegD
	RegSI
	RegDI
	RegBP
	RegSP
	RegR8
	RegR9
	RegR10
	RegR11
	RegR12
	RegR13
	RegR14
	RegR15
)

// generalPurpose32 (plus generalPurposeExtra in long mode) lists
// registers available to the allocator, in victim
// order: the accumulator is tried last as a destination register because
// it is the mandatory result register for most opcodes (§4.5.5), but is
// the default stash victim when nothing else is free (§4.5.4).
var generalPurpose32 = []Reg{RegB, RegC, RegD, RegSI, RegDI, RegA}
var generalPurposeExtra = []Reg{RegR8, RegR9, RegR10, RegR11, RegR12, RegR13, RegR14, RegR15}

// Allocatable returns the registers available to the descriptor for a
// given mode, excluding BP and SP which are reserved for the frame.
func Allocatable(mode target.Mode) []Reg {
	if mode == target.Long {
		out := make([]Reg, 0, len(generalPurpose32)+len(generalPurposeExtra))
		out = append(out, generalPurpose32...)
		out = append(out, generalPurposeExtra...)
		return out
	}
	return generalPurpose32
}

// regNames8, regNames16, regNames32, regNames64 give the assembler-text
// name of each register at byte/word/dword/qword width.
var regNames8 = map[Reg]string{
	RegA: "al", RegB: "bl", RegC: "cl", RegD: "dl",
	RegSI: "sil", RegDI: "dil", RegBP: "bpl", RegSP: "spl",
	RegR8: "r8b", RegR9: "r9b", RegR10: "r10b", RegR11: "r11b",
	RegR12: "r12b", RegR13: "r13b", RegR14: "r14b", RegR15: "r15b",
}
var regNames16 = map[Reg]string{
	RegA: "ax", RegB: "bx", RegC: "cx", RegD: "dx",
	RegSI: "si", RegDI: "di", RegBP: "bp", RegSP: "sp",
	RegR8: "r8w", RegR9: "r9w", RegR10: "r10w", RegR11: "r11w",
	RegR12: "r12w", RegR13: "r13w", RegR14: "r14w", RegR15: "r15w",
}
var regNames32 = map[Reg]string{
	RegA: "eax", RegB: "ebx", RegC: "ecx", RegD: "edx",
	RegSI: "esi", RegDI: "edi", RegBP: "ebp", RegSP: "esp",
	RegR8: "r8d", RegR9: "r9d", RegR10: "r10d", RegR11: "r11d",
	RegR12: "r12d", RegR13: "r13d", RegR14: "r14d", RegR15: "r15d",
}
var regNames64 = map[Reg]string{
	RegA: "rax", RegB: "rbx", RegC: "rcx", RegD: "rdx",
	RegSI: "rsi", RegDI: "rdi", RegBP: "rbp", RegSP: "rsp",
	RegR8: "r8", RegR9: "r9", RegR10: "r10", RegR11: "r11",
	RegR12: "r12", RegR13: "r13", RegR14: "r14", RegR15: "r15",
}

// Name returns the assembler-text name of reg at the given width in
// bytes (1, 2, 4, or 8).
func Name(reg Reg, bytes int) string {
	var table map[Reg]string
	switch bytes {
	case 1:
		table = regNames8
	case 2:
		table = regNames16
	case 4:
		table = regNames32
	case 8:
		table = regNames64
	default:
		table = regNames32
	}
	if name, ok := table[reg]; ok {
		return name
	}
	return fmt.Sprintf("r?%d", int(reg))
}
