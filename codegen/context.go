package codegen

import (
	"fmt"
	"strings"

	"mplcg/diag"
	"mplcg/ir"
	"mplcg/target"
)

// Ctx bundles the emitter's mutable, routine-scoped state (descriptor,
// frame size, current parameter size) and the pipeline-wide read-only
// state (mode, container, sinks) that the source kept as globals
// (reg_d, mode, fd, frame_sz, param_sz) — see the emitter context design
// note. One Ctx is built per compilation and reused, routine by routine;
// ResetRoutine clears everything that must not leak across a call.
type Ctx struct {
	Mode      target.Mode
	Container *ir.Container
	Warnings  *diag.Warnings
	Log       *diag.Log

	Desc *Descriptor
	out  *strings.Builder

	routine      *ir.Object
	frameSize    int
	autosSize    int
	paramBytes   int
	tempSlots    map[*ir.Object]int
	nextTempSlot int
	labelSeq     int
}

// NewCtx constructs an emitter context around an already-populated,
// already-laid-out container.
func NewCtx(mode target.Mode, container *ir.Container, warnings *diag.Warnings, log *diag.Log) *Ctx {
	return &Ctx{
		Mode:      mode,
		Container: container,
		Warnings:  warnings,
		Log:       log,
		Desc:      NewDescriptor(),
		out:       &strings.Builder{},
	}
}

// Output returns everything written so far.
func (c *Ctx) Output() string { return c.out.String() }

// Line appends a single line of assembler text, followed by a line feed.
func (c *Ctx) Line(s string) {
	c.out.WriteString(s)
	c.out.WriteByte('\n')
}

// Linef is Line with Sprintf-style formatting.
func (c *Ctx) Linef(format string, args ...any) {
	c.Line(fmt.Sprintf(format, args...))
}

// ResetRoutine clears every piece of per-routine scratch state before
// emitting a new routine's body: the register descriptor, frame size,
// parameter size, and spilled-temp slot table. Nothing here survives
// past the routine it was built for (§5 "routine-scoped lifetime").
func (c *Ctx) ResetRoutine(routine *ir.Object, frameSize, autosSize, paramBytes int) {
	c.Desc.ClearAll()
	c.routine = routine
	c.frameSize = frameSize
	c.autosSize = autosSize
	c.paramBytes = paramBytes
	c.tempSlots = make(map[*ir.Object]int)
	c.nextTempSlot = 0
}

// NewLabel returns a fresh, routine-unique label name.
func (c *Ctx) NewLabel(prefix string) string {
	c.labelSeq++
	return fmt.Sprintf("%s_%d", prefix, c.labelSeq)
}

// PointerSize is the machine word width in bytes for the context's mode.
func (c *Ctx) PointerSize() int { return c.Mode.PointerSize() }
