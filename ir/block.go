package ir

import "mplcg/diag"

// Block is a non-empty ordered sequence of instructions with exactly one
// leader at the head and at most one terminator at the tail. It is the
// unit of liveness analysis and, once formed, owned exclusively by its
// routine.
type Block struct {
	Instructions []Instruction
}

// NewBlock constructs an empty block. The Block Former is responsible for
// never exposing an empty block past its own algorithm (§4.2 "Blocks are
// non-empty on emit").
func NewBlock() *Block {
	return &Block{}
}

func (b *Block) Append(inst Instruction) {
	b.Instructions = append(b.Instructions, inst)
}

func (b *Block) Len() int { return len(b.Instructions) }

// Validate checks the non-empty invariant, raising EmptyBlock otherwise.
func (b *Block) Validate() error {
	if len(b.Instructions) == 0 {
		return diag.Errorf(diag.EmptyBlock, "ir.Block.Validate", "")
	}
	return nil
}

// Terminator returns the block's terminating instruction, if any (a block
// may legitimately fall through to the next with no terminator).
func (b *Block) Terminator() (Instruction, bool) {
	if len(b.Instructions) == 0 {
		return Instruction{}, false
	}
	last := b.Instructions[len(b.Instructions)-1]
	if last.Op.Terminator() {
		return last, true
	}
	return Instruction{}, false
}

// RemoveAt deletes the instruction at index i, preserving order. Used
// exclusively by the liveness pass to prune dead-temp-producing
// instructions.
func (b *Block) RemoveAt(i int) {
	b.Instructions = append(b.Instructions[:i], b.Instructions[i+1:]...)
}
