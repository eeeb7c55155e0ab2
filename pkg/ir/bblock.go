package ir

import (
	"golang.org/x/exp/slices"

	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// BasicBlock is a maximal straight-line sequence of instructions ending in
// exactly one terminator. It is owned by exactly one Procedure and owns an
// ordered list of instructions.
//
// Preds, Num, and Visited are scratch fields: each pass that needs them
// (re)initializes them at entry.
type BasicBlock struct {
	owner      *Procedure
	next, prev *BasicBlock

	head, rear Instruction

	// Preds holds the current predecessor list, recomputed by
	// dataflow.UpdateCFGPreds at the top of every pipeline sweep.
	Preds []*BasicBlock
	// Num is a dense block number, assigned by pkg/ssa's numbering stage.
	Num int
	// Visited is a generic scratch flag for DFS-shaped passes. The passes in
	// this module keep their own visited maps and do not read or set it.
	// Callers must clear it before use.
	Visited bool
	// predCursor tracks, during SSA renaming, how many of this block's
	// predecessors have been visited so far, so each CFG edge writes its
	// phi argument into the correct slot exactly once.
	predCursor int
}

func (b *BasicBlock) Owner() *Procedure { return b.owner }
func (b *BasicBlock) Next() *BasicBlock  { return b.next }
func (b *BasicBlock) Prev() *BasicBlock  { return b.prev }

// Head returns the first instruction of the block, or nil if empty.
func (b *BasicBlock) Head() Instruction { return b.head }

// Rear returns the last instruction of the block (its terminator, once the
// block is well-formed), or nil if empty.
func (b *BasicBlock) Rear() Instruction { return b.rear }

// Terminator returns the block's terminator instruction, or nil if the
// block has not yet been given one.
func (b *BasicBlock) Terminator() Instruction {
	if b.rear == nil || !b.rear.IsTerminator() {
		return nil
	}
	return b.rear
}

// Insns snapshots the block's instructions, head to rear, into a fresh
// slice. This is the "stable iteration" helper passes reach for when they
// insert or eliminate siblings while iterating: they must iterate over a
// snapshot, not the live list.
func (b *BasicBlock) Insns() []Instruction {
	var out []Instruction
	for i := b.head; i != nil; i = i.Next() {
		out = append(out, i)
	}
	return out
}

// Len reports the number of instructions currently in the block.
func (b *BasicBlock) Len() int {
	n := 0
	for i := b.head; i != nil; i = i.Next() {
		n++
	}
	return n
}

// PredIndex returns the position of pred within b's current predecessor
// list, used to index a phi's argument list. Panics if pred is not a
// current predecessor, treating the invariant as a precondition rather
// than a checked error.
func (b *BasicBlock) PredIndex(pred *BasicBlock) int {
	idx := slices.Index(b.Preds, pred)
	if idx < 0 {
		panic("ir: block is not a predecessor")
	}
	return idx
}

// ResetPredCursor clears the per-block predecessor-edge counter ahead of an
// SSA renaming pass.
func (b *BasicBlock) ResetPredCursor() { b.predCursor = 0 }

// NextPredCursor returns the index of the next predecessor edge to reach
// this block during SSA renaming, then advances the counter. Each distinct
// predecessor traversal consumes exactly one index, in the same relative
// order the predecessor list itself was built in, so the index doubles as
// that predecessor's phi-argument slot.
func (b *BasicBlock) NextPredCursor() int {
	idx := b.predCursor
	b.predCursor++
	return idx
}

// insertBBlockAtEnd appends b to the end of owner's block list.
func (owner *Procedure) insertBBlockAtEnd(b *BasicBlock) {
	b.owner = owner
	b.prev = owner.rear
	b.next = nil
	if owner.rear != nil {
		owner.rear.next = b
	} else {
		owner.head = b
	}
	owner.rear = b
}

// insertBBlockBefore splices b into sibling's procedure immediately before
// sibling.
func insertBBlockBefore(sibling, b *BasicBlock) {
	owner := sibling.owner
	b.owner = owner
	b.next = sibling
	b.prev = sibling.prev
	if sibling.prev != nil {
		sibling.prev.next = b
	} else {
		owner.head = b
	}
	sibling.prev = b
}

// MakeBBlock appends a fresh, empty basic block to the end of parent.
func MakeBBlock(parent *Procedure) *BasicBlock {
	b := &BasicBlock{}
	parent.insertBBlockAtEnd(b)
	return b
}

// insertBBlockAfter splices b into sibling's procedure immediately after
// sibling.
func insertBBlockAfter(sibling, b *BasicBlock) {
	owner := sibling.owner
	b.owner = owner
	b.prev = sibling
	b.next = sibling.next
	if sibling.next != nil {
		sibling.next.prev = b
	} else {
		owner.rear = b
	}
	sibling.next = b
}

// MakeBBlockAfter inserts a fresh, empty basic block immediately after
// sibling, in sibling's own procedure.
func MakeBBlockAfter(sibling *BasicBlock) *BasicBlock {
	b := &BasicBlock{}
	insertBBlockAfter(sibling, b)
	return b
}

// SplitAt carves a new block out of the tail of insn's owning block: insn
// and every instruction after it (including the block's terminator, if
// already present) move into a freshly-created block positioned
// immediately after the original, which is left open (no terminator). The
// caller is responsible for giving the original block a new terminator.
func SplitAt(insn Instruction) *BasicBlock {
	b := insn.Owner()
	tail := MakeBBlockAfter(b)
	var moving []Instruction
	for i := Instruction(insn); i != nil; i = i.Next() {
		moving = append(moving, i)
	}
	for _, i := range moving {
		Reattach(i, AtEnd(tail))
	}
	return tail
}

// Attach places an already-constructed instruction (e.g. the result of
// Instruction.Clone, which is returned detached) at ip.
func Attach(insn Instruction, ip InsertionPoint) {
	ip.place(insn)
}

// RemapVReg returns vregs' image of v, allocating and recording a fresh
// vreg on first sight. Exported for pkg/simplify's call-inlining rule,
// which must pre-seed the map with the callee's parameter vregs before
// cloning the rest of the callee's body.
func RemapVReg(vregs map[*operand.VReg]*operand.VReg, v *operand.VReg) *operand.VReg {
	return remapVReg(vregs, v)
}

// RemapOperand rewrites o through vregs if o is a *operand.VReg, and
// returns o unchanged otherwise.
func RemapOperand(vregs map[*operand.VReg]*operand.VReg, o operand.Operand) operand.Operand {
	return remapOperand(vregs, o)
}

// MakeBBlockBefore inserts a fresh, empty basic block immediately before
// sibling, in sibling's own procedure.
func MakeBBlockBefore(sibling *BasicBlock) *BasicBlock {
	b := &BasicBlock{}
	insertBBlockBefore(sibling, b)
	return b
}

// EliminateBBlock detaches b from its procedure and destroys it, along with
// every instruction it owns.
func EliminateBBlock(b *BasicBlock) {
	owner := b.owner
	if owner == nil {
		return
	}
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		owner.head = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	} else {
		owner.rear = b.prev
	}
	b.owner, b.next, b.prev = nil, nil, nil
	for i := b.head; i != nil; {
		next := i.Next()
		i.header().owner, i.header().next, i.header().prev = nil, nil, nil
		i = next
	}
	b.head, b.rear = nil, nil
}

// ReattachBBlock detaches b and appends it to the end of target, without
// destroying it.
func ReattachBBlock(b *BasicBlock, target *Procedure) {
	EliminateBBlockKeepInsns(b)
	target.insertBBlockAtEnd(b)
}

// EliminateBBlockKeepInsns detaches b from its procedure without destroying
// its instructions, for use by ReattachBBlock.
func EliminateBBlockKeepInsns(b *BasicBlock) {
	owner := b.owner
	if owner == nil {
		return
	}
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		owner.head = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	} else {
		owner.rear = b.prev
	}
	b.owner, b.next, b.prev = nil, nil, nil
}
