package ir

import "github.com/irx-lang/irx-optimizer/pkg/operand"

// Procedure is a named callable collection of basic blocks; it is also an
// operand kind (the "proc" subcase of rel_base). It owns an ordered list
// of basic blocks; the head block is the entry.
type Procedure struct {
	id      operand.SymbolID
	relBase *operand.RelBase

	head, rear *BasicBlock
}

// NewProcedure creates an empty procedure identified by id, and binds its
// rel_base operand so it may be used as a call target.
func NewProcedure(id operand.SymbolID) *Procedure {
	p := &Procedure{id: id}
	p.relBase = operand.MakeRelBase(id)
	p.relBase.BindProc(p)
	return p
}

// SymbolID implements operand.ProcPayload.
func (p *Procedure) SymbolID() operand.SymbolID { return p.id }

// Operand returns the rel_base operand denoting this procedure, for use as
// a call instruction's callee.
func (p *Procedure) Operand() *operand.RelBase { return p.relBase }

// Head returns the entry block, or nil if the procedure has no blocks yet.
func (p *Procedure) Head() *BasicBlock { return p.head }

// Entry is an alias for Head; both names are in use for the first block
// depending on context.
func (p *Procedure) Entry() *BasicBlock { return p.head }

// Rear returns the last block in procedure order.
func (p *Procedure) Rear() *BasicBlock { return p.rear }

// Blocks snapshots the procedure's blocks, head to rear, into a fresh
// slice, for passes that mutate the block list while iterating.
func (p *Procedure) Blocks() []*BasicBlock {
	var out []*BasicBlock
	for b := p.head; b != nil; b = b.next {
		out = append(out, b)
	}
	return out
}
