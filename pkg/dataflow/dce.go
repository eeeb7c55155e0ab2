package dataflow

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// TransformDCE eliminates instructions that contribute to no side effect
// and no control transfer. It marks every instruction reachable, in
// use->def order, from the procedure's impure instructions — call, load,
// store, oops, a div/rem whose divisor isn't provably safe, and every
// terminator, none of which IsPure reports as pure — by following each
// vreg input back to the instruction that defines it, then eliminates
// whatever is left unmarked. Each block's entry is rooted explicitly,
// since it is otherwise pure but must survive regardless of whether its
// parameters are read.
//
// This is a liveness sweep, not a "does anything read my output"
// check: it correctly removes a computation whose only readers are
// themselves dead, including a dead cycle split across two or more
// blocks, and it never strands a phi whose surviving use is its own
// back-edge argument.
func TransformDCE(proc *ir.Procedure) bool {
	def := map[*operand.VReg]ir.Instruction{}
	var all []ir.Instruction
	for _, b := range proc.Blocks() {
		for cur := b.Head(); cur != nil; cur = cur.Next() {
			all = append(all, cur)
			for _, out := range cur.Outputs() {
				if out != nil {
					def[out] = cur
				}
			}
		}
	}

	visited := make(map[ir.Instruction]bool, len(all))
	var mark func(insn ir.Instruction)
	mark = func(insn ir.Instruction) {
		if visited[insn] {
			return
		}
		visited[insn] = true
		for _, in := range insn.Inputs() {
			if v, ok := operand.As[*operand.VReg](in); ok {
				if src, ok := def[v]; ok {
					mark(src)
				}
			}
		}
	}
	for _, insn := range all {
		if _, ok := insn.(*ir.EntryInsn); ok {
			mark(insn)
			continue
		}
		if !insn.IsPure() {
			mark(insn)
		}
	}

	changed := false
	for _, insn := range all {
		if !visited[insn] {
			ir.Eliminate(insn)
			changed = true
		}
	}
	return changed
}
