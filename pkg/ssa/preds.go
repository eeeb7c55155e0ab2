// Package ssa constructs minimal (non-pruned) SSA form: predecessor lists,
// Cooper-Harvey-Kennedy dominators, dominance frontiers, phi placement, and
// scoped-stack renaming.
package ssa

import "github.com/irx-lang/irx-optimizer/pkg/ir"

// updatePreds recomputes every block's predecessor list by a preorder
// depth-first walk from the entry, pushing each CFG edge exactly once.
// Two edges from the same terminator to the same block (e.g. both arms of
// a br targeting the same block) coalesce into a single predecessor entry.
func updatePreds(proc *ir.Procedure) []*ir.BasicBlock {
	for _, b := range proc.Blocks() {
		b.Preds = nil
		b.ResetPredCursor()
	}

	entry := proc.Entry()
	if entry == nil {
		return nil
	}

	var reachable []*ir.BasicBlock
	visited := map[*ir.BasicBlock]bool{}
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		if visited[b] {
			return
		}
		visited[b] = true
		reachable = append(reachable, b)

		term := b.Terminator()
		if term == nil {
			return
		}
		seen := map[*ir.BasicBlock]bool{}
		for _, succ := range term.Targets() {
			if succ == nil || seen[succ] {
				continue
			}
			seen[succ] = true
			succ.Preds = append(succ.Preds, b)
			visit(succ)
		}
	}
	visit(entry)
	return reachable
}
