// Package dataflow implements the iterative whole-procedure passes that sit
// between the per-instruction simplifier and the pipeline driver: constant
// and copy propagation, dead code elimination, CFG garbage collection and
// block merging, and the predecessor-list maintenance they all depend on.
package dataflow

import "github.com/irx-lang/irx-optimizer/pkg/ir"

// UpdateCFGPreds recomputes every block's predecessor list by scanning
// terminators reachable from the entry. Duplicate edges from the same
// predecessor (e.g. both arms of a br to the same block) coalesce to a
// single entry. The pipeline driver re-runs this at the top of every sweep,
// since every other pass in this package assumes it is current.
func UpdateCFGPreds(proc *ir.Procedure) {
	for _, b := range proc.Blocks() {
		b.Preds = nil
	}
	entry := proc.Entry()
	if entry == nil {
		return
	}
	visited := map[*ir.BasicBlock]bool{}
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		if visited[b] {
			return
		}
		visited[b] = true
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
}
