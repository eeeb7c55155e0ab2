package dataflow

import "github.com/irx-lang/irx-optimizer/pkg/ir"

// TransformCFGGC runs a DFS from the entry to mark every reachable block,
// then deletes every unmarked block.
func TransformCFGGC(proc *ir.Procedure) bool {
	entry := proc.Entry()
	if entry == nil {
		return false
	}

	visited := map[*ir.BasicBlock]bool{}
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		if visited[b] {
			return
		}
		visited[b] = true
		if term := b.Terminator(); term != nil {
			for _, succ := range term.Targets() {
				if succ != nil {
					visit(succ)
				}
			}
		}
	}
	visit(entry)

	changed := false
	for _, b := range proc.Blocks() {
		if !visited[b] {
			ir.EliminateBBlock(b)
			changed = true
		}
	}
	return changed
}
