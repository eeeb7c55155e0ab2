package ssa

import "github.com/irx-lang/irx-optimizer/pkg/ir"

// computePostorder walks the CFG from entry and returns its blocks in
// postorder, used by the Cooper-Harvey-Kennedy dominator algorithm's
// finger intersection. entry is always last.
func computePostorder(entry *ir.BasicBlock) []*ir.BasicBlock {
	var order []*ir.BasicBlock
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
		order = append(order, b)
	}
	visit(entry)
	return order
}

// computeDominators implements the Cooper-Harvey-Kennedy iterative
// dominator algorithm: iterate the reverse-postorder of the CFG to a fixed
// point, intersecting each block's processed predecessors' immediate
// dominators using postorder-number fingers.
func computeDominators(entry *ir.BasicBlock) (idom map[*ir.BasicBlock]*ir.BasicBlock, postorder []*ir.BasicBlock) {
	postorder = computePostorder(entry)
	postNum := make(map[*ir.BasicBlock]int, len(postorder))
	for i, b := range postorder {
		postNum[b] = i
	}

	idom = map[*ir.BasicBlock]*ir.BasicBlock{entry: entry}

	intersect := func(a, b *ir.BasicBlock) *ir.BasicBlock {
		for a != b {
			for postNum[a] < postNum[b] {
				a = idom[a]
			}
			for postNum[b] < postNum[a] {
				b = idom[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false
		for i := len(postorder) - 1; i >= 0; i-- {
			b := postorder[i]
			if b == entry {
				continue
			}
			var newIdom *ir.BasicBlock
			for _, p := range b.Preds {
				if _, ok := idom[p]; !ok {
					continue
				}
				if newIdom == nil {
					newIdom = p
				} else {
					newIdom = intersect(newIdom, p)
				}
			}
			if newIdom == nil {
				continue
			}
			if idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	return idom, postorder
}

// computeDominanceFrontiers computes each block's dominance frontier: for
// each block B with more than one predecessor, walk each predecessor P up
// the dominator tree until reaching idom[B], adding B to every block
// visited along the way.
func computeDominanceFrontiers(reachable []*ir.BasicBlock, idom map[*ir.BasicBlock]*ir.BasicBlock) map[*ir.BasicBlock]map[*ir.BasicBlock]bool {
	df := make(map[*ir.BasicBlock]map[*ir.BasicBlock]bool, len(reachable))
	for _, b := range reachable {
		df[b] = map[*ir.BasicBlock]bool{}
	}
	for _, b := range reachable {
		if len(b.Preds) < 2 {
			continue
		}
		stop := idom[b]
		for _, p := range b.Preds {
			for runner := p; runner != stop; runner = idom[runner] {
				df[runner][b] = true
			}
		}
	}
	return df
}
