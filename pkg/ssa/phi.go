package ssa

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// atHead returns an insertion point immediately before b's current first
// instruction, or at the end of b if it is empty. Calling this repeatedly
// as new phis are inserted keeps them all contiguous at the block's head,
// regardless of insertion order.
func atHead(b *ir.BasicBlock) ir.InsertionPoint {
	if h := b.Head(); h != nil {
		return ir.Before(h)
	}
	return ir.AtEnd(b)
}

// placePhis performs minimal (non-pruned) phi placement: for every vreg
// defined outside of a phi, placement propagates
// through the dominance-frontier closure, inserting `phi vr,...,vr -> vr`
// (the same vreg in every argument slot, to be overwritten by renaming) at
// the head of every block in the closure. A per-vreg visited set guards
// against placing the same phi twice.
//
// The returned map records, for each phi inserted, the original vreg it
// was placed for — renaming needs this once it has overwritten Dest and
// the placeholder Args with fresh per-predecessor names.
func placePhis(reachable []*ir.BasicBlock, df map[*ir.BasicBlock]map[*ir.BasicBlock]bool) map[*ir.PhiInsn]*operand.VReg {
	defSites := map[*operand.VReg][]*ir.BasicBlock{}
	for _, b := range reachable {
		for cur := b.Head(); cur != nil; cur = cur.Next() {
			if _, ok := cur.(*ir.PhiInsn); ok {
				continue
			}
			for _, out := range cur.Outputs() {
				if out != nil {
					defSites[out] = append(defSites[out], b)
				}
			}
		}
	}

	phiOrig := map[*ir.PhiInsn]*operand.VReg{}
	for v, sites := range defSites {
		hasDef := map[*ir.BasicBlock]bool{}
		hasPhi := map[*ir.BasicBlock]bool{}
		worklist := append([]*ir.BasicBlock(nil), sites...)
		for _, s := range sites {
			hasDef[s] = true
		}

		for len(worklist) > 0 {
			b := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			for d := range df[b] {
				if hasPhi[d] {
					continue
				}
				hasPhi[d] = true

				args := make([]operand.Operand, len(d.Preds))
				for i := range args {
					args[i] = v
				}
				phi := ir.NewPhi(atHead(d), args, v)
				phiOrig[phi] = v

				if !hasDef[d] {
					worklist = append(worklist, d)
				}
			}
		}
	}
	return phiOrig
}
