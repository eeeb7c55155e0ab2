package ssa

import "github.com/irx-lang/irx-optimizer/pkg/ir"

// TransformToSSA converts proc to minimal (non-pruned) SSA form in place:
// predecessor lists are rebuilt, dominators and dominance frontiers are
// computed, phis are placed at every join point a definition reaches, and
// every vreg def/use is renamed so each vreg has exactly one static
// definition.
//
// Blocks unreachable from the entry are left untouched; a later
// TransformCFGGC sweep is expected to remove them.
func TransformToSSA(proc *ir.Procedure) {
	entry := proc.Entry()
	if entry == nil {
		return
	}

	assignNumbers(proc)
	reachable := updatePreds(proc)
	idom, _ := computeDominators(entry)
	df := computeDominanceFrontiers(reachable, idom)
	phiOrig := placePhis(reachable, df)
	renameAll(entry, phiOrig)
}
