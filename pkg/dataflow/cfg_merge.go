package dataflow

import "github.com/irx-lang/irx-optimizer/pkg/ir"

// TransformCFGMerge splices every block with exactly one predecessor whose
// terminator is a plain jmp onto that predecessor, then removes it. Callers
// running this on code that may still carry phis must resolve them first;
// this pass does not itself account for phi arity.
func TransformCFGMerge(proc *ir.Procedure) bool {
	changed := false
	for _, b := range proc.Blocks() {
		if b == proc.Entry() || len(b.Preds) != 1 {
			continue
		}
		pred := b.Preds[0]
		if pred == b {
			continue
		}
		jmp, ok := pred.Terminator().(*ir.JmpInsn)
		if !ok || jmp.Dest != b {
			continue
		}

		ir.Eliminate(jmp)
		for _, insn := range b.Insns() {
			ir.Reattach(insn, ir.AtEnd(pred))
		}
		ir.EliminateBBlock(b)
		changed = true
	}
	return changed
}
