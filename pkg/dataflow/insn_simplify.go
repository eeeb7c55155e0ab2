package dataflow

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/simplify"
)

// TransformInsnSimplify runs the local simplifier over a stable snapshot of
// every instruction in the procedure, since simplify.Simplify may eliminate
// and replace the instruction it is called on.
func TransformInsnSimplify(proc *ir.Procedure) bool {
	changed := false
	for _, b := range proc.Blocks() {
		for _, insn := range b.Insns() {
			if simplify.Simplify(insn) {
				changed = true
			}
		}
	}
	return changed
}
