// Package pipeline drives the optimizer core's fixed-point sweep over a
// single procedure.
package pipeline

import (
	"github.com/irx-lang/irx-optimizer/pkg/dataflow"
	"github.com/irx-lang/irx-optimizer/pkg/ir"
)

// Optimize runs dataflow.UpdateCFGPreds followed by repeated sweeps of
// constant propagation, copy propagation, dead code elimination, CFG
// garbage collection, instruction simplification, and block merging, until
// a full sweep makes no change.
func Optimize(proc *ir.Procedure) {
	dataflow.UpdateCFGPreds(proc)
	for {
		dataflow.UpdateCFGPreds(proc)
		changed := dataflow.TransformConstPropag(proc)
		changed = dataflow.TransformCopyPropag(proc) || changed
		changed = dataflow.TransformDCE(proc) || changed
		changed = dataflow.TransformCFGGC(proc) || changed
		changed = dataflow.TransformInsnSimplify(proc) || changed
		changed = dataflow.TransformCFGMerge(proc) || changed
		if !changed {
			return
		}
	}
}
