package dataflow

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// TransformCopyPropag runs the same backward/predecessor walk as constant
// propagation, but looking for `mov src_vreg -> vr` and requiring that
// nothing between the definition
// and the use redefines src_vreg. Every predecessor path must agree on the
// same source vreg.
func TransformCopyPropag(proc *ir.Procedure) bool {
	changed := false
	for _, b := range proc.Blocks() {
		for cur := b.Head(); cur != nil; cur = cur.Next() {
			replace := func(o operand.Operand) operand.Operand {
				v, ok := operand.As[*operand.VReg](o)
				if !ok {
					return o
				}
				src, ok := resolveCopy(b, cur.Prev(), v, map[*ir.BasicBlock]bool{}, map[*operand.VReg]bool{})
				if !ok {
					return o
				}
				changed = true
				return src
			}
			rewriteUses(cur, replace)
		}
	}
	return changed
}

// resolveCopy mirrors resolveConst but tracks, as it walks backward, every
// vreg redefined along the way (killed) so that a copy source clobbered
// between its mov and the use disqualifies the propagation.
func resolveCopy(b *ir.BasicBlock, from ir.Instruction, v *operand.VReg, visited map[*ir.BasicBlock]bool, killed map[*operand.VReg]bool) (*operand.VReg, bool) {
	for cur := from; cur != nil; cur = cur.Prev() {
		if mv, ok := cur.(*ir.MovInsn); ok && mv.Dest == v {
			src, ok := operand.As[*operand.VReg](mv.Src)
			if !ok || killed[src] {
				return nil, false
			}
			return src, true
		}
		for _, out := range cur.Outputs() {
			if out == v {
				return nil, false
			}
			if out != nil {
				killed[out] = true
			}
		}
	}

	if visited[b] {
		return nil, false
	}
	visited[b] = true
	if len(b.Preds) == 0 {
		return nil, false
	}

	var result *operand.VReg
	for _, p := range b.Preds {
		k := make(map[*operand.VReg]bool, len(killed))
		for kv := range killed {
			k[kv] = true
		}
		val, ok := resolveCopy(p, p.Rear(), v, visited, k)
		if !ok {
			return nil, false
		}
		if result == nil {
			result = val
		} else if result != val {
			return nil, false
		}
	}
	return result, result != nil
}
