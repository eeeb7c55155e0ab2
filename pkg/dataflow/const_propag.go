package dataflow

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// TransformConstPropag: for each vreg input of each instruction, walk
// backward through the current block and, failing that, recursively
// through every predecessor,
// looking for a definition of the form `mov imm -> vr` or a `beq vr, imm`
// whose taken edge is the one just traversed. If every predecessor path
// yields the same compile-time value, the use is replaced by it. Iterate
// until a sweep makes no change.
func TransformConstPropag(proc *ir.Procedure) bool {
	changed := false
	for sweep := true; sweep; {
		sweep = false
		for _, b := range proc.Blocks() {
			for cur := b.Head(); cur != nil; cur = cur.Next() {
				replace := func(o operand.Operand) operand.Operand {
					v, ok := operand.As[*operand.VReg](o)
					if !ok {
						return o
					}
					val, ok := resolveConst(b, cur.Prev(), v, map[*ir.BasicBlock]bool{})
					if !ok {
						return o
					}
					sweep = true
					return val
				}
				rewriteUses(cur, replace)
			}
		}
		changed = changed || sweep
	}
	return changed
}

// resolveConst searches backward from `from` (inclusive, may be nil)
// within b for a definition of v, recursing into b's predecessors on a
// block-boundary miss. It returns the single compile-time value every path
// agrees on, if any.
func resolveConst(b *ir.BasicBlock, from ir.Instruction, v *operand.VReg, visited map[*ir.BasicBlock]bool) (operand.Operand, bool) {
	for cur := from; cur != nil; cur = cur.Prev() {
		if mv, ok := cur.(*ir.MovInsn); ok && mv.Dest == v {
			if operand.IsImmediate(mv.Src) {
				return mv.Src, true
			}
			return nil, false
		}
		for _, out := range cur.Outputs() {
			if out == v {
				return nil, false
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

	var result operand.Operand
	for _, p := range b.Preds {
		val, ok := constFromEdge(p, b, v, visited)
		if !ok {
			return nil, false
		}
		if result == nil {
			result = val
		} else if !operand.ValueEqual(result, val) {
			return nil, false
		}
	}
	return result, result != nil
}

// constFromEdge checks whether p's terminator itself proves v's value along
// the p->b edge (a beq whose not-equal target is not b, i.e. b is only
// reached when the comparison holds), before falling back to a plain
// backward search through p.
func constFromEdge(p, b *ir.BasicBlock, v *operand.VReg, visited map[*ir.BasicBlock]bool) (operand.Operand, bool) {
	if br, ok := p.Terminator().(*ir.BrInsn); ok && br.Op == ir.BEq && br.NotTaken != b {
		if lv, ok := operand.As[*operand.VReg](br.Lhs); ok && lv == v && operand.IsImmediate(br.Rhs) {
			return br.Rhs, true
		}
		if rv, ok := operand.As[*operand.VReg](br.Rhs); ok && rv == v && operand.IsImmediate(br.Lhs) {
			return br.Lhs, true
		}
	}
	return resolveConst(p, p.Rear(), v, visited)
}
