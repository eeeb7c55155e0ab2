package ssa

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// assignNumbers gives every block and every distinct vreg appearing in
// proc a dense sequence number, in the
// procedure's own head-to-rear / instruction order. Nothing downstream
// depends on the exact numbering scheme; it exists so later stages (and
// pkg/irprint) have a stable, compact index instead of a raw pointer.
func assignNumbers(proc *ir.Procedure) {
	blockNum := 0
	vregNum := 0
	seen := map[*operand.VReg]bool{}

	numberVReg := func(v *operand.VReg) {
		if v == nil || seen[v] {
			return
		}
		seen[v] = true
		v.Num = vregNum
		vregNum++
	}

	for _, b := range proc.Blocks() {
		b.Num = blockNum
		blockNum++
		for cur := b.Head(); cur != nil; cur = cur.Next() {
			for _, out := range cur.Outputs() {
				numberVReg(out)
			}
			for _, in := range cur.Inputs() {
				if v, ok := operand.As[*operand.VReg](in); ok {
					numberVReg(v)
				}
			}
		}
	}
}
