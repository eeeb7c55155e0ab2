package simplify

import "github.com/irx-lang/irx-optimizer/pkg/ir"

// Simplify applies the local per-instruction rewrite rules to insn,
// reporting whether it changed or replaced the instruction. Instructions
// with no applicable rule (entry, mov, load, store, jmp, oops, phi) are
// left untouched and Simplify returns false.
//
// Callers must treat insn as possibly destroyed on a true return: the
// simplifier may have eliminated it and inserted one or more replacement
// instructions immediately before its old position.
func Simplify(insn ir.Instruction) bool {
	switch i := insn.(type) {
	case *ir.BinopInsn:
		return simplifyBinop(i)
	case *ir.BrInsn:
		return simplifyBr(i)
	case *ir.SwitchBrInsn:
		return simplifySwitchBr(i)
	case *ir.CallInsn:
		return simplifyCall(i)
	default:
		return false
	}
}
