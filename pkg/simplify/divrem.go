package simplify

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

func isDivRem(op ir.BinOp) bool {
	switch op {
	case ir.UDiv, ir.URem, ir.SDiv, ir.SRem:
		return true
	default:
		return false
	}
}

// simplifyDivRem lowers the three trap-or-guard hazards a division or
// remainder carries at runtime, in priority order: a literal-zero divisor
// and signed INT64_MIN/-1 overflow are unconditional traps; a zero literal
// dividend against a variable divisor, and self-division of a vreg against
// itself, still trap when the (unknown at compile time) divisor is zero, so
// they lower to a runtime guard rather than folding outright.
func simplifyDivRem(insn *ir.BinopInsn) bool {
	if k, ok := operand.As[*operand.Abs](insn.Rhs); ok && k.Value == 0 {
		trap(insn)
		return true
	}

	if insn.Op == ir.SDiv || insn.Op == ir.SRem {
		if a, ok := operand.As[*operand.Abs](insn.Lhs); ok && a.Value == signBit64 {
			if b, ok := operand.As[*operand.Abs](insn.Rhs); ok && b.Value == ^uint64(0) {
				trap(insn)
				return true
			}
		}
	}

	if a, ok := operand.As[*operand.Abs](insn.Lhs); ok && a.Value == 0 {
		if _, rhsAbs := operand.As[*operand.Abs](insn.Rhs); !rhsAbs {
			guardZeroDividend(insn)
			return true
		}
	}

	if lv, ok := operand.As[*operand.VReg](insn.Lhs); ok {
		if rv, ok := operand.As[*operand.VReg](insn.Rhs); ok && lv == rv {
			guardSelfDivide(insn)
			return true
		}
	}
	if sameRelocatable(insn.Lhs, insn.Rhs) {
		guardSelfDivide(insn)
		return true
	}

	return false
}

// trap replaces insn and every instruction after it with an unconditional
// oops: the block is split at insn (leaving the split-off tail unreachable,
// to be swept up by a later CFG GC pass) and the original block is closed
// with a trap.
func trap(insn *ir.BinopInsn) {
	b := insn.Owner()
	ir.SplitAt(insn)
	ir.NewOops(ir.AtEnd(b))
}

// guardZeroDividend handles `abs(0) op rhs` where rhs is not a literal
// constant (a vreg or a relocatable): the result is abs(0) whenever rhs !=
// 0, but the instruction must still trap when rhs == 0, so the constant
// fold is guarded by a runtime branch rather than applied unconditionally.
func guardZeroDividend(insn *ir.BinopInsn) {
	b := insn.Owner()
	tail := ir.SplitAt(insn)
	trapBlock := ir.MakeBBlockAfter(b)
	ir.NewOops(ir.AtEnd(trapBlock))
	ir.NewBr(ir.AtEnd(b), ir.BEq, insn.Rhs, operand.MakeAbs(0), trapBlock, tail)

	ir.NewMov(ir.Before(insn), operand.MakeAbs(0), insn.Dest)
	ir.Eliminate(insn)
}

// guardSelfDivide handles `v op v` for a vreg v, and the same case for two
// operands that denote the same relocatable (same symbol and addendum): div
// folds to 1 and rem folds to 0 whenever the shared value != 0 at runtime,
// guarded the same way as guardZeroDividend.
func guardSelfDivide(insn *ir.BinopInsn) {
	b := insn.Owner()
	tail := ir.SplitAt(insn)
	trapBlock := ir.MakeBBlockAfter(b)
	ir.NewOops(ir.AtEnd(trapBlock))
	ir.NewBr(ir.AtEnd(b), ir.BEq, insn.Lhs, operand.MakeAbs(0), trapBlock, tail)

	var result uint64
	switch insn.Op {
	case ir.UDiv, ir.SDiv:
		result = 1
	case ir.URem, ir.SRem:
		result = 0
	}
	ir.NewMov(ir.Before(insn), operand.MakeAbs(result), insn.Dest)
	ir.Eliminate(insn)
}
