package simplify

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// simplifyBr canonicalizes a two-way branch (pushing an immediate lhs to
// the right of an equality test) and folds it to an unconditional jmp when
// both sides are compile-time known.
func simplifyBr(insn *ir.BrInsn) bool {
	changed := false

	if insn.Op == ir.BEq && operand.IsImmediate(insn.Lhs) && !operand.IsImmediate(insn.Rhs) {
		insn.Lhs, insn.Rhs = insn.Rhs, insn.Lhs
		changed = true
	}

	if taken, ok := evalBr(insn); ok {
		dest := insn.NotTaken
		if taken {
			dest = insn.Taken
		}
		ir.NewJmp(ir.Before(insn), dest)
		ir.Eliminate(insn)
		return true
	}

	return changed
}

// evalBr reports the statically-known outcome of insn's comparison, if any.
func evalBr(insn *ir.BrInsn) (taken bool, ok bool) {
	switch insn.Op {
	case ir.BEq:
		if operand.ValueEqual(insn.Lhs, insn.Rhs) {
			return true, true
		}
		if operand.IsImmediate(insn.Lhs) && operand.IsImmediate(insn.Rhs) {
			return false, true
		}
	case ir.BULt:
		if a, aok := operand.As[*operand.Abs](insn.Lhs); aok {
			if b, bok := operand.As[*operand.Abs](insn.Rhs); bok {
				return a.Value < b.Value, true
			}
		}
	case ir.BSLt:
		if a, aok := operand.As[*operand.Abs](insn.Lhs); aok {
			if b, bok := operand.As[*operand.Abs](insn.Rhs); bok {
				return int64(a.Value) < int64(b.Value), true
			}
		}
	}
	return false, false
}

// simplifySwitchBr folds a switch_br with a compile-time-known index to an
// unconditional jmp to the selected arm, or a trap when the index is out of
// range.
func simplifySwitchBr(insn *ir.SwitchBrInsn) bool {
	idx, ok := operand.As[*operand.Abs](insn.Index)
	if !ok {
		return false
	}
	if idx.Value < uint64(len(insn.Dests)) {
		ir.NewJmp(ir.Before(insn), insn.Dests[idx.Value])
	} else {
		ir.NewOops(ir.Before(insn))
	}
	ir.Eliminate(insn)
	return true
}
