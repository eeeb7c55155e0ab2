package simplify

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

func simplifyBinop(insn *ir.BinopInsn) bool {
	changed := false

	// Canonicalization: sub lhs, abs(k) -> add lhs, abs(-k). Doing this
	// first means every later rule only ever has to consider Add, never
	// Sub-with-an-immediate-rhs.
	if insn.Op == ir.Sub {
		if k, ok := operand.As[*operand.Abs](insn.Rhs); ok {
			insn.Op = ir.Add
			insn.Rhs = operand.MakeAbs(negate64(k.Value))
			changed = true
		}
	}

	// Canonicalization: for commutative ops, push an immediate operand to
	// the right when the other side is not also an immediate.
	if insn.Op.Commutative() && operand.IsImmediate(insn.Lhs) && !operand.IsImmediate(insn.Rhs) {
		insn.Lhs, insn.Rhs = insn.Rhs, insn.Lhs
		changed = true
	}

	if isDivRem(insn.Op) {
		if simplifyDivRem(insn) {
			return true
		}
	}

	if result, ok := applyIdentity(insn); ok {
		replaceBinop(insn, result)
		return true
	}

	if result, ok := foldRelocatable(insn); ok {
		replaceBinop(insn, result)
		return true
	}

	if a, ok := operand.As[*operand.Abs](insn.Lhs); ok {
		if b, ok := operand.As[*operand.Abs](insn.Rhs); ok {
			replaceBinop(insn, operand.MakeAbs(Fold(insn.Op, a.Value, b.Value)))
			return true
		}
	}

	return changed
}

// replaceBinop rewrites insn into `mov result -> dest`, per the simplifier's
// contract that it may delete `this` and insert new instructions before it.
func replaceBinop(insn *ir.BinopInsn, result operand.Operand) {
	ir.NewMov(ir.Before(insn), result, insn.Dest)
	ir.Eliminate(insn)
}

// applyIdentity implements the identity/absorbing-element rules (e.g.
// `add x, 0`, `mul x, 1`, `mul x, 0`, `and x, -1`). It returns the operand
// the binop collapses to.
func applyIdentity(insn *ir.BinopInsn) (operand.Operand, bool) {
	lhs, rhs := insn.Lhs, insn.Rhs
	rhsAbs, rhsIsAbs := operand.As[*operand.Abs](rhs)
	lhsAbs, lhsIsAbs := operand.As[*operand.Abs](lhs)
	sameRef := lhs == rhs

	switch insn.Op {
	case ir.Add:
		if rhsIsAbs && rhsAbs.Value == 0 {
			return lhs, true
		}
	case ir.Sub:
		if rhsIsAbs && rhsAbs.Value == 0 {
			return lhs, true
		}
		if sameRef {
			return operand.MakeAbs(0), true
		}
	case ir.UMul, ir.SMul:
		if rhsIsAbs {
			if rhsAbs.Value == 1 {
				return lhs, true
			}
			if rhsAbs.Value == 0 {
				return operand.MakeAbs(0), true
			}
		}
	case ir.UDiv, ir.SDiv:
		if rhsIsAbs && rhsAbs.Value == 1 {
			return lhs, true
		}
	case ir.URem, ir.SRem:
		if rhsIsAbs && rhsAbs.Value == 1 {
			return operand.MakeAbs(0), true
		}
	case ir.And:
		if rhsIsAbs {
			if rhsAbs.Value == ^uint64(0) {
				return lhs, true
			}
			if rhsAbs.Value == 0 {
				return operand.MakeAbs(0), true
			}
		}
		if sameRef || sameRelocatable(lhs, rhs) {
			return lhs, true
		}
	case ir.Or:
		if rhsIsAbs {
			if rhsAbs.Value == 0 {
				return lhs, true
			}
			if rhsAbs.Value == ^uint64(0) {
				return operand.MakeAbs(^uint64(0)), true
			}
		}
		if sameRef || sameRelocatable(lhs, rhs) {
			return lhs, true
		}
	case ir.Xor:
		if rhsIsAbs && rhsAbs.Value == 0 {
			return lhs, true
		}
		if sameRef {
			return operand.MakeAbs(0), true
		}
	case ir.Shl, ir.Ushr, ir.Sshr:
		if rhsIsAbs && (rhsAbs.Value&0x3F) == 0 {
			return lhs, true
		}
		if lhsIsAbs && lhsAbs.Value == 0 {
			return operand.MakeAbs(0), true
		}
	}
	return nil, false
}

// sameRelocatable reports whether a and b are both relocatables (rel_base
// or rel_disp) denoting the same symbol id and addendum — the "known to be
// the same relocatable" identity rule behind `and x, x` / `or x, x` and the
// self-division guard when x is a relocatable rather than a vreg.
func sameRelocatable(a, b operand.Operand) bool {
	aID, aAdd, aOK := operand.RelBaseID(a)
	if !aOK {
		return false
	}
	bID, bAdd, bOK := operand.RelBaseID(b)
	return bOK && aID == bID && aAdd == bAdd
}

// foldRelocatable implements relocatable arithmetic: add of a relocatable
// and an abs folds to a rel_disp (or back to the base when the resulting
// addendum is zero); sub of two relocatables with equal symbol id folds to
// the difference of their addenda.
func foldRelocatable(insn *ir.BinopInsn) (operand.Operand, bool) {
	switch insn.Op {
	case ir.Add:
		if base, add, ok := relocatableParts(insn.Lhs); ok {
			if k, ok := operand.As[*operand.Abs](insn.Rhs); ok {
				return operand.MakeRelDisp(base, add+k.Value), true
			}
		}
		if base, add, ok := relocatableParts(insn.Rhs); ok {
			if k, ok := operand.As[*operand.Abs](insn.Lhs); ok {
				return operand.MakeRelDisp(base, add+k.Value), true
			}
		}
	case ir.Sub:
		idA, addA, okA := operand.RelBaseID(insn.Lhs)
		idB, addB, okB := operand.RelBaseID(insn.Rhs)
		if okA && okB && idA == idB {
			return operand.MakeAbs(addA - addB), true
		}
	}
	return nil, false
}

// relocatableParts extracts the underlying *RelBase and addendum of o,
// whether o is a bare RelBase (addendum 0) or a RelDisp.
func relocatableParts(o operand.Operand) (*operand.RelBase, uint64, bool) {
	switch v := o.(type) {
	case *operand.RelBase:
		return v, 0, true
	case *operand.RelDisp:
		return v.Base, v.Add, true
	default:
		return nil, 0, false
	}
}
