// Package simplify implements the per-instruction local rewriter: constant
// folding, algebraic simplification, canonicalization, division/modulo trap
// lowering, and trivial inlining of direct calls.
package simplify

import "github.com/irx-lang/irx-optimizer/pkg/ir"

const signBit64 = uint64(1) << 63

// Fold evaluates a binop's two's-complement 64-bit arithmetic, exactly as
// the simplifier's constant-folding rule does when both operands are abs.
// It is exported as the reference interpreter for round-trip testing;
// callers must ensure b != 0 for the division/remainder ops themselves,
// since the trap cases (literal-zero divisor, INT64_MIN/-1) are lowered
// before Fold is ever reached.
func Fold(op ir.BinOp, a, b uint64) uint64 {
	switch op {
	case ir.Add:
		return a + b
	case ir.Sub:
		return a - b
	case ir.UMul:
		return a * b
	case ir.SMul:
		return uint64(int64(a) * int64(b))
	case ir.UDiv:
		return a / b
	case ir.URem:
		return a % b
	case ir.SDiv:
		return uint64(int64(a) / int64(b))
	case ir.SRem:
		return uint64(int64(a) % int64(b))
	case ir.And:
		return a & b
	case ir.Or:
		return a | b
	case ir.Xor:
		return a ^ b
	case ir.Shl:
		return a << (b & 0x3F)
	case ir.Ushr:
		return a >> (b & 0x3F)
	case ir.Sshr:
		return uint64(int64(a) >> (b & 0x3F))
	default:
		panic("simplify: unknown binop")
	}
}

// negate64 computes the two's-complement negation of v.
func negate64(v uint64) uint64 {
	return ^v + 1
}
