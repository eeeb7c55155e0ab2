package simplify

import (
	"testing"

	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

func TestSimplifyDivByLiteralZeroTraps(t *testing.T) {
	_, b := newTestProc()
	x := operand.MakeVReg()
	d := operand.MakeVReg()
	binop := ir.NewBinop(ir.AtEnd(b), ir.UDiv, x, operand.MakeAbs(0), d)

	if !Simplify(binop) {
		t.Fatal("expected literal-zero divisor to be lowered")
	}
	if _, ok := b.Terminator().(*ir.OopsInsn); !ok {
		t.Errorf("expected block to end in oops, got %T", b.Terminator())
	}
}

func TestSimplifyINT64MinDivNegOneTraps(t *testing.T) {
	_, b := newTestProc()
	d := operand.MakeVReg()
	binop := ir.NewBinop(ir.AtEnd(b), ir.SDiv, operand.MakeAbs(signBit64), operand.MakeAbs(^uint64(0)), d)

	if !Simplify(binop) {
		t.Fatal("expected INT64_MIN/-1 to be lowered to a trap")
	}
	if _, ok := b.Terminator().(*ir.OopsInsn); !ok {
		t.Errorf("expected block to end in oops, got %T", b.Terminator())
	}
}

func TestSimplifyZeroDividendGuard(t *testing.T) {
	_, b := newTestProc()
	rhs := operand.MakeVReg()
	d := operand.MakeVReg()
	binop := ir.NewBinop(ir.AtEnd(b), ir.UDiv, operand.MakeAbs(0), rhs, d)

	if !Simplify(binop) {
		t.Fatal("expected zero-dividend/variable-divisor to be guarded")
	}
	br, ok := b.Terminator().(*ir.BrInsn)
	if !ok {
		t.Fatalf("expected block to end in a guard branch, got %T", b.Terminator())
	}
	if br.Op != ir.BEq {
		t.Errorf("expected beq guard, got %v", br.Op)
	}
	if _, ok := br.Taken.Terminator().(*ir.OopsInsn); !ok {
		t.Error("expected the taken (divisor == 0) arm to trap")
	}
}

func TestSimplifySelfDivideGuard(t *testing.T) {
	_, b := newTestProc()
	x := operand.MakeVReg()
	d := operand.MakeVReg()
	binop := ir.NewBinop(ir.AtEnd(b), ir.SRem, x, x, d)

	if !Simplify(binop) {
		t.Fatal("expected x%x to be guarded")
	}
	br, ok := b.Terminator().(*ir.BrInsn)
	if !ok {
		t.Fatalf("expected block to end in a guard branch, got %T", b.Terminator())
	}
	if _, ok := br.Taken.Terminator().(*ir.OopsInsn); !ok {
		t.Error("expected the taken (x == 0) arm to trap")
	}
}

func TestSimplifySelfDivideGuardSameRelocatable(t *testing.T) {
	_, b := newTestProc()
	base := operand.MakeRelBase(operand.RandomSymbolID())
	d := operand.MakeVReg()
	binop := ir.NewBinop(ir.AtEnd(b), ir.UDiv, base, base, d)

	if !Simplify(binop) {
		t.Fatal("expected rel_S/rel_S to be guarded")
	}
	br, ok := b.Terminator().(*ir.BrInsn)
	if !ok {
		t.Fatalf("expected block to end in a guard branch, got %T", b.Terminator())
	}
	if _, ok := br.Taken.Terminator().(*ir.OopsInsn); !ok {
		t.Error("expected the taken (rel == 0) arm to trap")
	}
}
