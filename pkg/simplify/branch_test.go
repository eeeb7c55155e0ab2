package simplify

import (
	"testing"

	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

func TestSimplifyBrConstantFoldsToJmp(t *testing.T) {
	_, b := newTestProc()
	taken := ir.MakeBBlock(b.Owner())
	notTaken := ir.MakeBBlock(b.Owner())
	ir.NewRet(ir.AtEnd(taken), nil)
	ir.NewRet(ir.AtEnd(notTaken), nil)

	br := ir.NewBr(ir.AtEnd(b), ir.BEq, operand.MakeAbs(3), operand.MakeAbs(3), taken, notTaken)
	if !Simplify(br) {
		t.Fatal("expected beq of equal constants to fold")
	}
	jmp, ok := b.Rear().(*ir.JmpInsn)
	if !ok {
		t.Fatalf("expected jmp, got %T", b.Rear())
	}
	if jmp.Dest != taken {
		t.Error("expected jmp to the taken arm")
	}
}

func TestSimplifyBrConstantFoldsToNotTaken(t *testing.T) {
	_, b := newTestProc()
	taken := ir.MakeBBlock(b.Owner())
	notTaken := ir.MakeBBlock(b.Owner())
	ir.NewRet(ir.AtEnd(taken), nil)
	ir.NewRet(ir.AtEnd(notTaken), nil)

	br := ir.NewBr(ir.AtEnd(b), ir.BULt, operand.MakeAbs(5), operand.MakeAbs(2), taken, notTaken)
	if !Simplify(br) {
		t.Fatal("expected ult of known constants to fold")
	}
	jmp := b.Rear().(*ir.JmpInsn)
	if jmp.Dest != notTaken {
		t.Error("expected jmp to the not-taken arm since 5 < 2 is false")
	}
}

func TestSimplifyBrCanonicalizesImmediateLhs(t *testing.T) {
	_, b := newTestProc()
	taken := ir.MakeBBlock(b.Owner())
	notTaken := ir.MakeBBlock(b.Owner())
	ir.NewRet(ir.AtEnd(taken), nil)
	ir.NewRet(ir.AtEnd(notTaken), nil)

	x := operand.MakeVReg()
	br := ir.NewBr(ir.AtEnd(b), ir.BEq, operand.MakeAbs(3), x, taken, notTaken)
	if !Simplify(br) {
		t.Fatal("expected immediate-on-lhs canonicalization to report a change")
	}
	if br.Lhs != x {
		t.Errorf("expected lhs to become the vreg, got %#v", br.Lhs)
	}
	abs, ok := operand.As[*operand.Abs](br.Rhs)
	if !ok || abs.Value != 3 {
		t.Errorf("expected rhs to become abs(3), got %#v", br.Rhs)
	}
}

func TestSimplifySwitchBrFoldsToJmp(t *testing.T) {
	_, b := newTestProc()
	dests := make([]*ir.BasicBlock, 4)
	for i := range dests {
		dests[i] = ir.MakeBBlock(b.Owner())
		ir.NewRet(ir.AtEnd(dests[i]), []operand.Operand{operand.MakeAbs(uint64(i))})
	}
	sw := ir.NewSwitchBr(ir.AtEnd(b), operand.MakeAbs(2), dests)
	if !Simplify(sw) {
		t.Fatal("expected switch_br with a known index to fold")
	}
	jmp, ok := b.Rear().(*ir.JmpInsn)
	if !ok {
		t.Fatalf("expected jmp, got %T", b.Rear())
	}
	if jmp.Dest != dests[2] {
		t.Error("expected jmp to dests[2]")
	}
}

func TestSimplifySwitchBrOutOfRangeTraps(t *testing.T) {
	_, b := newTestProc()
	dests := make([]*ir.BasicBlock, 2)
	for i := range dests {
		dests[i] = ir.MakeBBlock(b.Owner())
		ir.NewRet(ir.AtEnd(dests[i]), nil)
	}
	sw := ir.NewSwitchBr(ir.AtEnd(b), operand.MakeAbs(9), dests)
	if !Simplify(sw) {
		t.Fatal("expected out-of-range switch_br to fold to a trap")
	}
	if _, ok := b.Rear().(*ir.OopsInsn); !ok {
		t.Errorf("expected oops, got %T", b.Rear())
	}
}
