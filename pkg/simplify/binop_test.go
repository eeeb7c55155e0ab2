package simplify

import (
	"testing"

	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// newTestProc builds a single-block procedure with a bare entry, for tests
// that only care about one instruction's simplification.
func newTestProc() (*ir.Procedure, *ir.BasicBlock) {
	proc := ir.NewProcedure(operand.RandomSymbolID())
	b := ir.MakeBBlock(proc)
	ir.NewEntry(ir.AtEnd(b), nil)
	return proc, b
}

func TestSimplifyBinopConstantFold(t *testing.T) {
	_, b := newTestProc()
	d := operand.MakeVReg()
	binop := ir.NewBinop(ir.AtEnd(b), ir.Add, operand.MakeAbs(3), operand.MakeAbs(4), d)

	if !Simplify(binop) {
		t.Fatal("Simplify reported no change for a fully-constant binop")
	}

	mov, ok := b.Rear().(*ir.MovInsn)
	if !ok {
		t.Fatalf("expected rear instruction to be a mov, got %T", b.Rear())
	}
	abs, ok := operand.As[*operand.Abs](mov.Src)
	if !ok || abs.Value != 7 {
		t.Errorf("got mov src %#v, want abs(7)", mov.Src)
	}
	if mov.Dest != d {
		t.Error("mov dest should be the original binop dest")
	}
}

func TestSimplifyBinopIdentities(t *testing.T) {
	tests := []struct {
		name string
		op   ir.BinOp
		lhs  func(v *operand.VReg) operand.Operand
		rhs  operand.Operand
		want func(v *operand.VReg) operand.Operand
	}{
		{"add_zero", ir.Add, func(v *operand.VReg) operand.Operand { return v }, operand.MakeAbs(0), func(v *operand.VReg) operand.Operand { return v }},
		{"mul_one", ir.UMul, func(v *operand.VReg) operand.Operand { return v }, operand.MakeAbs(1), func(v *operand.VReg) operand.Operand { return v }},
		{"mul_zero", ir.UMul, func(v *operand.VReg) operand.Operand { return v }, operand.MakeAbs(0), func(*operand.VReg) operand.Operand { return operand.MakeAbs(0) }},
		{"and_ones", ir.And, func(v *operand.VReg) operand.Operand { return v }, operand.MakeAbs(^uint64(0)), func(v *operand.VReg) operand.Operand { return v }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, b := newTestProc()
			x := operand.MakeVReg()
			d := operand.MakeVReg()
			binop := ir.NewBinop(ir.AtEnd(b), tt.op, tt.lhs(x), tt.rhs, d)

			if !Simplify(binop) {
				t.Fatal("expected identity rule to fire")
			}
			mov, ok := b.Rear().(*ir.MovInsn)
			if !ok {
				t.Fatalf("expected mov, got %T", b.Rear())
			}
			if !operand.ValueEqual(mov.Src, tt.want(x)) && mov.Src != tt.want(x) {
				t.Errorf("got %#v, want %#v", mov.Src, tt.want(x))
			}
		})
	}
}

func TestSimplifySubSelf(t *testing.T) {
	_, b := newTestProc()
	x := operand.MakeVReg()
	d := operand.MakeVReg()
	binop := ir.NewBinop(ir.AtEnd(b), ir.Sub, x, x, d)

	if !Simplify(binop) {
		t.Fatal("expected sub x,x to fold")
	}
	mov := b.Rear().(*ir.MovInsn)
	abs, ok := operand.As[*operand.Abs](mov.Src)
	if !ok || abs.Value != 0 {
		t.Errorf("got %#v, want abs(0)", mov.Src)
	}
}

func TestSimplifyRelocatableArith(t *testing.T) {
	_, b := newTestProc()
	sym := operand.MakeRelBase(operand.NewSymbolID("S"))
	d := operand.MakeVReg()
	lhs := operand.MakeRelDisp(sym, 10)
	rhs := operand.MakeRelDisp(sym, 4)
	binop := ir.NewBinop(ir.AtEnd(b), ir.Sub, lhs, rhs, d)

	if !Simplify(binop) {
		t.Fatal("expected relocatable subtraction to fold")
	}
	mov := b.Rear().(*ir.MovInsn)
	abs, ok := operand.As[*operand.Abs](mov.Src)
	if !ok || abs.Value != 6 {
		t.Errorf("got %#v, want abs(6)", mov.Src)
	}
}
