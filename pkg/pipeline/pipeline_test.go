package pipeline

import (
	"testing"

	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
	"github.com/irx-lang/irx-optimizer/pkg/ssa"
)

// buildFactorial mirrors the CLI demo: a loop multiplying r_res by r_arg and
// decrementing r_arg, carrying an unused r_dummy counter that the pipeline
// is expected to strip once SSA construction turns its redefinitions into a
// loop-header phi with no remaining use.
func buildFactorial() (proc *ir.Procedure, rDummy *operand.VReg) {
	proc = ir.NewProcedure(operand.RandomSymbolID())
	head := ir.MakeBBlock(proc)
	loop := ir.MakeBBlock(proc)
	exit := ir.MakeBBlock(proc)

	rArg := operand.MakeVReg()
	ir.NewEntry(ir.AtEnd(head), []*operand.VReg{rArg})

	rRes := operand.MakeVReg()
	rDummy = operand.MakeVReg()
	ir.NewMov(ir.AtEnd(head), operand.MakeAbs(1), rRes)
	ir.NewMov(ir.AtEnd(head), operand.MakeAbs(0), rDummy)
	ir.NewJmp(ir.AtEnd(head), loop)

	ir.NewBr(ir.AtEnd(loop), ir.BEq, rArg, operand.MakeAbs(0), exit, loop)
	ir.NewBinop(ir.Before(loop.Terminator()), ir.UMul, rRes, rArg, rRes)
	ir.NewBinop(ir.Before(loop.Terminator()), ir.Sub, rArg, operand.MakeAbs(1), rArg)
	ir.NewBinop(ir.Before(loop.Terminator()), ir.Add, rDummy, operand.MakeAbs(1), rDummy)

	ir.NewRet(ir.AtEnd(exit), []operand.Operand{rRes})
	return
}

func TestOptimizeStripsDeadCounterAfterSSA(t *testing.T) {
	proc, _ := buildFactorial()
	ssa.TransformToSSA(proc)
	Optimize(proc)

	for _, b := range proc.Blocks() {
		for cur := b.Head(); cur != nil; cur = cur.Next() {
			// The r_arg decrement is canonicalized to `add x, abs(-1)` and
			// stays live, so only an increment by abs(1) is the dummy counter.
			bo, ok := cur.(*ir.BinopInsn)
			if !ok || bo.Op != ir.Add {
				continue
			}
			if k, ok := operand.As[*operand.Abs](bo.Rhs); ok && k.Value == 1 {
				t.Errorf("expected the dummy-counter increment to be eliminated, found %v", bo)
			}
		}
	}
}

func TestOptimizeCollapsesUnreachableBlockFromFoldedBr(t *testing.T) {
	proc := ir.NewProcedure(operand.RandomSymbolID())
	entry := ir.MakeBBlock(proc)
	ir.NewEntry(ir.AtEnd(entry), nil)
	taken := ir.MakeBBlock(proc)
	notTaken := ir.MakeBBlock(proc)
	ir.NewBr(ir.AtEnd(entry), ir.BEq, operand.MakeAbs(1), operand.MakeAbs(1), taken, notTaken)
	ir.NewRet(ir.AtEnd(taken), nil)
	ir.NewRet(ir.AtEnd(notTaken), nil)

	Optimize(proc)

	if len(proc.Blocks()) != 1 {
		t.Errorf("expected the unreachable not-taken arm to be collected, got %d blocks", len(proc.Blocks()))
	}
}

func TestOptimizeConvergesOnConstantFold(t *testing.T) {
	proc := ir.NewProcedure(operand.RandomSymbolID())
	b := ir.MakeBBlock(proc)
	ir.NewEntry(ir.AtEnd(b), nil)
	d := operand.MakeVReg()
	ir.NewBinop(ir.AtEnd(b), ir.Add, operand.MakeAbs(3), operand.MakeAbs(4), d)
	ir.NewRet(ir.AtEnd(b), []operand.Operand{d})

	Optimize(proc)

	ret, ok := b.Terminator().(*ir.RetInsn)
	if !ok {
		t.Fatalf("expected block to still end in ret, got %T", b.Terminator())
	}
	abs, ok := operand.As[*operand.Abs](ret.Results[0])
	if !ok || abs.Value != 7 {
		t.Errorf("got ret result %#v, want abs(7)", ret.Results[0])
	}
}
