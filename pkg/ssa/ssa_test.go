package ssa

import (
	"testing"

	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// buildDiamond builds entry -> {left, right} -> merge, a minimal CFG with a
// single non-trivial join point.
func buildDiamond() (proc *ir.Procedure, entry, left, right, merge *ir.BasicBlock) {
	proc = ir.NewProcedure(operand.RandomSymbolID())
	entry = ir.MakeBBlock(proc)
	left = ir.MakeBBlock(proc)
	right = ir.MakeBBlock(proc)
	merge = ir.MakeBBlock(proc)

	cond := operand.MakeVReg()
	ir.NewEntry(ir.AtEnd(entry), []*operand.VReg{cond})
	ir.NewBr(ir.AtEnd(entry), ir.BEq, cond, operand.MakeAbs(0), left, right)

	ir.NewJmp(ir.AtEnd(left), merge)
	ir.NewJmp(ir.AtEnd(right), merge)

	ir.NewRet(ir.AtEnd(merge), nil)
	return
}

func TestComputeDominatorsDiamond(t *testing.T) {
	proc, entry, left, right, merge := buildDiamond()
	updatePreds(proc)
	idom, _ := computeDominators(entry)

	if idom[left] != entry {
		t.Errorf("idom[left] = %v, want entry", idom[left])
	}
	if idom[right] != entry {
		t.Errorf("idom[right] = %v, want entry", idom[right])
	}
	if idom[merge] != entry {
		t.Errorf("idom[merge] = %v, want entry (two incoming paths)", idom[merge])
	}
}

func TestComputeDominanceFrontiersDiamond(t *testing.T) {
	proc, entry, left, right, merge := buildDiamond()
	updatePreds(proc)
	idom, postorder := computeDominators(entry)
	df := computeDominanceFrontiers(postorder, idom)

	if !df[left][merge] {
		t.Error("expected merge in df[left]")
	}
	if !df[right][merge] {
		t.Error("expected merge in df[right]")
	}
	if len(df[entry]) != 0 {
		t.Errorf("expected df[entry] to be empty, got %v", df[entry])
	}
	if len(df[merge]) != 0 {
		t.Errorf("expected df[merge] to be empty, got %v", df[merge])
	}
}

// buildFactorial mirrors the CLI demo's loop-carried-value procedure: a
// loop header redefining the same pre-SSA vregs on every iteration, which
// transform_to_ssa must turn into loop-header phis.
func buildFactorial() (proc *ir.Procedure, rArg, rRes *operand.VReg) {
	proc = ir.NewProcedure(operand.RandomSymbolID())
	head := ir.MakeBBlock(proc)
	loop := ir.MakeBBlock(proc)
	exit := ir.MakeBBlock(proc)

	rArg = operand.MakeVReg()
	ir.NewEntry(ir.AtEnd(head), []*operand.VReg{rArg})

	rRes = operand.MakeVReg()
	ir.NewMov(ir.AtEnd(head), operand.MakeAbs(1), rRes)
	ir.NewJmp(ir.AtEnd(head), loop)

	ir.NewBr(ir.AtEnd(loop), ir.BEq, rArg, operand.MakeAbs(0), exit, loop)
	ir.NewBinop(ir.Before(loop.Terminator()), ir.UMul, rRes, rArg, rRes)
	ir.NewBinop(ir.Before(loop.Terminator()), ir.Sub, rArg, operand.MakeAbs(1), rArg)

	ir.NewRet(ir.AtEnd(exit), []operand.Operand{rRes})
	return
}

func TestTransformToSSAPlacesLoopHeaderPhis(t *testing.T) {
	proc, _, _ := buildFactorial()
	TransformToSSA(proc)

	var loop *ir.BasicBlock
	for _, b := range proc.Blocks() {
		if _, ok := b.Terminator().(*ir.BrInsn); ok {
			loop = b
			break
		}
	}
	if loop == nil {
		t.Fatal("expected to find the loop block by its br terminator")
	}

	phiCount := 0
	for cur := loop.Head(); cur != nil; cur = cur.Next() {
		if _, ok := cur.(*ir.PhiInsn); ok {
			phiCount++
		} else {
			break
		}
	}
	if phiCount != 2 {
		t.Errorf("expected 2 loop-header phis (r_res, r_arg), got %d", phiCount)
	}
}

func TestTransformToSSAGivesEachVRegOneStaticDef(t *testing.T) {
	proc, _, _ := buildFactorial()
	TransformToSSA(proc)

	defCount := map[*operand.VReg]int{}
	record := func(v *operand.VReg) {
		if v != nil {
			defCount[v]++
		}
	}
	for _, b := range proc.Blocks() {
		for cur := b.Head(); cur != nil; cur = cur.Next() {
			for _, out := range cur.Outputs() {
				record(out)
			}
		}
	}
	for v, n := range defCount {
		if n != 1 {
			t.Errorf("vreg v%d has %d static defs, want exactly 1", v.Num, n)
		}
	}
}

func TestTransformToSSAPhiArityMatchesPredCount(t *testing.T) {
	proc, _, _ := buildFactorial()
	TransformToSSA(proc)

	for _, b := range proc.Blocks() {
		for cur := b.Head(); cur != nil; cur = cur.Next() {
			phi, ok := cur.(*ir.PhiInsn)
			if !ok {
				break
			}
			if len(phi.Args) != len(b.Preds) {
				t.Errorf("block bb%d: phi has %d args, block has %d preds", b.Num, len(phi.Args), len(b.Preds))
			}
		}
	}
}
