package ssa

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// renamer carries the per-vreg current-name stacks across the whole
// renaming walk.
type renamer struct {
	stacks  map[*operand.VReg][]*operand.VReg
	phiOrig map[*ir.PhiInsn]*operand.VReg
	visited map[*ir.BasicBlock]bool
}

func (r *renamer) def(v *operand.VReg, pushed *[]*operand.VReg) *operand.VReg {
	fresh := operand.MakeVReg()
	r.stacks[v] = append(r.stacks[v], fresh)
	*pushed = append(*pushed, v)
	return fresh
}

func (r *renamer) use(o operand.Operand) operand.Operand {
	v, ok := operand.As[*operand.VReg](o)
	if !ok {
		return o
	}
	s := r.stacks[v]
	if len(s) == 0 {
		return v
	}
	return s[len(s)-1]
}

func (r *renamer) pop(orig *operand.VReg) {
	s := r.stacks[orig]
	r.stacks[orig] = s[:len(s)-1]
}

// renameAll renames every vreg def/use starting at entry, pushing a fresh
// name on each definition and popping a block's names once all of its CFG
// successors have been handled.
// The traversal visits successors in CFG order rather than
// dominator-tree-children order; this is correct for reducible control
// flow but, unlike the textbook dominator-tree recursion, is not
// guaranteed correct on an irreducible CFG.
func renameAll(entry *ir.BasicBlock, phiOrig map[*ir.PhiInsn]*operand.VReg) {
	r := &renamer{
		stacks:  map[*operand.VReg][]*operand.VReg{},
		phiOrig: phiOrig,
		visited: map[*ir.BasicBlock]bool{},
	}
	r.visitBlock(entry)
}

func (r *renamer) visitBlock(b *ir.BasicBlock) {
	r.visited[b] = true
	var pushed []*operand.VReg

	for cur := b.Head(); cur != nil; cur = cur.Next() {
		switch insn := cur.(type) {
		case *ir.EntryInsn:
			for i, p := range insn.Params {
				insn.Params[i] = r.def(p, &pushed)
			}
		case *ir.PhiInsn:
			insn.Dest = r.def(insn.Dest, &pushed)
		case *ir.MovInsn:
			insn.Src = r.use(insn.Src)
			insn.Dest = r.def(insn.Dest, &pushed)
		case *ir.LoadInsn:
			insn.Addr = r.use(insn.Addr)
			insn.Dest = r.def(insn.Dest, &pushed)
		case *ir.StoreInsn:
			insn.Src = r.use(insn.Src)
			insn.Addr = r.use(insn.Addr)
		case *ir.BinopInsn:
			insn.Lhs = r.use(insn.Lhs)
			insn.Rhs = r.use(insn.Rhs)
			insn.Dest = r.def(insn.Dest, &pushed)
		case *ir.CallInsn:
			insn.Callee = r.use(insn.Callee)
			for i, a := range insn.Args {
				insn.Args[i] = r.use(a)
			}
			for i, res := range insn.Results {
				insn.Results[i] = r.def(res, &pushed)
			}
		case *ir.RetInsn:
			for i, res := range insn.Results {
				insn.Results[i] = r.use(res)
			}
		case *ir.BrInsn:
			insn.Lhs = r.use(insn.Lhs)
			insn.Rhs = r.use(insn.Rhs)
		case *ir.SwitchBrInsn:
			insn.Index = r.use(insn.Index)
		}
	}

	if term := b.Terminator(); term != nil {
		seen := map[*ir.BasicBlock]bool{}
		for _, succ := range term.Targets() {
			if succ == nil || seen[succ] {
				continue
			}
			seen[succ] = true
			r.fillPhiArgs(succ)
			if !r.visited[succ] {
				r.visitBlock(succ)
			}
		}
	}

	for _, orig := range pushed {
		r.pop(orig)
	}
}

// fillPhiArgs consumes succ's next predecessor-edge index and writes the
// current top-of-stack value for every phi at succ's head into that slot.
func (r *renamer) fillPhiArgs(succ *ir.BasicBlock) {
	idx := succ.NextPredCursor()
	for cur := succ.Head(); cur != nil; cur = cur.Next() {
		phi, ok := cur.(*ir.PhiInsn)
		if !ok {
			break
		}
		orig := r.phiOrig[phi]
		phi.Args[idx] = r.use(orig)
	}
}
