package simplify

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// simplifyCall inlines a direct call to a known procedure. A call whose
// parameter count or any ret's result count disagrees with the callee can
// never execute validly, so it is lowered to an unconditional trap rather
// than left as an unsimplified call. Otherwise, a single-block callee is
// spliced in place; a multi-block callee is cloned wholesale, with its
// entry block folded into the caller's current (now-open) block and each
// ret converted into result movs followed by a jmp to a fresh continuation.
func simplifyCall(insn *ir.CallInsn) bool {
	base, ok := operand.As[*operand.RelBase](insn.Callee)
	if !ok || !base.IsProc() {
		return false
	}
	proc, ok := base.Proc.(*ir.Procedure)
	if !ok || proc.Entry() == nil {
		return false
	}
	if !callArityMatches(proc, insn) {
		lowerCallToOops(insn)
		return true
	}

	if proc.Entry() == proc.Rear() {
		inlineSingleBlock(proc, insn)
	} else {
		inlineMultiBlock(proc, insn)
	}
	return true
}

// lowerCallToOops replaces a call that can never execute validly (its
// arity disagrees with the callee) with an unconditional trap: the block
// is split at insn, leaving the split-off tail (insn included) unreachable
// to be swept up by a later CFG GC pass, and the original block is closed
// with an oops.
func lowerCallToOops(insn *ir.CallInsn) {
	b := insn.Owner()
	ir.SplitAt(insn)
	ir.NewOops(ir.AtEnd(b))
}

func callArityMatches(proc *ir.Procedure, insn *ir.CallInsn) bool {
	entry, ok := proc.Entry().Head().(*ir.EntryInsn)
	if !ok || len(entry.Params) != len(insn.Args) {
		return false
	}
	for _, b := range proc.Blocks() {
		if ret, ok := b.Terminator().(*ir.RetInsn); ok {
			if len(ret.Results) != len(insn.Results) {
				return false
			}
		}
	}
	return true
}

// seedParams binds each callee parameter to a fresh vreg holding the call
// site's corresponding argument, by emitting a mov at ip for each one. The
// bindings are recorded in vregs so that Instruction.Clone's ordinary
// vreg-to-vreg remapping carries the substitution through the cloned body.
func seedParams(entry *ir.EntryInsn, args []operand.Operand, ip ir.InsertionPoint, vregs map[*operand.VReg]*operand.VReg) {
	for i, p := range entry.Params {
		fresh := operand.MakeVReg()
		ir.NewMov(ip, args[i], fresh)
		vregs[p] = fresh
	}
}

// emitRet converts a cloned ret into its equivalent movs (writing the
// call's result vregs) followed by a jmp to the continuation.
func emitRet(ret *ir.RetInsn, vregs map[*operand.VReg]*operand.VReg, results []*operand.VReg, ip ir.InsertionPoint, continuation *ir.BasicBlock) {
	for i, res := range ret.Results {
		if i < len(results) {
			ir.NewMov(ip, ir.RemapOperand(vregs, res), results[i])
		}
	}
	ir.NewJmp(ip, continuation)
}

func inlineSingleBlock(proc *ir.Procedure, insn *ir.CallInsn) {
	entry := proc.Entry()
	entryInsn := entry.Head().(*ir.EntryInsn)

	vregs := map[*operand.VReg]*operand.VReg{}
	ip := ir.Before(insn)
	seedParams(entryInsn, insn.Args, ip, vregs)

	for cur := entryInsn.Next(); cur != nil; cur = cur.Next() {
		if ret, ok := cur.(*ir.RetInsn); ok {
			for i, res := range ret.Results {
				if i < len(insn.Results) {
					ir.NewMov(ip, ir.RemapOperand(vregs, res), insn.Results[i])
				}
			}
			break
		}
		ir.Attach(cur.Clone(vregs, nil), ip)
	}

	ir.Eliminate(insn)
}

func inlineMultiBlock(proc *ir.Procedure, insn *ir.CallInsn) {
	b := insn.Owner()
	continuation := ir.SplitAt(insn)

	vregs := map[*operand.VReg]*operand.VReg{}
	blocks := map[*ir.BasicBlock]*ir.BasicBlock{}

	entry := proc.Entry()
	blocks[entry] = b

	for _, cb := range proc.Blocks() {
		if cb == entry {
			continue
		}
		blocks[cb] = ir.MakeBBlockBefore(continuation)
	}

	seedParams(entry.Head().(*ir.EntryInsn), insn.Args, ir.AtEnd(b), vregs)
	cloneCalleeBlock(entry, entry.Head().(*ir.EntryInsn).Next(), b, vregs, blocks, insn.Results, continuation)

	for _, cb := range proc.Blocks() {
		if cb == entry {
			continue
		}
		nb := blocks[cb]
		cloneCalleeBlock(cb, cb.Head(), nb, vregs, blocks, insn.Results, continuation)
	}

	ir.Eliminate(insn)
}

// cloneCalleeBlock clones src's instructions starting at first into dest,
// remapping vregs and block targets through vregs/blocks. A ret is not
// cloned directly; it is converted via emitRet.
func cloneCalleeBlock(src *ir.BasicBlock, first ir.Instruction, dest *ir.BasicBlock, vregs map[*operand.VReg]*operand.VReg, blocks map[*ir.BasicBlock]*ir.BasicBlock, results []*operand.VReg, continuation *ir.BasicBlock) {
	ip := ir.AtEnd(dest)
	for cur := first; cur != nil; cur = cur.Next() {
		if ret, ok := cur.(*ir.RetInsn); ok {
			emitRet(ret, vregs, results, ip, continuation)
			break
		}
		ir.Attach(cur.Clone(vregs, blocks), ip)
	}
}
