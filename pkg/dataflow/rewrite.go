package dataflow

import (
	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// rewriteUses applies fn to every use operand of insn (everything Inputs()
// would report), writing the result back into the instruction's concrete
// fields. Instructions with no use operands (entry, jmp, oops) are left
// untouched.
func rewriteUses(insn ir.Instruction, fn func(operand.Operand) operand.Operand) {
	switch i := insn.(type) {
	case *ir.MovInsn:
		i.Src = fn(i.Src)
	case *ir.LoadInsn:
		i.Addr = fn(i.Addr)
	case *ir.StoreInsn:
		i.Src = fn(i.Src)
		i.Addr = fn(i.Addr)
	case *ir.BinopInsn:
		i.Lhs = fn(i.Lhs)
		i.Rhs = fn(i.Rhs)
	case *ir.CallInsn:
		i.Callee = fn(i.Callee)
		for k, a := range i.Args {
			i.Args[k] = fn(a)
		}
	case *ir.RetInsn:
		for k, r := range i.Results {
			i.Results[k] = fn(r)
		}
	case *ir.BrInsn:
		i.Lhs = fn(i.Lhs)
		i.Rhs = fn(i.Rhs)
	case *ir.SwitchBrInsn:
		i.Index = fn(i.Index)
	case *ir.PhiInsn:
		for k, a := range i.Args {
			i.Args[k] = fn(a)
		}
	}
}
