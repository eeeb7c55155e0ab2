// Package irprint implements a textual debug dump of a procedure. It is not
// part of the optimizer core proper — the core never serializes or prints
// anything itself — but the CLI demo and test failure messages need some
// human-readable rendering.
package irprint

import (
	"fmt"
	"strings"

	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
)

// Procedure renders p as a sequence of labeled basic blocks, one
// instruction per line.
func Procedure(p *ir.Procedure) string {
	var sb strings.Builder
	for _, b := range p.Blocks() {
		fmt.Fprintf(&sb, "bb%d:\n", b.Num)
		for cur := b.Head(); cur != nil; cur = cur.Next() {
			fmt.Fprintf(&sb, "  %s\n", Instruction(cur))
		}
	}
	return sb.String()
}

// Instruction renders a single instruction in a compact textual form.
func Instruction(insn ir.Instruction) string {
	switch i := insn.(type) {
	case *ir.EntryInsn:
		return fmt.Sprintf("entry (%s)", vregList(i.Params))
	case *ir.RetInsn:
		return fmt.Sprintf("ret %s", operandList(i.Results))
	case *ir.CallInsn:
		return fmt.Sprintf("%s = call %s(%s)", vregList(i.Results), Operand(i.Callee), operandList(i.Args))
	case *ir.MovInsn:
		return fmt.Sprintf("%s = mov %s", Operand(i.Dest), Operand(i.Src))
	case *ir.LoadInsn:
		return fmt.Sprintf("%s = load [%s]", Operand(i.Dest), Operand(i.Addr))
	case *ir.StoreInsn:
		return fmt.Sprintf("store %s -> [%s]", Operand(i.Src), Operand(i.Addr))
	case *ir.BinopInsn:
		return fmt.Sprintf("%s = %s %s, %s", Operand(i.Dest), i.Op, Operand(i.Lhs), Operand(i.Rhs))
	case *ir.JmpInsn:
		return fmt.Sprintf("jmp bb%d", i.Dest.Num)
	case *ir.BrInsn:
		return fmt.Sprintf("%s %s, %s -> bb%d, bb%d", i.Op, Operand(i.Lhs), Operand(i.Rhs), i.Taken.Num, i.NotTaken.Num)
	case *ir.SwitchBrInsn:
		return fmt.Sprintf("switch_br %s -> %s", Operand(i.Index), blockList(i.Dests))
	case *ir.OopsInsn:
		return "oops"
	case *ir.PhiInsn:
		return fmt.Sprintf("%s = phi %s", Operand(i.Dest), operandList(i.Args))
	default:
		return "?"
	}
}

// Operand renders a single operand.
func Operand(o operand.Operand) string {
	switch v := o.(type) {
	case *operand.Abs:
		return fmt.Sprintf("abs(%d)", v.Value)
	case *operand.RelBase:
		return fmt.Sprintf("rel(%s)", shortID(v.ID))
	case *operand.RelDisp:
		return fmt.Sprintf("rel(%s)+%d", shortID(v.Base.ID), v.Add)
	case *operand.VReg:
		return fmt.Sprintf("v%d", v.Seq())
	default:
		return "?"
	}
}

func shortID(id operand.SymbolID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func vregList(vs []*operand.VReg) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Operand(v)
	}
	return strings.Join(parts, ", ")
}

func operandList(os []operand.Operand) string {
	parts := make([]string, len(os))
	for i, o := range os {
		parts[i] = Operand(o)
	}
	return strings.Join(parts, ", ")
}

func blockList(bs []*ir.BasicBlock) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = fmt.Sprintf("bb%d", b.Num)
	}
	return strings.Join(parts, ", ")
}
