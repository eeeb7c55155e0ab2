package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/irx-lang/irx-optimizer/pkg/ir"
	"github.com/irx-lang/irx-optimizer/pkg/irprint"
	"github.com/irx-lang/irx-optimizer/pkg/operand"
	"github.com/irx-lang/irx-optimizer/pkg/pipeline"
	"github.com/irx-lang/irx-optimizer/pkg/ssa"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "irxopt",
		Short: "IRX optimizer core demo — simplifier, SSA construction, and dataflow passes",
	}

	var scenario string
	var ssaOnly bool

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Build a canned procedure, convert it to SSA, and optionally run the optimizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			build, ok := scenarios[scenario]
			if !ok {
				return errors.Errorf("unknown scenario %q (have: %s)", scenario, scenarioNames())
			}

			proc := build()
			fmt.Printf("--- %s: before ---\n%s\n", scenario, irprint.Procedure(proc))

			if ssaOnly {
				ssa.TransformToSSA(proc)
				fmt.Printf("--- %s: after transform_to_ssa ---\n%s\n", scenario, irprint.Procedure(proc))
				return nil
			}

			ssa.TransformToSSA(proc)
			pipeline.Optimize(proc)
			fmt.Printf("--- %s: after optimize ---\n%s\n", scenario, irprint.Procedure(proc))
			return nil
		},
	}
	demoCmd.Flags().StringVarP(&scenario, "scenario", "s", "factorial", "canned procedure to run")
	demoCmd.Flags().BoolVar(&ssaOnly, "ssa-only", false, "stop after SSA construction, skip the dataflow pipeline")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the available canned scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(scenarioNames())
			return nil
		},
	}

	rootCmd.AddCommand(demoCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var scenarios = map[string]func() *ir.Procedure{
	"factorial": buildFactorial,
	"fold":      buildConstantFold,
	"switch":    buildSwitch,
}

func scenarioNames() string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	return fmt.Sprint(names)
}

// buildFactorial builds the iterative-factorial procedure of the
// optimizer's worked SSA/DCE example: a loop that multiplies r_res by
// r_arg and decrements r_arg until it reaches zero, carrying an unused
// r_dummy counter that later DCE is expected to strip along with its phi.
func buildFactorial() *ir.Procedure {
	proc := ir.NewProcedure(operand.NewSymbolID("demo.factorial"))

	head := ir.MakeBBlock(proc)
	loop := ir.MakeBBlock(proc)
	exit := ir.MakeBBlock(proc)

	rArg := operand.MakeVReg()
	ir.NewEntry(ir.AtEnd(head), []*operand.VReg{rArg})

	rRes := operand.MakeVReg()
	rDummy := operand.MakeVReg()
	ir.NewMov(ir.AtEnd(head), operand.MakeAbs(1), rRes)
	ir.NewMov(ir.AtEnd(head), operand.MakeAbs(0), rDummy)
	ir.NewJmp(ir.AtEnd(head), loop)

	ir.NewBr(ir.AtEnd(loop), ir.BEq, rArg, operand.MakeAbs(0), exit, loop)
	// Each binop redefines the same pre-SSA vreg it reads; transform_to_ssa
	// is what turns these repeated definitions into loop-header phis.
	ir.NewBinop(ir.Before(loop.Terminator()), ir.UMul, rRes, rArg, rRes)
	ir.NewBinop(ir.Before(loop.Terminator()), ir.Sub, rArg, operand.MakeAbs(1), rArg)
	ir.NewBinop(ir.Before(loop.Terminator()), ir.Add, rDummy, operand.MakeAbs(1), rDummy)

	ir.NewRet(ir.AtEnd(exit), []operand.Operand{rRes})
	return proc
}

// buildConstantFold builds `add abs(3), abs(4) -> d; ret d`, the one-step
// constant-folding example.
func buildConstantFold() *ir.Procedure {
	proc := ir.NewProcedure(operand.NewSymbolID("demo.fold"))
	b := ir.MakeBBlock(proc)
	ir.NewEntry(ir.AtEnd(b), nil)
	d := operand.MakeVReg()
	ir.NewBinop(ir.AtEnd(b), ir.Add, operand.MakeAbs(3), operand.MakeAbs(4), d)
	ir.NewRet(ir.AtEnd(b), []operand.Operand{d})
	return proc
}

// buildSwitch builds `switch_br abs(2), [b0,b1,b2,b3]`, which folds to a
// jmp to b2.
func buildSwitch() *ir.Procedure {
	proc := ir.NewProcedure(operand.NewSymbolID("demo.switch"))
	entryBlock := ir.MakeBBlock(proc)
	ir.NewEntry(ir.AtEnd(entryBlock), nil)

	dests := make([]*ir.BasicBlock, 4)
	for i := range dests {
		dests[i] = ir.MakeBBlock(proc)
		ir.NewRet(ir.AtEnd(dests[i]), []operand.Operand{operand.MakeAbs(uint64(i))})
	}
	ir.NewSwitchBr(ir.AtEnd(entryBlock), operand.MakeAbs(2), dests)
	return proc
}
