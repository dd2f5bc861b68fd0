package main

import (
	"github.com/embervm/emberc/ir"
	"github.com/embervm/emberc/routine"
)

// demoScenarios builds a handful of illustrative routines covering the
// aliasing patterns the analysis distinguishes, in-process the way a real
// front end would hand routines to the analysis.
func demoScenarios() []scenario {
	return []scenario{
		{routine: straightLineAlias()},
		{routine: aliasThenReassign()},
		{routine: aliasThenMutateThroughIndex()},
		{routine: aliasAcrossBranches()},
		{routine: dynamicNameForcesConservatism()},
		{routine: chainedAssignment()},
	}
}

func straightLineAlias() *routine.Routine {
	return routine.New("straight-line-alias", "a", "b").
		Stmt(ir.ExprS(ir.Assign(ir.V("a", ir.Write), ir.Lit(1)))).
		Stmt(ir.ExprS(ir.Assign(ir.V("b", ir.Write), ir.Wrap(ir.V("a", ir.Read))))).
		Stmt(ir.Return(ir.Wrap(ir.V("b", ir.Read)))).
		Build()
}

func aliasThenReassign() *routine.Routine {
	return routine.New("alias-then-reassign", "a", "b").
		Stmt(ir.ExprS(ir.Assign(ir.V("a", ir.Write), ir.Lit(1)))).
		Stmt(ir.ExprS(ir.Assign(ir.V("b", ir.Write), ir.Wrap(ir.V("a", ir.Read))))).
		Stmt(ir.ExprS(ir.Assign(ir.V("a", ir.Write), ir.Lit(2)))).
		Stmt(ir.Return(ir.Wrap(ir.V("b", ir.Read)))).
		Build()
}

func aliasThenMutateThroughIndex() *routine.Routine {
	return routine.New("alias-then-mutate-index", "a", "b").
		Stmt(ir.ExprS(ir.Assign(ir.V("a", ir.Write), ir.Lit(1)))).
		Stmt(ir.ExprS(ir.Assign(ir.V("b", ir.Write), ir.Wrap(ir.V("a", ir.Read))))).
		Stmt(ir.ExprS(ir.Assign(ir.Index(ir.V("b", ir.ReadWrite), ir.Lit(0)), ir.Lit(9)))).
		Stmt(ir.Return(ir.Wrap(ir.V("a", ir.Read)))).
		Build()
}

func aliasAcrossBranches() *routine.Routine {
	return routine.New("alias-across-branches", "a", "b", "c", "p").
		Stmt(ir.If(ir.V("p", ir.Read),
			[]ir.Stmt{ir.ExprS(ir.Assign(ir.V("b", ir.Write), ir.Wrap(ir.V("a", ir.Read))))},
			[]ir.Stmt{ir.ExprS(ir.Assign(ir.V("b", ir.Write), ir.Wrap(ir.V("c", ir.Read))))},
		)).
		Stmt(ir.Return(ir.Wrap(ir.V("b", ir.Read)))).
		Build()
}

func dynamicNameForcesConservatism() *routine.Routine {
	return routine.New("dynamic-name-conservative", "a", "b", "name").
		Stmt(ir.ExprS(ir.Assign(ir.V("a", ir.Write), ir.Lit(1)))).
		Stmt(ir.ExprS(ir.Assign(ir.V("b", ir.Write), ir.Wrap(ir.V("a", ir.Read))))).
		Stmt(ir.ExprS(ir.Assign(ir.DynV(ir.V("name", ir.Read), ir.Write), ir.Lit(2)))).
		Stmt(ir.Return(ir.Wrap(ir.V("b", ir.Read)))).
		Build()
}

func chainedAssignment() *routine.Routine {
	return routine.New("chained-assignment", "a", "b", "c").
		Stmt(ir.ExprS(ir.Assign(ir.V("c", ir.Write), ir.Lit(1)))).
		Stmt(ir.ExprS(ir.Assign(ir.V("a", ir.Write), ir.Wrap(ir.Assign(ir.V("b", ir.Write), ir.Wrap(ir.V("c", ir.Read))))))).
		Build()
}
