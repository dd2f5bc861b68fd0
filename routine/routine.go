// Package routine provides a small in-process builder for constructing
// toy Ember routines, standing in for the front end (parsing and scope
// resolution) that is out of scope for this repository. It exists purely
// to drive the analysis from tests and the demo CLI: giving the analysis
// a flow.Context and a statement list to run over, the way a loaded
// package's symbol table would for real source.
package routine

import (
	"github.com/embervm/emberc/flow"
	"github.com/embervm/emberc/ir"
)

// Routine bundles a statement list with the flow.Context describing its
// variables — everything copyelim.Analyze needs.
type Routine struct {
	Name  string
	Stmts []ir.Stmt
	Flow  flow.Context
}

// Builder assembles a Routine incrementally.
type Builder struct {
	name  string
	vars  []string
	flow  *flow.MapContext
	stmts []ir.Stmt
}

// New starts a routine builder with the given local variable names, in
// index order.
func New(name string, vars ...string) *Builder {
	return &Builder{
		name: name,
		vars: vars,
		flow: flow.NewMapContext(vars...),
	}
}

// Reference marks name as reference-bound for the rest of this build.
func (b *Builder) Reference(name string) *Builder {
	b.flow.Reference(name)
	return b
}

// AutoGlobal marks name as an auto-global.
func (b *Builder) AutoGlobal(name string) *Builder {
	b.flow.AutoGlobal(name)
	return b
}

// Stmt appends a top-level statement.
func (b *Builder) Stmt(s ir.Stmt) *Builder {
	b.stmts = append(b.stmts, s)
	return b
}

// Build returns the assembled Routine.
func (b *Builder) Build() *Routine {
	return &Routine{Name: b.name, Stmts: b.stmts, Flow: b.flow}
}
