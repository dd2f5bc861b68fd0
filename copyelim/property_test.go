package copyelim

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/bits-and-blooms/bitset"

	"github.com/embervm/emberc/cfg"
	"github.com/embervm/emberc/fixpoint"
	"github.com/embervm/emberc/flow"
	"github.com/embervm/emberc/ir"
	"github.com/embervm/emberc/routine"
)

// statePair generates two States of equal, random variable-count width, for
// the join-operator algebra properties below.
type statePair struct{ a, b State }

func randMask(r *rand.Rand) *bitset.BitSet {
	b := bitset.New(0)
	for i := uint(0); i < 6; i++ {
		if r.Intn(2) == 0 {
			b.Set(i)
		}
	}
	return b
}

func randState(r *rand.Rand, numVars int) State {
	masks := make([]*bitset.BitSet, numVars)
	for i := range masks {
		masks[i] = randMask(r)
	}
	return State{masks: masks, valid: true}
}

func (statePair) Generate(r *rand.Rand, size int) reflect.Value {
	numVars := 1 + r.Intn(4)
	return reflect.ValueOf(statePair{a: randState(r, numVars), b: randState(r, numVars)})
}

// stateTriple is statePair plus a third State of the same width, for
// associativity.
type stateTriple struct{ a, b, c State }

func (stateTriple) Generate(r *rand.Rand, size int) reflect.Value {
	numVars := 1 + r.Intn(4)
	return reflect.ValueOf(stateTriple{a: randState(r, numVars), b: randState(r, numVars), c: randState(r, numVars)})
}

// superset reports whether every bit set in sub is also set in super.
func superset(super, sub *bitset.BitSet) bool {
	return sub.Difference(super).None()
}

// TestMergeCommutative checks property 3 from the testable-properties list:
// merge(a, b) == merge(b, a).
func TestMergeCommutative(t *testing.T) {
	f := func(p statePair) bool {
		return equalStates(mergeStates(p.a, p.b), mergeStates(p.b, p.a))
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// TestMergeAssociative checks property 4: merge(merge(a,b),c) ==
// merge(a,merge(b,c)).
func TestMergeAssociative(t *testing.T) {
	f := func(tr stateTriple) bool {
		left := mergeStates(mergeStates(tr.a, tr.b), tr.c)
		right := mergeStates(tr.a, mergeStates(tr.b, tr.c))
		return equalStates(left, right)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// TestMergeIsMonotone checks property 2's structural backbone: the join
// operator never drops a bit either input had set, which is what makes
// needed (accumulated purely by union across a fixpoint run) monotone.
func TestMergeIsMonotone(t *testing.T) {
	f := func(p statePair) bool {
		merged := mergeStates(p.a, p.b)
		for i := range p.a.masks {
			if !superset(merged.masks[i], p.a.masks[i]) || !superset(merged.masks[i], p.b.masks[i]) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// TestNeededUnionIsMonotone is property 2 stated directly over the
// operation that actually grows needed across a fixpoint run:
// InPlaceUnion never removes a bit that was already set.
func TestNeededUnionIsMonotone(t *testing.T) {
	f := func(p statePair) bool {
		for i := range p.a.masks {
			before := p.a.masks[i].Clone()
			after := before.Clone()
			after.InPlaceUnion(p.b.masks[i])
			if !superset(after, before) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// TestKillKeepsNeededSupersetOfMask is property 1 (soundness of kill)
// exercised directly against visitVarRef: after a mutating occurrence of a
// variable, every copy id that variable carried beforehand must be in
// needed.
func TestKillKeepsNeededSupersetOfMask(t *testing.T) {
	f := func(p statePair) bool {
		fc := flow.NewMapContext("v")
		w := &walker{
			flowCtx:          fc,
			index:            NewIndex(),
			state:            p.a,
			needed:           p.b.masks[0].Clone(),
			returnCandidates: make(map[*ir.Copy]int),
		}
		before := w.state.masks[0].Clone()
		w.visitVarRef(&ir.VarRef{Name: "v", Mode: ir.ReadWrite})
		return superset(w.needed, before)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// TestTransferIdempotentAtFixpoint is property 5: once the worklist has
// converged, re-running a reachable block's transfer function against the
// in-state recomputed from its predecessors' recorded out-states must
// reproduce the same out-state.
func TestTransferIdempotentAtFixpoint(t *testing.T) {
	r := routine.New("idempotent-check", "a", "b", "c", "p").
		Stmt(ir.If(ir.V("p", ir.Read),
			[]ir.Stmt{ir.ExprS(ir.Assign(ir.V("b", ir.Write), ir.Wrap(ir.V("a", ir.Read))))},
			[]ir.Stmt{ir.ExprS(ir.Assign(ir.V("b", ir.Write), ir.Wrap(ir.V("c", ir.Read))))},
		)).
		Stmt(ir.Return(ir.Wrap(ir.V("b", ir.Read)))).
		Build()

	g, err := cfg.Build(r.Stmts)
	if err != nil {
		t.Fatalf("cfg.Build: %v", err)
	}

	w := &walker{
		flowCtx:          r.Flow,
		index:            NewIndex(),
		needed:           bitset.New(0),
		returnCandidates: make(map[*ir.Copy]int),
	}
	d := &analysisDriver{w: w, exit: g.Exit, numVars: r.Flow.NumVars()}
	out := fixpoint.Run(g, d)

	for _, b := range g.Blocks() {
		if b == g.Entry {
			continue
		}
		in := d.Bottom()
		for _, p := range b.Preds() {
			in = d.Merge(in, out[p])
		}
		again := d.ProcessBlock(b, in)
		if !equalStates(again, out[b]) {
			t.Errorf("re-running the transfer on block %d did not reproduce its recorded fixpoint out-state", b.ID)
		}
	}
}

// --- reference interpreter ---
//
// cell models one concrete, pointer-identity storage location. Unlike
// State's bitmasks (which approximate "which copy ids might this variable
// currently share" well enough to merge at branch confluence and converge
// across a loop back-edge), a cell is simulated directly: assigning
// `t = copy(v)` makes t literally share v's cell, and any in-place mutation
// of a shared cell immediately condemns every copy node relying on it. This
// is deliberately a different computation from the bitmask/fixpoint engine
// (no CFG, no merge, no worklist) so that a bug in one is unlikely to also
// be a bug in the other.
type cell struct {
	aliasing map[*ir.Copy]bool
}

func newCell() *cell { return &cell{aliasing: make(map[*ir.Copy]bool)} }

type interp struct {
	env        map[string]*cell
	registered map[*ir.Copy]bool
	unsafe     map[*ir.Copy]bool
}

func newInterp(vars []string) *interp {
	env := make(map[string]*cell, len(vars))
	for _, v := range vars {
		env[v] = newCell()
	}
	return &interp{env: env, registered: make(map[*ir.Copy]bool), unsafe: make(map[*ir.Copy]bool)}
}

// mutate condemns every copy node currently sharing name's cell: whatever
// value those copies assumed they could keep treating as independent just
// diverged from it.
func (in *interp) mutate(name string) {
	c, ok := in.env[name]
	if !ok {
		return
	}
	for cp := range c.aliasing {
		in.unsafe[cp] = true
	}
}

// mutateAll is the fallback for a dynamic write the interpreter cannot pin
// to one concrete variable — the same worst case the analysis assumes for
// every dynamic write, resolved but recorded separately here.
func (in *interp) mutateAll() {
	for name := range in.env {
		in.mutate(name)
	}
}

func (in *interp) resolveCell(name string) *cell {
	c, ok := in.env[name]
	if !ok {
		c = newCell()
		in.env[name] = c
	}
	return c
}

func interpPeelCopy(e ir.Expr) (inner ir.Expr, node *ir.Copy, wasCopied bool) {
	if c, ok := e.(*ir.Copy); ok {
		return c.Inner, c, true
	}
	return e, nil, false
}

// assign applies one assignment concretely and returns the cell now bound
// to target, so a nested assignment can reuse it as its own source.
func (in *interp) assign(target string, value ir.Expr) *cell {
	inner, copyNode, wasCopied := interpPeelCopy(value)

	if v, ok := inner.(*ir.VarRef); ok && !v.IsDynamic() {
		src := in.resolveCell(v.Name)
		if wasCopied {
			in.registered[copyNode] = true
			src.aliasing[copyNode] = true
			in.env[target] = src
			return src
		}
		fresh := newCell()
		in.env[target] = fresh
		return fresh
	}

	if nested, ok := inner.(*ir.AssignExpr); ok {
		if nestedTarget, ok := nested.Target.(*ir.VarRef); ok && !nestedTarget.IsDynamic() {
			nestedCell := in.assign(nestedTarget.Name, nested.Value)
			if wasCopied {
				in.registered[copyNode] = true
				nestedCell.aliasing[copyNode] = true
				in.env[target] = nestedCell
				return nestedCell
			}
			fresh := newCell()
			in.env[target] = fresh
			return fresh
		}
	}

	fresh := newCell()
	in.env[target] = fresh
	return fresh
}

func (in *interp) step(s ir.Stmt) {
	switch st := s.(type) {
	case *ir.ExprStmt:
		in.eval(st.X)
	case *ir.ReturnStmt:
		if st.Value != nil {
			in.eval(st.Value)
		}
	default:
		// the generator below never emits branches or loops.
	}
}

func (in *interp) eval(e ir.Expr) {
	switch ex := e.(type) {
	case *ir.AssignExpr:
		switch target := ex.Target.(type) {
		case *ir.VarRef:
			if !target.IsDynamic() {
				in.assign(target.Name, ex.Value)
				return
			}
			if lit, ok := target.Dynamic.(*ir.Literal); ok {
				if name, ok := lit.Value.(string); ok {
					in.mutate(name)
					in.eval(ex.Value)
					return
				}
			}
			in.mutateAll()
			in.eval(ex.Value)
		case *ir.IndexExpr:
			if v, ok := target.X.(*ir.VarRef); ok && !v.IsDynamic() {
				in.mutate(v.Name)
			}
			in.eval(ex.Value)
		default:
			in.eval(ex.Value)
		}
	case *ir.VarRef:
		// a bare read never mutates; this generator only ever gives a
		// direct variable a mutating mode via an assignment target or an
		// index base, both handled above.
	default:
		for _, c := range ir.Children(e) {
			in.eval(c)
		}
	}
}

// referenceSafe runs stmts through the concrete interpreter and returns
// every registered copy node it never observed a divergent mutation for.
func referenceSafe(stmts []ir.Stmt, vars []string) map[*ir.Copy]bool {
	in := newInterp(vars)
	for _, s := range stmts {
		in.step(s)
	}
	safe := make(map[*ir.Copy]bool, len(in.registered))
	for c := range in.registered {
		if !in.unsafe[c] {
			safe[c] = true
		}
	}
	return safe
}

// --- random program generator ---

var propertyVars = []string{"a", "b", "c", "d"}

// randomProgram is a straight-line sequence of assignment statements (plain
// writes, aliasing copies, independent copies, index mutations, dynamic
// writes, and one level of chained assignment) over propertyVars, with an
// optional trailing return. Branches and loops are out of scope here: S4 in
// scenarios_test.go already covers branch-merge confluence by hand, and
// covering it here too would require the interpreter to enumerate path
// combinations rather than replay one concrete trace.
type randomProgram struct {
	stmts []ir.Stmt
}

func (randomProgram) Generate(r *rand.Rand, size int) reflect.Value {
	n := 1 + r.Intn(6)
	stmts := make([]ir.Stmt, 0, n+1)
	for i := 0; i < n; i++ {
		stmts = append(stmts, genRandomStmt(r))
	}
	if r.Intn(2) == 0 {
		v := propertyVars[r.Intn(len(propertyVars))]
		if r.Intn(2) == 0 {
			stmts = append(stmts, ir.Return(ir.Wrap(ir.V(v, ir.Read))))
		} else {
			stmts = append(stmts, ir.Return(ir.V(v, ir.Read)))
		}
	}
	return reflect.ValueOf(randomProgram{stmts: stmts})
}

func genRandomStmt(r *rand.Rand) ir.Stmt {
	target := propertyVars[r.Intn(len(propertyVars))]
	switch r.Intn(6) {
	case 0:
		return ir.ExprS(ir.Assign(ir.V(target, ir.Write), ir.Lit(r.Intn(100))))
	case 1:
		src := propertyVars[r.Intn(len(propertyVars))]
		return ir.ExprS(ir.Assign(ir.V(target, ir.Write), ir.Wrap(ir.V(src, ir.Read))))
	case 2:
		src := propertyVars[r.Intn(len(propertyVars))]
		return ir.ExprS(ir.Assign(ir.V(target, ir.Write), ir.V(src, ir.Read)))
	case 3:
		return ir.ExprS(ir.Assign(ir.Index(ir.V(target, ir.ReadWrite), ir.Lit(0)), ir.Lit(r.Intn(100))))
	case 4:
		return ir.ExprS(ir.Assign(ir.DynV(ir.Lit(target), ir.Write), ir.Lit(r.Intn(100))))
	default:
		mid := propertyVars[r.Intn(len(propertyVars))]
		src := propertyVars[r.Intn(len(propertyVars))]
		return ir.ExprS(ir.Assign(ir.V(target, ir.Write),
			ir.Wrap(ir.Assign(ir.V(mid, ir.Write), ir.Wrap(ir.V(src, ir.Read))))))
	}
}

// TestAnalysisRemovableIsSubsetOfReferenceSafe drives random routines
// through both the real analysis and the reference interpreter above,
// checking that the analysis's removable set is always a subset of what the
// interpreter confirms safe (property 6, and property 1 by construction —
// the interpreter only calls a copy safe when it never observed the kill
// condition fire).
func TestAnalysisRemovableIsSubsetOfReferenceSafe(t *testing.T) {
	f := func(p randomProgram) bool {
		fc := flow.NewMapContext(propertyVars...)
		res, err := Analyze(p.stmts, fc)
		if err != nil {
			// No branch or loop statement is ever generated, so a
			// structural error should not occur; treat it as out of
			// scope for this property rather than failing the run.
			return true
		}
		safe := referenceSafe(p.stmts, propertyVars)
		for c := range res.Removable {
			if !safe[c] {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 300}); err != nil {
		t.Error(err)
	}
}
