package copyelim

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/embervm/emberc/flow"
	"github.com/embervm/emberc/ir"
)

// walker holds the mutable state shared across every block visited during
// one analysis run: the per-variable masks (State, swapped in and out per
// block by the driver), the routine-wide needed mask (whose lifetime spans
// the whole analysis run, not just one block), the copy registry, and the
// return-copy candidate bookkeeping.
type walker struct {
	flowCtx flow.Context
	index   *Index

	state  State
	needed *bitset.BitSet

	returnCandidates      map[*ir.Copy]int
	survivingReturnCopies map[*ir.Copy]bool
}

// qualifyingVar reports whether e is a direct, non-auto-global,
// non-reference-bound variable reference, returning its dense index.
func (w *walker) qualifyingVar(e ir.Expr) (int, bool) {
	v, ok := e.(*ir.VarRef)
	if !ok || v.IsDynamic() {
		return 0, false
	}
	if w.flowCtx.IsAutoGlobal(v.Name) {
		return 0, false
	}
	idx, ok := w.flowCtx.Index(v.Name)
	if !ok {
		return 0, false
	}
	if w.flowCtx.IsReference(idx) {
		return 0, false
	}
	return idx, true
}

func peelCopy(e ir.Expr) (inner ir.Expr, node *ir.Copy, wasCopied bool) {
	if c, ok := e.(*ir.Copy); ok {
		return c.Inner, c, true
	}
	return e, nil, false
}

func (w *walker) visitStmt(s ir.Stmt) {
	switch st := s.(type) {
	case *ir.ExprStmt:
		w.visitExpr(st.X)
	case *ir.ReturnStmt:
		w.visitReturn(st)
	case *ir.IfStmt:
		w.visitExpr(st.Cond)
	case *ir.LoopStmt:
		w.visitExpr(st.Cond)
	case *ir.BranchStmt:
		// no expression to walk
	}
}

func (w *walker) visitExpr(e ir.Expr) {
	switch ex := e.(type) {
	case *ir.AssignExpr:
		w.visitAssignExpr(ex)
	case *ir.VarRef:
		w.visitVarRef(ex)
	default:
		for _, c := range ir.Children(e) {
			w.visitExpr(c)
		}
	}
}

// visitVarRef handles a plain variable reference occurrence: default
// recursion first (for a dynamic name's inner expression), then the kill
// step if this occurrence might change the variable.
func (w *walker) visitVarRef(ref *ir.VarRef) {
	if ref.Dynamic != nil {
		w.visitExpr(ref.Dynamic)
	}
	if !ref.Mode.MightChange() {
		return
	}
	if ref.Dynamic != nil {
		w.markEverythingNeeded()
		return
	}
	if w.flowCtx.IsAutoGlobal(ref.Name) {
		return
	}
	idx, ok := w.flowCtx.Index(ref.Name)
	if !ok {
		return
	}
	if w.flowCtx.IsReference(idx) {
		w.markEverythingNeeded()
		return
	}
	w.needed.InPlaceUnion(w.state.masks[idx])
}

func (w *walker) markEverythingNeeded() {
	for _, m := range w.state.masks {
		w.needed.InPlaceUnion(m)
	}
}

// visitAssignExpr handles an assignment expression. It returns the index
// of the variable it wrote and whether the target qualified as a direct
// variable at all (false means default recursion already handled both
// sides and no copy bookkeeping applies).
func (w *walker) visitAssignExpr(a *ir.AssignExpr) (int, bool) {
	t, qualifies := w.qualifyingVar(a.Target)
	if !qualifies {
		w.visitExpr(a.Target)
		w.visitExpr(a.Value)
		return 0, false
	}

	// The target is about to be overwritten, so whatever copies made it an
	// alias partner up to this point are no longer deferrable: fold its
	// current mask into needed before it is replaced. This is the same
	// obligation visitVarRef's kill step applies to a plain mutating
	// occurrence; a direct assignment target never reaches that generic
	// path (qualifyingVar short-circuits it), so the rule is restated here
	// instead of relying on recursion into the target.
	w.needed.InPlaceUnion(w.state.masks[t])

	inner, copyNode, wasCopied := peelCopy(a.Value)

	if v, ok := w.qualifyingVar(inner); ok {
		// Case 1: source is itself a qualifying direct variable.
		if wasCopied {
			id := w.index.Ensure(copyNode)
			w.state = w.state.withCopyAssignment(t, v, id)
		} else {
			w.state = w.state.withValue(t, w.state.masks[v].Clone())
		}
		return t, true
	}

	if nested, ok := inner.(*ir.AssignExpr); ok {
		// Case 2: source is itself a (possibly copy-wrapped) nested
		// assignment; transfer it first, then treat its target as our
		// source.
		v, nestedOK := w.visitAssignExpr(nested)
		if nestedOK {
			if wasCopied {
				id := w.index.Ensure(copyNode)
				w.state = w.state.withCopyAssignment(t, v, id)
			} else {
				w.state = w.state.withValue(t, w.state.masks[v].Clone())
			}
			return t, true
		}
		// nested's own target didn't qualify; its effects are already
		// applied above, fall through to case 3 without re-walking it.
		w.state = w.state.withValue(t, bitset.New(0))
		return t, true
	}

	// Case 3: source matches neither recognized form.
	w.visitExpr(a.Value)
	w.state = w.state.withValue(t, bitset.New(0))
	return t, true
}

// visitReturn handles a return statement: if the returned expression is
// copy(varref) for a qualifying varref, record it as a return-copy
// candidate, then recurse normally (the inner varref is visited as a plain
// read).
func (w *walker) visitReturn(r *ir.ReturnStmt) {
	if r.Value == nil {
		return
	}
	if c, ok := r.Value.(*ir.Copy); ok {
		if v, ok2 := w.qualifyingVar(c.Inner); ok2 {
			w.returnCandidates[c] = v
		}
	}
	w.visitExpr(r.Value)
}

// filterReturnCopies is the exit-block return-copy filter: a candidate is
// safe to remove only if every pending copy on its variable at the exit is
// already in needed. It is recomputed from scratch every time the exit
// block is processed, since needed only grows across the fixpoint
// iteration and the last computation is the one that matters.
func (w *walker) filterReturnCopies() {
	surviving := make(map[*ir.Copy]bool, len(w.returnCandidates))
	for c, v := range w.returnCandidates {
		if w.state.masks[v].Difference(w.needed).None() {
			surviving[c] = true
		}
	}
	w.survivingReturnCopies = surviving
}
