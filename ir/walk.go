package ir

// Walk calls visit for e and every expression reachable from it, in
// pre-order. It stops descending into a subtree as soon as visit returns
// false for it, an ast.Inspect-style walker adapted to our own node set.
func Walk(e Expr, visit func(Expr) bool) {
	if e == nil {
		return
	}
	if !visit(e) {
		return
	}
	for _, child := range Children(e) {
		Walk(child, visit)
	}
}

// VarRefs returns every *VarRef reachable from e, in the order visited.
// Used by tests to sanity-check a hand-built tree;
// the transfer function itself never calls this (it walks with its own
// stateful visitor so it can react to assignment shapes specially).
func VarRefs(e Expr) []*VarRef {
	var out []*VarRef
	Walk(e, func(e Expr) bool {
		if v, ok := e.(*VarRef); ok {
			out = append(out, v)
		}
		return true
	})
	return out
}
