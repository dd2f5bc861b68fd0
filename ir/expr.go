package ir

// VarRef is an occurrence of a variable at one point in the tree. A direct
// reference has Name set and Dynamic nil; a dynamic reference ($$expr)
// instead carries the expression that computes the name at runtime, and
// Name is ignored.
type VarRef struct {
	Name    string
	Dynamic Expr
	Mode    AccessMode
}

func (*VarRef) node()     {}
func (*VarRef) exprNode() {}

// IsDynamic reports whether this is a `$$expr`-style reference whose target
// variable is not known statically.
func (v *VarRef) IsDynamic() bool { return v.Dynamic != nil }

// Copy is the explicit copy node the lowering pass inserts around most
// assignment and return right-hand sides to preserve value semantics. Its
// pointer identity is the key copyelim.Index registers copy ids under.
type Copy struct {
	Inner Expr
}

func (*Copy) node()     {}
func (*Copy) exprNode() {}

// Literal is a constant value with no variable references inside it.
type Literal struct {
	Value any
}

func (*Literal) node()     {}
func (*Literal) exprNode() {}

// AssignExpr is assignment-as-expression (`target = value`), which lets
// chained assignments (`a = b = c`) nest naturally: the outer AssignExpr's
// Value is itself an *AssignExpr.
type AssignExpr struct {
	Target Expr
	Value  Expr
}

func (*AssignExpr) node()     {}
func (*AssignExpr) exprNode() {}

// BinaryExpr is a two-operand operator application (`a + b`, `a == b`, ...).
type BinaryExpr struct {
	Op   string
	X, Y Expr
}

func (*BinaryExpr) node()     {}
func (*BinaryExpr) exprNode() {}

// UnaryExpr is a single-operand operator application (`-a`, `!a`, ...).
type UnaryExpr struct {
	Op string
	X  Expr
}

func (*UnaryExpr) node()     {}
func (*UnaryExpr) exprNode() {}

// IndexExpr is a subscript access (`b[0]`). When used as an assignment
// target it does not itself qualify as a direct variable reference, so the
// transfer function falls through to default recursion, which visits X
// with a mutating mode.
type IndexExpr struct {
	X, Index Expr
}

func (*IndexExpr) node()     {}
func (*IndexExpr) exprNode() {}

// FieldExpr is a member access (`obj.field`), structurally the same
// "not a direct variable" case as IndexExpr.
type FieldExpr struct {
	X     Expr
	Field string
}

func (*FieldExpr) node()     {}
func (*FieldExpr) exprNode() {}

// CallExpr is a routine call. Each argument's access mode should already be
// resolved by the (out-of-scope) front end: arguments bound to by-reference
// parameters carry PassByRef on their VarRef, everything else Read.
type CallExpr struct {
	Callee string
	Args   []Expr
}

func (*CallExpr) node()     {}
func (*CallExpr) exprNode() {}

// Children returns e's immediate expression children, for generic
// recursion. Node kinds with no expression children return nil.
func Children(e Expr) []Expr {
	switch e := e.(type) {
	case *VarRef:
		if e.Dynamic != nil {
			return []Expr{e.Dynamic}
		}
		return nil
	case *Copy:
		return []Expr{e.Inner}
	case *Literal:
		return nil
	case *AssignExpr:
		return []Expr{e.Target, e.Value}
	case *BinaryExpr:
		return []Expr{e.X, e.Y}
	case *UnaryExpr:
		return []Expr{e.X}
	case *IndexExpr:
		return []Expr{e.X, e.Index}
	case *FieldExpr:
		return []Expr{e.X}
	case *CallExpr:
		return e.Args
	default:
		return nil
	}
}
