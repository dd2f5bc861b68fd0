// Package ir defines the abstract syntax this module analyzes: a small,
// hand-rolled expression and statement tree for Ember routines. There is no
// parser here (front-end parsing is out of scope); routines are built
// in-process, by a compiler front end upstream or by the routine builder in
// package routine for tests and the demo CLI.
package ir

// Node is the common ancestor of every ir type; Expr and Stmt both embed
// it.
type Node interface {
	node()
}

// Expr is any node that occurs in expression position.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that occurs in statement position.
type Stmt interface {
	Node
	stmtNode()
}

// AccessMode classifies how a variable reference is used at one particular
// occurrence in the tree. The same variable may appear with different modes
// at different sites.
type AccessMode int

const (
	// Read is a plain value read; it can never observe a later mutation.
	Read AccessMode = iota
	// Write is a full overwrite of the variable's slot: a simple
	// reassignment with no read of the prior value.
	Write
	// ReadWrite is a compound read-modify-write access: a target reached
	// through an index or field expression (`b[0] = 9`), a compound
	// assignment operator, or anything else that both reads and mutates
	// the variable in place rather than overwriting it outright.
	ReadWrite
	// RefBind is the right-hand side of a reference-binding assignment
	// (`$x =& $y`): this occurrence makes the variable referenceable.
	RefBind
	// PassByRef is an argument passed to a by-reference parameter.
	PassByRef
)

func (m AccessMode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "read-write"
	case RefBind:
		return "ref-bind"
	case PassByRef:
		return "pass-by-ref"
	default:
		return "unknown"
	}
}

// MightChange reports whether an occurrence with this mode can change the
// variable's value, directly or by exposing it to later reference-based
// mutation. Read is the only mode that cannot.
func (m AccessMode) MightChange() bool {
	return m != Read
}
