package ir

import (
	"fmt"
	"strings"
)

// Sprint renders stmts back to Ember-like source text, for log messages and
// test failure output. It is deliberately approximate (no operator
// precedence, no original formatting) — it exists to make diagnostics
// legible, not to round-trip.
func Sprint(stmts []Stmt) string {
	var b strings.Builder
	printStmts(&b, stmts, 0)
	return b.String()
}

func printStmts(b *strings.Builder, stmts []Stmt, indent int) {
	for _, s := range stmts {
		printStmt(b, s, indent)
	}
}

func pad(b *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		b.WriteString("    ")
	}
}

func printStmt(b *strings.Builder, s Stmt, indent int) {
	pad(b, indent)
	switch s := s.(type) {
	case *ExprStmt:
		b.WriteString(sprintExpr(s.X))
		b.WriteString(";\n")
	case *ReturnStmt:
		b.WriteString("return")
		if s.Value != nil {
			b.WriteString(" ")
			b.WriteString(sprintExpr(s.Value))
		}
		b.WriteString(";\n")
	case *IfStmt:
		fmt.Fprintf(b, "if (%s) {\n", sprintExpr(s.Cond))
		printStmts(b, s.Then, indent+1)
		pad(b, indent)
		b.WriteString("}")
		if len(s.Else) > 0 {
			b.WriteString(" else {\n")
			printStmts(b, s.Else, indent+1)
			pad(b, indent)
			b.WriteString("}")
		}
		b.WriteString("\n")
	case *LoopStmt:
		fmt.Fprintf(b, "while (%s) {\n", sprintExpr(s.Cond))
		printStmts(b, s.Body, indent+1)
		pad(b, indent)
		b.WriteString("}\n")
	case *BranchStmt:
		fmt.Fprintf(b, "%s;\n", s.Kind)
	default:
		b.WriteString("<?>;\n")
	}
}

func sprintExpr(e Expr) string {
	switch e := e.(type) {
	case *VarRef:
		if e.Dynamic != nil {
			return "$$" + sprintExpr(e.Dynamic)
		}
		return "$" + e.Name
	case *Copy:
		return "copy(" + sprintExpr(e.Inner) + ")"
	case *Literal:
		return fmt.Sprintf("%v", e.Value)
	case *AssignExpr:
		return sprintExpr(e.Target) + " = " + sprintExpr(e.Value)
	case *BinaryExpr:
		return sprintExpr(e.X) + " " + e.Op + " " + sprintExpr(e.Y)
	case *UnaryExpr:
		return e.Op + sprintExpr(e.X)
	case *IndexExpr:
		return sprintExpr(e.X) + "[" + sprintExpr(e.Index) + "]"
	case *FieldExpr:
		return sprintExpr(e.X) + "." + e.Field
	case *CallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = sprintExpr(a)
		}
		return e.Callee + "(" + strings.Join(args, ", ") + ")"
	default:
		return "<?>"
	}
}
