// Package cfg builds a control-flow graph over an Ember routine's statement
// tree: a vertex/pred/succ graph construction, adapted here to walk
// Ember's own ir.Stmt tree rather than Go's ast.Stmt. Each ir.Stmt becomes
// one vertex; synthetic Entry and Exit sentinels bound the graph.
package cfg

import "github.com/embervm/emberc/ir"

// Block is one vertex: either a single statement, or the synthetic Entry or
// Exit sentinel (Stmt == nil for both).
type Block struct {
	ID    int
	Stmt  ir.Stmt
	preds map[*Block]struct{}
	succs map[*Block]struct{}
}

// Preds returns b's predecessor blocks, in no particular order.
func (b *Block) Preds() []*Block { return setToSlice(b.preds) }

// Succs returns b's successor blocks, in no particular order.
func (b *Block) Succs() []*Block { return setToSlice(b.succs) }

func setToSlice(m map[*Block]struct{}) []*Block {
	out := make([]*Block, 0, len(m))
	for b := range m {
		out = append(out, b)
	}
	return out
}

// CFG is a built control-flow graph.
type CFG struct {
	Entry, Exit *Block
	blocks      []*Block
}

// Blocks returns every block in the graph, including Entry and Exit, in
// build order (stable and deterministic, unlike iterating the pred/succ
// sets directly).
func (g *CFG) Blocks() []*Block { return g.blocks }

func flowTo(from, to *Block) {
	from.succs[to] = struct{}{}
	to.preds[from] = struct{}{}
}
