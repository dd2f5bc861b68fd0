package copyelim

import "github.com/embervm/emberc/ir"

// Index assigns a dense id to each copy node the transfer function decides
// to register, keyed on the node's pointer identity. An Index is scoped to
// a single analysis run.
type Index struct {
	ids   map[*ir.Copy]uint
	nodes []*ir.Copy
}

// NewIndex returns an empty registry.
func NewIndex() *Index {
	return &Index{ids: make(map[*ir.Copy]uint)}
}

// Ensure returns node's id, assigning the next free id the first time a
// given node is seen.
func (x *Index) Ensure(node *ir.Copy) uint {
	if id, ok := x.ids[node]; ok {
		return id
	}
	id := uint(len(x.nodes))
	x.ids[node] = id
	x.nodes = append(x.nodes, node)
	return id
}

// Len returns the number of distinct copy nodes registered so far.
func (x *Index) Len() int { return len(x.nodes) }

// Each calls fn once per registered node, in registration order.
func (x *Index) Each(fn func(id uint, node *ir.Copy)) {
	for id, node := range x.nodes {
		fn(uint(id), node)
	}
}

// MaxInlineCopies is the number of copy ids past which a routine is large
// enough that logging a diagnostic (rather than changing behavior — the
// bitset backing both masks and needed grows without a cap) is worthwhile.
// See DESIGN.md for the reasoning behind leaving the bitset uncapped.
const MaxInlineCopies = 64
