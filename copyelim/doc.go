// Package copyelim implements the copy-elimination dataflow analysis: a
// monotone forward bitmask analysis over a routine's control-flow graph
// that determines which explicit copy nodes the lowering pass inserted
// around assignment and return right-hand sides are provably redundant.
// Deleting the nodes this package reports safe is the job of a separate
// rewriter; this package only decides, it never mutates the tree.
//
// The analysis is a total function: every well-formed routine produces a
// result, and on anything it cannot prove safe it falls back to the
// conservative answer (keep the copy). See doc comments on Analyze and
// flow.Context for the exact conservatism rules.
//
// TODO(reference-binding refinement): a mutating access to a
// reference-bound variable currently marks every pending copy needed,
// regardless of whether that
// particular access could actually expose the variable to another
// reference. A sharper version would mark only those pending copies whose
// variable can actually be referenced from the access in question, not
// every copy in the routine. Left unimplemented; see flow.Context.IsReference.
package copyelim
