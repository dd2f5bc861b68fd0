package cfg

import (
	log "github.com/sirupsen/logrus"

	"github.com/embervm/emberc/ir"
)

// loopFrame tracks a LoopStmt's header block and the break-sites that
// still need to be wired to whatever follows the loop once it's known.
type loopFrame struct {
	header *Block
	breaks []*Block
}

type builder struct {
	blocks []*Block
	nextID int
	exit   *Block
}

func (b *builder) newBlock(s ir.Stmt) *Block {
	blk := &Block{
		ID:    b.nextID,
		Stmt:  s,
		preds: make(map[*Block]struct{}),
		succs: make(map[*Block]struct{}),
	}
	b.nextID++
	b.blocks = append(b.blocks, blk)
	return blk
}

// Build constructs a CFG over a routine's top-level statement list. It
// returns a *StructuralError (never a generic error) when the shape is
// unbuildable — currently, only a break or continue outside any enclosing
// loop.
func Build(stmts []ir.Stmt) (*CFG, error) {
	b := &builder{}
	entry := b.newBlock(nil)
	exit := b.newBlock(nil)
	b.exit = exit

	dangling, err := b.buildSeq(stmts, []*Block{entry}, nil)
	if err != nil {
		log.WithField("reason", err.Error()).Warn("cfg: bailing out of malformed routine shape")
		return nil, err
	}
	for _, d := range dangling {
		flowTo(d, exit)
	}

	return &CFG{Entry: entry, Exit: exit, blocks: b.blocks}, nil
}

// buildSeq builds blocks for stmts in order, wiring each predecessor block
// in preds to the first statement built, and returns the set of blocks
// whose control falls through past the end of stmts (to be wired to
// whatever follows by the caller). loopStack is the stack of enclosing
// loops, innermost last, for resolving break/continue.
func (b *builder) buildSeq(stmts []ir.Stmt, preds []*Block, loopStack []*loopFrame) ([]*Block, error) {
	cur := preds
	for _, s := range stmts {
		var err error
		cur, loopStack, err = b.buildStmt(s, cur, loopStack)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func (b *builder) buildStmt(s ir.Stmt, preds []*Block, loopStack []*loopFrame) ([]*Block, []*loopFrame, error) {
	switch st := s.(type) {
	case *ir.IfStmt:
		cond := b.newBlock(s)
		for _, p := range preds {
			flowTo(p, cond)
		}
		thenDangling, err := b.buildSeq(st.Then, []*Block{cond}, loopStack)
		if err != nil {
			return nil, nil, err
		}
		var elseDangling []*Block
		if len(st.Else) > 0 {
			elseDangling, err = b.buildSeq(st.Else, []*Block{cond}, loopStack)
			if err != nil {
				return nil, nil, err
			}
		} else {
			elseDangling = []*Block{cond}
		}
		return append(thenDangling, elseDangling...), loopStack, nil

	case *ir.LoopStmt:
		header := b.newBlock(s)
		for _, p := range preds {
			flowTo(p, header)
		}
		frame := &loopFrame{header: header}
		bodyDangling, err := b.buildSeq(st.Body, []*Block{header}, append(loopStack, frame))
		if err != nil {
			return nil, nil, err
		}
		for _, d := range bodyDangling {
			flowTo(d, header)
		}
		return append([]*Block{header}, frame.breaks...), loopStack, nil

	case *ir.BranchStmt:
		if len(loopStack) == 0 {
			return nil, nil, newStructuralError("break/continue outside any enclosing loop")
		}
		blk := b.newBlock(s)
		for _, p := range preds {
			flowTo(p, blk)
		}
		frame := loopStack[len(loopStack)-1]
		if st.Kind == ir.Break {
			frame.breaks = append(frame.breaks, blk)
		} else {
			flowTo(blk, frame.header)
		}
		return nil, loopStack, nil

	case *ir.ReturnStmt:
		blk := b.newBlock(s)
		for _, p := range preds {
			flowTo(p, blk)
		}
		flowTo(blk, b.exit)
		return nil, loopStack, nil

	default:
		blk := b.newBlock(s)
		for _, p := range preds {
			flowTo(p, blk)
		}
		return []*Block{blk}, loopStack, nil
	}
}
