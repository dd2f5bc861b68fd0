package copyelim

import (
	"github.com/bits-and-blooms/bitset"
	log "github.com/sirupsen/logrus"

	"github.com/embervm/emberc/cfg"
	"github.com/embervm/emberc/fixpoint"
	"github.com/embervm/emberc/flow"
	"github.com/embervm/emberc/ir"
)

// analysisDriver wires walker into fixpoint.Analysis[State].
type analysisDriver struct {
	w       *walker
	exit    *cfg.Block
	numVars int
}

func (d *analysisDriver) Bottom() State               { return State{} }
func (d *analysisDriver) InitialState() State         { return initialState(d.numVars) }
func (d *analysisDriver) StatesEqual(a, b State) bool { return equalStates(a, b) }
func (d *analysisDriver) Merge(a, b State) State      { return mergeStates(a, b) }

func (d *analysisDriver) ProcessBlock(b *cfg.Block, in State) State {
	d.w.state = in
	if b.Stmt != nil {
		d.w.visitStmt(b.Stmt)
	}
	if b == d.exit {
		d.w.filterReturnCopies()
	}
	return d.w.state
}

// Stats is bookkeeping over the analysis result: how many copy ids were
// registered and removed, for compiler -v diagnostics and tests. It adds no
// new analysis of its own.
type Stats struct {
	Registered       int
	Removed          int
	ReturnCandidates int
	ReturnRemoved    int
}

// Result is the outcome of one Analyze call.
type Result struct {
	// Removable holds every copy node the analysis has proven safe to
	// delete.
	Removable map[*ir.Copy]bool
	Stats     Stats
}

// Analyze runs the copy-elimination analysis over a routine's statement
// list. It builds the routine's CFG itself; a malformed shape surfaces as
// the *cfg.StructuralError CFG construction returns — CFG construction is
// the only part of this pipeline that can fail, the dataflow analysis
// proper is total.
func Analyze(stmts []ir.Stmt, fc flow.Context) (*Result, error) {
	g, err := cfg.Build(stmts)
	if err != nil {
		return nil, err
	}

	w := &walker{
		flowCtx:          fc,
		index:            NewIndex(),
		needed:           bitset.New(0),
		returnCandidates: make(map[*ir.Copy]int),
	}
	d := &analysisDriver{w: w, exit: g.Exit, numVars: fc.NumVars()}
	fixpoint.Run(g, d)

	result := extract(w)
	if w.index.Len() > MaxInlineCopies {
		log.WithField("copies", w.index.Len()).Info("copyelim: routine exceeds MaxInlineCopies, consider a rewrite boundary")
	}
	log.WithFields(log.Fields{
		"registered": result.Stats.Registered,
		"removed":    result.Stats.Removed,
	}).Debug("copyelim: analysis complete")

	return result, nil
}

// TryGetUnnecessaryCopies is the external entry point: it returns the set
// of copy nodes proven safe to remove.
func TryGetUnnecessaryCopies(stmts []ir.Stmt, fc flow.Context) (map[*ir.Copy]bool, error) {
	result, err := Analyze(stmts, fc)
	if err != nil {
		return nil, err
	}
	return result.Removable, nil
}
