// Package driver is the surrounding compiler driver's entry point: routines
// may be analyzed in parallel since each one's analysis is independent.
// Nothing here is part of the analysis proper; it just fans Analyze out
// across routines concurrently and collects the results.
package driver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/embervm/emberc/copyelim"
	"github.com/embervm/emberc/routine"
)

// RoutineResult pairs a routine's name with its analysis outcome.
type RoutineResult struct {
	Name   string
	Result *copyelim.Result
}

// AnalyzeProgram analyzes every routine concurrently, one goroutine per
// routine: each routine's analysis instance is single-threaded internally
// and shares nothing but its read-only FlowContext and immutable CFG, so
// there is no cross-routine state and fanning out is safe. It waits for
// every routine and returns the first error reported; the analyses do not
// observe ctx, so one routine's failure does not stop the others.
func AnalyzeProgram(ctx context.Context, routines []*routine.Routine) ([]RoutineResult, error) {
	results := make([]RoutineResult, len(routines))

	g, _ := errgroup.WithContext(ctx)
	for i, r := range routines {
		i, r := i, r
		g.Go(func() error {
			res, err := copyelim.Analyze(r.Stmts, r.Flow)
			if err != nil {
				return err
			}
			results[i] = RoutineResult{Name: r.Name, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
