// Command emberopt is a small demonstration CLI: it builds a handful of
// illustrative Ember routines in-process and reports which copy nodes the
// analysis proves removable.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/embervm/emberc/copyelim"
	"github.com/embervm/emberc/ir"
	"github.com/embervm/emberc/routine"
)

var verbosity int

func main() {
	root := &cobra.Command{
		Use:   "emberopt",
		Short: "Demonstrates the Ember copy-elimination analysis",
	}
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging verbosity")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		switch {
		case verbosity >= 2:
			log.SetLevel(log.DebugLevel)
		case verbosity == 1:
			log.SetLevel(log.InfoLevel)
		default:
			log.SetLevel(log.WarnLevel)
		}
	}

	root.AddCommand(analyzeCmd(), explainCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run every built-in demo routine and print a one-line summary each",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range demoScenarios() {
				res, err := copyelim.Analyze(s.routine.Stmts, s.routine.Flow)
				if err != nil {
					return fmt.Errorf("%s: %w", s.routine.Name, err)
				}
				fmt.Printf("%-20s registered=%d removed=%d return_candidates=%d return_removed=%d\n",
					s.routine.Name, res.Stats.Registered, res.Stats.Removed,
					res.Stats.ReturnCandidates, res.Stats.ReturnRemoved)
			}
			return nil
		},
	}
}

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <scenario>",
		Short: "Print a scenario's source and its analysis result in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			for _, s := range demoScenarios() {
				if s.routine.Name != name {
					continue
				}
				res, err := copyelim.Analyze(s.routine.Stmts, s.routine.Flow)
				if err != nil {
					return err
				}
				fmt.Println(ir.Sprint(s.routine.Stmts))
				fmt.Printf("registered=%d removed=%d (%.0f%%)\n",
					res.Stats.Registered, res.Stats.Removed,
					100*float64(res.Stats.Removed)/float64(max(res.Stats.Registered, 1)))
				return nil
			}
			return fmt.Errorf("no such scenario %q", name)
		},
	}
}

type scenario struct {
	routine *routine.Routine
}
