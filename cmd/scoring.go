package cmd

import (
	"github.com/alvinmin/auditradar/core"
	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/spf13/cobra"
)

// seedCmd scores every unit and repopulates the entity store.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Score all units and repopulate the entity store.",
	Long: `Seed loads the input tables, scores every unit in every risk dimension and
replaces the contents of the entity store with units, dimension scores,
heatmap cells, alerts and news items.

With the memory backend the seeded entities only live for this run.`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := withStore(func(store contract.EntityStore) error {
			return core.ExecuteSeed(rootCtx, cfg, newLoader(), store)
		})
		if err != nil {
			contract.LogFatal("Cannot seed entity store", err)
		}
	},
}

// driversCmd explains the score of a single unit.
var driversCmd = &cobra.Command{
	Use:   "drivers <unit>",
	Short: "Explain what drives the risk score of one unit.",
	Long: `Drivers shows the per-dimension scores of a unit together with the component
breakdown, control gaps, open audit issues, regulations, vendors and the
operational metrics that moved it.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteDrivers(rootCtx, cfg, newLoader(), args[0]); err != nil {
			contract.LogFatal("Cannot explain unit", err)
		}
	},
}

// summaryCmd ranks units by average adjusted score.
var summaryCmd = &cobra.Command{
	Use:     "summary",
	Short:   "Rank units by average adjusted risk score.",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, newLoader()); err != nil {
			contract.LogFatal("Cannot summarize units", err)
		}
	},
}

// weightsCmd prints the effective component weights.
var weightsCmd = &cobra.Command{
	Use:     "weights",
	Short:   "Print the component weights per risk dimension.",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeights(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot print weights", err)
		}
	},
}
