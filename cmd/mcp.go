package cmd

import (
	"github.com/alvinmin/auditradar/core"
	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/internal/logging"
	"github.com/alvinmin/auditradar/internal/mcp"
	"github.com/alvinmin/auditradar/schema"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the AuditRadar MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents query unit drivers,
summaries, alerts, heatmap cells and news items via standard tools.

The memory backend is seeded before the server starts.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		loader := newLoader()
		return withStore(func(store contract.EntityStore) error {
			if cfg.Backend == schema.MemoryBackend {
				seeder := &core.Seeder{Store: store, Logger: logging.FromContext(rootCtx)}
				data, err := loader.Load(rootCtx)
				if err != nil {
					return err
				}
				seeder.Scorer = core.NewScorer(data, cfg.ComputedWeights, cfg.OperationalSource).WithLogger(seeder.Logger)
				if _, err := seeder.Run(rootCtx); err != nil {
					return err
				}
			}
			return mcp.StartMCPServer(rootCtx, cfg, loader, store)
		})
	},
}
