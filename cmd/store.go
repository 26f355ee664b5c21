package cmd

import (
	"github.com/alvinmin/auditradar/core"
	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/spf13/cobra"
)

const entityKindsHelp = "Entity kinds: units, scores, heatmap, alerts, news."

// listCmd prints every stored entity of a kind.
var listCmd = &cobra.Command{
	Use:     "list <kind>",
	Short:   "List stored entities of one kind.",
	Long:    "List prints every entity of the given kind from the entity store.\n\n" + entityKindsHelp,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		kind, err := core.ParseEntityKind(args[0])
		if err != nil {
			contract.LogFatal("Invalid entity kind", err)
		}
		err = withStore(func(store contract.EntityStore) error {
			return core.ExecuteList(rootCtx, cfg, store, kind)
		})
		if err != nil {
			contract.LogFatal("Cannot list entities", err)
		}
	},
}

// getCmd prints one stored entity by id.
var getCmd = &cobra.Command{
	Use:     "get <kind> <id>",
	Short:   "Get one stored entity by id.",
	Long:    "Get prints the entity with the given id from the entity store.\n\n" + entityKindsHelp,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		kind, err := core.ParseEntityKind(args[0])
		if err != nil {
			contract.LogFatal("Invalid entity kind", err)
		}
		err = withStore(func(store contract.EntityStore) error {
			return core.ExecuteGet(rootCtx, cfg, store, kind, args[1])
		})
		if err != nil {
			contract.LogFatal("Cannot get entity", err)
		}
	},
}

// exportCmd writes every entity table to parquet files.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the entity store to parquet files.",
	Long: `Export writes one parquet file per entity kind (units.parquet, scores.parquet,
heatmap.parquet, alerts.parquet, news.parquet) into --output-dir.`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		err := withStore(func(store contract.EntityStore) error {
			paths, err := core.ExecuteExport(rootCtx, cfg, store)
			if err != nil {
				return err
			}
			for _, path := range paths {
				cmd.Printf("Wrote %s\n", path)
			}
			return nil
		})
		if err != nil {
			contract.LogFatal("Cannot export entities", err)
		}
	},
}

// migrateCmd moves a SQL store to a schema version.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the entity store schema.",
	Long: `Migrate runs the embedded schema migrations of the configured SQL backend.

Use --target-version -1 for the latest version and 0 to roll back everything.`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		res, err := core.ExecuteMigrate(rootCtx, cfg)
		if err != nil {
			contract.LogFatal("Cannot migrate entity store", err)
		}
		if !res.Changed {
			cmd.Printf("%s store already at version %d\n", res.Backend, res.ToVersion)
			return
		}
		cmd.Printf("Migrated %s store from version %d to %d\n", res.Backend, res.FromVersion, res.ToVersion)
	},
}

// statusCmd reports the connection and table sizes of the entity store.
var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show entity store status.",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := withStore(func(store contract.EntityStore) error {
			return core.ExecuteStatus(rootCtx, cfg, store)
		})
		if err != nil {
			contract.LogFatal("Cannot get store status", err)
		}
	},
}
