// Package cmd defines the command-line interface for auditradar.
package cmd

import (
	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(driversCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data-dir", contract.DefaultDataDir, "Directory holding the input CSV tables")
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Entity store backend: sqlite or mysql or postgresql or memory")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (sqlite file path, mysql DSN or postgresql keyword string)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("operational-source", string(schema.MetricsSource), "Operational risk source: metrics or signals")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	seedCmd.Flags().String("metrics-file", "", "Write Prometheus text metrics for the seed run to this file")
	if err := viper.BindPFlags(seedCmd.Flags()); err != nil {
		contract.LogFatal("Error binding seed flags", err)
	}

	summaryCmd.Flags().IntP("limit", "l", 0, "Number of units to display (0 = all)")
	if err := viper.BindPFlags(summaryCmd.Flags()); err != nil {
		contract.LogFatal("Error binding summary flags", err)
	}

	exportCmd.Flags().String("output-dir", contract.DefaultOutputDir, "Directory to write the parquet files to")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export flags", err)
	}

	migrateCmd.Flags().Int("target-version", contract.LatestMigration, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(migrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}
