package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alvinmin/auditradar/core"
	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/internal/iocache"
	"github.com/alvinmin/auditradar/internal/logging"
	"github.com/alvinmin/auditradar/internal/source"
	"github.com/alvinmin/auditradar/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
// sharedSetup attaches the configured logger to it.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "auditradar",
	Short: "Score audit units for composite risk and explain what drives it.",
	Long: `AuditRadar blends baseline ratings, control health, audit issues, external
signals and operational metrics into a risk score per audit unit and dimension.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".auditradar")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("AUDITRADAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("data-dir", contract.DefaultDataDir)
	viper.SetDefault("backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("color", "yes")
	viper.SetDefault("operational-source", schema.MetricsSource)
	viper.SetDefault("log-level", "info")
	viper.SetDefault("log-format", "text")
	viper.SetDefault("limit", 0)
	viper.SetDefault("output-dir", contract.DefaultOutputDir)
	viper.SetDefault("target-version", contract.LatestMigration)
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing into the global 'cfg'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Logs go to stderr so stdout stays clean for reports and MCP stdio.
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, nil)
	rootCtx = logging.WithLogger(rootCtx, logger)
	return nil
}

// sharedSetupWrapper adapts sharedSetup to Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(cmd, args)
}

// newLoader creates the dataset loader over the configured CSV tables.
func newLoader() *core.DatasetLoader {
	src := source.NewCSVSource(cfg.Sources)
	return core.NewDatasetLoader(src, cfg.Layout, logging.FromContext(rootCtx))
}

// withStore opens the configured entity store for the duration of fn.
func withStore(fn func(store contract.EntityStore) error) error {
	store, err := iocache.NewEntityStore(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Backend, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			contract.LogWarn("Error closing store", err)
		}
	}()
	return fn(store)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
