package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultConfigPath = "ebecollect.yaml"

var (
	configPath string
	dsnFlag    string
	verbose    bool

	logger = zap.NewNop()
)

func main() {
	root := &cobra.Command{
		Use:   "ebecollect",
		Short: "Collect event-by-event simulation results into a queryable store",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if verbose {
				config.Level.SetLevel(zapcore.DebugLevel)
			}
			built, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = built
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Project config file")
	root.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "Database DSN (overrides the config file)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(collectCmd())
	root.AddCommand(mergeCmd())
	root.AddCommand(evalCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
