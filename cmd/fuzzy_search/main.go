// Command fuzzy_search serves fuzzy matching over HTTP and matches piped
// input from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "1.0.0"

var (
	verbose  bool
	workers  int
	logger   *zap.Logger
	logLevel zap.AtomicLevel
)

var rootCmd = &cobra.Command{
	Use:     "fuzzy_search",
	Short:   "Fuzzy string matching service",
	Version: version,
	Long: `fuzzy_search ranks candidate strings against a short query the way a
file picker or command palette does: characters must appear in order,
consecutive and word-boundary matches score higher, and every hit carries the
byte ranges to highlight.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			logLevel.SetLevel(zapcore.DebugLevel)
		}
		config.Level = logLevel

		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Shard workers per match call (default: number of CPUs)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(matchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
