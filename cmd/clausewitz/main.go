// Command clausewitz decodes Crusader Kings III saves into typed data.
//
// Usage:
//
//	clausewitz decode save.ck3 [--output json|yaml]
//	clausewitz check save.ck3
//	clausewitz tree save.ck3
//	clausewitz fmt save.ck3
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/clausewitz/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	format     string
	workers    int

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "clausewitz",
	Short: "Schema-driven decoder for Clausewitz save files",
	Long: `clausewitz reads Crusader Kings III saves (plain text or JSON exports)
and binds them to a typed game state.

Field problems are reported with their path and do not stop the decode.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("workers") {
			cfg.Decode.Workers = workers
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		logger, err = cfg.Logger(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "auto", "Input format (auto, text, json)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Decode workers (overrides config)")

	decodeCmd.Flags().StringVarP(&output, "output", "o", "json", "Output encoding (json, yaml)")

	rootCmd.AddCommand(decodeCmd, checkCmd, treeCmd, fmtCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
