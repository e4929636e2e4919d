/*
Package main
File: main.go
Description: Entry point for the regolith binary. Builds the cobra command
tree and the shared zap logger. Subcommands:
    serve     the HTTP + WebSocket server
    stats     print the derived stats of a loadout file
    settings  merge settings layer files
*/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/everforgeworks/regolith/internal/config"
	"github.com/everforgeworks/regolith/internal/logging"
)

var (
	verbose bool
	cfg     config.Config
	logger  *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "regolith",
	Short: "Regolith - mining loadout and session settings server",
	Long: `Regolith computes mining loadout stats for Star Citizen ships and
reconciles layered session settings (system defaults, user profile, session).

Configuration comes from REGOLITH_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if logger, err = logging.New(cfg.LogLevel, verbose); err != nil {
			return err
		}
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
	rootCmd.AddCommand(serveCmd, statsCmd, settingsCmd)
	settingsCmd.AddCommand(settingsMergeCmd)
	statsCmd.Flags().StringVar(&statsCatalogPath, "catalog", "", "Catalog YAML (default: REGOLITH_CATALOG_PATH, then embedded)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
