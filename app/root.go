// Package app implements the main application commands.
package app

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/RecipeSync/RecipeSync/internal/config"
	"github.com/RecipeSync/RecipeSync/internal/logger"
)

var (
	configPath string // Path to the configuration directory
	verbose    bool

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "recipesync",
		Short: "RecipeSync serves a recipe list from a remote feed or a local copy",
		Long: `RecipeSync serves a recipe list either from a remote JSON feed (online mode)
or from a local database copy (offline mode). The local copy is seeded once
from the remote feed.`,
		Args:              cobra.OnlyValidArgs,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory containing main.toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Keep the configured log level for cli commands")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config and sets up logging for every command.
// Commands other than start log warnings and errors only, unless --verbose is set,
// so their stdout stays machine readable.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if err = logger.Init(cfg.Log); err != nil {
		return err
	}

	if cmd != startCmd && !verbose && zerolog.GlobalLevel() < zerolog.WarnLevel {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	return nil
}
