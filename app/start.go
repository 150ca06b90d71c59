package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RecipeSync/RecipeSync/internal/daemon"
)

var (
	devMode     bool
	seedOnStart bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the RecipeSync web service",
		PreRun: func(cmd *cobra.Command, _ []string) {
			if devMode {
				cfg.DevMode = true
			}

			if cmd.Flags().Changed("seed") {
				cfg.SeedOnStart = seedOnStart
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := daemon.New(&cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(contextOf(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return d.Start(ctx)
		},
	}
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode (skips the graceful shutdown delay)")
	startCmd.Flags().BoolVar(&seedOnStart, "seed", false, "Seed an empty local store on start")

	rootCmd.AddCommand(startCmd)
}

// contextOf returns the command context, background when the command runs without one.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
