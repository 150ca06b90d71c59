package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RecipeSync/RecipeSync/internal/daemon"
)

var (
	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Show or change persisted settings",
	}

	onlineModeCmd = &cobra.Command{
		Use:       "online-mode [true|false]",
		Short:     "Show the online mode, or save it when a value is given",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"true", "false"},
		RunE:      runOnlineMode,
	}
)

func init() { //nolint: gochecknoinits
	settingsCmd.AddCommand(onlineModeCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runOnlineMode(cmd *cobra.Command, args []string) error {
	c := daemon.Build(&cfg, nil)
	defer func() { _ = c.Close() }()

	ctx := contextOf(cmd)

	if len(args) == 1 {
		online, err := strconv.ParseBool(args[0])
		if err != nil {
			return fmt.Errorf("online-mode expects true or false: %w", err)
		}

		if err = c.Flag.Set(ctx, online); err != nil {
			return err
		}
	}

	online, err := c.Flag.Online(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "online mode: %t\n", online)

	return nil
}
