// ABOUTME: Interactive terminal interface command
// ABOUTME: Restores the session and runs the bubbletea app until the user quits

package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/markalston/hrdesk/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [path]",
	Short: "Open the interactive interface",
	Long: `Open the interactive interface. An optional path such as /hr/employees
opens that screen, after signing in if needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return tui.Run(ctx, a.client, a.machine, path)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
