package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/iksnae/pdfchat/internal"
	"github.com/spf13/cobra"
)

var resetYes bool

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the chat session",
	Long: `Discard the server-side session state and start a fresh session.

This clears all stored messages and cannot be undone, so it asks for
confirmation unless --yes is given. A new session id is created and
stored afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if !resetYes {
			internal.PrintWarning("This will clear all messages and create a new chat session. This cannot be undone.")
			fmt.Print("Continue? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if !strings.EqualFold(strings.TrimSpace(answer), "y") {
				internal.PrintInfo("Reset cancelled")
				return nil
			}
		}

		steps := []internal.ProgressStep{
			{
				Message: "Resetting server session",
				Fn: func() error {
					return app.Client.ResetChat(ctx)
				},
			},
			{
				Message: "Clearing local session state",
				Fn: func() error {
					return app.ClearSession()
				},
			},
			{
				Message: "Creating new session",
				Fn: func() error {
					_, err := app.EnsureSession(ctx)
					return err
				},
			},
		}
		if err := internal.ShowProgressWithSteps(ctx, steps); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		internal.PrintSuccess(fmt.Sprintf("New session: %s", app.Store.ChatID()))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}
