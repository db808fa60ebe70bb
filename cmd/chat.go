package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/pdfchat/internal"
	"github.com/iksnae/pdfchat/internal/tui"
	"github.com/spf13/cobra"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start or continue an interactive chat session",
	Long: `Open the interactive chat view for the active session.

A session is created first when none is stored; an existing session id
is reused. One realtime connection is opened for the session; if it
drops, reopen the view to reconnect.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		// View lifetime scopes all network calls; cancelling tears
		// down in-flight requests along with the view.
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		chatID, err := app.EnsureSession(ctx)
		if err != nil {
			return err
		}

		sock, err := internal.DialSocket(ctx, app.Client.BaseURL, chatID)
		if err != nil {
			return fmt.Errorf("failed to open realtime channel: %w", err)
		}
		defer sock.Close()

		model := tui.NewChatModel(ctx, app, sock)
		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("chat view failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
