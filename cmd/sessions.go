package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/pdfchat/internal"
	"github.com/spf13/cobra"
)

var activeStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("42")).
	Bold(true)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List chat sessions known to the backend",
	Long: `List all chat sessions stored on the backend, with message counts
and last-update times. The locally active session is marked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var list *internal.ChatList
		err = internal.ShowProgress(ctx, "Fetching sessions", func() error {
			var fetchErr error
			list, fetchErr = app.Client.ListChats(ctx)
			return fetchErr
		})
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(list.Chats) == 0 {
			internal.PrintInfo("No sessions yet. Use 'pdfchat chat' to start one.")
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Chat Sessions (%d)", len(list.Chats))))
		fmt.Println()

		active := app.Store.ChatID()
		now := time.Now().UTC()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CHAT ID\tMESSAGES\tUPDATED\t")
		for _, chat := range list.Chats {
			marker := ""
			if chat.ChatID == active {
				marker = activeStyle.Render("← active")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				idStyle.Render(chat.ChatID),
				countStyle.Render(fmt.Sprintf("%d", chat.MessageCount)),
				internal.RelativeTime(internal.ParseTimestamp(chat.UpdatedAt), now),
				marker)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
