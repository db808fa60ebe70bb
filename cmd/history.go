package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/pdfchat/internal"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyCached bool
)

var (
	// Styles for history command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [chat-id]",
	Short: "Show the message history for a session",
	Long: `Display the question/answer history of a chat session.

Defaults to the active session when no chat id is given. With --cached
the transcript is read from the local cache instead of the backend.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		chatID := app.Store.ChatID()
		if len(args) == 1 {
			chatID = args[0]
		}
		if chatID == "" {
			return fmt.Errorf("no active session; pass a chat id or run 'pdfchat chat' first")
		}

		history, err := fetchHistory(ctx, app, chatID, historyCached)
		if err != nil {
			return err
		}
		app.Store.SetHistory(*history)

		fmt.Println(sessionHeaderStyle.Render(fmt.Sprintf("Chat %s", history.ChatID)))
		fmt.Println(sessionMetaStyle.Render(fmt.Sprintf("%d messages", history.MessageCount)))

		messages := history.Messages
		if historyLimit > 0 && len(messages) > historyLimit {
			messages = messages[len(messages)-historyLimit:]
			fmt.Println(sessionMetaStyle.Render(fmt.Sprintf("(showing last %d)", historyLimit)))
		}

		for _, msg := range messages {
			ts := timestampStyle.Render(internal.FormatTimestamp(msg.Timestamp))
			if msg.IsQuestion() {
				fmt.Println(userMessageStyle.Render("user") + " " + ts)
				fmt.Println(messageContentStyle.Render(msg.Question))
			} else {
				fmt.Println(assistantMessageStyle.Render("assistant") + " " + ts)
				fmt.Println(messageContentStyle.Render(msg.Answer))
			}
		}
		return nil
	},
}

// fetchHistory loads a transcript from the backend (caching it) or,
// when cached is set, from the local transcript cache.
func fetchHistory(ctx context.Context, app *internal.App, chatID string, cached bool) (*internal.ChatHistory, error) {
	if cached {
		history, err := app.Cache.LoadTranscript(chatID)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("no cached transcript for %s; fetch it once without --cached", chatID)
			}
			return nil, err
		}
		return history, nil
	}

	var history *internal.ChatHistory
	err := internal.ShowProgress(ctx, "Fetching history", func() error {
		var fetchErr error
		history, fetchErr = app.Client.GetChatHistory(ctx, chatID)
		return fetchErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	if err := app.Cache.SaveTranscript(history); err != nil {
		internal.LogWarn("Failed to cache transcript: %v", err)
	}
	return history, nil
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Show only the last N messages")
	historyCmd.Flags().BoolVar(&historyCached, "cached", false, "Read from the local transcript cache")
	rootCmd.AddCommand(historyCmd)
}
