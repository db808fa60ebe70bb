package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/iksnae/pdfchat/internal"
	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>...",
	Short: "Ask a single question without opening the chat view",
	Long: `Send one question over plain HTTP and print the answer.

This is the fallback transport: no realtime channel is opened. The
interactive 'chat' command is the primary way to hold a conversation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		chatID, err := app.EnsureSession(ctx)
		if err != nil {
			return err
		}

		question := strings.Join(args, " ")

		var answer *internal.AnswerResponse
		err = internal.ShowProgress(ctx, "Thinking", func() error {
			var askErr error
			answer, askErr = app.Client.Ask(ctx, chatID, question)
			return askErr
		})
		if err != nil {
			return fmt.Errorf("failed to get an answer: %w", err)
		}

		fmt.Println(answer.Answer)
		if ts := internal.FormatTimestamp(answer.Timestamp); ts != "" {
			fmt.Println(timestampStyle.Render(ts))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
