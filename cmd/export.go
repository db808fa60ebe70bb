package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/pdfchat/internal"
	"github.com/iksnae/pdfchat/internal/export"
	"github.com/spf13/cobra"
)

var (
	format       string
	outputDir    string
	exportCached bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [chat-id]",
	Short: "Export a chat transcript to file",
	Long: `Export a chat transcript in one of several formats (jsonl, md, yaml, json).

Defaults to the active session when no chat id is given. Use
'pdfchat sessions' to see available chat ids. With --cached the
transcript comes from the local cache instead of the backend.`,
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

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		history, err := fetchHistory(ctx, app, chatID, exportCached)
		if err != nil {
			return err
		}
		if len(history.Messages) == 0 {
			internal.PrintWarning("Session has no messages; nothing to export")
			return nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		outPath := filepath.Join(outputDir, fmt.Sprintf("chat_%s.%s", chatID, exporter.Extension()))
		f, err := os.Create(outPath)
		if err != nil {
			return &internal.ExportError{Format: format, Path: outPath, Err: err}
		}
		defer f.Close()

		if err := exporter.Export(history, f); err != nil {
			return &internal.ExportError{Format: format, Path: outPath, Err: err}
		}

		internal.PrintSuccess(fmt.Sprintf("Exported %d message(s) to %s", len(history.Messages), outPath))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&format, "format", "f", "md", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	exportCmd.Flags().BoolVar(&exportCached, "cached", false, "Read from the local transcript cache")
	rootCmd.AddCommand(exportCmd)
}
