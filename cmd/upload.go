package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/pdfchat/internal"
	"github.com/spf13/cobra"
)

var (
	uploadStartChat bool
)

var (
	fileNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	fileSizeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload PDF files to the backend",
	Long: `Validate and upload one or more PDF files.

Each file is checked locally against the application/pdf content type
and the configured size ceiling before anything is sent; invalid files
are rejected with a message and never reach the network.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		uploader := internal.NewUploader(app.Client, app.Config.MaxUploadBytes())

		var listing *internal.FileList
		uploader.OnListingStale = func() {
			listing, _ = app.Client.ListFiles(ctx)
		}

		uploader.Add(args)
		if msg := uploader.Err(); msg != "" {
			internal.PrintError(msg)
		}

		selected := uploader.Selected()
		if len(selected) == 0 {
			return fmt.Errorf("no valid PDF files to upload")
		}

		for _, path := range selected {
			internal.PrintInfo(fmt.Sprintf("%s %s",
				fileNameStyle.Render(filepath.Base(path)),
				fileSizeStyle.Render(formatSize(path))))
		}

		err = internal.ShowProgress(ctx, fmt.Sprintf("Uploading %d file(s)", len(selected)), func() error {
			_, uploadErr := uploader.Upload(ctx)
			return uploadErr
		})
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}

		internal.PrintSuccess(fmt.Sprintf("Uploaded %d file(s)", len(selected)))
		if listing != nil {
			internal.PrintInfo(fmt.Sprintf("%d file(s) now stored on the server", listing.TotalFiles))
		}

		if uploadStartChat {
			return chatCmd.RunE(cmd, nil)
		}
		return nil
	},
}

func formatSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("(%.2f MB)", float64(info.Size())/(1024*1024))
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadStartChat, "chat", false, "Open the chat view after uploading")
	rootCmd.AddCommand(uploadCmd)
}
