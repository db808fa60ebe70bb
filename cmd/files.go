package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/pdfchat/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

// filesCmd represents the files command
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List files uploaded to the backend",
	Long:  `List all PDF files currently stored on the backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var list *internal.FileList
		err = internal.ShowProgress(ctx, "Fetching uploaded files", func() error {
			var fetchErr error
			list, fetchErr = app.Client.ListFiles(ctx)
			return fetchErr
		})
		if err != nil {
			return fmt.Errorf("failed to list files: %w", err)
		}

		if len(list.Files) == 0 {
			internal.PrintInfo("No files uploaded yet. Use 'pdfchat upload <file.pdf>' to add one.")
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Uploaded Files (%d)", list.TotalFiles)))
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFILENAME\tSIZE")
		for _, f := range list.Files {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				idStyle.Render(f.ID),
				f.Filename,
				countStyle.Render(fmt.Sprintf("%.2f MB", float64(f.Size)/(1024*1024))))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
}
