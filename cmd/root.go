package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/pdfchat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	serverURL string
	configDir string
	version   string = "dev"
	commit    string = "unknown"
	date      string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pdfchat",
	Short: "Chat with your PDF documents from the terminal",
	Long: `A terminal client for a PDF document Q&A service.

Upload PDF files to the backend, open a chat session, and ask questions
about the documents over a realtime channel. Sessions persist across
invocations; history can be inspected and exported.

Quick Start:
  pdfchat upload report.pdf          # Upload a document
  pdfchat chat                       # Start or continue a chat session
  pdfchat files                      # List uploaded files
  pdfchat export --format md         # Export the current transcript

The backend is selected via --server, the PDFCHAT_SERVER environment
variable, or server_url in the config file, in that order.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend base URL (overrides config and environment)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Custom config directory")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// newApp constructs the application context shared by all commands.
// The caller owns the returned App and must Close it.
func newApp() (*internal.App, error) {
	dir := configDir
	if dir == "" {
		var err error
		dir, err = internal.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := internal.LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	return internal.NewApp(dir, internal.ResolveServerURL(serverURL, cfg))
}
