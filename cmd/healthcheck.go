package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that pdfchat can reach the backend and its local state",
	Long: `Check the health of pdfchat by verifying:
  • Config directory and state database
  • Backend reachability
  • Uploaded file count
  • Active session presence

This command is useful for debugging connectivity issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 pdfchat Health Check"))
		fmt.Println()

		// Step 1: Application context (config + state DB)
		fmt.Println(infoStyle.Render("Step 1: Opening config and state database..."))
		app, err := newApp()
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to open local state:"), err)
			os.Exit(1)
		}
		defer app.Close()
		fmt.Println(successStyle.Render("✅ Local state opened"))
		if healthcheckVerbose {
			fmt.Printf("   Server: %s\n", app.Client.BaseURL)
		}
		fmt.Println()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Step 2: Backend reachability
		fmt.Println(infoStyle.Render("Step 2: Checking backend reachability..."))
		list, err := app.Client.ListFiles(ctx)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Backend unreachable:"), err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("✅ Backend reachable"))
		if healthcheckVerbose {
			fmt.Printf("   Uploaded files: %d\n", list.TotalFiles)
		}
		fmt.Println()

		// Step 3: Active session
		fmt.Println(infoStyle.Render("Step 3: Checking active session..."))
		chatID := app.Store.ChatID()
		if chatID == "" {
			fmt.Println(warningStyle.Render("⚠️  No active session"))
			fmt.Println("   Run 'pdfchat chat' to start one")
			return nil
		}
		history, err := app.Client.GetChatHistory(ctx, chatID)
		if err != nil {
			fmt.Println(warningStyle.Render("⚠️  Stored session not found on server:"), err)
			fmt.Println("   Run 'pdfchat reset' to start fresh")
			return nil
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✅ Active session %s (%d messages stored)", chatID, history.MessageCount)))
		return nil
	},
}

func init() {
	healthcheckCmd.Flags().BoolVar(&healthcheckVerbose, "detail", false, "Show detailed output")
	rootCmd.AddCommand(healthcheckCmd)
}
