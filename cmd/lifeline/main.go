package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lifeline",
		Short: "Lifeline — voice-driven emergency intake and dispatch",
		Long:  "Lifeline answers emergency calls, builds the session record as details emerge, and dispatches responder units.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newAgentCmd())
	cmd.AddCommand(newInterviewCmd())
	cmd.AddCommand(newDashboardCmd())
	cmd.AddCommand(newWatchdogCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lifeline %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	// Secrets (OPENAI_API_KEY, LIFELINE_MYSQL_PASSWORD, bot tokens) may live
	// in a local .env during development.
	godotenv.Load()
	os.Exit(execute(newRootCmd()))
}
