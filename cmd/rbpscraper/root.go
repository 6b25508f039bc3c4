package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	rbplog "github.com/nao1215/rbpscraper/internal/log"
)

// NewRootCmd creates the root command for rbpscraper.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rbpscraper",
		Short: "Archive the articles of a Rock's Backpages search",
		Long: `rbpscraper archives the articles of a Rock's Backpages search.

It reuses the cookies of a logged-in browser session, walks every search
result page, saves each article as HTML and plain text, and writes a CSV
library describing the archived articles. When the session expires you are
asked to paste fresh cookies and the crawl continues.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getBoolFlag retrieves a bool flag from the command or the root persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// setupLogger creates the redacting structured logger.
// Debug level when verbose, Warn otherwise.
func setupLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return rbplog.NewSecureJSONLogger(w, verbose)
	}
	return rbplog.NewSecureLogger(w, verbose)
}
