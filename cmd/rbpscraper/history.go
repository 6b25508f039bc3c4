package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/rbpscraper/internal/config"
	"github.com/nao1215/rbpscraper/internal/database"
	"github.com/nao1215/rbpscraper/internal/report"
)

// defaultHistoryLimit is the number of runs listed when --limit is not set.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous crawl runs",
		Long: `History lists the crawl runs recorded in the history database.

Every crawl stores its summary and library rows in
$XDG_DATA_HOME/rbpscraper/rbpscraper.db unless --no-db was given. The
history is an audit trail; it is never used to skip articles.

Examples:
  # List the latest runs
  rbpscraper history

  # Only runs of one descriptor label
  rbpscraper history --label jh

  # Show one run with its articles as Markdown
  rbpscraper history --run 3 --markdown

  # Delete a run
  rbpscraper history --delete 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("label", "l", "",
		"Only list runs with this id label")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().Int64("run", 0,
		"Show one run and its articles")
	cmd.Flags().Int64("delete", 0,
		"Delete one run and its articles")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// historyOptions holds the parsed history flags.
type historyOptions struct {
	dbDir    string
	label    string
	limit    int
	runID    int64
	deleteID int64
	json     bool
	markdown bool
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	var opts historyOptions
	var err error

	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return err
	}
	if opts.label, err = flags.GetString("label"); err != nil {
		return err
	}
	if opts.limit, err = flags.GetInt("limit"); err != nil {
		return err
	}
	if opts.runID, err = flags.GetInt64("run"); err != nil {
		return err
	}
	if opts.deleteID, err = flags.GetInt64("delete"); err != nil {
		return err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if opts.json && opts.markdown {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}

	return runHistory(cmd.Context(), cmd, opts)
}

// runHistory lists, shows or deletes stored runs.
func runHistory(ctx context.Context, cmd *cobra.Command, opts historyOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(opts.dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	writer := newReportWriter(opts.json, opts.markdown, true, out)

	switch {
	case opts.deleteID > 0:
		deleted, err := db.DeleteRun(ctx, opts.deleteID)
		if err != nil {
			return fmt.Errorf("failed to delete run %d: %w", opts.deleteID, err)
		}
		if !deleted {
			return fmt.Errorf("run %d not found", opts.deleteID)
		}
		fmt.Fprintf(out, "Deleted run %d\n", opts.deleteID)
		return nil

	case opts.runID > 0:
		rec, err := db.GetRun(ctx, opts.runID)
		if err != nil {
			return fmt.Errorf("failed to load run %d: %w", opts.runID, err)
		}
		if rec == nil {
			return fmt.Errorf("run %d not found", opts.runID)
		}
		rows, err := db.RunArticles(ctx, rec.ID)
		if err != nil {
			return fmt.Errorf("failed to load articles of run %d: %w", rec.ID, err)
		}
		_, err = writer.Write(&report.Report{Summary: &rec.Summary, Library: rows})
		return err

	default:
		records, err := db.ListRuns(ctx, opts.label, opts.limit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		entries := make([]report.HistoryEntry, 0, len(records))
		for i := range records {
			entries = append(entries, report.HistoryEntry{
				ID:      records[i].ID,
				Summary: &records[i].Summary,
			})
		}
		_, err = writer.WriteHistory(entries)
		return err
	}
}
