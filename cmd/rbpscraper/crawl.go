package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/rbpscraper/internal/archive"
	"github.com/nao1215/rbpscraper/internal/auth"
	"github.com/nao1215/rbpscraper/internal/config"
	"github.com/nao1215/rbpscraper/internal/database"
	"github.com/nao1215/rbpscraper/internal/fetcher"
	"github.com/nao1215/rbpscraper/internal/pipeline"
	"github.com/nao1215/rbpscraper/internal/report"
	"github.com/nao1215/rbpscraper/internal/scraper"
)

// urlPrompt is shown when no search URL was configured.
const urlPrompt = "Please paste URL:\n\n"

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Archive every article of a search",
		Long: `Crawl archives every article of a Rock's Backpages search.

It reads the number of result pages from the first page, indexes every
listing, then fetches each article, saves it under html/ and txt/, and
writes <label>LIB.csv to the output directory. Ids are the initials of the
descriptor followed by page and position, e.g. jh100.

Cookies are taken from --cookie or the configuration file. When they are
missing or the session expires during the crawl, you are asked to paste
the cookie header of a logged-in browser.

Examples:
  # Archive a search
  rbpscraper crawl -d "Jimi Hendrix" -u "https://www.rocksbackpages.com/Library/SearchResults?SearchText=hendrix&PageNumber=1" -o ./hendrix

  # Be gentler with the site and write a Markdown report
  rbpscraper crawl -d "Jimi Hendrix" --detail-delay 1s --markdown --report hendrix.md

  # Use the values of a configuration file
  rbpscraper crawl -c myconfig.yaml`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	// Search flags
	cmd.Flags().StringP("descriptor", "d", "",
		"Description of the search, e.g. an artist name (its initials form the ids)")
	cmd.Flags().StringP("url", "u", "",
		"First search result page URL containing PageNumber=<n> (prompted when empty)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory for html/, txt/ and the library CSV")
	cmd.Flags().String("cookie", "",
		"Cookie header of a logged-in browser session (prompted when empty)")

	// Request behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Duration("search-delay", config.DefaultSearchDelay,
		"Wait between search result pages")
	cmd.Flags().Duration("detail-delay", config.DefaultDetailDelay,
		"Wait between article pages")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header")
	cmd.Flags().String("proxy", "",
		"Upstream proxy (http://host:port, socks5://host:port or host:port)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum bytes read from one response")
	cmd.Flags().Int("progress-step", config.DefaultProgressStep,
		"Percentage between progress messages")
	cmd.Flags().Bool("skip-text", false,
		"Do not write the plain-text archive")
	cmd.Flags().Bool("respect-robots", false,
		"Skip pages disallowed by the site's robots.txt")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .rbpscraper in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report", "r", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-db", false,
		"Do not record the run in the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
}

// buildConfig creates a Config from the configuration file and the flags.
// Flags override file values only when they were set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path that does not exist is an error; a missing default
	// file is not.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	overrides := []error{
		override(flags, "descriptor", flags.GetString, &cfg.Descriptor),
		override(flags, "url", flags.GetString, &cfg.SearchURL),
		override(flags, "output", flags.GetString, &cfg.OutputDir),
		override(flags, "cookie", flags.GetString, &cfg.Cookie),
		override(flags, "timeout", flags.GetDuration, &cfg.Timeout),
		override(flags, "search-delay", flags.GetDuration, &cfg.SearchDelay),
		override(flags, "detail-delay", flags.GetDuration, &cfg.DetailDelay),
		override(flags, "user-agent", flags.GetString, &cfg.UserAgent),
		override(flags, "proxy", flags.GetString, &cfg.ProxyAddress),
		override(flags, "max-body-size", flags.GetInt64, &cfg.MaxBodySize),
		override(flags, "progress-step", flags.GetInt, &cfg.ProgressStep),
		override(flags, "skip-text", flags.GetBool, &cfg.SkipText),
		override(flags, "respect-robots", flags.GetBool, &cfg.RespectRobots),
		override(flags, "db-dir", flags.GetString, &cfg.DBDir),
	}
	if err := errors.Join(overrides...); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report"); err != nil {
		return nil, err
	}
	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.LogJSON = getBoolFlag(cmd, "log-json")

	return cfg, nil
}

// override copies a flag into dst when the flag was set on the command line.
func override[T any](flags *pflag.FlagSet, name string, get func(string) (T, error), dst *T) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// runCrawl performs one crawl run and outputs its report.
// Prompts read from in; console messages and the report go to out.
func runCrawl(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, logger *slog.Logger) error {
	// Both prompts share one buffered reader so that no pasted line is lost.
	reader := bufio.NewReader(in)

	if strings.TrimSpace(cfg.SearchURL) == "" {
		searchURL, err := promptLine(ctx, reader, out, urlPrompt)
		if err != nil {
			if errors.Is(err, errNoInput) {
				return fmt.Errorf("configuration error: %w", config.ErrNoSearchURL)
			}
			return err
		}
		cfg.SearchURL = searchURL
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger.Info("starting crawl",
		"descriptor", cfg.Descriptor,
		"url", cfg.SearchURL,
		"output", cfg.OutputDir,
		"saveToDB", cfg.SaveToDB,
	)

	var history pipeline.HistoryStore
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		history = db
		logger.Info("database opened", "path", db.Path())
	}

	client, err := fetcher.NewHTTPClient(cfg.Timeout, cfg.ProxyAddress, cfg.UserAgent)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}
	if cfg.ProxyAddress != "" {
		if err := fetcher.CheckProxy(ctx, cfg.ProxyAddress); err != nil {
			return fmt.Errorf("proxy check failed: %w", err)
		}
		logger.Info("proxy connection verified", "proxy", cfg.ProxyAddress)
	}

	provider := auth.NewChainProvider(
		auth.StaticProvider(cfg.Cookie),
		auth.NewPromptProvider(reader, out),
	)
	session := auth.NewSession(provider, auth.WithLogger(logger))

	var pages scraper.Fetcher = fetcher.New(client, fetcher.WithMaxBodySize(cfg.MaxBodySize), fetcher.WithLogger(logger))
	if cfg.RespectRobots {
		pages = fetcher.NewRobotsFetcher(pages, client, cfg.UserAgent, logger)
	}

	var storeOpts []archive.Option
	if cfg.SkipText {
		storeOpts = append(storeOpts, archive.WithoutText())
	}

	s := scraper.New(
		scraper.Options{
			Descriptor:   cfg.Descriptor,
			SearchURL:    cfg.SearchURL,
			OutputDir:    cfg.OutputDir,
			SearchDelay:  cfg.SearchDelay,
			DetailDelay:  cfg.DetailDelay,
			ProgressStep: cfg.ProgressStep,
		},
		pages,
		session,
		archive.NewStore(cfg.OutputDir, storeOpts...),
		scraper.WithNotifier(scraper.NewWriterNotifier(out)),
		scraper.WithLogger(logger),
	)

	// Step errors are kept on run and returned after the report is written.
	run := pipeline.NewRun(s)
	_ = pipeline.CrawlPipeline(pipeline.WithLogger(logger)).Execute(ctx, run) //nolint:errcheck // kept on run

	output, closeOutput, err := openReportOutput(cfg.ReportFile, out)
	if err != nil {
		return errors.Join(run.Err, err)
	}
	defer closeOutput()

	// Reporting and history run even after cancellation.
	writer := newReportWriter(cfg.JSONReport, cfg.MarkdownReport, cfg.Verbose, output)
	outputs := pipeline.OutputPipeline(writer, history, pipeline.WithLogger(logger))
	_ = outputs.Execute(context.WithoutCancel(ctx), run) //nolint:errcheck // kept on run

	if run.RunID > 0 {
		logger.Info("run recorded", "run_id", run.RunID)
	}
	return run.Err
}

// openReportOutput returns the report destination: the file when path is
// set, otherwise stdout. The returned close function is always safe to call.
func openReportOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil //nolint:errcheck // best effort close
}

// newReportWriter selects the report writer for the requested format.
// The plain text format is the default.
func newReportWriter(jsonOutput, markdownOutput, verbose bool, w io.Writer) report.Writer {
	switch {
	case jsonOutput:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case markdownOutput:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(verbose))
	}
}
