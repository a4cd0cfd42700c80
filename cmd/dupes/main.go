package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/dupes/internal/config"
	"github.com/bamsammich/dupes/internal/engine"
	"github.com/bamsammich/dupes/internal/event"
	"github.com/bamsammich/dupes/internal/filter"
	"github.com/bamsammich/dupes/internal/stats"
	"github.com/bamsammich/dupes/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// filterFlag is a custom pflag.Value that preserves CLI ordering of
// --exclude and --include rules by appending to a shared filter.Chain.
type filterFlag struct {
	chain   *filter.Chain
	include bool
}

var _ pflag.Value = (*filterFlag)(nil)

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "string" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

// options holds parsed flag values.
type options struct {
	logPath     string
	algorithm   string
	workers     int
	prehash     bool
	minSizeStr  string
	maxSizeStr  string
	filterFile  string
	bwLimitStr  string
	jsonLog     string
	verbose     bool
	quiet       bool
	showVersion bool
}

//nolint:revive // cognitive-complexity: CLI entry point wires every stage
func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	chain := filter.NewChain()

	rootCmd := &cobra.Command{
		Use:   "dupes [flags] [root]",
		Short: "Find groups of byte-identical files under a directory",
		Long: `dupes walks a directory tree, buckets files by size, hashes every file that
shares its size with another, and prints each group of identical files.
The report is written to stdout and to a log file in the working directory.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(stdout, "dupes %s\n", version)
				return nil
			}

			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config %s: %w", config.Path(), err)
			}
			if err := applyConfigDefaults(cmd, cfg.Defaults, &opts, chain); err != nil {
				return err
			}

			alg, err := engine.LookupAlgorithm(opts.algorithm)
			if err != nil {
				return fmt.Errorf("invalid --algorithm: %w", err)
			}
			if opts.workers < 1 {
				return fmt.Errorf("invalid --workers %d: must be at least 1", opts.workers)
			}
			if err := applySizeBounds(chain, opts.minSizeStr, opts.maxSizeStr); err != nil {
				return err
			}
			if opts.filterFile != "" {
				if err := chain.LoadFile(opts.filterFile); err != nil {
					return err
				}
			}
			var bwLimit int64
			if opts.bwLimitStr != "" {
				bwLimit, err = filter.ParseSize(opts.bwLimitStr)
				if err != nil {
					return fmt.Errorf("invalid --bwlimit: %w", err)
				}
			}

			closeLog, err := setupLogging(stderr, opts)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)
			presenterEvents := (<-chan event.Event)(events)
			if opts.jsonLog != "" {
				presenterEvents = teeEvents(events)
			}

			presenter := ui.NewPresenter(ui.Config{
				Writer:  stdout,
				Stats:   collector,
				Quiet:   opts.quiet,
				Verbose: opts.verbose,
			})

			slog.Debug("starting scan",
				"root", root,
				"algorithm", alg.Name(),
				"workers", opts.workers,
				"prehash", opts.prehash,
				"filters", !chain.Empty(),
				"bwlimit", bwLimit,
			)

			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(presenterEvents)
			}()

			result := engine.Run(ctx, engine.Config{
				Root:      root,
				Algorithm: alg,
				Workers:   opts.workers,
				Prehash:   opts.prehash,
				Filter:    chain,
				BWLimit:   bwLimit,
				Events:    events,
				Stats:     collector,
			})
			stop()
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(stderr, "presenter: %v\n", presenterErr)
			}

			if result.Err != nil {
				slog.Error("scan failed", "error", result.Err)
				return &exitError{code: 1}
			}

			var theme *ui.Theme
			if f, ok := stdout.(*os.File); ok && ui.IsTTY(f.Fd()) {
				theme = ui.NewTheme(cfg.Theme)
			}

			var logW io.Writer
			if lf := ui.OpenLog(opts.logPath, stdout); lf != nil {
				defer lf.Close() //nolint:errcheck // best-effort close after report
				logW = lf
			}
			reporter := ui.NewReporter(stdout, logW, stdout, theme)
			if err := reporter.Report(result.Groups); err != nil {
				slog.Error("report failed", "error", err)
				return &exitError{code: 1}
			}
			reporter.Timing(collector.Elapsed())

			if summary := presenter.Summary(); summary != "" {
				fmt.Fprintln(stderr, summary)
			}
			slog.Info("scan complete",
				"groups", result.Stats.Groups,
				"duplicates", result.Stats.Duplicates,
				"reclaimable", stats.FormatBytes(result.Stats.ReclaimableBytes),
			)
			return nil
		},
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.Flags().BoolVar(&opts.showVersion, "version", false, "print version and exit")
	rootCmd.Flags().
		StringVar(&opts.logPath, "log", "log.txt", "write the duplicate report to FILE (replaced each run)")
	rootCmd.Flags().
		StringVar(&opts.algorithm, "algorithm", "blake2b", "digest algorithm ("+strings.Join(engine.AlgorithmNames(), ", ")+")")
	rootCmd.Flags().
		IntVarP(&opts.workers, "workers", "n", 1, "number of hashing workers")
	rootCmd.Flags().
		BoolVar(&opts.prehash, "prehash", false, "compare the first 4 KiB of each candidate before full hashing")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress lines, keep diagnostics and the report")

	// Filter flags use a custom pflag.Value to preserve CLI ordering.
	rootCmd.Flags().
		Var(&filterFlag{chain: chain, include: false}, "exclude", "exclude files matching PATTERN (repeatable)")
	rootCmd.Flags().
		Var(&filterFlag{chain: chain, include: true}, "include", "include files matching PATTERN (repeatable)")
	rootCmd.Flags().StringVar(&opts.filterFile, "filter", "", "read filter rules from FILE")
	rootCmd.Flags().
		StringVar(&opts.minSizeStr, "min-size", "", "skip files smaller than SIZE (e.g. 1M)")
	rootCmd.Flags().
		StringVar(&opts.maxSizeStr, "max-size", "", "skip files larger than SIZE (e.g. 1G)")
	rootCmd.Flags().
		StringVar(&opts.bwLimitStr, "bwlimit", "", "limit hashing read rate (e.g. 100M)")
	rootCmd.Flags().
		StringVar(&opts.jsonLog, "json-log", "", "write structured JSON log to FILE")

	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
	rootCmd.AddCommand(docsCmd)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

// applyConfigDefaults applies config file defaults for flags not explicitly
// set on the CLI. Config excludes are appended after CLI rules so the CLI
// wins on first match.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	opts *options,
	chain *filter.Chain,
) error {
	flags := cmd.Flags()
	if !flags.Changed("algorithm") && defaults.Algorithm != nil {
		opts.algorithm = *defaults.Algorithm
	}
	if !flags.Changed("workers") && defaults.Workers != nil {
		opts.workers = *defaults.Workers
	}
	if !flags.Changed("prehash") && defaults.Prehash != nil {
		opts.prehash = *defaults.Prehash
	}
	if !flags.Changed("min-size") && defaults.MinSize != nil {
		opts.minSizeStr = *defaults.MinSize
	}
	if !flags.Changed("bwlimit") && defaults.BWLimit != nil {
		opts.bwLimitStr = *defaults.BWLimit
	}
	if !flags.Changed("log") && defaults.LogFile != nil {
		opts.logPath = *defaults.LogFile
	}
	for _, pattern := range defaults.Exclude {
		if err := chain.AddExclude(pattern); err != nil {
			return fmt.Errorf("config exclude %q: %w", pattern, err)
		}
	}
	return nil
}

func applySizeBounds(chain *filter.Chain, minStr, maxStr string) error {
	if minStr != "" {
		n, err := filter.ParseSize(minStr)
		if err != nil {
			return fmt.Errorf("invalid --min-size: %w", err)
		}
		chain.SetMinSize(n)
	}
	if maxStr != "" {
		n, err := filter.ParseSize(maxStr)
		if err != nil {
			return fmt.Errorf("invalid --max-size: %w", err)
		}
		chain.SetMaxSize(n)
	}
	return nil
}

// setupLogging installs the default slog logger. The returned func closes
// the JSON log file, if one was opened.
func setupLogging(stderr io.Writer, opts options) (func(), error) {
	logLevel := slog.LevelWarn
	if opts.verbose {
		logLevel = slog.LevelDebug
	} else if !opts.quiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	var logHandler slog.Handler = textHandler
	closeFn := func() {}
	if opts.jsonLog != "" {
		lf, err := os.Create(opts.jsonLog)
		if err != nil {
			return nil, fmt.Errorf("open --json-log: %w", err)
		}
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
		closeFn = func() { _ = lf.Close() }
	}
	slog.SetDefault(slog.New(logHandler))
	return closeFn, nil
}

// teeEvents writes a debug record for every event before forwarding it to
// the presenter.
func teeEvents(events <-chan event.Event) <-chan event.Event {
	teed := make(chan event.Event, 256)
	go func() {
		for ev := range events {
			attrs := []slog.Attr{
				slog.String("type", ev.Type.String()),
				slog.String("path", ev.Path),
				slog.Int64("size", ev.Size),
				slog.Int("count", ev.Count),
				slog.Int("worker", ev.WorkerID),
			}
			if ev.Digest != "" {
				attrs = append(attrs, slog.String("digest", ev.Digest))
			}
			if ev.Error != nil {
				attrs = append(attrs, slog.String("error", ev.Error.Error()))
			}
			slog.LogAttrs(context.Background(), slog.LevelDebug, "dupes.event", attrs...)
			teed <- ev
		}
		close(teed)
	}()
	return teed
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
