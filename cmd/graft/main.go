package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/graft/internal/config"
	"github.com/bamsammich/graft/internal/engine"
	"github.com/bamsammich/graft/internal/event"
	"github.com/bamsammich/graft/internal/filter"
	"github.com/bamsammich/graft/internal/stats"
	"github.com/bamsammich/graft/internal/ui"
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

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "string" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

// options holds every flag value. Exclusion flags are persistent so the
// rules subcommand sees the same rule set a merge would.
type options struct {
	chain       *filter.Chain
	configPath  string
	filterFile  string
	ignoreFiles []string
	excludeDirs []string
	excludeFile []string
	noDefaults  bool
	minSizeStr  string
	maxSizeStr  string
	bwLimitStr  string
	reportPath  string
	logFile     string
	dryRun      bool
	verify      bool
	noLock      bool
	verbose     bool
	quiet       bool
	showVersion bool
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			if exitErr.err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", exitErr.err)
			}
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{chain: filter.NewChain()}

	rootCmd := &cobra.Command{
		Use:   "graft [flags] <source> <destination>",
		Short: "Merge a directory tree into another without overwriting anything",
		Long: `graft copies everything from <source> into <destination> that is not
already there. Existing files, directories and symlinks in the destination
are never replaced, modified or deleted. Directories present on both sides
are descended into so their missing contents are filled in.

VCS metadata, Python caches, virtualenvs and build output are excluded by
default; see "graft rules".`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(stdout, "graft %s\n", version)
				return nil
			}
			return runMerge(cmd, opts, args[0], args[1], stdout, stderr)
		},
	}

	rootCmd.Flags().BoolVar(&opts.showVersion, "version", false, "print version and exit")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report what would be merged without writing")
	rootCmd.Flags().BoolVar(&opts.verify, "verify", false, "verify copied files after the merge (BLAKE3)")
	rootCmd.Flags().BoolVar(&opts.noLock, "no-lock", false, "do not take the destination lock")
	rootCmd.Flags().
		StringVar(&opts.bwLimitStr, "bwlimit", "", "bandwidth limit (e.g. 50M, 1G)")
	rootCmd.Flags().
		StringVar(&opts.reportPath, "report", "", "write the merge report to FILE (.json, .yaml)")
	rootCmd.Flags().
		StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")

	// Filter flags use a custom pflag.Value to preserve CLI ordering.
	rootCmd.Flags().
		Var(&filterFlag{chain: opts.chain}, "exclude", "exclude paths matching PATTERN (repeatable)")
	rootCmd.Flags().
		Var(&filterFlag{chain: opts.chain, include: true}, "include", "include paths matching PATTERN (repeatable)")
	rootCmd.Flags().StringVar(&opts.filterFile, "filter", "", "read filter rules from FILE")
	rootCmd.Flags().
		StringVar(&opts.minSizeStr, "min-size", "", "skip files smaller than SIZE (e.g. 1M, 100K)")
	rootCmd.Flags().
		StringVar(&opts.maxSizeStr, "max-size", "", "skip files larger than SIZE (e.g. 1G, 500M)")
	rootCmd.Flags().
		StringArrayVar(&opts.ignoreFiles, "ignore-file", nil, "exclude paths listed in a gitignore-syntax FILE (repeatable)")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default: "+config.Path()+")")
	pf.StringArrayVar(&opts.excludeDirs, "exclude-dir", nil, "add a directory exclusion (name or *suffix, repeatable)")
	pf.StringArrayVar(&opts.excludeFile, "exclude-file", nil, "add a file exclusion (name or *suffix, repeatable)")
	pf.BoolVar(&opts.noDefaults, "no-default-excludes", false, "drop the built-in exclusions")

	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "exclude" || f.Name == "include" {
			f.NoOptDefVal = ""
		}
	})

	rootCmd.AddCommand(newRulesCmd(opts, stdout))
	rootCmd.AddCommand(newConfigCmd(opts, stdout))
	rootCmd.AddCommand(newDocsCmd())

	return rootCmd
}

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: CLI entry point wires config, logging and presenter
func runMerge(cmd *cobra.Command, opts *options, src, dst string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	applyConfigDefaults(cmd, cfg.Defaults, opts)
	ui.ApplyTheme(cfg.Theme)

	logger, closeLog, err := newLogger(opts, stderr)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	defer closeLog()
	slog.SetDefault(logger)

	exclude, err := buildExclusions(opts, cfg.Exclude, src)
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	var bwLimit int64
	if opts.bwLimitStr != "" {
		bwLimit, err = filter.ParseSize(opts.bwLimitStr)
		if err != nil {
			return &exitError{code: 2, err: fmt.Errorf("invalid --bwlimit: %w", err)}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// When --log is set, tee events through a logging goroutine
	// that writes structured records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if opts.logFile != "" {
		teed := make(chan event.Event, 256)
		go func() {
			for ev := range events {
				attrs := []slog.Attr{
					slog.String("type", ev.Type.String()),
					slog.String("path", ev.Path),
					slog.Int64("size", ev.Size),
				}
				if ev.Error != nil {
					attrs = append(attrs, slog.String("error", ev.Error.Error()))
				}
				logger.LogAttrs(context.Background(), slog.LevelDebug, "graft.event", attrs...)
				teed <- ev
			}
			close(teed)
		}()
		presenterEvents = teed
	}

	presenter := ui.NewPresenter(ui.Config{
		Writer:    stdout,
		ErrWriter: stderr,
		Stats:     collector,
		Src:       src,
		Dst:       dst,
		Width:     termWidth(stdout),
		DryRun:    opts.dryRun,
		Quiet:     opts.quiet,
		Color:     isTerminal(stdout),
	})

	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	result := engine.Run(ctx, engine.Config{
		Src:     src,
		Dst:     dst,
		Exclude: exclude,
		DryRun:  opts.dryRun,
		Verify:  opts.verify,
		Lock:    !opts.noLock,
		BWLimit: bwLimit,
		Events:  events,
		Stats:   collector,
		Logger:  logger,
	})
	stop()
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(stderr, "presenter: %v\n", presenterErr)
	}
	if n := engine.CleanupTmpFiles(); n > 0 {
		logger.Warn("removed leftover temp files", "count", n)
	}

	if result.Report != nil {
		fmt.Fprint(stdout, presenter.Summary(result.Report))
		if opts.reportPath != "" {
			if err := result.Report.WriteFile(opts.reportPath); err != nil {
				return &exitError{code: 2, err: err}
			}
			logger.Info("report written", "path", opts.reportPath)
		}
	}

	if result.Err != nil {
		if errors.Is(result.Err, engine.ErrInvalidSource) ||
			errors.Is(result.Err, engine.ErrInvalidDestination) {
			return &exitError{code: 1, err: result.Err}
		}
		return &exitError{code: 2, err: result.Err}
	}
	if result.Verify != nil && result.Verify.Failed > 0 {
		logger.Error("verification failed", "mismatched", result.Verify.Failed)
		return &exitError{code: 1}
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, opts *options) {
	if !cmd.Flags().Changed("verify") && defaults.Verify != nil {
		opts.verify = *defaults.Verify
	}
	if !cmd.Flags().Changed("no-lock") && defaults.Lock != nil {
		opts.noLock = !*defaults.Lock
	}
	if !cmd.Flags().Changed("bwlimit") && defaults.BWLimit != nil {
		opts.bwLimitStr = *defaults.BWLimit
	}
	if !cmd.Flags().Changed("report") && defaults.Report != nil {
		opts.reportPath = *defaults.Report
	}
}

// buildRules resolves the static rule set: built-ins unless dropped, replaced
// by config lists when present, then extended by config extras and flags.
func buildRules(opts *options, ec config.ExcludeConfig) *filter.Rules {
	dirs := filter.DefaultDirExclusions
	files := filter.DefaultFileExclusions
	if opts.noDefaults {
		dirs, files = nil, nil
	}
	if ec.Dirs != nil {
		dirs = *ec.Dirs
	}
	if ec.Files != nil {
		files = *ec.Files
	}
	return filter.NewRules(
		slices.Concat(dirs, ec.ExtraDirs, opts.excludeDirs),
		slices.Concat(files, ec.ExtraFiles, opts.excludeFile),
	)
}

// buildExclusions assembles every exclusion source. Ignore files named on the
// command line must exist; those named in config are resolved against the
// source root and skipped when absent.
func buildExclusions(opts *options, ec config.ExcludeConfig, src string) (*filter.Set, error) {
	if opts.filterFile != "" {
		if err := opts.chain.LoadFile(opts.filterFile); err != nil {
			return nil, fmt.Errorf("load filter file: %w", err)
		}
	}
	if opts.minSizeStr != "" {
		n, err := filter.ParseSize(opts.minSizeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --min-size: %w", err)
		}
		opts.chain.SetMinSize(n)
	}
	if opts.maxSizeStr != "" {
		n, err := filter.ParseSize(opts.maxSizeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --max-size: %w", err)
		}
		opts.chain.SetMaxSize(n)
	}

	set := &filter.Set{Rules: buildRules(opts, ec)}
	if !opts.chain.Empty() {
		set.Chain = opts.chain
	}

	for _, p := range opts.ignoreFiles {
		ig, err := filter.LoadIgnoreFile(p)
		if err != nil {
			return nil, err
		}
		slog.Debug("ignore file loaded", "path", ig.Source())
		set.Ignores = append(set.Ignores, ig)
	}
	for _, p := range ec.IgnoreFiles {
		if !filepath.IsAbs(p) {
			p = filepath.Join(src, p)
		}
		ig, err := filter.LoadIgnoreFile(p)
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("ignore file not found", "path", p)
			continue
		}
		if err != nil {
			return nil, err
		}
		slog.Debug("ignore file loaded", "path", ig.Source())
		set.Ignores = append(set.Ignores, ig)
	}
	return set, nil
}

// newLogger builds the stderr handler and, with --log, a JSON file handler
// fanned out alongside it. The returned func closes the log file.
func newLogger(opts *options, stderr io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	switch {
	case opts.verbose:
		level = slog.LevelDebug
	case opts.quiet:
		level = slog.LevelWarn
	}
	var handler slog.Handler = tint.NewHandler(stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isTerminal(stderr),
	})
	if opts.logFile == "" {
		return slog.New(handler), func() {}, nil
	}

	lf, err := os.Create(opts.logFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
	handler = ui.NewMultiHandler(handler, jsonHandler)
	return slog.New(handler), func() { lf.Close() }, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func termWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !ui.IsTTY(f.Fd()) {
		return 0
	}
	return ui.TermWidth(f.Fd())
}

// exitError carries a process exit code and, optionally, the error to print.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }
