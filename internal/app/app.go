package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aurceive/drop_viewer/internal/catalog"
	"github.com/aurceive/drop_viewer/internal/config"
	"github.com/aurceive/drop_viewer/internal/dataset"
	"github.com/aurceive/drop_viewer/internal/domain"
	"github.com/aurceive/drop_viewer/internal/logging"
	"github.com/aurceive/drop_viewer/internal/viewer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const userAgent = "drop_viewer/1.0"

// Options carries the process environment into Run so tests can drive it.
type Options struct {
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
	// Cwd is where drop_viewer.yaml discovery starts; empty means os.Getwd.
	Cwd string
}

type globalFlags struct {
	configPath string
	data       string
	locale     string
	logLevel   string
	verbose    bool
}

// env is the resolved runtime shared by every subcommand.
type env struct {
	cfg      config.Loaded
	loc      dataset.Location
	source   dataset.Source
	collator *catalog.Collator
	sortKey  domain.SortKey
	logger   *zap.Logger
}

// Run executes the command line and returns the desired process exit code.
func Run() int {
	return RunWithOptions(Options{Args: os.Args[1:]})
}

// RunWithOptions executes the command line and returns the desired process exit code.
func RunWithOptions(opts Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(opts)
	root.SetArgs(opts.Args)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	return exitCode(opts.Stderr, root.ExecuteContext(ctx))
}

func newRootCmd(opts Options) *cobra.Command {
	var flags globalFlags
	e := &env{}

	root := &cobra.Command{
		Use:   "drop_viewer",
		Short: "Browse equipment drop tables",
		Long: `drop_viewer loads an equipment drop dataset (JSON or xlsx, from a file or URL)
and lets you search, filter, sort and page through it.

Front ends:
  serve  - HTML viewer over HTTP
  tui    - terminal viewer
  list, detail, types, export - one-shot commands`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd, opts, flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to drop_viewer.yaml (default: discovered from the working directory)")
	pf.StringVar(&flags.data, "data", "", "dataset location: file path or http(s) URL, .json or .xlsx")
	pf.StringVar(&flags.locale, "locale", "", "collation locale for name/type sorting")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newServeCmd(e),
		newTUICmd(e),
		newListCmd(e),
		newDetailCmd(e),
		newExportCmd(e),
		newTypesCmd(e),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command, opts Options, flags globalFlags) error {
	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ExitWithError(codeFailure, err)
		}
		cwd = wd
	}

	cfg, err := config.Load(cwd, flags.configPath)
	if err != nil {
		return ExitWithError(codeUsage, err)
	}
	if s := strings.TrimSpace(flags.data); s != "" {
		cfg.Data = s
	}
	if s := strings.TrimSpace(flags.locale); s != "" {
		cfg.Locale = s
	}
	if s := strings.TrimSpace(flags.logLevel); s != "" {
		cfg.LogLevel = s
	}
	if err := config.Validate(cfg.Config); err != nil {
		return ExitWithError(codeUsage, fmt.Errorf("config: %w", err))
	}

	logOpts := logging.Options{Level: cfg.LogLevel, Verbose: flags.verbose}
	if cmd.Name() == "tui" {
		p, err := tuiLogPath(cfg.Root)
		if err != nil {
			return ExitWithError(codeFailure, fmt.Errorf("prepare work dir: %w", err))
		}
		logOpts.File = p
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		return ExitWithError(codeUsage, err)
	}

	loc, err := dataset.Resolve(cfg.Root, cfg.Data)
	if err != nil {
		return ExitWithError(codeUsage, fmt.Errorf("data: %w", err))
	}
	collator, err := catalog.NewCollator(cfg.Locale)
	if err != nil {
		logger.Warn("unknown locale, falling back to root collation", zap.String("locale", cfg.Locale), zap.Error(err))
	}
	sortKey, _ := domain.ParseSortKey(cfg.DefaultSort)

	e.cfg = cfg
	e.loc = loc
	e.source = dataset.Open(loc, userAgent)
	e.collator = collator
	e.sortKey = sortKey
	e.logger = logger

	logger.Debug("configured",
		zap.String("config", cfg.Path),
		zap.String("root", cfg.Root),
		zap.String("data", loc.String()),
		zap.String("locale", collator.Tag().String()))
	return nil
}

// newController binds a fresh controller to v. Each front end calls it once
// per page lifetime.
func (e *env) newController(v viewer.View) *viewer.Controller {
	return viewer.New(viewer.Options{
		Source:      e.source,
		View:        v,
		Collator:    e.collator,
		Logger:      e.logger,
		DefaultSort: e.sortKey,
	})
}

// loadFailure maps a failed load in a one-shot command to a runtime exit.
// The diagnostic has already been printed by the view.
func loadFailure(err error) error {
	var le *viewer.DataLoadError
	if errors.As(err, &le) {
		return Exit(codeFailure)
	}
	return ExitWithError(codeFailure, err)
}
