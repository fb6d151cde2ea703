package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pydocs/pkg/buildinfo"
	"github.com/matzehuels/pydocs/pkg/cache"
	"github.com/matzehuels/pydocs/pkg/config"
	"github.com/matzehuels/pydocs/pkg/errors"
	"github.com/matzehuels/pydocs/pkg/httputil"
	"github.com/matzehuels/pydocs/pkg/observability"
	"github.com/matzehuels/pydocs/pkg/output"
	"github.com/matzehuels/pydocs/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pydocs"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	stderr io.Writer
	tty    bool // stderr is a terminal; enables the spinner
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: newLogger(w, level),
		stderr: w,
	}
	if f, ok := w.(*os.File); ok {
		c.tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// runOpts holds the flags of a scraping run.
type runOpts struct {
	output     string // pretty, file or "" for plain text
	clearCache bool
	configPath string
	outputDir  string
	noCache    bool
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var opts runOpts

	root := &cobra.Command{
		Use:   "pydocs <mode>",
		Short: "pydocs scrapes docs.python.org and peps.python.org",
		Long: `pydocs collects reports from the Python documentation sites.

Modes:
  whats-new        release notes per Python version (link, title, editor)
  latest-versions  documentation versions and their status
  download         save the pdf-a4 documentation archive to downloads/
  pep              count PEPs per status and flag index/page mismatches

Responses are cached locally; use --clear-cache to start fresh.`,
		Example: `  pydocs pep -o pretty
  pydocs whats-new -o file --output-dir ./out
  pydocs latest-versions --clear-cache`,
		Version:       buildinfo.Version,
		ValidArgs:     pipeline.ModeNames(),
		Args:          cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "output: pretty (table) or file (CSV under results/); plain text if unset")
	flags.BoolVarP(&opts.clearCache, "clear-cache", "c", false, "clear the HTTP response cache before running")
	flags.StringVar(&opts.configPath, "config", "", "TOML config file (default: built-in settings)")
	flags.StringVar(&opts.outputDir, "output-dir", "", "base directory for results/ and downloads/ (default from config)")
	flags.BoolVar(&opts.noCache, "no-cache", false, "disable the response cache for this run")

	root.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"pretty", "file"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Run
// =============================================================================

// run executes one scraping mode and renders its report to stdout.
func (c *CLI) run(ctx context.Context, stdout io.Writer, modeName string, opts runOpts) error {
	prog := newProgress(c.Logger)
	c.Logger.Info("pydocs started", "run", uuid.NewString())
	c.Logger.Info("arguments",
		"mode", modeName,
		"output", opts.output,
		"clear_cache", opts.clearCache,
		"config", opts.configPath,
		"output_dir", opts.outputDir,
		"no_cache", opts.noCache)

	err := c.execute(ctx, stdout, modeName, opts)
	if err != nil {
		c.Logger.Error("run aborted", "code", errors.GetCode(err), "reason", errors.UserMessage(err))
		c.Logger.Debug("abort cause", "err", err)
		return err
	}
	prog.done("pydocs finished")
	return nil
}

func (c *CLI) execute(ctx context.Context, stdout io.Writer, modeName string, opts runOpts) error {
	mode, err := pipeline.ParseMode(modeName)
	if err != nil {
		return err
	}
	outMode, err := output.ParseMode(opts.output)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig(opts)
	if err != nil {
		return err
	}

	registerHooks(c.Logger)

	store, err := c.openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.clearCache {
		n, err := store.Clear(ctx)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
		}
		c.Logger.Info("cache cleared", "entries", n)
	}

	fetcher := httputil.NewFetcher(store, httputil.Options{
		Timeout:   cfg.Timeout.Duration,
		UserAgent: userAgent(cfg),
		TTL:       cfg.Cache.TTL.Duration,
		Logger:    c.Logger,
	})

	pipeOpts := pipeline.Options{
		DocsURL:        cfg.DocsURL,
		PEPsURL:        cfg.PEPsURL,
		OutputDir:      cfg.OutputDir,
		ExpectedStatus: cfg.ExpectedStatus,
		Logger:         c.Logger,
		Progress: func(stage string, done, total int) {
			c.Logger.Debug("progress", "stage", stage, "done", done, "total", total)
		},
	}
	var spinner *Spinner
	if c.tty {
		spinner = newSpinnerWithContext(ctx, c.stderr, fmt.Sprintf("Running %s...", mode))
		pipeOpts.Progress = spinner.Update
		spinner.Start()
	}

	rs, err := pipeline.NewRunner(fetcher, pipeOpts).Run(ctx, mode)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	if rs == nil {
		return nil
	}

	path, err := output.Render(stdout, rs, output.Options{
		Mode: outMode,
		Dir:  cfg.OutputDir,
		Name: mode.String(),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s report", mode)
	}
	if path != "" {
		c.Logger.Info("results saved", "path", path)
	}
	return nil
}

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig(opts runOpts) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	if opts.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	c.Logger.Debug("configuration",
		"docs_url", cfg.DocsURL,
		"peps_url", cfg.PEPsURL,
		"output_dir", cfg.OutputDir,
		"cache", cfg.Cache.Backend,
		"ttl", cfg.Cache.TTL)
	return cfg, nil
}

// userAgent returns the configured User-Agent or the versioned default.
func userAgent(cfg *config.Config) string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	return buildinfo.UserAgent()
}

// =============================================================================
// Cache Factory
// =============================================================================

// openCache creates the response cache selected by cfg.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cache.DefaultRedisPrefix)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to redis cache")
		}
		return rc, nil
	default:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open cache dir %s", dir)
		}
		c.Logger.Debug("using file cache", "dir", fc.Dir())
		return fc, nil
	}
}

// fileCacheDir returns the configured cache directory or the XDG default.
func fileCacheDir(cfg *config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pydocs/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// registerHooks routes library events to the logger.
func registerHooks(logger *log.Logger) {
	h := &logHooks{logger: logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}
