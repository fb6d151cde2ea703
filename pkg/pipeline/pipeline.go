// Package pipeline extracts reports from the Python documentation sites.
//
// Each [Mode] is one linear pipeline: fetch an index page, locate the
// relevant elements, follow links where needed and build a [report.RowSet].
//
//	runner := pipeline.NewRunner(fetcher, pipeline.Options{
//	    DocsURL: "https://docs.python.org/3/",
//	    PEPsURL: "https://peps.python.org/",
//	})
//	rs, err := runner.Run(ctx, pipeline.ModePEP)
//
// A linked page that cannot be fetched is skipped. A missing required
// element, an unknown PEP status code or an unreachable index page aborts
// the run; no partial row-set is returned.
package pipeline

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/pydocs/pkg/config"
	"github.com/matzehuels/pydocs/pkg/errors"
	"github.com/matzehuels/pydocs/pkg/htmlutil"
	"github.com/matzehuels/pydocs/pkg/httputil"
	"github.com/matzehuels/pydocs/pkg/observability"
	"github.com/matzehuels/pydocs/pkg/report"
)

// =============================================================================
// Modes
// =============================================================================

// Mode selects a pipeline.
type Mode int

const (
	ModeWhatsNew       Mode = iota // release notes per Python version
	ModeLatestVersions             // documentation versions and their status
	ModeDownload                   // pdf-a4 documentation archive
	ModePEP                        // PEP status tally
)

var modeNames = [...]string{
	ModeWhatsNew:       "whats-new",
	ModeLatestVersions: "latest-versions",
	ModeDownload:       "download",
	ModePEP:            "pep",
}

// String returns the CLI name of the mode.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ModeNames lists the CLI names of all modes in declaration order.
func ModeNames() []string {
	return append([]string(nil), modeNames[:]...)
}

// ParseMode converts a CLI name into a Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidMode,
		"unknown mode %q (want one of: %s)", s, strings.Join(modeNames[:], ", "))
}

// =============================================================================
// Runner
// =============================================================================

// Fetcher retrieves pages and archives. *httputil.Fetcher implements it.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*httputil.Page, error)
	Download(ctx context.Context, rawURL, path string) (int64, error)
}

// ProgressFunc receives progress updates: done of total units of stage.
type ProgressFunc func(stage string, done, total int)

// Options configures a Runner.
type Options struct {
	DocsURL   string // documentation root, e.g. https://docs.python.org/3/
	PEPsURL   string // PEP index page
	OutputDir string // downloads/ is created below it

	// ExpectedStatus flags PEP status mismatches. Nil uses the built-in table.
	ExpectedStatus config.ExpectedStatus

	Logger   *log.Logger
	Progress ProgressFunc // optional
}

// Runner executes pipelines. It holds no per-run state.
type Runner struct {
	fetch  Fetcher
	locate *htmlutil.Locator
	opts   Options
	logger *log.Logger
}

// NewRunner creates a Runner that fetches through f.
func NewRunner(f Fetcher, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ExpectedStatus == nil {
		opts.ExpectedStatus = config.Default().ExpectedStatus
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Runner{
		fetch:  f,
		locate: htmlutil.NewLocator(opts.Logger),
		opts:   opts,
		logger: opts.Logger,
	}
}

// Run executes the pipeline for mode. ModeDownload writes files and returns
// a nil row-set; every other mode returns a header plus data rows. On error
// the row-set is always nil.
func (r *Runner) Run(ctx context.Context, mode Mode) (*report.RowSet, error) {
	hooks := observability.Pipeline()
	hooks.OnPipelineStart(ctx, mode.String())
	start := time.Now()

	var (
		rs  *report.RowSet
		err error
	)
	switch mode {
	case ModeWhatsNew:
		rs, err = r.whatsNew(ctx)
	case ModeLatestVersions:
		rs, err = r.latestVersions(ctx)
	case ModeDownload:
		err = r.download(ctx)
	case ModePEP:
		rs, err = r.pepTally(ctx)
	default:
		err = errors.New(errors.ErrCodeInvalidMode, "unknown mode %d", int(mode))
	}
	if err != nil {
		rs = nil
	}

	hooks.OnPipelineComplete(ctx, mode.String(), rs.Len(), time.Since(start), err)
	return rs, err
}

// document fetches and parses rawURL. A cancelled context is returned as
// ctx.Err() so that callers abort instead of skipping the page.
func (r *Runner) document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	page, err := r.fetch.Get(ctx, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	doc, err := htmlutil.Parse(page.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse %s", rawURL)
	}
	return doc, nil
}

// skip records a linked page dropped after a fetch failure. The fetcher has
// already logged the cause.
func (r *Runner) skip(ctx context.Context, mode Mode, rawURL string, err error) {
	r.logger.Debug("skipping page", "mode", mode, "url", rawURL)
	observability.Pipeline().OnUnitSkipped(ctx, mode.String(), rawURL, err)
}

func (r *Runner) progress(stage string, done, total int) {
	if r.opts.Progress != nil {
		r.opts.Progress(stage, done, total)
	}
}

// resolve resolves ref against base.
func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse base URL %q", base)
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse link %q", ref)
	}
	return b.ResolveReference(u).String(), nil
}
