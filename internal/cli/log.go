// Package cli implements the pydocs command-line interface.
//
// The root command takes the scraping mode as its only argument:
//
//	pydocs whats-new
//	pydocs latest-versions -o pretty
//	pydocs download --output-dir ./out
//	pydocs pep -o file
//
// Subcommands manage the response cache (cache clear, cache path) and
// generate shell completions.
//
// # Logging
//
// Logs go to stderr through charmbracelet/log. Every run logs a start marker
// with a run id and the resolved arguments. --verbose (-v) switches to debug
// level, which adds per-request HTTP and cache lines.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "pydocs finished (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks writes library events to the CLI logger. Per-request events are
// debug level; skipped pages and pipeline results are info and warn.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnPipelineStart(_ context.Context, mode string) {
	h.logger.Debug("pipeline started", "mode", mode)
}

func (h *logHooks) OnPipelineComplete(_ context.Context, mode string, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("pipeline failed", "mode", mode, "duration", d.Round(time.Millisecond))
		return
	}
	h.logger.Info("pipeline complete", "mode", mode, "rows", rows, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnUnitSkipped(_ context.Context, mode, url string, _ error) {
	h.logger.Warn("page skipped", "mode", mode, "url", url)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request error", "method", method, "host", host, "path", path, "err", err)
}
