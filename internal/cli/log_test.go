package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("test completed")

	out := buf.String()
	if !strings.Contains(out, "test completed (") {
		t.Errorf("progress.done() output = %q, want message with duration", out)
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		level log.Level
		emit  func(h *logHooks)
		want  string // substring; "" means no output
	}{
		{
			name:  "skipped page is a warning",
			level: log.InfoLevel,
			emit:  func(h *logHooks) { h.OnUnitSkipped(ctx, "pep", "https://peps.python.org/pep-0404/", errors.New("404")) },
			want:  "page skipped",
		},
		{
			name:  "pipeline complete reports rows",
			level: log.InfoLevel,
			emit:  func(h *logHooks) { h.OnPipelineComplete(ctx, "pep", 12, time.Second, nil) },
			want:  "rows=12",
		},
		{
			name:  "requests are hidden at info level",
			level: log.InfoLevel,
			emit:  func(h *logHooks) { h.OnRequest(ctx, "GET", "docs.python.org", "/3/") },
			want:  "",
		},
		{
			name:  "responses are shown at debug level",
			level: log.DebugLevel,
			emit: func(h *logHooks) {
				h.OnResponse(ctx, "GET", "docs.python.org", "/3/", 200, 15*time.Millisecond)
			},
			want: "status=200",
		},
		{
			name:  "cache hits are shown at debug level",
			level: log.DebugLevel,
			emit:  func(h *logHooks) { h.OnCacheHit(ctx, "page") },
			want:  "cache hit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(&logHooks{logger: newLogger(&buf, tt.level)})

			out := buf.String()
			if tt.want == "" {
				if out != "" {
					t.Errorf("expected no output, got %q", out)
				}
				return
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}
