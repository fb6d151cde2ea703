// Package output renders report row-sets to the console or to CSV files.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matzehuels/pydocs/pkg/errors"
	"github.com/matzehuels/pydocs/pkg/report"
)

// Mode selects how a row-set is rendered.
type Mode int

const (
	ModeDefault Mode = iota // space-joined lines on stdout
	ModePretty              // aligned table
	ModeFile                // CSV file under <dir>/results
)

// Names accepted by ParseMode, in flag order.
var modeNames = map[Mode]string{
	ModeDefault: "",
	ModePretty:  "pretty",
	ModeFile:    "file",
}

// ParseMode converts a --output value into a Mode. The empty string selects
// ModeDefault.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeDefault, errors.New(errors.ErrCodeInvalidOutput, "unknown output %q (want pretty or file)", s)
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok && name != "" {
		return name
	}
	return "default"
}

// Options controls Render.
type Options struct {
	Mode Mode
	Dir  string    // base directory for ModeFile; results/ is created below it
	Name string    // pipeline name, used as the CSV file prefix
	Now  time.Time // timestamp for the CSV file name; zero means time.Now()
}

// Render writes rs according to opts. For ModeFile it returns the path of
// the written CSV file; other modes write to w and return "".
func Render(w io.Writer, rs *report.RowSet, opts Options) (string, error) {
	switch opts.Mode {
	case ModePretty:
		return "", WritePretty(w, rs)
	case ModeFile:
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		return ExportCSV(rs, opts.Dir, opts.Name, now)
	default:
		return "", WriteText(w, rs)
	}
}

// WriteText writes every record, header included, as one space-joined line.
func WriteText(w io.Writer, rs *report.RowSet) error {
	for _, rec := range rs.Records() {
		if _, err := fmt.Fprintln(w, strings.Join(rec, " ")); err != nil {
			return err
		}
	}
	return nil
}
