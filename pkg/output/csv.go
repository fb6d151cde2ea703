package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/pydocs/pkg/report"
)

const (
	// ResultsDir is created below the output directory for CSV exports.
	ResultsDir = "results"

	// fileTimeFormat has second precision and no characters that are
	// awkward in file names.
	fileTimeFormat = "2006-01-02_15-04-05"
)

// WriteCSV writes the header and data rows of rs as CSV to w.
// Fields are quoted only when needed; lines end with "\n".
func WriteCSV(w io.Writer, rs *report.RowSet) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rs.Records()); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}

// CSVFileName returns "<name>_<timestamp>.csv" for a run started at now.
func CSVFileName(name string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", name, now.Format(fileTimeFormat))
}

// ExportCSV writes rs to <dir>/results/<name>_<timestamp>.csv, creating the
// results directory if needed, and returns the file path.
func ExportCSV(rs *report.RowSet, dir, name string, now time.Time) (string, error) {
	resultsDir := filepath.Join(dir, ResultsDir)
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", resultsDir, err)
	}

	path := filepath.Join(resultsDir, CSVFileName(name, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, rs); err != nil {
		return "", err
	}
	return path, f.Close()
}
