// Package report holds the tabular result of a pipeline run.
package report

// RowSet is a header plus data rows. Every data row is expected to have as
// many fields as the header; renderers do not check this.
type RowSet struct {
	Header []string
	Rows   [][]string
}

// New creates an empty RowSet with the given column names.
func New(header ...string) *RowSet {
	return &RowSet{Header: header}
}

// Add appends a data row.
func (r *RowSet) Add(fields ...string) {
	r.Rows = append(r.Rows, fields)
}

// Len returns the number of data rows.
func (r *RowSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Records returns the header followed by the data rows.
func (r *RowSet) Records() [][]string {
	out := make([][]string, 0, len(r.Rows)+1)
	out = append(out, r.Header)
	return append(out, r.Rows...)
}
