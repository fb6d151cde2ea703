package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pydocs/pkg/report"
)

var (
	colorBorder = lipgloss.Color("240") // Dim gray

	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Left)
	styleCell   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Left)
	styleBorder = lipgloss.NewStyle().Foreground(colorBorder)
)

// WritePretty writes rs as a bordered table with left-aligned columns and
// the header as column titles.
func WritePretty(w io.Writer, rs *report.RowSet) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleBorder).
		Headers(rs.Header...).
		Rows(rs.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
