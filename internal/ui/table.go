package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table aligns rows of cells with plain spacing, no borders. Cells may
// be pre-styled; widths are measured on the visible text. Used for
// small key/value readouts like the stats command.
type Table struct {
	rows   [][]string
	widths []int
}

// NewTable creates a table with the given column count.
func NewTable(cols int) *Table {
	return &Table{widths: make([]int, cols)}
}

// AddRow appends a row. Cells beyond the column count are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.widths))
	for i := 0; i < len(t.widths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := lipgloss.Width(cells[i]); w > t.widths[i] {
			t.widths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// String renders the table, one line per row.
func (t *Table) String() string {
	var b strings.Builder
	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", t.widths[i]-lipgloss.Width(cell)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
