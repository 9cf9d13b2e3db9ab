package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Column describes one column of a results table. A column with Grow 0
// is fixed at MinWidth; the rest split the remaining terminal width in
// proportion to Grow, clamped to [MinWidth, MaxWidth].
type Column struct {
	Grow     float64
	MinWidth int
	MaxWidth int
	Right    bool
	Style    lipgloss.Style
}

// Layouts for the listing commands.
var (
	// EntitiesLayout: row number, qualified id, kind/pool meta, location.
	EntitiesLayout = []Column{
		{MinWidth: 4, Right: true, Style: Muted},
		{Grow: 0.55, MinWidth: 30, MaxWidth: 100},
		{Grow: 0.25, MinWidth: 15, MaxWidth: 35, Style: Muted},
		{Grow: 0.20, MinWidth: 10, MaxWidth: 30, Style: Muted},
	}

	// UsagesLayout: row number, referrer meta, location.
	UsagesLayout = []Column{
		{MinWidth: 4, Right: true, Style: Muted},
		{Grow: 0.70, MinWidth: 30, MaxWidth: 120, Style: Muted},
		{Grow: 0.30, MinWidth: 18, MaxWidth: 60, Style: Muted},
	}
)

// ResultsTable renders listing rows in aligned columns with a thin
// separator between rows and no outer border.
type ResultsTable struct {
	display *DisplayContext
	columns []Column
	rows    [][]string
}

// NewResultsTable creates a table sized against the display context.
func NewResultsTable(display *DisplayContext, columns []Column) *ResultsTable {
	return &ResultsTable{display: display, columns: columns}
}

// AddRow appends one row. Missing trailing cells render empty.
func (t *ResultsTable) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// widths resolves the column widths for the current terminal.
func (t *ResultsTable) widths() []int {
	const gap = 2
	const leftMargin = 2

	widths := make([]int, len(t.columns))
	var grow float64
	fixed := 0
	for i, col := range t.columns {
		if col.Grow == 0 {
			widths[i] = col.MinWidth
			fixed += col.MinWidth
			continue
		}
		grow += col.Grow
	}

	avail := t.display.TermWidth - fixed - gap*(len(t.columns)-1) - leftMargin
	if avail < 0 {
		avail = 0
	}
	for i, col := range t.columns {
		if col.Grow == 0 {
			continue
		}
		w := int(float64(avail) * col.Grow / grow)
		if w < col.MinWidth {
			w = col.MinWidth
		}
		if col.MaxWidth > 0 && w > col.MaxWidth {
			w = col.MaxWidth
		}
		widths[i] = w
	}
	return widths
}

// Render produces the table text. An empty table renders as "".
func (t *ResultsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}
	widths := t.widths()

	tbl := table.New().
		Border(lipgloss.Border{Top: "─", Bottom: "─", Middle: "─"}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}
			def := t.columns[col]
			style := def.Style.Width(widths[col])
			if def.Right {
				style = style.Align(lipgloss.Right)
			}
			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(t.rows...)

	return tbl.Render()
}

// FormatRowNum right-aligns num in a field wide enough for maxNum, at
// least two characters, so row numbers line up down the column.
func FormatRowNum(num, maxNum int) string {
	width := len(strconv.Itoa(maxNum))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%*d", width, num)
}
