package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Alignment defines text alignment in a column.
type Alignment int

// Alignment constants.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// TableColumn defines a column in a table. A zero Width is sized to fit.
type TableColumn struct {
	Name  string
	Width int
	Align Alignment
	Style *lipgloss.Style
}

// Table renders rows as space-separated aligned columns. Widths are measured
// with lipgloss.Width so styled cells line up.
type Table struct {
	w       io.Writer
	styles  *TableStyles
	columns []TableColumn
	rows    [][]string
}

// NewTable creates a new table with the given columns.
func NewTable(w io.Writer, columns []TableColumn) *Table {
	return &Table{
		w:       w,
		styles:  NewTableStyles(),
		columns: columns,
	}
}

// Styles returns the table's styles for per-column styling.
func (t *Table) Styles() *TableStyles {
	return t.styles
}

// AddRow queues a row. Missing trailing values render empty.
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// Render writes the header and every queued row.
func (t *Table) Render() {
	widths := t.widths()

	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		cells[i] = pad(col.Name, widths[i], col.Align)
	}
	_, _ = fmt.Fprintln(t.w, t.styles.Header.Render(strings.TrimRight(strings.Join(cells, "  "), " ")))

	for _, row := range t.rows {
		for i, col := range t.columns {
			value := truncate(cell(row, i), widths[i])
			padded := pad(value, widths[i], col.Align)
			if col.Style != nil {
				padded = col.Style.Render(padded)
			}
			cells[i] = padded
		}
		_, _ = fmt.Fprintln(t.w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}
		widths[i] = lipgloss.Width(col.Name)
		for _, row := range t.rows {
			widths[i] = max(widths[i], lipgloss.Width(cell(row, i)))
		}
	}
	return widths
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// truncate shortens value to width runes, marking the cut with an ellipsis.
func truncate(value string, width int) string {
	if width <= 1 || lipgloss.Width(value) <= width {
		return value
	}
	runes := []rune(value)
	if len(runes) < width {
		return value
	}
	return string(runes[:width-1]) + "…"
}

func pad(value string, width int, align Alignment) string {
	gap := width - lipgloss.Width(value)
	if gap <= 0 {
		return value
	}
	if align == AlignRight {
		return strings.Repeat(" ", gap) + value
	}
	return value + strings.Repeat(" ", gap)
}
