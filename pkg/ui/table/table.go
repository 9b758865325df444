// Package table renders chat history and roadmap diagrams for the
// terminal with lipgloss. Data sources implement TableData rather than
// building lipgloss tables directly.
package table

import (
	"fmt"
	"os"
	"strings"
	"time"

	// Packages
	lipgloss "github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// TableData is implemented by data sources rendered as a table.
type TableData interface {
	// Header returns the column header labels.
	Header() []string

	// Len returns the number of rows.
	Len() int

	// Row returns the cell values for row i, or nil to skip the row.
	// Wrap a value in Bold{} to highlight it.
	Row(i int) []any
}

// Bold wraps a cell value so that FormatCell highlights it.
type Bold struct{ Value any }

///////////////////////////////////////////////////////////////////////////////
// STYLES

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	boldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cellStyle   = lipgloss.NewStyle()
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Render returns the table as a string for terminal output. The table is
// narrowed to the terminal width when stdout is a terminal and the
// natural render does not fit.
func Render(data TableData) string {
	t := lgtable.New().
		Headers(data.Header()...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for i := range data.Len() {
		row := data.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatCell(v)
		}
		t.Row(cells...)
	}

	result := t.Render()
	if w := width(); w > 0 && widest(result) > w {
		t.Width(w)
		result = t.Render()
	}
	return result
}

// Truncate shortens s to max runes, collapsing newlines and appending "…"
// if truncated.
func Truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// FormatCell converts a value to its display string. Empty and zero
// values are shown as "-".
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case Bold:
		return boldStyle.Render(FormatCell(val.Value))
	case time.Time:
		if val.IsZero() {
			return "-"
		}
		return val.Format("2006-01-02 15:04")
	case int:
		if val == 0 {
			return "-"
		}
		return fmt.Sprint(val)
	}
	if s := fmt.Sprint(v); s != "" {
		return s
	}
	return "-"
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// width returns the terminal width of stdout, or zero.
func width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 0
}

func widest(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		n = max(n, lipgloss.Width(line))
	}
	return n
}
