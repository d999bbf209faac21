package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
)

var (
	colorCyan = lipgloss.Color("6")
	colorGray = lipgloss.Color("8")
	colorRed  = lipgloss.Color("1")
	colorGrn  = lipgloss.Color("2")
	colorBlue = lipgloss.Color("4")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	styleDim    = lipgloss.NewStyle().Foreground(colorGray)

	// One color per cube axis.
	styleX = lipgloss.NewStyle().Foreground(colorRed)
	styleY = lipgloss.NewStyle().Foreground(colorGrn)
	styleZ = lipgloss.NewStyle().Foreground(colorBlue)
)

// table collects rows for a lipgloss table with optional per-column
// styles.
type table struct {
	headers []string
	styles  []lipgloss.Style
	rows    [][]string
}

func newTable(headers ...string) *table {
	styles := make([]lipgloss.Style, len(headers))
	for i := range styles {
		styles[i] = lipgloss.NewStyle()
	}
	return &table{headers: headers, styles: styles}
}

// style sets the cell style for column i.
func (t *table) style(i int, s lipgloss.Style) *table {
	t.styles[i] = s
	return t
}

func (t *table) add(cells ...any) {
	row := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case float64:
			row[i] = fmt.Sprintf("%.2f", v)
		default:
			row[i] = fmt.Sprint(v)
		}
	}
	t.rows = append(t.rows, row)
}

func (t *table) render(w io.Writer) error {
	cell := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)

	tbl := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return t.styles[col].Inherit(cell)
		})

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

func title(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf(format, args...)))
}

func note(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleDim.Render(fmt.Sprintf(format, args...)))
}
