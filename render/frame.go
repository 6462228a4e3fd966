// Package render builds the editor's text frame and hands it to the terminal screen.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/danielpuglisi/kn-cli/catalog"
	"github.com/danielpuglisi/kn-cli/grid"
	"github.com/danielpuglisi/kn-cli/roster"
	"github.com/danielpuglisi/kn-cli/scoring"
)

const (
	absentGlyph   = "-"
	hintHeader    = "Max Points"
	minTitleWidth = 8
	minCellWidth  = 5
	maxCellWidth  = 14
	ellipsis      = "…"
)

// DefaultHelp describes the default key bindings
const DefaultHelp = "h/j/k/l or arrows move | 0-9 . - then Enter commit | Backspace clear | " +
	"^A/^X +/- step | ^B min | ^E max | s save | q quit"

// View is everything one frame depends on
type View struct {
	Catalog *catalog.Catalog
	Roster  *roster.Roster
	Store   *grid.Store
	Scorer  scoring.Scorer
	Row     int
	Col     int
	Buffer  string
	Status  string
}

// Options are fixed for a session, except Height which follows the terminal
type Options struct {
	Theme      Theme
	TitleWidth int
	Help       string

	// Height limits the frame to this many lines; 0 means unlimited.
	// Grid rows scroll to keep the cursor row visible.
	Height int
}

// BuildFrame renders the view to lines; same inputs give the same lines
func BuildFrame(v View, opts Options) []string {
	tw := max(opts.TitleWidth, minTitleWidth)
	people := v.Roster.People
	widths := columnWidths(people)
	sep := separator(tw, widths)

	head := []string{
		titleLine(v.Catalog),
		headerLine(tw, widths, people, func(p *roster.Person) string { return p.FirstName }, ""),
		headerLine(tw, widths, people, func(p *roster.Person) string { return p.LastName }, hintHeader),
		sep,
	}
	foot := footerLines(v, opts, tw, widths, sep)

	top, n := rowWindow(v, opts.Height, opts.Height-len(head)-len(foot))
	nAttr := len(v.Catalog.Attributes())

	lines := make([]string, 0, len(head)+n+1+len(foot))
	lines = append(lines, head...)
	for i := top; i < top+n; i++ {
		if i == nAttr && i > top {
			lines = append(lines, sep)
		}
		lines = append(lines, rowLine(v, opts.Theme, tw, widths, i, v.Catalog.Row(i)))
	}
	return append(lines, foot...)
}

// rowWindow picks the visible grid rows. Without a height limit, or when
// budget lines suffice, every row is shown; otherwise a window centred on the
// cursor row, clamped to the ends.
func rowWindow(v View, height, budget int) (top, n int) {
	rows := v.Catalog.Len()
	nAttr := len(v.Catalog.Attributes())
	need := rows
	if nAttr > 0 && nAttr < rows {
		need++ // attribute/metric separator
	}
	if height <= 0 || budget >= need {
		return 0, rows
	}

	n = min(max(budget-1, 1), rows)
	top = min(max(v.Row-n/2, 0), rows-n)
	return top, n
}

func footerLines(v View, opts Options, tw int, widths []int, sep string) []string {
	people := v.Roster.People
	metrics := v.Catalog.Metrics()
	totals := make([]float64, len(people))
	for i, p := range people {
		totals[i] = v.Store.TotalFor(p.ID, metrics)
	}

	lines := []string{
		sep,
		derivedLine(tw, widths, "Total", totals, func(t float64) string {
			return strconv.FormatFloat(t, 'f', -1, 64)
		}),
		sep,
		derivedLine(tw, widths, "Grade", totals, func(t float64) string {
			return strconv.FormatFloat(v.Scorer.Score(t), 'f', 2, 64)
		}),
		derivedLine(tw, widths, "Grade (rounded)", totals, func(t float64) string {
			return strconv.FormatFloat(v.Scorer.Round(v.Scorer.Score(t)), 'f', 1, 64)
		}),
		"",
	}
	lines = append(lines, statusLines(v)...)
	if opts.Help != "" {
		lines = append(lines, opts.Help)
	}
	return lines
}

func titleLine(c *catalog.Catalog) string {
	switch {
	case c.Number != "" && c.Title != "":
		return fmt.Sprintf("KN %s: %s", c.Number, c.Title)
	case c.Number != "":
		return "KN " + c.Number
	default:
		return c.Title
	}
}

func columnWidths(people []*roster.Person) []int {
	widths := make([]int, len(people))
	for i, p := range people {
		w := max(runewidth.StringWidth(p.FirstName), runewidth.StringWidth(p.LastName))
		widths[i] = min(max(w, minCellWidth), maxCellWidth) + 1
	}
	return widths
}

func titleCell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ellipsis), width) + " |"
}

func cell(text string, width int) string {
	return runewidth.FillLeft(runewidth.Truncate(text, width-1, ellipsis), width-1) + " "
}

func headerLine(tw int, widths []int, people []*roster.Person, name func(*roster.Person) string, hint string) string {
	var sb strings.Builder
	sb.WriteString(titleCell("", tw))
	for i, p := range people {
		sb.WriteString(cell(name(p), widths[i]))
	}
	sb.WriteString("| ")
	sb.WriteString(hint)
	return strings.TrimRight(sb.String(), " ")
}

func separator(tw int, widths []int) string {
	n := tw + 1
	for _, w := range widths {
		n += w
	}
	return strings.Repeat("-", n+1) + "+" + strings.Repeat("-", len(hintHeader)+1)
}

func rowLine(v View, th Theme, tw int, widths []int, idx int, row catalog.RowDefinition) string {
	var sb strings.Builder
	sb.WriteString(titleCell(row.Title, tw))
	for col, p := range v.Roster.People {
		text := absentGlyph
		if val, ok := v.Store.Get(row.ID, p.ID); ok {
			text = catalog.FormatValue(val, row.ValueType)
		}
		selected := idx == v.Row && col == v.Col
		if selected && v.Buffer != "" {
			text = v.Buffer + "_"
		}
		c := cell(text, widths[col])
		if selected {
			c = th.Selected + c + th.Reset
		}
		sb.WriteString(c)
	}
	sb.WriteString("|")
	if row.Bounded() {
		sb.WriteString(" Max: ")
		sb.WriteString(row.FormatCap())
	}
	return sb.String()
}

func derivedLine(tw int, widths []int, title string, totals []float64, format func(float64) string) string {
	var sb strings.Builder
	sb.WriteString(titleCell(title, tw))
	for i, t := range totals {
		sb.WriteString(cell(format(t), widths[i]))
	}
	sb.WriteString("|")
	return sb.String()
}

func statusLines(v View) []string {
	rows := v.Catalog.Len()
	cols := v.Roster.Len()
	out := make([]string, 0, 4)

	pos := fmt.Sprintf("Cursor position: Row %d/%d, Column %d/%d", v.Row+1, rows, v.Col+1, cols)
	if cols > 0 && v.Col < cols {
		pos += " | Student: " + v.Roster.People[v.Col].Name()
	}
	out = append(out, pos)

	if rows > 0 && v.Row < rows {
		row := v.Catalog.Row(v.Row)
		label := "Competence"
		if row.Kind == catalog.KindAttribute {
			label = "Attribute"
		}
		out = append(out, label+": "+row.Title)
	}
	if v.Buffer != "" {
		out = append(out, "Current input: "+v.Buffer)
	}
	if v.Status != "" {
		out = append(out, v.Status)
	}
	return out
}
