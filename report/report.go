// Package report renders a per-person printable assessment from saved grid data.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/danielpuglisi/kn-cli/catalog"
	"github.com/danielpuglisi/kn-cli/grid"
	"github.com/danielpuglisi/kn-cli/roster"
	"github.com/danielpuglisi/kn-cli/scoring"
)

const (
	dateLayout = "02.01.2006"
	fileExt    = ".txt"
)

var placeholderPattern = regexp.MustCompile(`%\{(\w+)\}`)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	groupStyle   = lipgloss.NewStyle().Bold(true)
	footerStyle  = lipgloss.NewStyle().Italic(true)
)

// Params are the presentation inputs shared by every report of a run
type Params struct {
	Date       string
	Instructor string
}

// Generator builds reports for one catalog and grid
type Generator struct {
	catalog *catalog.Catalog
	store   *grid.Store
	scorer  scoring.Scorer
	params  Params
}

// New binds the catalog, grid data and grading rule; an empty date means today
func New(c *catalog.Catalog, store *grid.Store, s scoring.Scorer, p Params) *Generator {
	if p.Date == "" {
		p.Date = time.Now().Format(dateLayout)
	}
	return &Generator{catalog: c, store: store, scorer: s, params: p}
}

// FileName is KN<number>_<last>-<first>.txt
func (g *Generator) FileName(p *roster.Person) string {
	name := fmt.Sprintf("KN%s_%s-%s", g.catalog.Number, p.LastName, p.FirstName)
	return sanitize(name) + fileExt
}

// Render returns the report text for one person
func (g *Generator) Render(p *roster.Person) string {
	total := g.store.TotalFor(p.ID, g.catalog.Metrics())
	grade := g.scorer.Round(g.scorer.Score(total))

	var sb strings.Builder
	sb.WriteString(headingStyle.Render("Kompetenznachweis Modul " + g.catalog.Number))
	sb.WriteString("\n")
	if g.catalog.Title != "" {
		sb.WriteString(g.catalog.Title)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(g.identity(p))
	sb.WriteString("\n\n")
	sb.WriteString(g.rules())
	sb.WriteString("\n\n")
	sb.WriteString(g.assessment(p, total, grade))
	sb.WriteString("\n\n")
	sb.WriteString(footerStyle.Render(g.FileName(p) + "  |  KN " + g.catalog.Number))
	sb.WriteString("\n")
	return sb.String()
}

// Write renders the report into dir and returns the file path
func (g *Generator) Write(dir string, p *roster.Person) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, g.FileName(p))
	if err := os.WriteFile(path, []byte(g.Render(p)), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func (g *Generator) identity(p *roster.Person) string {
	pc := "-"
	if v, ok := g.store.Get("pc_number", p.ID); ok {
		pc = formatPoints(v)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Row("Name:", p.LastName, "Vorname:", p.FirstName).
		Row("Kurs:", g.catalog.Number, "Datum:", g.params.Date).
		Row("PC-Nr.:", pc, "Kursleiter:", g.params.Instructor)
	return t.String()
}

func (g *Generator) rules() string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Notenregel", "", "").
		Row(g.ruleText(), "", "Maximale Punkte: "+formatPoints(g.scorer.MaxPoints)).
		Row("0 Punkte: nicht erfüllt", "1 Punkt: teilweise erfüllt", "2 Punkte: erfüllt")
	return t.String()
}

// ruleText spells out the configured linear grade rule
func (g *Generator) ruleText() string {
	return fmt.Sprintf("%s / max. Punkte X erreichte Punkte + %s", formatPoints(g.scorer.Span), formatPoints(g.scorer.Base))
}

func (g *Generator) assessment(p *roster.Person, total, grade float64) string {
	var groupRows []int
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "Bewertung", "Punkte")

	row := 0
	for pi, part := range g.catalog.Parts() {
		for gi, grp := range part {
			label := ""
			if gi == 0 {
				label = strconv.Itoa(pi + 1)
			}
			t.Row(label, grp.Title+" – "+formatPoints(grp.MaxPoints())+" Punkte", "")
			groupRows = append(groupRows, row)
			row++
			for _, item := range grp.Items {
				points := 0.0
				if v, ok := g.store.Get(item.ID, p.ID); ok {
					points = v
				}
				t.Row("", g.substitute(item.Title, p.ID), formatPoints(points))
				row++
			}
		}
	}
	t.Row("", "Erreichte Punkte", formatPoints(total))
	t.Row("", "Note auf halbe oder ganze gerundet", strconv.FormatFloat(grade, 'f', 1, 64))

	t.StyleFunc(func(r, _ int) lipgloss.Style {
		for _, gr := range groupRows {
			if r == gr {
				return groupStyle
			}
		}
		return lipgloss.NewStyle()
	})
	return t.String()
}

// substitute replaces %{name} with the person's attribute value, absent as 0
func (g *Generator) substitute(title, personID string) string {
	return placeholderPattern.ReplaceAllStringFunc(title, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		v, _ := g.store.Get(name, personID)
		return formatPoints(v)
	})
}

// formatPoints drops the decimals of whole numbers
func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var unsafeChars = regexp.MustCompile(`[\s/\\:]+`)

func sanitize(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}
