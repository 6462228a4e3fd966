package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielpuglisi/kn-cli/catalog"
	"github.com/danielpuglisi/kn-cli/grid"
	"github.com/danielpuglisi/kn-cli/roster"
	"github.com/danielpuglisi/kn-cli/scoring"
)

const reportCatalog = `
number: 122
title: Datenbanken
competences:
  - - title: Modell
      items:
        - title: Entitaeten
          max_points: 4
        - title: "Anwesenheit (%{absences_count} Absenzen)"
          max_points: 1.5
  - - title: Abgabe
      items:
        - title: Termin
`

func setup(t *testing.T) (*Generator, *roster.Person, *grid.Store) {
	t.Helper()
	c, err := catalog.ParseYAML([]byte(reportCatalog))
	if err != nil {
		t.Fatal(err)
	}
	p := &roster.Person{ID: "abc", FirstName: "Anna Lena", LastName: "Muster"}
	store := grid.New()
	return New(c, store, scoring.New(), Params{Date: "01.07.2025", Instructor: "D. Puglisi"}), p, store
}

func TestRender(t *testing.T) {
	g, p, store := setup(t)
	c := g.catalog
	store.Set(c.Metrics()[0], p.ID, 4)
	store.Set(c.Metrics()[1], p.ID, 0.5)
	abs, _ := c.ByID("absences_count")
	store.Set(abs, p.ID, 3)
	pc, _ := c.ByID("pc_number")
	store.Set(pc, p.ID, 17)

	out := g.Render(p)
	for _, want := range []string{
		"Kompetenznachweis Modul 122",
		"Datenbanken",
		"Muster",
		"Anna Lena",
		"01.07.2025",
		"D. Puglisi",
		"17",
		"Modell – 5.5 Punkte",
		"Abgabe – 2 Punkte",
		"Anwesenheit (3 Absenzen)",
		"5 / max. Punkte X erreichte Punkte + 1",
		"Maximale Punkte: 42",
		"Erreichte Punkte",
		"4.5",
		"KN122_Muster-Anna_Lena.txt",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "%{") {
		t.Error("unsubstituted placeholder")
	}
	if strings.Contains(out, "4.00") {
		t.Error("whole points printed with decimals")
	}
}

func TestRenderAbsentValues(t *testing.T) {
	g, p, _ := setup(t)
	out := g.Render(p)
	if !strings.Contains(out, "Anwesenheit (0 Absenzen)") {
		t.Errorf("absent attribute not rendered as 0\n%s", out)
	}
	// grade for zero points is the base
	if !strings.Contains(out, "1.0") {
		t.Errorf("grade missing\n%s", out)
	}
}

func TestRenderRuleFollowsScorer(t *testing.T) {
	_, p, store := setup(t)
	c, err := catalog.ParseYAML([]byte(reportCatalog))
	if err != nil {
		t.Fatal(err)
	}
	g := New(c, store, scoring.Scorer{MaxPoints: 30, Base: 2, Span: 4}, Params{Date: "01.07.2025"})

	out := g.Render(p)
	if !strings.Contains(out, "4 / max. Punkte X erreichte Punkte + 2") {
		t.Errorf("rule text does not follow scorer\n%s", out)
	}
	if !strings.Contains(out, "Maximale Punkte: 30") {
		t.Errorf("max points missing\n%s", out)
	}
}

func TestWrite(t *testing.T) {
	g, p, _ := setup(t)
	dir := filepath.Join(t.TempDir(), "out")

	path, err := g.Write(dir, p)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "KN122_Muster-Anna_Lena.txt" {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "Muster") {
		t.Errorf("file content = %q, %v", data, err)
	}
}

func TestFormatPoints(t *testing.T) {
	tests := map[float64]string{2: "2", 1.5: "1.5", 0.25: "0.25", 0: "0"}
	for in, want := range tests {
		if got := formatPoints(in); got != want {
			t.Errorf("formatPoints(%v) = %q, want %q", in, got, want)
		}
	}
}
