package catalog

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
number: 122
title: Datenbanken
competences:
  - - title: Modell
      items:
        - title: Entitaeten erkannt
          max_points: 4
        - title: Beziehungen
        - title: Kardinalitaeten
          max_points: 1.5
  - - title: Abgabe
      items:
        - title: "Verspaetung %{late_days} Tage"
          max_points: 0
        - title: "Absenzen %{absences_count}, erneut %{late_days}"
          max_points: 3.0
          value_type: integer
`

func TestParseYAML(t *testing.T) {
	c, err := ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	if c.Number != "122" || c.Title != "Datenbanken" {
		t.Errorf("header = %q %q", c.Number, c.Title)
	}

	metrics := c.Metrics()
	if len(metrics) != 5 {
		t.Fatalf("metrics = %d, want 5", len(metrics))
	}

	tests := []struct {
		idx int
		id  string
		cap float64
		vt  ValueType
	}{
		{0, "0.0.0", 4, Integer},
		{1, "0.0.1", DefaultCap, Integer},
		{2, "0.0.2", 1.5, Fractional},
		{3, "1.0.0", 0, Integer},
		{4, "1.0.1", 3, Integer},
	}
	for _, tt := range tests {
		r := metrics[tt.idx]
		if r.ID != tt.id || r.Cap != tt.cap || r.ValueType != tt.vt || r.Kind != KindMetric {
			t.Errorf("metric %d = %+v, want id=%s cap=%v vt=%v", tt.idx, r, tt.id, tt.cap, tt.vt)
		}
	}

	attrs := c.Attributes()
	wantAttrs := []string{"pc_number", "late_days", "absences_count"}
	if len(attrs) != len(wantAttrs) {
		t.Fatalf("attributes = %+v", attrs)
	}
	for i, id := range wantAttrs {
		if attrs[i].ID != id {
			t.Errorf("attribute %d = %s, want %s", i, attrs[i].ID, id)
		}
		if attrs[i].Kind != KindAttribute || attrs[i].Bounded() {
			t.Errorf("attribute %s should be unbounded", id)
		}
	}

	rows := c.Rows()
	if len(rows) != 8 || rows[0].ID != "pc_number" || rows[3].ID != "0.0.0" {
		t.Errorf("display order wrong: %v", rows)
	}
	if r, ok := c.ByID("0.0.2"); !ok || r.Title != "Kardinalitaeten" {
		t.Errorf("ByID = %+v %v", r, ok)
	}
	if _, ok := c.ByID("9.9.9"); ok {
		t.Error("ByID found unknown row")
	}
	if got := c.MaxPoints(); got != 4+2+1.5+0+3 {
		t.Errorf("MaxPoints = %v", got)
	}
	if len(c.Parts()) != 2 || c.Parts()[0][0].MaxPoints() != 7.5 {
		t.Errorf("parts = %+v", c.Parts())
	}
}

func TestParseTOML(t *testing.T) {
	doc := `
number = "12a"
title = "Netzwerke"

[[parts]]
  [[parts.groups]]
  title = "Grundlagen"
    [[parts.groups.items]]
    title = "Subnetting"
    max_points = 2.5
    [[parts.groups.items]]
    title = "Routing"
`
	c, err := ParseTOML([]byte(doc))
	if err != nil {
		t.Fatalf("ParseTOML: %v", err)
	}
	if c.Number != "12a" {
		t.Errorf("Number = %q", c.Number)
	}
	m := c.Metrics()
	if len(m) != 2 || m[0].ValueType != Fractional || m[1].Cap != DefaultCap || m[1].ValueType != Integer {
		t.Errorf("metrics = %+v", m)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "title: x\n"},
		{"syntax", "competences: [[\n"},
		{"negative cap", "competences:\n  - - title: g\n      items:\n        - title: a\n          max_points: -1\n"},
		{"string cap", "competences:\n  - - title: g\n      items:\n        - title: a\n          max_points: lots\n"},
		{"missing title", "competences:\n  - - title: g\n      items:\n        - max_points: 1\n"},
		{"bad value type", "competences:\n  - - title: g\n      items:\n        - title: a\n          value_type: complex\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestNonIntegralCapForcesFractional(t *testing.T) {
	capValue, vt, err := resolveCap(2.5, "integer")
	if err != nil || capValue != 2.5 || vt != Fractional {
		t.Errorf("resolveCap = %v %v %v", capValue, vt, err)
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kn.yml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 8 {
		t.Errorf("Len = %d", c.Len())
	}

	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFormatting(t *testing.T) {
	r := RowDefinition{Cap: 4, ValueType: Fractional}
	if got := r.FormatCap(); got != "4.00" {
		t.Errorf("FormatCap = %q", got)
	}
	if got := FormatValue(3, Integer); got != "3" {
		t.Errorf("FormatValue = %q", got)
	}
	if r.Step() != 0.25 {
		t.Errorf("Step = %v", r.Step())
	}
	a := RowDefinition{Cap: math.Inf(1)}
	if a.FormatCap() != "" || a.Step() != 1 {
		t.Errorf("attribute formatting wrong")
	}
}
