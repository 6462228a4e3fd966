package catalog

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrMalformed reports an outline that cannot produce a consistent catalog
var ErrMalformed = errors.New("malformed catalog")

// pcNumberAttribute is present in every catalog ahead of placeholder attributes
var pcNumberAttribute = RowDefinition{
	ID:        "pc_number",
	Title:     "PC Number",
	Kind:      KindAttribute,
	Cap:       math.Inf(1),
	ValueType: Integer,
}

// placeholderPattern matches %{name} parameters in item titles
var placeholderPattern = regexp.MustCompile(`%\{(\w+)\}`)

type rawItem struct {
	Title     string `yaml:"title" toml:"title"`
	MaxPoints any    `yaml:"max_points" toml:"max_points"`
	ValueType string `yaml:"value_type" toml:"value_type"`
}

type rawGroup struct {
	Title string    `yaml:"title" toml:"title"`
	Items []rawItem `yaml:"items" toml:"items"`
}

// yamlDocument keeps the outline shape: competences is a list of parts, each a list of groups
type yamlDocument struct {
	Number      any          `yaml:"number"`
	Title       string       `yaml:"title"`
	Competences [][]rawGroup `yaml:"competences"`
}

// tomlDocument expresses the same outline with arrays of tables
type tomlDocument struct {
	Number any    `toml:"number"`
	Title  string `toml:"title"`
	Parts  []struct {
		Groups []rawGroup `toml:"groups"`
	} `toml:"parts"`
}

// Load reads an outline file, choosing the format by extension
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data)
	default:
		return ParseYAML(data)
	}
}

// ParseYAML builds a catalog from a YAML outline
func ParseYAML(data []byte) (*Catalog, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return build(doc.Number, doc.Title, doc.Competences)
}

// ParseTOML builds a catalog from a TOML outline
func ParseTOML(data []byte) (*Catalog, error) {
	var doc tomlDocument
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	parts := make([][]rawGroup, len(doc.Parts))
	for i, p := range doc.Parts {
		parts[i] = p.Groups
	}
	return build(doc.Number, doc.Title, parts)
}

func build(number any, title string, raw [][]rawGroup) (*Catalog, error) {
	parts := make([][]Group, 0, len(raw))
	attributes := []RowDefinition{pcNumberAttribute}
	seen := map[string]bool{pcNumberAttribute.ID: true}
	count := 0

	for pi, part := range raw {
		groups := make([]Group, 0, len(part))
		for gi, rg := range part {
			g := Group{Title: rg.Title}
			for ii, item := range rg.Items {
				id := fmt.Sprintf("%d.%d.%d", pi, gi, ii)
				if strings.TrimSpace(item.Title) == "" {
					return nil, fmt.Errorf("%w: item %s has no title", ErrMalformed, id)
				}
				capValue, vt, err := resolveCap(item.MaxPoints, item.ValueType)
				if err != nil {
					return nil, fmt.Errorf("%w: item %s: %v", ErrMalformed, id, err)
				}
				g.Items = append(g.Items, RowDefinition{
					ID:        id,
					Title:     item.Title,
					Kind:      KindMetric,
					Cap:       capValue,
					ValueType: vt,
				})
				count++

				for _, m := range placeholderPattern.FindAllStringSubmatch(item.Title, -1) {
					name := m[1]
					if seen[name] {
						continue
					}
					seen[name] = true
					attributes = append(attributes, RowDefinition{
						ID:        name,
						Title:     name,
						Kind:      KindAttribute,
						Cap:       math.Inf(1),
						ValueType: Integer,
					})
				}
			}
			groups = append(groups, g)
		}
		parts = append(parts, groups)
	}

	if count == 0 {
		return nil, fmt.Errorf("%w: no items", ErrMalformed)
	}

	return Build(formatNumber(number), title, parts, attributes), nil
}

// resolveCap reads max_points; the literal's type decides the value type
// unless value_type names one explicitly
func resolveCap(v any, override string) (float64, ValueType, error) {
	var capValue float64
	vt := Integer

	switch n := v.(type) {
	case nil:
		capValue = DefaultCap
	case int:
		capValue = float64(n)
	case int64:
		capValue = float64(n)
	case uint64:
		capValue = float64(n)
	case float64:
		capValue = n
		vt = Fractional
	default:
		return 0, 0, fmt.Errorf("max_points must be a number, got %T", v)
	}

	if math.IsNaN(capValue) || math.IsInf(capValue, 0) || capValue < 0 {
		return 0, 0, fmt.Errorf("max_points out of range: %v", capValue)
	}

	switch strings.ToLower(strings.TrimSpace(override)) {
	case "":
	case "integer", "int":
		vt = Integer
	case "fractional", "float":
		vt = Fractional
	default:
		return 0, 0, fmt.Errorf("unknown value_type %q", override)
	}

	// A non-integral cap cannot be reached in whole steps
	if vt == Integer && capValue != math.Trunc(capValue) {
		vt = Fractional
	}

	return capValue, vt, nil
}

func formatNumber(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
