// Package catalog holds the ordered row definitions of a scoring grid and
// loads them from a hierarchical outline document.
package catalog

import (
	"math"
	"strconv"
)

// Kind separates scored items from per-person counters
type Kind uint8

const (
	KindMetric    Kind = iota // finite cap
	KindAttribute             // unbounded above, floored at zero
)

func (k Kind) String() string {
	if k == KindAttribute {
		return "attribute"
	}
	return "metric"
}

// ValueType is decided once when the catalog is built
type ValueType uint8

const (
	Integer ValueType = iota
	Fractional
)

func (v ValueType) String() string {
	if v == Fractional {
		return "fractional"
	}
	return "integer"
}

// DefaultCap applies to items without max_points
const DefaultCap = 2

// Fractional rows step by a quarter point
const (
	integerStep    = 1.0
	fractionalStep = 0.25
)

// RowDefinition is one editable row of the grid
type RowDefinition struct {
	ID        string
	Title     string
	Kind      Kind
	Cap       float64 // +Inf for attributes
	ValueType ValueType
}

// Bounded reports whether the row has a finite cap
func (r RowDefinition) Bounded() bool {
	return !math.IsInf(r.Cap, 1)
}

// Step returns the increase/decrease increment
func (r RowDefinition) Step() float64 {
	if r.ValueType == Fractional {
		return fractionalStep
	}
	return integerStep
}

// FormatCap renders the cap the way the row's values are rendered
func (r RowDefinition) FormatCap() string {
	if !r.Bounded() {
		return ""
	}
	return FormatValue(r.Cap, r.ValueType)
}

// FormatValue renders a value with two decimals for fractional rows and none otherwise
func FormatValue(v float64, vt ValueType) string {
	if vt == Fractional {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// Group is a titled run of metric rows, kept for document generation
type Group struct {
	Title string
	Items []RowDefinition
}

// MaxPoints sums the caps of the group's items
func (g Group) MaxPoints() float64 {
	var sum float64
	for _, it := range g.Items {
		sum += it.Cap
	}
	return sum
}

// Catalog is immutable after Build
type Catalog struct {
	Number string
	Title  string

	parts      [][]Group
	metrics    []RowDefinition
	attributes []RowDefinition
	rows       []RowDefinition
	index      map[string]int
}

// Build assembles a catalog; rows display attributes first, then metrics
func Build(number, title string, parts [][]Group, attributes []RowDefinition) *Catalog {
	c := &Catalog{
		Number:     number,
		Title:      title,
		parts:      parts,
		attributes: attributes,
		index:      make(map[string]int),
	}
	for _, part := range parts {
		for _, g := range part {
			c.metrics = append(c.metrics, g.Items...)
		}
	}

	c.rows = make([]RowDefinition, 0, len(c.attributes)+len(c.metrics))
	c.rows = append(c.rows, c.attributes...)
	c.rows = append(c.rows, c.metrics...)
	for i, r := range c.rows {
		c.index[r.ID] = i
	}
	return c
}

// Rows returns every row in display and cursor order
func (c *Catalog) Rows() []RowDefinition { return c.rows }

// Metrics returns the metric rows in outline order
func (c *Catalog) Metrics() []RowDefinition { return c.metrics }

// Attributes returns the attribute rows
func (c *Catalog) Attributes() []RowDefinition { return c.attributes }

// Parts returns the outline hierarchy
func (c *Catalog) Parts() [][]Group { return c.parts }

// Len returns the total row count
func (c *Catalog) Len() int { return len(c.rows) }

// Row returns the row at display index i
func (c *Catalog) Row(i int) RowDefinition { return c.rows[i] }

// ByID looks a row up by its identifier
func (c *Catalog) ByID(id string) (RowDefinition, bool) {
	i, ok := c.index[id]
	if !ok {
		return RowDefinition{}, false
	}
	return c.rows[i], true
}

// MaxPoints sums the caps of all metric rows
func (c *Catalog) MaxPoints() float64 {
	var sum float64
	for _, r := range c.metrics {
		sum += r.Cap
	}
	return sum
}
