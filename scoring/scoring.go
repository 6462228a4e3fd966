// Package scoring derives a grade from a person's metric total.
package scoring

import (
	"math"

	"github.com/danielpuglisi/kn-cli/catalog"
	"github.com/danielpuglisi/kn-cli/grid"
	"github.com/danielpuglisi/kn-cli/roster"
)

const (
	DefaultMaxPoints = 42
	DefaultBase      = 1
	DefaultSpan      = 5
)

// Scorer maps points linearly onto [Base, Base+Span]
type Scorer struct {
	MaxPoints float64
	Base      float64
	Span      float64
}

// New returns the default grading rule
func New() Scorer {
	return Scorer{MaxPoints: DefaultMaxPoints, Base: DefaultBase, Span: DefaultSpan}
}

// ForCatalog resolves a zero MaxPoints to the catalog's cap sum
func (s Scorer) ForCatalog(c *catalog.Catalog) Scorer {
	if s.MaxPoints <= 0 && c != nil {
		s.MaxPoints = c.MaxPoints()
	}
	return s
}

// Score returns the unrounded grade
func (s Scorer) Score(total float64) float64 {
	if s.MaxPoints <= 0 {
		return s.Base
	}
	return s.Span/s.MaxPoints*total + s.Base
}

// Round rounds to the nearest half
func (s Scorer) Round(score float64) float64 {
	return math.Round(score*2) / 2
}

// Refresh writes Total, RawScore and Score for every person
func (s Scorer) Refresh(r *roster.Roster, store *grid.Store, c *catalog.Catalog) {
	metrics := c.Metrics()
	for _, p := range r.People {
		p.Total = store.TotalFor(p.ID, metrics)
		p.RawScore = s.Score(p.Total)
		p.Score = s.Round(p.RawScore)
	}
}
