// Package persist saves and restores the grid together with a catalog and roster snapshot.
package persist

import (
	"errors"

	"github.com/danielpuglisi/kn-cli/catalog"
	"github.com/danielpuglisi/kn-cli/grid"
	"github.com/danielpuglisi/kn-cli/roster"
)

// ErrUnsupportedBackend is returned for an unknown storage driver
var ErrUnsupportedBackend = errors.New("unsupported storage backend")

// Document is the full persisted state; every save rewrites all of it
type Document struct {
	Catalog []RowRecord      `json:"catalog"`
	Roster  []*roster.Person `json:"roster"`
	Data    grid.Snapshot    `json:"data"`
}

// RowRecord describes one catalog row for audit; MaxPoints is nil for unbounded rows
type RowRecord struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Kind      string   `json:"kind"`
	MaxPoints *float64 `json:"max_points,omitempty"`
	ValueType string   `json:"value_type"`
}

func describeCatalog(c *catalog.Catalog) []RowRecord {
	rows := c.Rows()
	out := make([]RowRecord, len(rows))
	for i, r := range rows {
		rec := RowRecord{
			ID:        r.ID,
			Title:     r.Title,
			Kind:      r.Kind.String(),
			ValueType: r.ValueType.String(),
		}
		if r.Bounded() {
			capValue := r.Cap
			rec.MaxPoints = &capValue
		}
		out[i] = rec
	}
	return out
}
