package persist

import (
	"github.com/danielpuglisi/kn-cli/catalog"
	"github.com/danielpuglisi/kn-cli/grid"
	"github.com/danielpuglisi/kn-cli/roster"
	"github.com/danielpuglisi/kn-cli/scoring"
)

// Gateway persists a session's grid through a Backend
type Gateway struct {
	backend Backend
	catalog *catalog.Catalog
	scorer  scoring.Scorer
}

// NewGateway binds a backend to the session's catalog and grading rule
func NewGateway(b Backend, c *catalog.Catalog, s scoring.Scorer) *Gateway {
	return &Gateway{backend: b, catalog: c, scorer: s}
}

// Load restores the grid; missing storage yields an empty store
func (g *Gateway) Load() (*grid.Store, error) {
	doc, err := g.backend.Load()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return grid.New(), nil
	}
	return grid.FromSnapshot(doc.Data), nil
}

// LoadDocument returns the stored document as is, or nil when nothing was saved
func (g *Gateway) LoadDocument() (*Document, error) {
	return g.backend.Load()
}

// Save refreshes derived roster fields, then rewrites the whole document
func (g *Gateway) Save(store *grid.Store, r *roster.Roster) error {
	g.scorer.Refresh(r, store, g.catalog)
	doc := &Document{
		Catalog: describeCatalog(g.catalog),
		Roster:  r.People,
		Data:    store.Snapshot(),
	}
	return g.backend.Save(doc)
}

// Path returns the storage location
func (g *Gateway) Path() string { return g.backend.Path() }

// Close releases the backend
func (g *Gateway) Close() error { return g.backend.Close() }
