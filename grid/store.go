// Package grid holds the sparse (row, person) -> value store and its clamp policy.
package grid

import (
	"sort"

	"github.com/danielpuglisi/kn-cli/catalog"
)

// Snapshot is the serialized form: row id -> person id -> value
type Snapshot map[string]map[string]float64

// Store is owned by the editor session; absence of an entry means no value entered
type Store struct {
	cells map[string]map[string]float64
}

// New returns an empty store
func New() *Store {
	return &Store{cells: make(map[string]map[string]float64)}
}

// FromSnapshot copies persisted data; values are kept as stored
func FromSnapshot(snap Snapshot) *Store {
	s := New()
	for row, people := range snap {
		if len(people) == 0 {
			continue
		}
		inner := make(map[string]float64, len(people))
		for id, v := range people {
			inner[id] = v
		}
		s.cells[row] = inner
	}
	return s
}

// Get returns the value and whether one is present
func (s *Store) Get(rowID, personID string) (float64, bool) {
	v, ok := s.cells[rowID][personID]
	return v, ok
}

// Set clamps raw for the row and stores it.
// Returns the applied value and whether raw lay outside [0, cap].
// Truncation or rounding inside the bounds is not clamping.
func (s *Store) Set(row catalog.RowDefinition, personID string, raw float64) (applied float64, clamped bool) {
	applied = Clamp(row, raw)
	clamped = OutOfBounds(row, raw)
	inner, ok := s.cells[row.ID]
	if !ok {
		inner = make(map[string]float64)
		s.cells[row.ID] = inner
	}
	inner[personID] = applied
	return applied, clamped
}

// Clear removes an entry and drops the row once it is empty.
// Reports whether an entry existed.
func (s *Store) Clear(rowID, personID string) bool {
	inner, ok := s.cells[rowID]
	if !ok {
		return false
	}
	if _, ok := inner[personID]; !ok {
		return false
	}
	delete(inner, personID)
	if len(inner) == 0 {
		delete(s.cells, rowID)
	}
	return true
}

// HasRow reports whether any entry exists for the row
func (s *Store) HasRow(rowID string) bool {
	_, ok := s.cells[rowID]
	return ok
}

// TotalFor sums a person's metric values; attribute rows and absent cells count as zero.
// The sum is rounded to two decimals like the values it adds up.
func (s *Store) TotalFor(personID string, rows []catalog.RowDefinition) float64 {
	var sum float64
	for _, r := range rows {
		if r.Kind != catalog.KindMetric {
			continue
		}
		if v, ok := s.Get(r.ID, personID); ok {
			sum += v
		}
	}
	return Round2(sum)
}

// Len returns the number of present entries
func (s *Store) Len() int {
	n := 0
	for _, inner := range s.cells {
		n += len(inner)
	}
	return n
}

// Rows lists row ids with entries, sorted
func (s *Store) Rows() []string {
	out := make([]string, 0, len(s.cells))
	for id := range s.cells {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a deep copy
func (s *Store) Snapshot() Snapshot {
	snap := make(Snapshot, len(s.cells))
	for row, inner := range s.cells {
		c := make(map[string]float64, len(inner))
		for id, v := range inner {
			c[id] = v
		}
		snap[row] = c
	}
	return snap
}
