// Package roster loads the ordered list of people a grid is scored against.
package roster

import (
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	ErrMissingColumn = errors.New("roster column missing")
	ErrMalformedRow  = errors.New("malformed roster row")
)

// Person is one roster column; Total, RawScore and Score are refreshed by scoring
type Person struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Total     float64 `json:"total_points"`
	RawScore  float64 `json:"raw_grade"`
	Score     float64 `json:"grade"`
}

// Name returns "First Last"
func (p *Person) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Roster keeps people in file order
type Roster struct {
	People []*Person
}

// Len returns the person count
func (r *Roster) Len() int { return len(r.People) }

// ByID finds a person by identifier
func (r *Roster) ByID(id string) (*Person, bool) {
	for _, p := range r.People {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Find matches an identifier first, then a case-insensitive last name
func (r *Roster) Find(key string) []*Person {
	if p, ok := r.ByID(key); ok {
		return []*Person{p}
	}
	var out []*Person
	for _, p := range r.People {
		if strings.EqualFold(p.LastName, key) {
			out = append(out, p)
		}
	}
	return out
}

// Columns names the header fields to read; matching ignores case and spacing
type Columns struct {
	FirstName string
	LastName  string
	ID        string
}

// DefaultColumns matches the school export format
func DefaultColumns() Columns {
	return Columns{FirstName: "vorname", LastName: "nachname", ID: "emailadresse"}
}

// aliases are tried when the configured header is absent
var aliases = map[string][]string{
	"first": {"first_name", "firstname", "given_name"},
	"last":  {"last_name", "lastname", "surname", "family_name"},
	"id":    {"email", "e_mail", "email_address"},
}

var nonWord = regexp.MustCompile(`[^\w]+`)

// normalizeHeader lowercases and folds whitespace to underscores
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "_")
	return nonWord.ReplaceAllString(s, "")
}

// PersonID hashes the identifying field; stable across reloads
func PersonID(identity string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(identity)))
	return hex.EncodeToString(sum[:])
}

// Load reads a roster file
func Load(path string, cols Columns) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	return Parse(f, cols)
}

// Parse reads CSV with a header row
func Parse(r io.Reader, cols Columns) (*Roster, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[normalizeHeader(h)]; !dup {
			index[normalizeHeader(h)] = i
		}
	}

	firstCol, err := column(index, cols.FirstName, "first")
	if err != nil {
		return nil, err
	}
	lastCol, err := column(index, cols.LastName, "last")
	if err != nil {
		return nil, err
	}
	idCol, err := column(index, cols.ID, "id")
	if err != nil {
		return nil, err
	}

	roster := &Roster{}
	seen := make(map[string]int)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		if blank(rec) {
			continue
		}

		identity := field(rec, idCol)
		if identity == "" {
			return nil, fmt.Errorf("%w: line %d: empty %s", ErrMalformedRow, line, header[idCol])
		}
		p := &Person{
			ID:        PersonID(identity),
			FirstName: field(rec, firstCol),
			LastName:  field(rec, lastCol),
		}
		if prev, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: line %d duplicates line %d", ErrMalformedRow, line, prev)
		}
		seen[p.ID] = line
		roster.People = append(roster.People, p)
	}

	return roster, nil
}

func column(index map[string]int, configured, role string) (int, error) {
	if i, ok := index[normalizeHeader(configured)]; ok {
		return i, nil
	}
	for _, a := range aliases[role] {
		if i, ok := index[a]; ok {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrMissingColumn, configured)
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
