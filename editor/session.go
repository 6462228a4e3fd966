// Package editor owns the editing session: cursor, pending entry and the
// transitions that mutate the grid.
package editor

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/danielpuglisi/kn-cli/catalog"
	"github.com/danielpuglisi/kn-cli/grid"
	"github.com/danielpuglisi/kn-cli/input"
	"github.com/danielpuglisi/kn-cli/render"
	"github.com/danielpuglisi/kn-cli/roster"
	"github.com/danielpuglisi/kn-cli/scoring"
)

var ErrEmptyRoster = errors.New("roster has no people")

// State of the entry buffer
type State uint8

const (
	StateNormal   State = iota // nothing pending
	StateEntering              // buffer holds characters
)

func (s State) String() string {
	if s == StateEntering {
		return "entering"
	}
	return "normal"
}

// clearMarker commits as a clear instead of a value
const clearMarker = "-"

// Outcome reports what one intent did
type Outcome struct {
	Changed bool // anything visible changed
	Mutated bool // the grid was written
	Save    bool // explicit save requested
	Quit    bool

	// Set when Mutated
	RowID    string
	PersonID string
	Value    float64
	Cleared  bool
	Clamped  bool // raw value lay outside [0, cap]
	Adjusted bool // typed value truncated or rounded within bounds
}

// Session is the single mutable model of an edit run
type Session struct {
	Catalog *catalog.Catalog
	Roster  *roster.Roster
	Store   *grid.Store
	Scorer  scoring.Scorer

	row    int
	col    int
	buffer []rune
	status string
}

// NewSession starts with the cursor at the top-left cell
func NewSession(c *catalog.Catalog, r *roster.Roster, store *grid.Store, scorer scoring.Scorer) (*Session, error) {
	if r.Len() == 0 {
		return nil, ErrEmptyRoster
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows", catalog.ErrMalformed)
	}
	return &Session{Catalog: c, Roster: r, Store: store, Scorer: scorer}, nil
}

// State reports whether an entry is pending
func (s *Session) State() State {
	if len(s.buffer) > 0 {
		return StateEntering
	}
	return StateNormal
}

// Cursor returns row and column
func (s *Session) Cursor() (row, col int) { return s.row, s.col }

// Buffer returns the pending entry
func (s *Session) Buffer() string { return string(s.buffer) }

// Status returns the status line message
func (s *Session) Status() string { return s.status }

// SetStatus replaces the status line message
func (s *Session) SetStatus(msg string) { s.status = msg }

// CurrentRow returns the row under the cursor
func (s *Session) CurrentRow() catalog.RowDefinition { return s.Catalog.Row(s.row) }

// CurrentPerson returns the person under the cursor
func (s *Session) CurrentPerson() *roster.Person { return s.Roster.People[s.col] }

// View snapshots the session for rendering
func (s *Session) View() render.View {
	return render.View{
		Catalog: s.Catalog,
		Roster:  s.Roster,
		Store:   s.Store,
		Scorer:  s.Scorer,
		Row:     s.row,
		Col:     s.col,
		Buffer:  string(s.buffer),
		Status:  s.status,
	}
}

// Apply runs one transition
func (s *Session) Apply(in input.Intent) Outcome {
	hadStatus := s.status != ""
	s.status = ""

	var out Outcome
	switch in.Type {
	case input.IntentQuit:
		return Outcome{Quit: true}

	case input.IntentSave:
		out = Outcome{Save: true, Changed: true}

	case input.IntentCancel:
		out.Changed = s.discard()

	case input.IntentMotion:
		out.Changed = s.discard()
		if s.move(in.Motion) {
			out.Changed = true
		}

	case input.IntentEntryChar:
		if input.IsEntryRune(in.Char) {
			s.buffer = append(s.buffer, in.Char)
			out.Changed = true
		}

	case input.IntentCommit:
		out = s.commit()

	case input.IntentBackspace:
		if len(s.buffer) > 0 {
			s.buffer = s.buffer[:len(s.buffer)-1]
			out.Changed = true
		} else {
			out = s.clearCell()
		}

	case input.IntentIncrease, input.IntentDecrease:
		s.discard()
		out = s.step(in.Type == input.IntentIncrease)

	case input.IntentSetMin:
		s.discard()
		out = s.set(0)

	case input.IntentSetMax:
		s.discard()
		row := s.CurrentRow()
		if row.Bounded() {
			out = s.set(row.Cap)
		} else {
			out.Changed = true
		}
	}

	switch {
	case out.Clamped:
		s.status = "Clamped to " + catalog.FormatValue(out.Value, s.CurrentRow().ValueType)
	case out.Adjusted:
		s.status = "Stored as " + catalog.FormatValue(out.Value, s.CurrentRow().ValueType)
	}
	if hadStatus && s.status == "" {
		out.Changed = true
	}
	return out
}

func (s *Session) discard() bool {
	if len(s.buffer) == 0 {
		return false
	}
	s.buffer = s.buffer[:0]
	return true
}

// move clamps to the grid and never wraps
func (s *Session) move(op input.MotionOp) bool {
	lastRow := s.Catalog.Len() - 1
	lastCol := s.Roster.Len() - 1
	row, col := s.row, s.col

	switch op {
	case input.MotionLeft:
		col--
	case input.MotionRight:
		col++
	case input.MotionUp:
		row--
	case input.MotionDown:
		row++
	case input.MotionFirstColumn:
		col = 0
	case input.MotionLastColumn:
		col = lastCol
	case input.MotionFirstRow:
		row = 0
	case input.MotionLastRow:
		row = lastRow
	}

	row = min(max(row, 0), lastRow)
	col = min(max(col, 0), lastCol)
	moved := row != s.row || col != s.col
	s.row, s.col = row, col
	return moved
}

func (s *Session) commit() Outcome {
	if len(s.buffer) == 0 {
		return Outcome{}
	}
	text := string(s.buffer)
	s.buffer = s.buffer[:0]

	if text == clearMarker {
		out := s.clearCell()
		out.Changed = true
		return out
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Outcome{Changed: true}
	}
	out := s.set(v)
	out.Adjusted = !out.Clamped && out.Value != v
	return out
}

func (s *Session) step(up bool) Outcome {
	row := s.CurrentRow()
	cur, ok := s.Store.Get(row.ID, s.CurrentPerson().ID)

	var next float64
	switch {
	case !ok && up:
		next = row.Step()
	case !ok:
		next = 0
	case up:
		next = cur + row.Step()
	default:
		next = max(cur-row.Step(), 0)
	}
	return s.set(next)
}

func (s *Session) set(v float64) Outcome {
	row := s.CurrentRow()
	person := s.CurrentPerson()
	applied, clamped := s.Store.Set(row, person.ID, v)
	return Outcome{
		Changed:  true,
		Mutated:  true,
		RowID:    row.ID,
		PersonID: person.ID,
		Value:    applied,
		Clamped:  clamped,
	}
}

func (s *Session) clearCell() Outcome {
	row := s.CurrentRow()
	person := s.CurrentPerson()
	existed := s.Store.Clear(row.ID, person.ID)
	return Outcome{
		Changed:  existed,
		Mutated:  true,
		RowID:    row.ID,
		PersonID: person.ID,
		Cleared:  true,
	}
}
