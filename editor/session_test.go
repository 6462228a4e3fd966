package editor

import (
	"math"
	"testing"

	"github.com/danielpuglisi/kn-cli/catalog"
	"github.com/danielpuglisi/kn-cli/grid"
	"github.com/danielpuglisi/kn-cli/input"
	"github.com/danielpuglisi/kn-cli/roster"
	"github.com/danielpuglisi/kn-cli/scoring"
)

// Display rows: 0 attribute, 1 int cap 2, 2 fractional cap 4, 3 int cap 10
const (
	rowAttr = iota
	rowCap2
	rowFrac4
	rowCap10
)

func newSession(t *testing.T) *Session {
	t.Helper()
	attr := catalog.RowDefinition{ID: "absences_count", Title: "absences_count", Kind: catalog.KindAttribute, Cap: math.Inf(1)}
	items := []catalog.RowDefinition{
		{ID: "0.0.0", Title: "two", Kind: catalog.KindMetric, Cap: 2, ValueType: catalog.Integer},
		{ID: "0.0.1", Title: "four", Kind: catalog.KindMetric, Cap: 4, ValueType: catalog.Fractional},
		{ID: "0.0.2", Title: "ten", Kind: catalog.KindMetric, Cap: 10, ValueType: catalog.Integer},
	}
	c := catalog.Build("1", "Test", [][]catalog.Group{{{Title: "g", Items: items}}}, []catalog.RowDefinition{attr})
	r := &roster.Roster{People: []*roster.Person{
		{ID: "a", FirstName: "Anna", LastName: "Muster"},
		{ID: "b", FirstName: "Beat", LastName: "Beispiel"},
	}}
	s, err := NewSession(c, r, grid.New(), scoring.New())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func motion(op input.MotionOp) input.Intent {
	return input.Intent{Type: input.IntentMotion, Motion: op}
}

func act(t input.IntentType) input.Intent { return input.Intent{Type: t} }

func typeChars(s *Session, text string) {
	for _, r := range text {
		s.Apply(input.Intent{Type: input.IntentEntryChar, Char: r})
	}
}

func goTo(s *Session, row int) {
	s.Apply(motion(input.MotionFirstRow))
	for i := 0; i < row; i++ {
		s.Apply(motion(input.MotionDown))
	}
}

func cell(s *Session) (float64, bool) {
	return s.Store.Get(s.CurrentRow().ID, s.CurrentPerson().ID)
}

func TestIncreaseClampsAtIntegerCap(t *testing.T) {
	s := newSession(t)
	goTo(s, rowCap2)

	out := s.Apply(act(input.IntentIncrease))
	if v, ok := cell(s); !ok || v != 1 || !out.Mutated {
		t.Fatalf("after one increase = %v %v, mutated=%v", v, ok, out.Mutated)
	}
	s.Apply(act(input.IntentIncrease))
	out = s.Apply(act(input.IntentIncrease))
	if v, _ := cell(s); v != 2 {
		t.Errorf("after three increases = %v, want 2", v)
	}
	if !out.Clamped {
		t.Error("third increase should report clamping")
	}
}

func TestIncreaseClampsAtFractionalCap(t *testing.T) {
	s := newSession(t)
	goTo(s, rowFrac4)
	s.Store.Set(s.CurrentRow(), s.CurrentPerson().ID, 3.75)

	s.Apply(act(input.IntentIncrease))
	if v, _ := cell(s); v != 4.0 {
		t.Fatalf("increase from 3.75 = %v, want 4", v)
	}
	s.Apply(act(input.IntentIncrease))
	if v, _ := cell(s); v != 4.0 {
		t.Errorf("increase at cap = %v, want 4", v)
	}
}

func TestCommitTruncationIsNotClamping(t *testing.T) {
	s := newSession(t)
	goTo(s, rowCap2)

	typeChars(s, "1.5")
	out := s.Apply(act(input.IntentCommit))
	if v, _ := cell(s); v != 1 {
		t.Fatalf("commit 1.5 on integer row = %v, want 1", v)
	}
	if out.Clamped || !out.Adjusted {
		t.Errorf("outcome = %+v", out)
	}
	if got := s.View().Status; got != "Stored as 1" {
		t.Errorf("status = %q, want %q", got, "Stored as 1")
	}

	typeChars(s, "5")
	s.Apply(act(input.IntentCommit))
	if got := s.View().Status; got != "Clamped to 2" {
		t.Errorf("status = %q, want %q", got, "Clamped to 2")
	}

	typeChars(s, "2")
	s.Apply(act(input.IntentCommit))
	if got := s.View().Status; got != "" {
		t.Errorf("status after exact commit = %q", got)
	}
}

func TestDecrease(t *testing.T) {
	s := newSession(t)
	goTo(s, rowFrac4)

	s.Apply(act(input.IntentDecrease))
	if v, ok := cell(s); !ok || v != 0 {
		t.Fatalf("decrease on absent = %v %v, want present 0", v, ok)
	}
	s.Apply(act(input.IntentDecrease))
	if v, _ := cell(s); v != 0 {
		t.Errorf("decrease floored = %v", v)
	}
	s.Store.Set(s.CurrentRow(), s.CurrentPerson().ID, 1)
	s.Apply(act(input.IntentDecrease))
	if v, _ := cell(s); v != 0.75 {
		t.Errorf("fractional step = %v, want 0.75", v)
	}
}

func TestEntryCommitThenBackspaceClears(t *testing.T) {
	s := newSession(t)
	goTo(s, rowCap10)

	typeChars(s, "12")
	if s.State() != StateEntering || s.Buffer() != "12" {
		t.Fatalf("state = %v buffer = %q", s.State(), s.Buffer())
	}
	out := s.Apply(act(input.IntentCommit))
	if v, ok := cell(s); !ok || v != 10 {
		t.Fatalf("commit 12 on cap 10 = %v %v", v, ok)
	}
	if !out.Mutated || !out.Clamped || s.State() != StateNormal {
		t.Errorf("outcome = %+v state = %v", out, s.State())
	}

	out = s.Apply(act(input.IntentBackspace))
	if _, ok := cell(s); ok {
		t.Error("backspace in normal state did not clear the cell")
	}
	if !out.Mutated || !out.Cleared {
		t.Errorf("outcome = %+v", out)
	}
	if s.Store.HasRow(s.CurrentRow().ID) {
		t.Error("empty row map left in store")
	}
}

func TestCommitTwelveWithinCap(t *testing.T) {
	s := newSession(t)
	goTo(s, rowAttr)
	typeChars(s, "12")
	s.Apply(act(input.IntentCommit))
	if v, ok := cell(s); !ok || v != 12 {
		t.Errorf("attribute commit = %v %v", v, ok)
	}
}

func TestBackspaceEditsBuffer(t *testing.T) {
	s := newSession(t)
	goTo(s, rowCap10)
	typeChars(s, "7")
	s.Apply(act(input.IntentBackspace))
	if s.State() != StateNormal {
		t.Errorf("state = %v after deleting only char", s.State())
	}
	typeChars(s, "34")
	s.Apply(act(input.IntentBackspace))
	if s.Buffer() != "3" || s.State() != StateEntering {
		t.Errorf("buffer = %q", s.Buffer())
	}
	if _, ok := cell(s); ok {
		t.Error("buffer edit mutated the cell")
	}
}

func TestCommitEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		initial float64
		text    string
		want    float64
		present bool
		mutated bool
	}{
		{"lone minus clears", 5, "-", 0, false, true},
		{"unparseable rejected", 5, "1.2.3", 5, true, false},
		{"lone dot rejected", 5, ".", 5, true, false},
		{"negative clamps to zero", 5, "-3", 0, true, true},
		{"fraction truncated on integer row", 5, "7.9", 7, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)
			goTo(s, rowCap10)
			s.Store.Set(s.CurrentRow(), s.CurrentPerson().ID, tt.initial)

			typeChars(s, tt.text)
			out := s.Apply(act(input.IntentCommit))

			v, ok := cell(s)
			if ok != tt.present || (ok && v != tt.want) {
				t.Errorf("cell = %v %v, want %v %v", v, ok, tt.want, tt.present)
			}
			if out.Mutated != tt.mutated {
				t.Errorf("mutated = %v, want %v", out.Mutated, tt.mutated)
			}
			if s.State() != StateNormal {
				t.Errorf("buffer not emptied: %q", s.Buffer())
			}
		})
	}
}

func TestCommitWithEmptyBufferIsNoop(t *testing.T) {
	s := newSession(t)
	goTo(s, rowCap10)
	s.Store.Set(s.CurrentRow(), s.CurrentPerson().ID, 4)
	out := s.Apply(act(input.IntentCommit))
	if out.Mutated || out.Changed {
		t.Errorf("outcome = %+v", out)
	}
	if v, _ := cell(s); v != 4 {
		t.Errorf("cell = %v", v)
	}
}

func TestSetMinMax(t *testing.T) {
	s := newSession(t)
	goTo(s, rowFrac4)
	s.Apply(act(input.IntentSetMax))
	if v, _ := cell(s); v != 4 {
		t.Errorf("set max = %v", v)
	}
	s.Apply(act(input.IntentSetMin))
	if v, ok := cell(s); !ok || v != 0 {
		t.Errorf("set min = %v %v", v, ok)
	}

	goTo(s, rowAttr)
	out := s.Apply(act(input.IntentSetMax))
	if _, ok := cell(s); ok || out.Mutated {
		t.Error("set max on unbounded row should be a no-op")
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	s := newSession(t)
	ops := []input.MotionOp{input.MotionUp, input.MotionLeft, input.MotionDown, input.MotionRight}
	for i := 0; i < 200; i++ {
		s.Apply(motion(ops[(i*7)%len(ops)]))
		row, col := s.Cursor()
		if row < 0 || row >= s.Catalog.Len() || col < 0 || col >= s.Roster.Len() {
			t.Fatalf("cursor out of bounds: %d,%d", row, col)
		}
	}

	for i := 0; i < 10; i++ {
		s.Apply(motion(input.MotionDown))
		s.Apply(motion(input.MotionRight))
	}
	if row, col := s.Cursor(); row != s.Catalog.Len()-1 || col != s.Roster.Len()-1 {
		t.Errorf("cursor not pinned at bottom-right: %d,%d", row, col)
	}
	out := s.Apply(motion(input.MotionDown))
	if out.Changed {
		t.Error("move past boundary reported a change")
	}

	s.Apply(motion(input.MotionFirstColumn))
	s.Apply(motion(input.MotionFirstRow))
	if row, col := s.Cursor(); row != 0 || col != 0 {
		t.Errorf("jump to origin = %d,%d", row, col)
	}
}

func TestNavigationDiscardsBuffer(t *testing.T) {
	s := newSession(t)
	typeChars(s, "9")
	s.Apply(motion(input.MotionDown))
	if s.State() != StateNormal {
		t.Error("motion kept pending entry")
	}
	typeChars(s, "9")
	s.Apply(act(input.IntentCancel))
	if s.Buffer() != "" {
		t.Error("cancel kept pending entry")
	}
	typeChars(s, "9")
	s.Apply(act(input.IntentIncrease))
	if s.Buffer() != "" {
		t.Error("increase kept pending entry")
	}
}

func TestQuitAndSave(t *testing.T) {
	s := newSession(t)
	if out := s.Apply(act(input.IntentQuit)); !out.Quit {
		t.Error("quit not reported")
	}
	if out := s.Apply(act(input.IntentSave)); !out.Save || out.Mutated {
		t.Errorf("save outcome = %+v", out)
	}
	if out := s.Apply(input.Intent{}); out.Changed || out.Mutated {
		t.Errorf("none outcome = %+v", out)
	}
}

func TestNewSessionRejectsEmptyRoster(t *testing.T) {
	c := catalog.Build("", "", nil, []catalog.RowDefinition{{ID: "x", Kind: catalog.KindAttribute, Cap: math.Inf(1)}})
	if _, err := NewSession(c, &roster.Roster{}, grid.New(), scoring.New()); err != ErrEmptyRoster {
		t.Errorf("err = %v", err)
	}
}
