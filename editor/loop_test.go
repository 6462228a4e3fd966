package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/danielpuglisi/kn-cli/grid"
	"github.com/danielpuglisi/kn-cli/input"
	"github.com/danielpuglisi/kn-cli/render"
	"github.com/danielpuglisi/kn-cli/roster"
	"github.com/danielpuglisi/kn-cli/terminal"
)

type scriptedKeys struct {
	events []terminal.Event
}

func (k *scriptedKeys) ReadEvent() terminal.Event {
	if len(k.events) == 0 {
		return terminal.Event{Type: terminal.EventClosed}
	}
	ev := k.events[0]
	k.events = k.events[1:]
	return ev
}

func keys(evs ...terminal.Event) *scriptedKeys { return &scriptedKeys{events: evs} }

func runeKey(r rune) terminal.Event { return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: r} }

func namedKey(k terminal.Key) terminal.Event { return terminal.Event{Type: terminal.EventKey, Key: k} }

type viewRecorder struct {
	views []render.View
}

func (v *viewRecorder) Render(view render.View) error {
	v.views = append(v.views, view)
	return nil
}

type fakeSaver struct {
	fail  []error
	saves []grid.Snapshot
}

func (f *fakeSaver) Save(store *grid.Store, _ *roster.Roster) error {
	if len(f.fail) > 0 {
		err := f.fail[0]
		f.fail = f.fail[1:]
		if err != nil {
			return err
		}
	}
	f.saves = append(f.saves, store.Snapshot())
	return nil
}

func (f *fakeSaver) Path() string { return "kn.json" }

type countingRecorder struct {
	edits, clamped, saves, failures, cells int
}

func (c *countingRecorder) Edit(_ string, clamped bool) {
	c.edits++
	if clamped {
		c.clamped++
	}
}

func (c *countingRecorder) Save(err error) {
	if err != nil {
		c.failures++
		return
	}
	c.saves++
}

func (c *countingRecorder) Cells(n int) { c.cells = n }

func TestLoopPersistsEveryMutation(t *testing.T) {
	s := newSession(t)
	saver := &fakeSaver{}
	views := &viewRecorder{}
	rec := &countingRecorder{}

	// down to the cap-2 row, increase three times, then quit
	script := keys(
		runeKey('j'),
		namedKey(terminal.KeyCtrlA),
		namedKey(terminal.KeyCtrlA),
		namedKey(terminal.KeyCtrlA),
		runeKey('q'),
	)
	err := NewLoop(s, script, input.NewMachine(), views, saver, WithRecorder(rec)).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(saver.saves) != 3 {
		t.Fatalf("saves = %d, want 3", len(saver.saves))
	}
	if got := saver.saves[2]["0.0.0"]["a"]; got != 2 {
		t.Errorf("last saved value = %v, want 2", got)
	}
	// initial render plus one per processed key before quit
	if len(views.views) != 5 {
		t.Errorf("renders = %d, want 5", len(views.views))
	}
	if rec.edits != 3 || rec.clamped != 1 || rec.saves != 3 || rec.cells != 1 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestLoopNavigationDoesNotSave(t *testing.T) {
	s := newSession(t)
	saver := &fakeSaver{}
	err := NewLoop(s, keys(runeKey('j'), runeKey('l'), runeKey('1')), input.NewMachine(), &viewRecorder{}, saver).Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(saver.saves) != 0 {
		t.Errorf("saves = %d, want 0", len(saver.saves))
	}
}

func TestLoopSurfacesSaveFailure(t *testing.T) {
	s := newSession(t)
	saver := &fakeSaver{fail: []error{errors.New("disk full")}}
	views := &viewRecorder{}

	script := keys(
		runeKey('j'),
		namedKey(terminal.KeyCtrlA), // fails
		namedKey(terminal.KeyCtrlA), // succeeds with both increments
		runeKey('q'),
	)
	if err := NewLoop(s, script, input.NewMachine(), views, saver).Run(); err != nil {
		t.Fatal(err)
	}

	failed := views.views[2]
	if !strings.Contains(failed.Status, "Save failed: disk full") {
		t.Errorf("status after failure = %q", failed.Status)
	}
	if len(saver.saves) != 1 || saver.saves[0]["0.0.0"]["a"] != 2 {
		t.Errorf("saves = %v", saver.saves)
	}
}

func TestLoopKeepsSaveFailureUntilSaved(t *testing.T) {
	s := newSession(t)
	saver := &fakeSaver{fail: []error{errors.New("disk full")}}
	views := &viewRecorder{}

	script := keys(
		runeKey('j'),
		namedKey(terminal.KeyCtrlA),  // fails
		runeKey('x'),                 // unbound
		namedKey(terminal.KeyEscape), // nothing pending
		namedKey(terminal.KeyCtrlA),  // succeeds
		runeKey('q'),
	)
	if err := NewLoop(s, script, input.NewMachine(), views, saver).Run(); err != nil {
		t.Fatal(err)
	}

	for i := 2; i <= 4; i++ {
		if got := views.views[i].Status; got != "Save failed: disk full" {
			t.Errorf("render %d status = %q", i, got)
		}
	}
	if got := views.views[5].Status; got != "" {
		t.Errorf("status after successful save = %q", got)
	}
}

func TestLoopRetriesFailedSaveOnQuit(t *testing.T) {
	s := newSession(t)
	saver := &fakeSaver{fail: []error{errors.New("busy"), errors.New("still busy")}}
	err := NewLoop(s, keys(runeKey('j'), namedKey(terminal.KeyCtrlE), runeKey('q')), input.NewMachine(), &viewRecorder{}, saver).Run()
	if err == nil || !strings.Contains(err.Error(), "still busy") {
		t.Errorf("err = %v", err)
	}

	s = newSession(t)
	saver = &fakeSaver{fail: []error{errors.New("busy")}}
	err = NewLoop(s, keys(runeKey('j'), namedKey(terminal.KeyCtrlE), runeKey('q')), input.NewMachine(), &viewRecorder{}, saver).Run()
	if err != nil || len(saver.saves) != 1 {
		t.Errorf("retry on quit: err=%v saves=%d", err, len(saver.saves))
	}
}

func TestLoopExplicitSave(t *testing.T) {
	s := newSession(t)
	saver := &fakeSaver{}
	views := &viewRecorder{}
	if err := NewLoop(s, keys(runeKey('s')), input.NewMachine(), views, saver).Run(); err != nil {
		t.Fatal(err)
	}
	if len(saver.saves) != 1 {
		t.Errorf("saves = %d", len(saver.saves))
	}
	if views.views[1].Status != "Saved kn.json" {
		t.Errorf("status = %q", views.views[1].Status)
	}
}

func TestLoopStopsOnClosedInput(t *testing.T) {
	s := newSession(t)
	if err := NewLoop(s, keys(), input.NewMachine(), &viewRecorder{}, &fakeSaver{}).Run(); err != nil {
		t.Errorf("Run on closed input = %v", err)
	}
}
