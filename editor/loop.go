package editor

import (
	"fmt"
	"log/slog"

	"github.com/danielpuglisi/kn-cli/grid"
	"github.com/danielpuglisi/kn-cli/input"
	"github.com/danielpuglisi/kn-cli/logger"
	"github.com/danielpuglisi/kn-cli/render"
	"github.com/danielpuglisi/kn-cli/roster"
	"github.com/danielpuglisi/kn-cli/terminal"
)

// KeySource blocks until the next decoded event
type KeySource interface {
	ReadEvent() terminal.Event
}

// Renderer presents a view
type Renderer interface {
	Render(v render.View) error
}

// Saver persists the grid with the roster summary
type Saver interface {
	Save(store *grid.Store, r *roster.Roster) error
	Path() string
}

// Recorder receives session counters
type Recorder interface {
	Edit(intent string, clamped bool)
	Save(err error)
	Cells(n int)
}

type nopRecorder struct{}

func (nopRecorder) Edit(string, bool) {}
func (nopRecorder) Save(error)        {}
func (nopRecorder) Cells(int)         {}

// Loop reads one key at a time and fully handles it before the next read
type Loop struct {
	session  *Session
	keys     KeySource
	machine  *input.Machine
	renderer Renderer
	saver    Saver
	recorder Recorder
	log      *slog.Logger

	// last save failed; the next save carries every mutation since
	dirty   bool
	failure string
}

// Option configures a Loop
type Option func(*Loop)

// WithLogger sets the session logger
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) { lp.log = l }
}

// WithRecorder sets the metrics sink
func WithRecorder(r Recorder) Option {
	return func(lp *Loop) { lp.recorder = r }
}

// NewLoop wires a session to its collaborators
func NewLoop(s *Session, keys KeySource, m *input.Machine, r Renderer, saver Saver, opts ...Option) *Loop {
	lp := &Loop{
		session:  s,
		keys:     keys,
		machine:  m,
		renderer: r,
		saver:    saver,
		recorder: nopRecorder{},
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(lp)
	}
	return lp
}

// Run renders, then processes events until quit.
// A pending failed save is retried on quit and its error returned.
func (lp *Loop) Run() error {
	lp.recorder.Cells(lp.session.Store.Len())
	if err := lp.renderer.Render(lp.session.View()); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	for {
		ev := lp.keys.ReadEvent()
		in := lp.machine.Process(ev)
		if ev.Type == terminal.EventError {
			lp.log.Error("input failed", "error", ev.Err)
		}

		out := lp.session.Apply(in)
		if out.Quit {
			return lp.finish()
		}

		if out.Mutated {
			lp.recorder.Edit(in.Type.String(), out.Clamped)
			lp.recorder.Cells(lp.session.Store.Len())
			lp.log.Debug("cell updated",
				"row", out.RowID,
				"person", out.PersonID,
				"value", out.Value,
				"cleared", out.Cleared,
				"clamped", out.Clamped,
			)
		}

		if out.Mutated || out.Save {
			if err := lp.save(); err != nil {
				lp.session.SetStatus(lp.failure)
			} else if out.Save {
				lp.session.SetStatus("Saved " + lp.saver.Path())
			}
		}
		// The failure stays visible until a save succeeds
		if lp.dirty && lp.session.Status() == "" {
			lp.session.SetStatus(lp.failure)
		}

		if err := lp.renderer.Render(lp.session.View()); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
}

func (lp *Loop) save() error {
	err := lp.saver.Save(lp.session.Store, lp.session.Roster)
	lp.recorder.Save(err)
	if err != nil {
		lp.dirty = true
		lp.failure = "Save failed: " + err.Error()
		lp.log.Error("save failed", "path", lp.saver.Path(), "error", err)
		return err
	}
	lp.dirty = false
	lp.failure = ""
	lp.log.Debug("saved", "path", lp.saver.Path(), "cells", lp.session.Store.Len())
	return nil
}

func (lp *Loop) finish() error {
	if !lp.dirty {
		lp.log.Info("session closed")
		return nil
	}
	if err := lp.save(); err != nil {
		return fmt.Errorf("unsaved changes: %w", err)
	}
	lp.log.Info("session closed after retrying save")
	return nil
}
