package terminal

import (
	"io"
	"os"
	"sync"
)

// Terminal provides low-level terminal access
type Terminal interface {
	// Init enters raw mode, alternate screen buffer, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// ColorMode returns the configured color capability
	ColorMode() ColorMode

	// ReadEvent blocks until the next decoded key or input closure
	ReadEvent() Event

	// Present writes a frame, diffing against the previous one
	Present(frame []string) error
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend   Backend
	decoder   *Decoder
	screen    *Screen
	colorMode ColorMode

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a new Terminal instance
func New(colorMode ...ColorMode) Terminal {
	return newTerminal(newBackend(), colorMode...)
}

func newTerminal(b Backend, colorMode ...ColorMode) *termImpl {
	var c ColorMode
	if len(colorMode) == 0 {
		c = DetectColorMode()
	} else {
		c = colorMode[0]
	}

	return &termImpl{
		backend:   b,
		decoder:   NewDecoder(b),
		screen:    NewScreen(backendWriter{b}),
		colorMode: c,
	}
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	// Initialize backend (raw mode)
	if err := t.backend.Init(); err != nil {
		return err
	}

	// Enter alternate screen, hide cursor, disable auto-wrap
	t.writeRaw(csiAltScreenEnter)
	t.writeRaw(csiCursorHide)
	t.writeRaw(csiAutoWrapOff)

	// First frame always clears
	t.screen.Invalidate()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	// Show cursor
	t.writeRaw(csiCursorShow)

	// Exit alternate screen
	t.writeRaw(csiAltScreenExit)

	// Re-enable Auto-Wrap AFTER exiting alt screen to ensure the main buffer has wrap enabled
	t.writeRaw(csiAutoWrapOn)

	// Reset attributes
	t.writeRaw(csiSGR0)

	// Backend cleanup
	t.backend.Fini()

	t.finalized = true
}

// Size returns current terminal dimensions
func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

// ColorMode returns the color capability
func (t *termImpl) ColorMode() ColorMode {
	return t.colorMode
}

// ReadEvent blocks until next input event
func (t *termImpl) ReadEvent() Event {
	return t.decoder.Next()
}

// Present writes frame lines that differ from the previous frame.
// Lines below the terminal's last row are dropped; with auto-wrap off they
// would all land on the last row.
func (t *termImpl) Present(frame []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}
	return t.screen.Present(clipFrame(frame, t.backend))
}

// clipFrame keeps one row free for the parked cursor
func clipFrame(frame []string, b Backend) []string {
	_, h := b.Size()
	if h > 1 && len(frame) > h-1 {
		return frame[:h-1]
	}
	return frame
}

// writeRaw writes raw bytes to output
func (t *termImpl) writeRaw(data []byte) {
	t.backend.Write(data)
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Attempt raw mode reset via termios - escape sequences alone don't restore it
	// This is best-effort; ignore errors in crash context
	resetTerminalMode()
}
