package terminal

import (
	"errors"
	"io"
	"time"
	"unicode/utf8"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey    EventType = iota
	EventError            // Read error
	EventClosed           // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Err       error // For EventError
}

// escapeTimeout bounds every lookahead read after ESC, so a lone ESC or a
// truncated sequence resolves instead of waiting for the next keystroke
const escapeTimeout = 50 * time.Millisecond

// maxCSILen caps parameter bytes collected after ESC [
const maxCSILen = 8

// escState is the escape automaton state
type escState uint8

const (
	escStart escState = iota // ESC consumed
	escCSI                   // ESC [ consumed, collecting parameters
	escSS3                   // ESC O consumed, awaiting final byte
)

// Decoder turns raw bytes into key events, one blocking read at a time
type Decoder struct {
	r       ByteReader
	timeout time.Duration
	seq     []byte
}

// NewDecoder creates a decoder reading from r
func NewDecoder(r ByteReader) *Decoder {
	return &Decoder{
		r:       r,
		timeout: escapeTimeout,
		seq:     make([]byte, 0, maxCSILen),
	}
}

// SetEscapeTimeout overrides the per-byte lookahead timeout
func (d *Decoder) SetEscapeTimeout(t time.Duration) {
	d.timeout = t
}

// Next blocks until a complete key is decoded
// Unrecognized and truncated escape sequences are dropped without producing an event
func (d *Decoder) Next() Event {
	for {
		if ev, ok := d.step(); ok {
			return ev
		}
	}
}

// step consumes one logical input unit; ok is false when it was discarded
func (d *Decoder) step() (Event, bool) {
	b, _, err := d.r.ReadByte(-1)
	if err != nil {
		return errorEvent(err), true
	}

	switch {
	case b >= 0x20 && b < 0x7f:
		// Fast path: printable ASCII
		return Event{Type: EventKey, Key: KeyRune, Rune: rune(b)}, true
	case b == 0x1b:
		return d.escape()
	case b == 0x7f:
		return Event{Type: EventKey, Key: KeyBackspace}, true
	case b < 0x20:
		return parseControl(b), true
	default:
		return d.multibyte(b)
	}
}

// escape runs the escape automaton; every transition waits at most d.timeout
func (d *Decoder) escape() (Event, bool) {
	state := escStart
	d.seq = d.seq[:0]

	for {
		b, ok, err := d.r.ReadByte(d.timeout)
		if err != nil {
			return errorEvent(err), true
		}
		if !ok {
			if state == escStart {
				return Event{Type: EventKey, Key: KeyEscape}, true
			}
			// Truncated sequence
			return Event{}, false
		}

		switch state {
		case escStart:
			switch {
			case b == '[':
				state = escCSI
			case b == 'O':
				state = escSS3
			case b == 0x1b:
				return Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}, true
			case b >= 0x20 && b < 0x7f:
				return Event{Type: EventKey, Key: KeyRune, Rune: rune(b), Modifiers: ModAlt}, true
			default:
				return Event{}, false
			}

		case escSS3:
			d.seq = append(d.seq, b)
			if key, mod, found := lookupSS3(d.seq); found {
				return Event{Type: EventKey, Key: key, Modifiers: mod}, true
			}
			return Event{}, false

		case escCSI:
			d.seq = append(d.seq, b)
			// Final byte terminates the sequence
			if b >= 0x40 && b <= 0x7e {
				if key, mod, found := lookupCSI(d.seq); found {
					return Event{Type: EventKey, Key: key, Modifiers: mod}, true
				}
				return Event{}, false
			}
			// Parameter and intermediate bytes only
			if b < 0x20 || b > 0x3f || len(d.seq) >= maxCSILen {
				return Event{}, false
			}
		}
	}
}

// multibyte assembles a UTF-8 rune whose lead byte was already read
func (d *Decoder) multibyte(lead byte) (Event, bool) {
	n := utf8SeqLen(lead)
	if n == 0 {
		return Event{}, false
	}

	var buf [utf8.UTFMax]byte
	buf[0] = lead
	for i := 1; i < n; i++ {
		b, ok, err := d.r.ReadByte(d.timeout)
		if err != nil {
			return errorEvent(err), true
		}
		if !ok {
			return Event{}, false
		}
		buf[i] = b
	}

	r, size := utf8.DecodeRune(buf[:n])
	if r == utf8.RuneError || size != n {
		return Event{}, false
	}
	return Event{Type: EventKey, Key: KeyRune, Rune: r}, true
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	if b < 0x80 {
		return 1
	}
	if b&0xe0 == 0xc0 {
		return 2
	}
	if b&0xf0 == 0xe0 {
		return 3
	}
	if b&0xf8 == 0xf0 {
		return 4
	}
	return 0 // Invalid
}

func errorEvent(err error) Event {
	if errors.Is(err, io.EOF) {
		return Event{Type: EventClosed}
	}
	return Event{Type: EventError, Err: err}
}

// controlKeys maps raw control bytes to keys
var controlKeys = [0x20]Key{
	0x00: KeyCtrlSpace,
	0x01: KeyCtrlA,
	0x02: KeyCtrlB,
	0x03: KeyCtrlC,
	0x04: KeyCtrlD,
	0x05: KeyCtrlE,
	0x06: KeyCtrlF,
	0x07: KeyCtrlG,
	0x08: KeyBackspace, // Ctrl+H
	0x09: KeyTab,
	0x0a: KeyEnter, // LF
	0x0b: KeyCtrlK,
	0x0c: KeyCtrlL,
	0x0d: KeyEnter, // CR
	0x0e: KeyCtrlN,
	0x0f: KeyCtrlO,
	0x10: KeyCtrlP,
	0x11: KeyCtrlQ,
	0x12: KeyCtrlR,
	0x13: KeyCtrlS,
	0x14: KeyCtrlT,
	0x15: KeyCtrlU,
	0x16: KeyCtrlV,
	0x17: KeyCtrlW,
	0x18: KeyCtrlX,
	0x19: KeyCtrlY,
	0x1a: KeyCtrlZ,
	0x1b: KeyEscape,
	0x1c: KeyCtrlBackslash,
	0x1d: KeyCtrlBracketRight,
	0x1e: KeyCtrlCaret,
	0x1f: KeyCtrlUnderscore,
}

// parseControl maps control characters to keys
func parseControl(b byte) Event {
	if b >= 0x20 {
		return Event{Type: EventKey, Key: KeyNone}
	}
	return Event{Type: EventKey, Key: controlKeys[b]}
}
