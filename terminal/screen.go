package terminal

import (
	"bufio"
	"io"

	"github.com/mattn/go-runewidth"
)

// Screen presents whole text frames, rewriting only the lines that changed
type Screen struct {
	writer *bufio.Writer

	// Last presented frame and the visible width of each line
	front  []string
	widths []int
	drawn  bool
}

// NewScreen creates a screen writing to w
func NewScreen(w io.Writer) *Screen {
	return &Screen{
		writer: bufio.NewWriterSize(w, 16384),
	}
}

// Invalidate forces the next Present to clear the screen and redraw everything
func (s *Screen) Invalidate() {
	s.drawn = false
}

// Present reconciles the terminal with frame
// An unchanged frame produces no output at all
func (s *Screen) Present(frame []string) error {
	w := s.writer

	if !s.drawn {
		s.redraw(frame)
	} else {
		dirty := false
		n := max(len(s.front), len(frame))

		for y := 0; y < n; y++ {
			if y < len(s.front) && y < len(frame) && s.front[y] == frame[y] {
				continue
			}

			writeCursorPos(w, 0, y)
			dirty = true

			if y >= len(frame) {
				// New frame is shorter
				w.Write(csiEraseL)
				continue
			}

			w.WriteString(frame[y])
			if y < len(s.widths) {
				// Overwrite stale trailing characters of the old line
				writeSpaces(w, s.widths[y]-VisibleWidth(frame[y]))
			}
		}

		if !dirty {
			return nil
		}
		writeCursorPos(w, 0, len(frame))
	}

	s.remember(frame)
	return w.Flush()
}

// redraw clears the canvas and writes every line
func (s *Screen) redraw(frame []string) {
	w := s.writer
	w.Write(csiSGR0)
	w.Write(csiClear)
	for y, line := range frame {
		writeCursorPos(w, 0, y)
		w.WriteString(line)
	}
	writeCursorPos(w, 0, len(frame))
	s.drawn = true
}

func (s *Screen) remember(frame []string) {
	s.front = append(s.front[:0], frame...)
	s.widths = s.widths[:0]
	for _, line := range frame {
		s.widths = append(s.widths, VisibleWidth(line))
	}
}

// VisibleWidth returns the display width of s, ignoring CSI escape sequences
func VisibleWidth(s string) int {
	width := 0
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != 0x1b || i+1 >= len(s) || s[i+1] != '[' {
			continue
		}
		width += runewidth.StringWidth(s[start:i])
		// Skip to the CSI final byte
		j := i + 2
		for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
			j++
		}
		i = j
		start = j + 1
	}
	if start < len(s) {
		width += runewidth.StringWidth(s[start:])
	}
	return width
}
