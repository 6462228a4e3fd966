package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/danielpuglisi/kn-cli/terminal"
)

// DefaultHighlight is used when the configured colour does not resolve
const DefaultHighlight = "yellow"

// Theme holds the escape fragments wrapped around the selected cell
type Theme struct {
	Selected string
	Reset    string
}

// NewTheme resolves a colour name or #rrggbb through tcell and builds the selection SGR
func NewTheme(highlight string, mode terminal.ColorMode) Theme {
	if mode == terminal.ColorModeNone {
		return Theme{Selected: terminal.BackgroundSGR(terminal.RGB{}, mode), Reset: terminal.SGRReset}
	}

	c := tcell.GetColor(highlight)
	if c == tcell.ColorDefault {
		c = tcell.GetColor(DefaultHighlight)
	}
	r, g, b := c.RGB()
	if r < 0 {
		// Not representable as RGB, fall back to reverse video
		return Theme{Selected: terminal.BackgroundSGR(terminal.RGB{}, terminal.ColorModeNone), Reset: terminal.SGRReset}
	}

	bg := terminal.RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
	return Theme{
		Selected: terminal.BackgroundSGR(bg, mode) + foregroundFor(bg),
		Reset:    terminal.SGRReset,
	}
}

// foregroundFor picks black or white text for contrast against bg
func foregroundFor(bg terminal.RGB) string {
	lum := (299*int(bg.R) + 587*int(bg.G) + 114*int(bg.B)) / 1000
	if lum > 128 {
		return "\x1b[30m"
	}
	return "\x1b[97m"
}
