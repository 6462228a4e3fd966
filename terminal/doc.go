// Package terminal provides direct ANSI terminal control for the grid editor.
//
// Features:
//   - Raw stdin input with a bounded escape-sequence automaton
//   - Line-level diffed output with a forced full redraw on first present
//   - True color (24-bit) and 256-color highlight support
//   - Clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
