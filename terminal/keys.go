package terminal

// Key represents a parsed input key
type Key uint16

// Key constants
const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)

	// Control keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab // Shift+Tab
	KeyBackspace
	KeyDelete

	// Navigation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert

	// Ctrl+letter (Ctrl+A = 0x01, Ctrl+Z = 0x1A)
	// H, I, J and M share bytes with Backspace, Tab and Enter and are never produced
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlK
	KeyCtrlL
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ

	// Ctrl+special
	KeyCtrlSpace
	KeyCtrlBackslash
	KeyCtrlBracketRight
	KeyCtrlCaret
	KeyCtrlUnderscore
)

// Modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// csiFinals are the unmodified CSI sequences after ESC [
var csiFinals = map[string]Key{
	"A":  KeyUp,
	"B":  KeyDown,
	"C":  KeyRight,
	"D":  KeyLeft,
	"H":  KeyHome,
	"F":  KeyEnd,
	"1~": KeyHome,
	"4~": KeyEnd,
	"5~": KeyPageUp,
	"6~": KeyPageDown,
	"2~": KeyInsert,
	"3~": KeyDelete,
}

// ss3Finals are sent after ESC O by terminals in application cursor mode
var ss3Finals = map[string]Key{
	"A": KeyUp,
	"B": KeyDown,
	"C": KeyRight,
	"D": KeyLeft,
	"H": KeyHome,
	"F": KeyEnd,
}

// xterm modifier parameter: 1 + (shift=1 | alt=2 | ctrl=4)
var xtermModifiers = map[byte]Modifier{
	'2': ModShift,
	'3': ModAlt,
	'4': ModShift | ModAlt,
	'5': ModCtrl,
	'6': ModShift | ModCtrl,
	'7': ModAlt | ModCtrl,
	'8': ModShift | ModAlt | ModCtrl,
}

type keyMod struct {
	key Key
	mod Modifier
}

var (
	csiMap = buildCSIMap()
	ss3Map = buildSS3Map()
)

// buildCSIMap expands single-letter finals into their "1;<m>X" modified forms
func buildCSIMap() map[string]keyMod {
	m := make(map[string]keyMod, len(csiFinals)*(len(xtermModifiers)+1)+1)
	for seq, k := range csiFinals {
		m[seq] = keyMod{k, ModNone}
		if len(seq) != 1 {
			continue
		}
		for code, mod := range xtermModifiers {
			m["1;"+string(code)+seq] = keyMod{k, mod}
		}
	}
	m["Z"] = keyMod{KeyBacktab, ModShift}
	return m
}

func buildSS3Map() map[string]keyMod {
	m := make(map[string]keyMod, len(ss3Finals))
	for seq, k := range ss3Finals {
		m[seq] = keyMod{k, ModNone}
	}
	return m
}

// lookupCSI resolves the bytes after ESC [; the string conversion in the index does not allocate
func lookupCSI(seq []byte) (Key, Modifier, bool) {
	if km, ok := csiMap[string(seq)]; ok {
		return km.key, km.mod, true
	}
	return KeyNone, ModNone, false
}

// lookupSS3 resolves the bytes after ESC O
func lookupSS3(seq []byte) (Key, Modifier, bool) {
	if km, ok := ss3Map[string(seq)]; ok {
		return km.key, km.mod, true
	}
	return KeyNone, ModNone, false
}
