package terminal

// namedKeys are the keys with a name of their own in keymap files
var namedKeys = map[Key]string{
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBacktab:   "backtab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "page_up",
	KeyPageDown:  "page_down",
	KeyInsert:    "insert",

	KeyCtrlSpace:        "ctrl_space",
	KeyCtrlBackslash:    "ctrl_backslash",
	KeyCtrlBracketRight: "ctrl_bracket_right",
	KeyCtrlCaret:        "ctrl_caret",
	KeyCtrlUnderscore:   "ctrl_underscore",
}

var (
	keyToName = make(map[Key]string)
	nameToKey = make(map[string]Key)
)

func init() {
	for k, name := range namedKeys {
		keyToName[k] = name
	}
	// Ctrl+letter names come from the control byte each key is decoded from
	for b := byte(0x01); b <= 0x1a; b++ {
		k := controlKeys[b]
		if _, taken := keyToName[k]; taken {
			continue // Ctrl+H/I/J/M decode as Backspace/Tab/Enter
		}
		keyToName[k] = "ctrl_" + string(rune('a'+b-1))
	}
	for k, name := range keyToName {
		nameToKey[name] = k
	}

	nameToKey["shift_tab"] = KeyBacktab
	nameToKey["esc"] = KeyEscape
	nameToKey["return"] = KeyEnter
}

// KeyName returns the keymap name of k, or "" for KeyNone and KeyRune
func KeyName(k Key) string {
	return keyToName[k]
}

// KeyByName resolves a keymap name
func KeyByName(name string) (Key, bool) {
	k, ok := nameToKey[name]
	return k, ok
}
