package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit   // q, Ctrl+Q, Ctrl+C
	IntentSave   // s, Ctrl+S
	IntentCancel // ESC discards pending entry

	// Navigation
	IntentMotion // h,j,k,l, arrows, Home/End

	// Entry buffer
	IntentEntryChar // digit, '.', '-'
	IntentCommit    // Enter
	IntentBackspace // Backspace, Delete

	// Cell controls
	IntentIncrease // Ctrl+A
	IntentDecrease // Ctrl+X
	IntentSetMin   // Ctrl+B
	IntentSetMax   // Ctrl+E
)

// MotionOp identifies cursor movement
type MotionOp uint8

const (
	MotionNone        MotionOp = iota
	MotionLeft                 // h, Left arrow
	MotionRight                // l, Right arrow
	MotionUp                   // k, Up arrow
	MotionDown                 // j, Down arrow
	MotionFirstColumn          // Home
	MotionLastColumn           // End, $
	MotionFirstRow             // g, Page Up
	MotionLastRow              // G, Page Down
)

// Intent is the semantic result of one key
type Intent struct {
	Type   IntentType
	Motion MotionOp
	Char   rune // IntentEntryChar payload
}

var intentNames = map[IntentType]string{
	IntentNone:      "none",
	IntentQuit:      "quit",
	IntentSave:      "save",
	IntentCancel:    "cancel",
	IntentMotion:    "motion",
	IntentEntryChar: "entry",
	IntentCommit:    "commit",
	IntentBackspace: "backspace",
	IntentIncrease:  "increase",
	IntentDecrease:  "decrease",
	IntentSetMin:    "set_min",
	IntentSetMax:    "set_max",
}

// String returns the intent name used in logs and metrics labels
func (t IntentType) String() string {
	if s, ok := intentNames[t]; ok {
		return s
	}
	return "unknown"
}

// IsEntryRune reports whether r may appear in the pending entry buffer
func IsEntryRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == '-'
}
