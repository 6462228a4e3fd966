package input

import "github.com/danielpuglisi/kn-cli/terminal"

// KeyBehavior classifies how a key is processed
type KeyBehavior uint8

const (
	BehaviorNone KeyBehavior = iota
	BehaviorMotion
	BehaviorEntry
	BehaviorAction
	BehaviorSystem
)

// KeyEntry describes a key's behavior without function pointers
type KeyEntry struct {
	Behavior   KeyBehavior
	Motion     MotionOp
	IntentType IntentType
}

// KeyTable maps keys to behaviors
type KeyTable struct {
	// Special keys (Ctrl+*, arrows, Enter, Backspace)
	Keys map[terminal.Key]KeyEntry

	// Printable rune bindings
	Runes map[rune]KeyEntry
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	kt := &KeyTable{
		Keys: map[terminal.Key]KeyEntry{
			terminal.KeyCtrlQ:     {BehaviorSystem, MotionNone, IntentQuit},
			terminal.KeyCtrlC:     {BehaviorSystem, MotionNone, IntentQuit},
			terminal.KeyCtrlS:     {BehaviorSystem, MotionNone, IntentSave},
			terminal.KeyEscape:    {BehaviorSystem, MotionNone, IntentCancel},
			terminal.KeyUp:        {BehaviorMotion, MotionUp, IntentMotion},
			terminal.KeyDown:      {BehaviorMotion, MotionDown, IntentMotion},
			terminal.KeyLeft:      {BehaviorMotion, MotionLeft, IntentMotion},
			terminal.KeyRight:     {BehaviorMotion, MotionRight, IntentMotion},
			terminal.KeyHome:      {BehaviorMotion, MotionFirstColumn, IntentMotion},
			terminal.KeyEnd:       {BehaviorMotion, MotionLastColumn, IntentMotion},
			terminal.KeyPageUp:    {BehaviorMotion, MotionFirstRow, IntentMotion},
			terminal.KeyPageDown:  {BehaviorMotion, MotionLastRow, IntentMotion},
			terminal.KeyEnter:     {BehaviorAction, MotionNone, IntentCommit},
			terminal.KeyBackspace: {BehaviorAction, MotionNone, IntentBackspace},
			terminal.KeyDelete:    {BehaviorAction, MotionNone, IntentBackspace},
			terminal.KeyCtrlA:     {BehaviorAction, MotionNone, IntentIncrease},
			terminal.KeyCtrlX:     {BehaviorAction, MotionNone, IntentDecrease},
			terminal.KeyCtrlB:     {BehaviorAction, MotionNone, IntentSetMin},
			terminal.KeyCtrlE:     {BehaviorAction, MotionNone, IntentSetMax},
		},

		Runes: map[rune]KeyEntry{
			'h': {BehaviorMotion, MotionLeft, IntentMotion},
			'j': {BehaviorMotion, MotionDown, IntentMotion},
			'k': {BehaviorMotion, MotionUp, IntentMotion},
			'l': {BehaviorMotion, MotionRight, IntentMotion},
			'H': {BehaviorMotion, MotionLeft, IntentMotion},
			'J': {BehaviorMotion, MotionDown, IntentMotion},
			'K': {BehaviorMotion, MotionUp, IntentMotion},
			'L': {BehaviorMotion, MotionRight, IntentMotion},
			'$': {BehaviorMotion, MotionLastColumn, IntentMotion},
			'g': {BehaviorMotion, MotionFirstRow, IntentMotion},
			'G': {BehaviorMotion, MotionLastRow, IntentMotion},
			's': {BehaviorSystem, MotionNone, IntentSave},
			'S': {BehaviorSystem, MotionNone, IntentSave},
			'q': {BehaviorSystem, MotionNone, IntentQuit},
			'Q': {BehaviorSystem, MotionNone, IntentQuit},
		},
	}

	for r := '0'; r <= '9'; r++ {
		kt.Runes[r] = KeyEntry{BehaviorEntry, MotionNone, IntentEntryChar}
	}
	kt.Runes['.'] = KeyEntry{BehaviorEntry, MotionNone, IntentEntryChar}
	kt.Runes['-'] = KeyEntry{BehaviorEntry, MotionNone, IntentEntryChar}

	return kt
}

// Clone returns a deep copy of the key table
func (kt *KeyTable) Clone() *KeyTable {
	c := &KeyTable{
		Keys:  make(map[terminal.Key]KeyEntry, len(kt.Keys)),
		Runes: make(map[rune]KeyEntry, len(kt.Runes)),
	}
	for k, v := range kt.Keys {
		c.Keys[k] = v
	}
	for k, v := range kt.Runes {
		c.Runes[k] = v
	}
	return c
}
