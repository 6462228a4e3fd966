package input

// actionRegistry maps canonical action names to KeyEntry structs
// Used by keymap config loader to resolve TOML action strings to bindings
var actionRegistry = map[string]KeyEntry{
	// Unbind sentinel
	"none": {},

	// System
	"quit":   {BehaviorSystem, MotionNone, IntentQuit},
	"save":   {BehaviorSystem, MotionNone, IntentSave},
	"cancel": {BehaviorSystem, MotionNone, IntentCancel},

	// Motions
	"move_left":         {BehaviorMotion, MotionLeft, IntentMotion},
	"move_right":        {BehaviorMotion, MotionRight, IntentMotion},
	"move_up":           {BehaviorMotion, MotionUp, IntentMotion},
	"move_down":         {BehaviorMotion, MotionDown, IntentMotion},
	"move_first_column": {BehaviorMotion, MotionFirstColumn, IntentMotion},
	"move_last_column":  {BehaviorMotion, MotionLastColumn, IntentMotion},
	"move_first_row":    {BehaviorMotion, MotionFirstRow, IntentMotion},
	"move_last_row":     {BehaviorMotion, MotionLastRow, IntentMotion},

	// Entry
	"commit":    {BehaviorAction, MotionNone, IntentCommit},
	"backspace": {BehaviorAction, MotionNone, IntentBackspace},

	// Cell controls
	"increase": {BehaviorAction, MotionNone, IntentIncrease},
	"decrease": {BehaviorAction, MotionNone, IntentDecrease},
	"set_min":  {BehaviorAction, MotionNone, IntentSetMin},
	"set_max":  {BehaviorAction, MotionNone, IntentSetMax},
}

// ActionEntry resolves an action name
func ActionEntry(name string) (KeyEntry, bool) {
	e, ok := actionRegistry[name]
	return e, ok
}
