package input

import (
	"github.com/danielpuglisi/kn-cli/terminal"
)

// Machine classifies terminal events into intents using a key table
type Machine struct {
	keyTable *KeyTable
}

// NewMachine creates a machine with the default bindings
func NewMachine() *Machine {
	return &Machine{keyTable: DefaultKeyTable()}
}

// NewMachineWithTable creates a machine with custom bindings
func NewMachineWithTable(kt *KeyTable) *Machine {
	if kt == nil {
		kt = DefaultKeyTable()
	}
	return &Machine{keyTable: kt}
}

// Process maps a terminal event to an intent
// Unbound keys and Alt-modified runes yield IntentNone
func (m *Machine) Process(ev terminal.Event) Intent {
	switch ev.Type {
	case terminal.EventClosed, terminal.EventError:
		return Intent{Type: IntentQuit}
	case terminal.EventKey:
		return m.processKey(ev)
	}
	return Intent{}
}

func (m *Machine) processKey(ev terminal.Event) Intent {
	if ev.Key == terminal.KeyRune {
		if ev.Modifiers&terminal.ModAlt != 0 {
			return Intent{}
		}
		entry, ok := m.keyTable.Runes[ev.Rune]
		if !ok {
			return Intent{}
		}
		return toIntent(entry, ev.Rune)
	}

	entry, ok := m.keyTable.Keys[ev.Key]
	if !ok {
		return Intent{}
	}
	return toIntent(entry, 0)
}

func toIntent(entry KeyEntry, r rune) Intent {
	switch entry.Behavior {
	case BehaviorMotion:
		return Intent{Type: IntentMotion, Motion: entry.Motion}
	case BehaviorEntry:
		if !IsEntryRune(r) {
			return Intent{}
		}
		return Intent{Type: IntentEntryChar, Char: r}
	case BehaviorAction, BehaviorSystem:
		return Intent{Type: entry.IntentType}
	}
	return Intent{}
}
