package input

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danielpuglisi/kn-cli/terminal"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownKey    = errors.New("unknown key")
)

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
	"plus":      '+',
	"minus":     '-',
}

// keymapFile is the TOML layout of a keymap override file
//
//	[keys]
//	ctrl_a = "increase"
//	[runes]
//	"+" = "increase"
type keymapFile struct {
	Keys  map[string]string `toml:"keys"`
	Runes map[string]string `toml:"runes"`
}

// LoadKeyConfig parses TOML keymap data into a sparse override KeyTable
// Only sections/keys present in TOML are populated
func LoadKeyConfig(data []byte) (*KeyTable, error) {
	var raw keymapFile
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("keymap parse: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("keymap: unknown entry %q", undecoded[0].String())
	}

	kt := &KeyTable{}

	if raw.Keys != nil {
		kt.Keys = make(map[terminal.Key]KeyEntry, len(raw.Keys))
		for name, action := range raw.Keys {
			k, ok := terminal.KeyByName(strings.ToLower(name))
			if !ok {
				return nil, fmt.Errorf("[keys] %q: %w", name, ErrUnknownKey)
			}
			entry, err := resolveAction(action)
			if err != nil {
				return nil, fmt.Errorf("[keys] %q: %w", name, err)
			}
			kt.Keys[k] = entry
		}
	}

	if raw.Runes != nil {
		kt.Runes = make(map[rune]KeyEntry, len(raw.Runes))
		for name, action := range raw.Runes {
			r, err := resolveRune(name)
			if err != nil {
				return nil, fmt.Errorf("[runes] %q: %w", name, err)
			}
			entry, err := resolveAction(action)
			if err != nil {
				return nil, fmt.Errorf("[runes] %q: %w", name, err)
			}
			kt.Runes[r] = entry
		}
	}

	return kt, nil
}

// LoadKeyTable returns the default table merged with overrides from path
// An empty path yields the defaults
func LoadKeyTable(path string) (*KeyTable, error) {
	base := DefaultKeyTable()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	override, err := LoadKeyConfig(data)
	if err != nil {
		return nil, err
	}
	return MergeKeyTable(base, override), nil
}

// resolveRune converts a TOML key string to a rune
// Accepts single characters and named aliases
func resolveRune(s string) (rune, error) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}

	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}

	return 0, fmt.Errorf("%w: %q (expected single character or alias)", ErrUnknownKey, s)
}

// resolveAction converts an action name string to a KeyEntry
func resolveAction(name string) (KeyEntry, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	entry, ok := ActionEntry(name)
	if !ok {
		return KeyEntry{}, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return entry, nil
}

// MergeKeyTable returns a new KeyTable with base values overridden by non-nil override maps
// Override entries with BehaviorNone ("none" action) delete the key from the result
func MergeKeyTable(base, override *KeyTable) *KeyTable {
	result := base.Clone()

	for k, v := range override.Keys {
		if v.Behavior == BehaviorNone {
			delete(result.Keys, k)
		} else {
			result.Keys[k] = v
		}
	}
	for r, v := range override.Runes {
		if v.Behavior == BehaviorNone {
			delete(result.Runes, r)
		} else {
			result.Runes[r] = v
		}
	}

	return result
}
