package toolbar

import (
	"sort"
	"strings"
)

// HotKeys maps key combinations to toolbar commands. A key may list several
// combinations separated by spaces, such as "ctrl+b meta+b".
type HotKeys map[string]string

// DefaultHotKeys are the usual formatting shortcuts.
var DefaultHotKeys = HotKeys{
	"ctrl+b meta+b":              "bold",
	"ctrl+i meta+i":              "italic",
	"ctrl+u meta+u":              "underline",
	"ctrl+z meta+z":              "undo",
	"ctrl+y meta+y meta+shift+z": "redo",
	"ctrl+l meta+l":              "justifyleft",
	"ctrl+r meta+r":              "justifyright",
	"ctrl+e meta+e":              "justifycenter",
	"ctrl+j meta+j":              "justifyfull",
	"shift+tab":                  "outdent",
}

var modifierOrder = map[string]int{"ctrl": 0, "alt": 1, "meta": 2, "shift": 3}

// Combo normalizes a key combination: lower case, with modifiers in a fixed
// order before the key.
func Combo(s string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	var mods []string
	key := ""
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if _, ok := modifierOrder[part]; ok {
			mods = append(mods, part)
		} else if part != "" {
			key = part
		}
	}
	sort.Slice(mods, func(i, j int) bool { return modifierOrder[mods[i]] < modifierOrder[mods[j]] })
	return strings.Join(append(mods, key), "+")
}

// Lookup finds the command bound to a key combination.
func (h HotKeys) Lookup(combo string) (string, bool) {
	want := Combo(combo)
	for keys, command := range h {
		for _, k := range strings.Fields(keys) {
			if Combo(k) == want {
				return command, true
			}
		}
	}
	return "", false
}
