package mqsprite

import "strconv"

// Settings is the persistent preferences store the prefs.json sidecar
// merges into. The editor shell supplies its own implementation; the
// core only sets keys on load and iterates them on save.
type Settings interface {
	Set(key string, value any)

	// All returns the current key/value pairs. Save iterates this in
	// sorted key order.
	All() map[string]any
}

// MemorySettings is the default in-memory Settings implementation.
type MemorySettings map[string]any

func (s MemorySettings) Set(key string, value any) { s[key] = value }
func (s MemorySettings) All() map[string]any       { return s }

// backgroundColourKey is stored as an unsigned integer encoded as a
// decimal string, preserving the exact 32-bit pattern across the text
// encoding (a native JSON number would round-trip through float64).
const backgroundColourKey = "background_colour"

// mergePrefs merges a parsed prefs document into the settings store.
func mergePrefs(obj map[string]any, s Settings) {
	for key, val := range obj {
		if key == backgroundColourKey {
			str, _ := val.(string)
			col, err := strconv.ParseUint(str, 10, 32)
			if err != nil {
				col = 0
			}
			s.Set(key, uint32(col))
			continue
		}
		s.Set(key, val)
	}
}

// prefsToDoc produces the sidecar document from the settings store.
func prefsToDoc(s Settings) map[string]any {
	all := s.All()
	doc := make(map[string]any, len(all))
	for key, val := range all {
		if key == backgroundColourKey {
			doc[key] = strconv.FormatUint(uint64(colourValue(val)), 10)
			continue
		}
		doc[key] = val
	}
	return doc
}

func colourValue(v any) uint32 {
	switch c := v.(type) {
	case uint32:
		return c
	case uint64:
		return uint32(c)
	case int:
		return uint32(c)
	case float64:
		return uint32(c)
	case string:
		col, _ := strconv.ParseUint(c, 10, 32)
		return uint32(col)
	}
	return 0
}
