package mqsprite

import "testing"

func TestMergePrefsBackgroundColour(t *testing.T) {
	s := MemorySettings{}
	mergePrefs(map[string]any{
		"background_colour": "4294967295",
		"grid_enabled":      true,
		"zoom":              float64(4),
	}, s)

	// The colour must land as the unsigned 32-bit maximum, not a
	// negative signed value or a float.
	if got, ok := s["background_colour"].(uint32); !ok || got != 4294967295 {
		t.Errorf("background_colour = %v (%T)", s["background_colour"], s["background_colour"])
	}
	if s["grid_enabled"] != true {
		t.Errorf("grid_enabled = %v", s["grid_enabled"])
	}
	if s["zoom"] != float64(4) {
		t.Errorf("zoom = %v", s["zoom"])
	}
}

func TestMergePrefsBadColourString(t *testing.T) {
	s := MemorySettings{}
	mergePrefs(map[string]any{"background_colour": "not a number"}, s)
	if got := s["background_colour"]; got != uint32(0) {
		t.Errorf("background_colour = %v, want 0", got)
	}
}

func TestPrefsToDoc(t *testing.T) {
	s := MemorySettings{
		"background_colour": uint32(4294967295),
		"zoom":              float64(4),
	}
	doc := prefsToDoc(s)

	if doc["background_colour"] != "4294967295" {
		t.Errorf("background_colour = %v, want decimal string", doc["background_colour"])
	}
	if doc["zoom"] != float64(4) {
		t.Errorf("zoom = %v", doc["zoom"])
	}
}

func TestPrefsSidecarRoundTrip(t *testing.T) {
	src := MemorySettings{"background_colour": uint32(4294967295)}

	dst := MemorySettings{}
	mergePrefs(prefsToDoc(src), dst)

	if got, ok := dst["background_colour"].(uint32); !ok || got != 4294967295 {
		t.Errorf("round trip = %v (%T)", dst["background_colour"], dst["background_colour"])
	}
}
