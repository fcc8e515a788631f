package filter

// Preset is a named, ready-made set of criteria
type Preset struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Criteria    Criteria `json:"filters"`
}

var presets = []Preset{
	{"lowEnd", "Low-End GPU", "Models that run on consumer GPUs (≤16GB VRAM)", Criteria{MaxVRAM: 16, License: LicenseAll}},
	{"commercial", "Production Ready", "Commercial-friendly licenses only", Criteria{License: LicenseCommercial}},
	{"longContext", "Long Context", "Models with 32k+ context window", Criteria{MinContext: 32768}},
	{"efficient", "Most Efficient", "Best performance per VRAM", Criteria{MaxVRAM: 24, SortBy: SortVRAMLow}},
	{"popular", "Most Popular", "Highest downloads", Criteria{SortBy: SortDownloads}},
	{"small", "Small Models", "1B-7B parameters", Criteria{MinParams: 1, MaxParams: 7}},
	{"medium", "Medium Models", "7B-15B parameters", Criteria{MinParams: 7, MaxParams: 15}},
	{"large", "Large Models", "15B+ parameters", Criteria{MinParams: 15, MaxParams: 999}},
}

// Presets returns the built-in presets in display order
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// LookupPreset finds a preset by key
func LookupPreset(key string) (Preset, bool) {
	for _, p := range presets {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}
