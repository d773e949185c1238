package chartspec

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Presets are the built-in dashboard chart configurations.
var Presets = map[string]*Spec{
	"counts": {
		Title: "storms per season", Mark: MarkLine, Width: 64, Height: 10,
		Data: Data{Source: "counts"},
	},
	"genesis": {
		Title: "genesis positions", Mark: MarkMap, Width: 60, Height: 16,
		Data: Data{Source: "points"},
	},
	"wind": {
		Title: "max first-fix wind", Mark: MarkBars, Width: 64, Height: 10,
		Data: Data{Source: "wind", Field: "wmo_wind"},
	},
}

// GetPreset returns a copy of the named preset, or nil when unknown.
func GetPreset(name string) *Spec {
	s, ok := Presets[name]
	if !ok {
		return nil
	}
	return s.Clone()
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type presetFile struct {
	Charts map[string]*Spec `yaml:"charts"`
}

// LoadPresetsFile merges chart definitions from a YAML file into the
// preset table. User entries override built-ins of the same name.
func LoadPresetsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}
	for name, s := range f.Charts {
		if err := s.validate(); err != nil {
			return err
		}
		Presets[name] = s
	}
	return nil
}
