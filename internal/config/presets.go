package config

import "sort"

// Presets are named classroom setups built on top of DefaultConfig.
var Presets = map[string]*Config{
	"classroom": DefaultConfig(),
	"alpha-centauri": withStars(DefaultConfig(), 1.3, 20.0, func(c *Config) {
		c.Playing = true
	}),
	"distant": withStars(DefaultConfig(), 10.0, 40.0, nil),
	"fast": withStars(DefaultConfig(), 2.0, 20.0, func(c *Config) {
		c.Speed = 3.0
		c.Playing = true
	}),
	"nearby-pair": withStars(DefaultConfig(), 0.8, 4.0, nil),
}

// PresetDescriptions is a one-line summary of each preset for menus.
var PresetDescriptions = map[string]string{
	"classroom":      "X at 2 pc, Y at 20 pc, paused at A",
	"alpha-centauri": "X at 1.3 pc like our nearest neighbour",
	"distant":        "both stars far away, barely moving",
	"fast":           "three times speed, already playing",
	"nearby-pair":    "two close stars with large shifts",
}

func withStars(c *Config, x, y float64, fn func(*Config)) *Config {
	c.Stars.X.Distance = x
	c.Stars.Y.Distance = y
	if fn != nil {
		fn(c)
	}
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
