package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/parallax/internal/sim"
)

const (
	DefaultFPS   = 60
	DefaultSeed  = 1
	DefaultTheme = "night"
	MaxFPS       = 240
)

type Config struct {
	Speed       float64        `yaml:"speed"`
	Playing     bool           `yaml:"playing"`
	OrbitRadius float64        `yaml:"orbit_radius"`
	FPS         int            `yaml:"fps"`
	Seed        int64          `yaml:"seed"`
	Theme       string         `yaml:"theme"`
	Stars       StarsConfig    `yaml:"stars"`
	Backdrop    BackdropConfig `yaml:"backdrop"`
}

type StarsConfig struct {
	X StarConfig `yaml:"x"`
	Y StarConfig `yaml:"y"`
}

// StarConfig places a target star. PosX/PosY are world units; the Sun is at
// the origin and y grows downwards.
type StarConfig struct {
	Distance float64 `yaml:"distance"`
	PosX     float64 `yaml:"pos_x"`
	PosY     float64 `yaml:"pos_y"`
}

type BackdropConfig struct {
	Overhead  int `yaml:"overhead"`
	Celestial int `yaml:"celestial"`
}

func DefaultConfig() *Config {
	def := sim.DefaultConfig()
	return &Config{
		Speed:       def.Speed,
		Playing:     def.Playing,
		OrbitRadius: def.OrbitRadius,
		FPS:         DefaultFPS,
		Seed:        DefaultSeed,
		Theme:       DefaultTheme,
		Stars: StarsConfig{
			X: StarConfig{Distance: def.DistanceX, PosX: def.PositionX.X, PosY: def.PositionX.Y},
			Y: StarConfig{Distance: def.DistanceY, PosX: def.PositionY.X, PosY: def.PositionY.Y},
		},
		Backdrop: BackdropConfig{
			Overhead:  sim.DefaultOverheadStars,
			Celestial: sim.DefaultCelestialStars,
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file on top of a copy of base. Keys missing from the
// file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cp := *base
	cfg := &cp
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.FPS < 1 || c.FPS > MaxFPS {
		return fmt.Errorf("fps must be in [1, %d], got %d", MaxFPS, c.FPS)
	}
	if c.Backdrop.Overhead < 0 || c.Backdrop.Celestial < 0 {
		return fmt.Errorf("backdrop star counts must not be negative")
	}
	_, err := sim.New(c.SimConfig())
	return err
}

// SimConfig converts the file settings into simulator settings.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		OrbitRadius: c.OrbitRadius,
		Speed:       c.Speed,
		Playing:     c.Playing,
		DistanceX:   c.Stars.X.Distance,
		DistanceY:   c.Stars.Y.Distance,
		PositionX:   r2.Vec{X: c.Stars.X.PosX, Y: c.Stars.X.PosY},
		PositionY:   r2.Vec{X: c.Stars.Y.PosX, Y: c.Stars.Y.PosY},
	}
}

// NewBackdrop generates the background stars for this config's seed.
func (c *Config) NewBackdrop() sim.Backdrop {
	return sim.NewBackdrop(c.Seed, c.Backdrop.Overhead, c.Backdrop.Celestial)
}
