package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultSteps       = 1200
	DefaultSampleEvery = 10
	DefaultWidth       = 1920.0
	DefaultHeight      = 1080.0
	DefaultMass        = 22.0
	DefaultLogLevel    = "info"
)

type Config struct {
	Name        string        `yaml:"name,omitempty"`
	Dt          float64       `yaml:"dt"`
	Steps       int           `yaml:"steps"`
	SampleEvery int           `yaml:"sample_every"`
	Seed        int64         `yaml:"seed"`
	LogLevel    string        `yaml:"log_level"`
	Gravity     dynamo.Vec2   `yaml:"gravity"`
	World       WorldConfig   `yaml:"world"`
	Spawn       SpawnConfig   `yaml:"spawn"`
	Emitter     EmitterConfig `yaml:"emitter"`
}

// WorldConfig describes the drawing surface. With Radius left at zero the
// boundary is derived from the surface: radius height/2 at its center.
type WorldConfig struct {
	Width  float64     `yaml:"width"`
	Height float64     `yaml:"height"`
	Radius float64     `yaml:"radius,omitempty"`
	Center dynamo.Vec2 `yaml:"center,omitempty"`
}

type RadiusRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SpawnConfig holds the ranges interactive hosts draw new particles from.
type SpawnConfig struct {
	Click RadiusRange `yaml:"click"`
	Key   RadiusRange `yaml:"key"`
	Mass  float64     `yaml:"mass"`
}

// EmitterConfig drives scheduled spawning in headless runs.
type EmitterConfig struct {
	Position dynamo.Vec2 `yaml:"position"`
	Velocity dynamo.Vec2 `yaml:"velocity"`
	Spread   float64     `yaml:"spread"`
	Every    int         `yaml:"every"`
	Count    int         `yaml:"count"`
	Total    int         `yaml:"total"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
		Seed:        1,
		LogLevel:    DefaultLogLevel,
		Gravity:     physics.DefaultGravity,
		World: WorldConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Spawn: SpawnConfig{
			Click: RadiusRange{Min: 6, Max: 30},
			Key:   RadiusRange{Min: 3, Max: 10},
			Mass:  DefaultMass,
		},
		Emitter: EmitterConfig{
			Position: dynamo.Vec2{X: DefaultWidth / 2, Y: DefaultHeight / 4},
			Spread:   40,
			Every:    5,
			Count:    1,
			Total:    200,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base, so keys missing from the
// file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := *base
	cfg := &c
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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
	if !(c.Dt > 0) {
		return fmt.Errorf("dt: %w (got %g)", dynamo.ErrInvalidTimestep, c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.SampleEvery <= 0 {
		return fmt.Errorf("sample_every must be positive, got %d", c.SampleEvery)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %gx%g", c.World.Width, c.World.Height)
	}
	if c.World.Radius < 0 {
		return fmt.Errorf("world radius: %w (got %g)", dynamo.ErrInvalidRadius, c.World.Radius)
	}
	for name, r := range map[string]RadiusRange{"click": c.Spawn.Click, "key": c.Spawn.Key} {
		if !(r.Min > 0) || r.Max < r.Min {
			return fmt.Errorf("spawn.%s: %w (range %g..%g)", name, dynamo.ErrInvalidRadius, r.Min, r.Max)
		}
	}
	if !(c.Spawn.Mass > 0) {
		return fmt.Errorf("spawn.mass: %w (got %g)", dynamo.ErrInvalidMass, c.Spawn.Mass)
	}
	if c.Emitter.Total < 0 || c.Emitter.Every < 0 || c.Emitter.Count < 0 {
		return fmt.Errorf("emitter total, every and count must not be negative, got %d, %d, %d",
			c.Emitter.Total, c.Emitter.Every, c.Emitter.Count)
	}
	if c.Emitter.Total > 0 && (c.Emitter.Every <= 0 || c.Emitter.Count <= 0) {
		return fmt.Errorf("emitter needs positive every and count when total is %d", c.Emitter.Total)
	}
	if c.Emitter.Spread < 0 {
		return fmt.Errorf("emitter spread must not be negative, got %g", c.Emitter.Spread)
	}
	return nil
}

// Boundary builds the circular world described by the config.
func (c *Config) Boundary() (physics.Boundary, error) {
	if c.World.Radius > 0 {
		return physics.NewBoundary(c.World.Center, c.World.Radius)
	}
	return physics.BoundaryForSurface(c.World.Width, c.World.Height)
}

// NewSystem builds an empty particle system for this config.
func (c *Config) NewSystem(log dynamo.Logger) (*physics.System, error) {
	b, err := c.Boundary()
	if err != nil {
		return nil, err
	}
	return physics.NewSystem(b,
		physics.WithGravity(c.Gravity),
		physics.WithLogger(log),
		physics.WithCapacity(c.Emitter.Total),
	), nil
}
