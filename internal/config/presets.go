package config

import (
	"sort"

	"github.com/san-kum/verletsim/internal/dynamo"
)

func preset(name string, edit func(c *Config)) *Config {
	c := DefaultConfig()
	c.Name = name
	edit(c)
	return c
}

var Presets = map[string]*Config{
	"rain": preset("rain", func(c *Config) {
		c.Steps = 2400
		c.Emitter.Spread = 400
		c.Emitter.Every = 3
		c.Emitter.Total = 400
	}),
	"fountain": preset("fountain", func(c *Config) {
		c.Emitter.Position = dynamo.Vec2{X: DefaultWidth / 2, Y: DefaultHeight * 0.8}
		c.Emitter.Velocity = dynamo.Vec2{X: 0, Y: -12}
		c.Emitter.Spread = 5
		c.Emitter.Every = 2
		c.Emitter.Total = 300
	}),
	"burst": preset("burst", func(c *Config) {
		c.Steps = 900
		c.Emitter.Position = dynamo.Vec2{X: DefaultWidth / 2, Y: DefaultHeight / 2}
		c.Emitter.Spread = 10
		c.Emitter.Every = 1
		c.Emitter.Count = 60
		c.Emitter.Total = 60
	}),
	"zero-g": preset("zero-g", func(c *Config) {
		c.Gravity = dynamo.Vec2{}
		c.Emitter.Position = dynamo.Vec2{X: DefaultWidth / 2, Y: DefaultHeight / 2}
		c.Emitter.Spread = 300
		c.Emitter.Every = 1
		c.Emitter.Count = 150
		c.Emitter.Total = 150
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
