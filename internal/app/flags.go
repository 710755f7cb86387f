package app

import (
	"flag"
	"fmt"

	"polar-sand/internal/mesh"
	"polar-sand/internal/world"
)

// Config represents the command-line parameters for the application.
type Config struct {
	ConfigFile string
	Width      int
	Height     int
	TPS        int
	DrawMode   string
	LOD        int
	HUDWidth   int

	World world.Config
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:    720,
		Height:   720,
		TPS:      60,
		DrawMode: mesh.Textured.String(),
		LOD:      1,
		HUDWidth: 240,
		World:    world.DefaultConfig(),
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "INI file with [geometry] and [world] sections")
	fs.IntVar(&c.Width, "width", c.Width, "view width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "view height in pixels")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation steps per second")
	fs.StringVar(&c.DrawMode, "draw", c.DrawMode, "draw mode: textured, wireframe or outline")
	fs.IntVar(&c.LOD, "lod", c.LOD, "mesh level of detail (power of two)")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels (0 hides it)")
	c.World.Bind(fs)
}

// Resolve loads ConfigFile, when set, as the world configuration. World flags
// set explicitly on fs still win over the file.
func (c *Config) Resolve(fs *flag.FlagSet) error {
	if _, err := mesh.ParseDrawMode(c.DrawMode); err != nil {
		return err
	}
	if c.ConfigFile == "" {
		return nil
	}
	loaded, err := world.LoadFile(c.ConfigFile)
	if err != nil {
		return err
	}
	set := map[string]string{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = f.Value.String() })

	c.World = loaded
	override := flag.NewFlagSet("world", flag.ContinueOnError)
	c.World.Bind(override)
	for name, v := range set {
		if override.Lookup(name) == nil {
			continue
		}
		if err := override.Set(name, v); err != nil {
			return fmt.Errorf("flag -%s: %w", name, err)
		}
	}
	return nil
}
