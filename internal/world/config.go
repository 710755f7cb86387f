package world

import (
	"flag"
	"fmt"
	"strconv"

	"polar-sand/internal/geometry"

	"gopkg.in/gcfg.v1"
)

// Config holds everything needed to build a World.
type Config struct {
	Geometry geometry.Config

	Workers       int
	Seed          int64
	Scene         string
	TicksPerFrame int
	BrushRadius   float64
}

// DefaultConfig returns the planet scene on the default geometry.
func DefaultConfig() Config {
	return Config{
		Geometry:      geometry.DefaultConfig(),
		Workers:       0,
		Seed:          42,
		Scene:         "planet",
		TicksPerFrame: 1,
		BrushRadius:   3,
	}
}

// FromMap populates a Config from flag-style key/value pairs. Geometry keys
// are those of geometry.FromMap; unparseable values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	c.Geometry = geometry.FromMap(cfg)
	if cfg == nil {
		return c
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["scene"]; ok && v != "" {
		c.Scene = v
	}
	if v, ok := cfg["ticks_per_frame"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TicksPerFrame = parsed
		}
	}
	if v, ok := cfg["brush_radius"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.BrushRadius = parsed
		}
	}
	return c
}

type worldSection struct {
	Workers       int
	Seed          int64
	Scene         string
	TicksPerFrame int     `gcfg:"ticks-per-frame"`
	BrushRadius   float64 `gcfg:"brush-radius"`
}

type fileConfig struct {
	Geometry geometry.Config
	World    worldSection
}

func (c Config) file() fileConfig {
	return fileConfig{
		Geometry: c.Geometry,
		World: worldSection{
			Workers:       c.Workers,
			Seed:          c.Seed,
			Scene:         c.Scene,
			TicksPerFrame: c.TicksPerFrame,
			BrushRadius:   c.BrushRadius,
		},
	}
}

func (fc fileConfig) config() Config {
	return Config{
		Geometry:      fc.Geometry,
		Workers:       fc.World.Workers,
		Seed:          fc.World.Seed,
		Scene:         fc.World.Scene,
		TicksPerFrame: fc.World.TicksPerFrame,
		BrushRadius:   fc.World.BrushRadius,
	}
}

// LoadFile reads the [geometry] and [world] sections of an INI-style file on
// top of the defaults.
func LoadFile(path string) (Config, error) {
	fc := DefaultConfig().file()
	if err := gcfg.ReadFileInto(&fc, path); err != nil {
		return Config{}, fmt.Errorf("read world config %s: %w", path, err)
	}
	return fc.config(), nil
}

// ParseString is LoadFile for an in-memory document.
func ParseString(doc string) (Config, error) {
	fc := DefaultConfig().file()
	if err := gcfg.ReadStringInto(&fc, doc); err != nil {
		return Config{}, fmt.Errorf("parse world config: %w", err)
	}
	return fc.config(), nil
}

// Bind attaches the world options to fs. Of the geometry only the layer count
// has a flag; the rest comes from a config file.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Workers, "workers", c.Workers, "tick worker goroutines (0 = one per CPU)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for scene generation and tick randomness")
	fs.StringVar(&c.Scene, "scene", c.Scene, "initial scene")
	fs.IntVar(&c.TicksPerFrame, "ticks-per-frame", c.TicksPerFrame, "simulation ticks per rendered frame")
	fs.Float64Var(&c.BrushRadius, "brush", c.BrushRadius, "brush radius in world units")
	fs.IntVar(&c.Geometry.NumLayers, "layers", c.Geometry.NumLayers, "number of grid layers")
}
