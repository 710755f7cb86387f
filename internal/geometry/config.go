package geometry

import (
	"fmt"
	"strconv"

	"gopkg.in/gcfg.v1"
)

// maxLayers bounds NumLayers so wedge counts stay well inside int range.
const maxLayers = 24

// Config holds the build-time options of a polar grid.
type Config struct {
	CellRadius                   float64 `gcfg:"cell-radius"`
	NumLayers                    int     `gcfg:"num-layers"`
	FirstNumRadialLines          int     `gcfg:"first-num-radial-lines"`
	SecondNumConcentricCircles   int     `gcfg:"second-num-concentric-circles"`
	FirstNumRadialChunks         int     `gcfg:"first-num-radial-chunks"`
	MaxRadialLinesPerChunk       int     `gcfg:"max-radial-lines-per-chunk"`
	MaxConcentricCirclesPerChunk int     `gcfg:"max-concentric-circles-per-chunk"`
	MaxCells                     int     `gcfg:"max-cells"`
}

// DefaultConfig returns a body of roughly half a million cells.
func DefaultConfig() Config {
	return Config{
		CellRadius:                   1,
		NumLayers:                    8,
		FirstNumRadialLines:          12,
		SecondNumConcentricCircles:   4,
		FirstNumRadialChunks:         3,
		MaxRadialLinesPerChunk:       64,
		MaxConcentricCirclesPerChunk: 64,
		MaxCells:                     64 * 64,
	}
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
// Unparseable or non-positive values keep their defaults; Build reports
// anything that is still inconsistent.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["cell_radius"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.CellRadius = parsed
		}
	}
	ints := map[string]*int{
		"num_layers":                       &c.NumLayers,
		"first_num_radial_lines":           &c.FirstNumRadialLines,
		"second_num_concentric_circles":    &c.SecondNumConcentricCircles,
		"first_num_radial_chunks":          &c.FirstNumRadialChunks,
		"max_radial_lines_per_chunk":       &c.MaxRadialLinesPerChunk,
		"max_concentric_circles_per_chunk": &c.MaxConcentricCirclesPerChunk,
		"max_cells":                        &c.MaxCells,
	}
	for key, dst := range ints {
		v, ok := cfg[key]
		if !ok {
			continue
		}
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			*dst = parsed
		}
	}
	return c
}

type fileConfig struct {
	Geometry Config
}

// LoadFile reads the [geometry] section of an INI-style file on top of the
// defaults.
func LoadFile(path string) (Config, error) {
	fc := fileConfig{Geometry: DefaultConfig()}
	if err := gcfg.ReadFileInto(&fc, path); err != nil {
		return Config{}, fmt.Errorf("read geometry config %s: %w", path, err)
	}
	return fc.Geometry, nil
}

// ParseString is LoadFile for an in-memory document.
func ParseString(doc string) (Config, error) {
	fc := fileConfig{Geometry: DefaultConfig()}
	if err := gcfg.ReadStringInto(&fc, doc); err != nil {
		return Config{}, fmt.Errorf("parse geometry config: %w", err)
	}
	return fc.Geometry, nil
}

// Validate checks the options that do not depend on the layer schedule.
func (c Config) Validate() error {
	switch {
	case c.CellRadius <= 0:
		return fmt.Errorf("%w: cell_radius must be positive, got %v", ErrConfig, c.CellRadius)
	case c.NumLayers <= 0 || c.NumLayers > maxLayers:
		return fmt.Errorf("%w: num_layers must be in [1,%d], got %d", ErrConfig, maxLayers, c.NumLayers)
	case c.FirstNumRadialLines <= 0:
		return fmt.Errorf("%w: first_num_radial_lines must be positive, got %d", ErrConfig, c.FirstNumRadialLines)
	case c.SecondNumConcentricCircles <= 0:
		return fmt.Errorf("%w: second_num_concentric_circles must be positive, got %d", ErrConfig, c.SecondNumConcentricCircles)
	case c.FirstNumRadialChunks <= 0:
		return fmt.Errorf("%w: first_num_radial_chunks must be positive, got %d", ErrConfig, c.FirstNumRadialChunks)
	case c.MaxRadialLinesPerChunk <= 0:
		return fmt.Errorf("%w: max_radial_lines_per_chunk must be positive, got %d", ErrConfig, c.MaxRadialLinesPerChunk)
	case c.MaxConcentricCirclesPerChunk <= 0:
		return fmt.Errorf("%w: max_concentric_circles_per_chunk must be positive, got %d", ErrConfig, c.MaxConcentricCirclesPerChunk)
	case c.MaxCells <= 0:
		return fmt.Errorf("%w: max_cells must be positive, got %d", ErrConfig, c.MaxCells)
	case c.FirstNumRadialLines%c.FirstNumRadialChunks != 0:
		return fmt.Errorf("%w: %d radial lines do not split into %d chunks", ErrConfig, c.FirstNumRadialLines, c.FirstNumRadialChunks)
	}
	return nil
}
