package world

import (
	"polar-sand/internal/core"
	"polar-sand/internal/element"
)

func kindNames() []string {
	kinds := element.Kinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.String()
	}
	return out
}

// Parameters reports the values shown on the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	s := w.Stats()
	g := w.geom.Config()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Brush",
			Params: []core.Parameter{
				core.ChoiceParam("brush_kind", "Element", w.brushKind.String()),
				core.FloatParam("brush_radius", "Brush radius", w.cfg.BrushRadius),
				core.IntParam("ticks_per_frame", "Ticks per frame", w.cfg.TicksPerFrame),
			},
		},
		{
			Name: "World",
			Params: []core.Parameter{
				core.Int64Param("seed", "Seed", w.cfg.Seed),
				core.IntParam("num_layers", "Layers", g.NumLayers),
				core.IntParam("chunks", "Chunks", len(w.geom.Chunks())),
				core.IntParam("cells", "Cells", w.geom.TotalCells()),
			},
		},
		{
			Name: "Stats",
			Params: []core.Parameter{
				core.Int64Param("tick", "Tick", int64(s.Tick)),
				core.FloatParam("mass", "Mass", s.Mass),
				core.ChoiceParam("dominant", "Dominant", s.Dominant.String()),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable values.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "brush_kind", Label: "Element", Type: core.ParamTypeChoice, Options: kindNames()},
		{Key: "brush_radius", Label: "Brush", Type: core.ParamTypeFloat, Step: 0.5, Min: 0.5, Max: 64, HasMin: true, HasMax: true},
		{Key: "ticks_per_frame", Label: "Ticks/frame", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 32, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates an integer or choice parameter.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "brush_kind":
		if value < 0 || value >= element.NumKinds {
			return false
		}
		w.brushKind = element.Kind(value)
		return true
	case "ticks_per_frame":
		if value < 1 {
			return false
		}
		w.cfg.TicksPerFrame = value
		return true
	}
	return false
}

// SetFloatParameter updates a float parameter.
func (w *World) SetFloatParameter(key string, value float64) bool {
	if key != "brush_radius" || value <= 0 {
		return false
	}
	w.cfg.BrushRadius = value
	return true
}
