package world

import (
	"sort"

	"polar-sand/internal/element"
	"polar-sand/internal/geometry"
	pcore "polar-sand/pkg/core"
)

// Scene populates a freshly cleared world.
type Scene func(w *World, rng *pcore.RNG)

var scenes = map[string]Scene{}

// RegisterScene adds a scene under the provided name.
func RegisterScene(name string, s Scene) {
	if name == "" || s == nil {
		return
	}
	scenes[name] = s
}

// Scenes lists the registered scene names in order.
func Scenes() []string {
	out := make([]string, 0, len(scenes))
	for name := range scenes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func init() {
	RegisterScene("empty", func(*World, *pcore.RNG) {})
	RegisterScene("planet", planet)
	RegisterScene("rain", rain)
}

// fillLayer sets every cell of layer i for which pick returns a kind other
// than Vacuum.
func fillLayer(w *World, i int, pick func(j, k int) element.Kind) {
	l := w.geom.Layer(i)
	for j := 0; j < l.Rings; j++ {
		for k := 0; k < l.Wedges; k++ {
			if kind := pick(j, k); kind != element.Vacuum {
				w.dir.Set(geometry.IJK{I: i, J: j, K: k}, kind)
			}
		}
	}
}

// planet is a stone core with lava pockets under a sand crust and a shallow
// ocean.
func planet(w *World, rng *pcore.RNG) {
	n := w.geom.NumLayers()
	inner := max(1, n/3)
	for i := 0; i < inner; i++ {
		last := i == inner-1
		fillLayer(w, i, func(j, k int) element.Kind {
			if last && rng.Chance(0.03) {
				return element.Lava
			}
			return element.Stone
		})
	}
	if inner >= n {
		return
	}
	rings := w.geom.Layer(inner).Rings
	fillLayer(w, inner, func(j, k int) element.Kind {
		switch {
		case j < rings/2:
			return element.Sand
		case j < rings/2+max(1, rings/4):
			return element.Water
		}
		return element.Vacuum
	})
}

// rain is the planet with sand, water and a few fliers scattered through the
// outermost layer.
func rain(w *World, rng *pcore.RNG) {
	planet(w, rng)
	outer := w.geom.NumLayers() - 1
	if outer == 0 {
		return
	}
	rings := w.geom.Layer(outer).Rings
	fillLayer(w, outer, func(j, k int) element.Kind {
		if j < rings/2 {
			return element.Vacuum
		}
		switch p := rng.IntN(1000); {
		case p < 20:
			return element.Water
		case p < 30:
			return element.Sand
		case p < 31:
			return element.DownFlier
		}
		return element.Vacuum
	})
}
