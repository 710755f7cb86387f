package element

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var kindHex = [NumKinds]string{
	Vacuum:      "#000000",
	Sand:        "#e2c275",
	Stone:       "#6f6a64",
	Water:       "#2f6fd6",
	Lava:        "#d9480f",
	SolarPlasma: "#ffd43b",
	DownFlier:   "#ffffff",
	LeftFlier:   "#e64980",
	RightFlier:  "#37b24d",
}

var palette = buildPalette()

func buildPalette() [NumKinds]colorful.Color {
	var out [NumKinds]colorful.Color
	for i, hex := range kindHex {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic("element: bad palette entry " + hex)
		}
		out[i] = c
	}
	return out
}

// Color returns the base display colour of k.
func (k Kind) Color() colorful.Color {
	if !k.Valid() {
		return palette[Vacuum]
	}
	return palette[k]
}

// RGBA returns the display colour of c. Vacuum is transparent; lava glows
// brighter the further it is above its solidifying temperature.
func (c Cell) RGBA() color.RGBA {
	if c.Kind == Vacuum {
		return color.RGBA{}
	}
	base := c.Kind.Color()
	if c.Kind == Lava {
		hot := c.Kind.DefaultHeat()
		t := float64((c.Heat - LavaSolidifyHeat) / (hot - LavaSolidifyHeat))
		t = max(0, min(1, t))
		glow := colorful.Color{R: 1, G: 0.85, B: 0.4}
		base = palette[Stone].BlendLab(base, 0.4+0.6*t).BlendLab(glow, 0.3*t).Clamped()
	}
	r, g, b := base.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
