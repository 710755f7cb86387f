//go:build ebiten

// Package ui holds the ebiten panels drawn around the world view.
package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"polar-sand/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// ParameterProvider is the surface the HUD reads values from. It may also
// implement core.ParameterControlsProvider and the setter interfaces.
type ParameterProvider interface {
	Name() string
	Parameters() core.ParameterSnapshot
}

var (
	titleColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	textColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor   = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	panelColor = color.RGBA{R: 16, G: 16, B: 20, A: 255}
)

const (
	panelPadding   = 12
	rowHeight      = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	readoutSpacing = 18
	controlsTop    = panelPadding + headerBaseline + 14
)

// control is one adjustable row. index holds the int value or the option
// position of a choice.
type control struct {
	def   core.ParameterControl
	ok    bool
	index int
	value float64
	shown string

	minus, plus image.Rectangle
}

// HUD renders the parameter panel to the right of the world view.
type HUD struct {
	src         ParameterProvider
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter

	width    int
	title    string
	controls []control
	snapshot core.ParameterSnapshot

	panel *ebiten.Image
	pixel *ebiten.Image
}

// NewHUD constructs a HUD for src with a panel width in pixels; zero hides it.
func NewHUD(src ParameterProvider, width int) *HUD {
	h := &HUD{src: src, width: max(0, width), title: "Controls"}
	if name := src.Name(); name != "" {
		h.title = strings.ToUpper(name[:1]) + name[1:] + " Controls"
	}
	h.intSetter, _ = src.(core.IntParameterSetter)
	h.floatSetter, _ = src.(core.FloatParameterSetter)
	if p, ok := src.(core.ParameterControlsProvider); ok {
		for i, def := range p.ParameterControls() {
			top := controlsTop + i*rowHeight + (rowHeight-buttonSize)/2
			plus := image.Rect(h.width-panelPadding-buttonSize, top, h.width-panelPadding, top+buttonSize)
			minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
			h.controls = append(h.controls, control{def: def, shown: "--", minus: minus, plus: plus})
		}
	}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	return h
}

// Width is the panel width in pixels.
func (h *HUD) Width() int { return h.width }

// Update refreshes the values and applies +/- clicks. It reports whether a
// click landed on the panel, so the caller does not also paint under it.
func (h *HUD) Update(offsetX int) bool {
	h.snapshot = h.src.Parameters()
	for i := range h.controls {
		h.refresh(&h.controls[i])
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	if h.width == 0 || mx < offsetX {
		return false
	}
	at := image.Pt(mx-offsetX, my)
	for i := range h.controls {
		c := &h.controls[i]
		switch {
		case at.In(c.minus):
			h.apply(c, -1)
		case at.In(c.plus):
			h.apply(c, 1)
		}
	}
	return true
}

func (h *HUD) refresh(c *control) {
	c.ok = false
	c.shown = "--"
	p, found := h.snapshot.Lookup(c.def.Key)
	if !found {
		return
	}
	switch c.def.Type {
	case core.ParamTypeInt:
		v, err := strconv.Atoi(p.Value)
		if err != nil {
			return
		}
		c.index, c.value = v, float64(v)
	case core.ParamTypeFloat:
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			return
		}
		c.value = v
	case core.ParamTypeChoice:
		c.index = -1
		for i, o := range c.def.Options {
			if o == p.Value {
				c.index = i
			}
		}
		if c.index < 0 {
			return
		}
	default:
		return
	}
	c.ok = true
	c.shown = h.format(c)
}

// step computes the value one click away. Ints and floats clamp to their
// bounds and choices wrap; ok is false when nothing would change.
func (h *HUD) step(c *control, dir int) (index int, value float64, ok bool) {
	if !c.ok {
		return 0, 0, false
	}
	d := c.def
	switch d.Type {
	case core.ParamTypeInt:
		inc := max(1, int(math.Round(d.Step)))
		index = c.index + dir*inc
		if d.HasMin {
			index = max(index, int(math.Round(d.Min)))
		}
		if d.HasMax {
			index = min(index, int(math.Round(d.Max)))
		}
		return index, float64(index), h.intSetter != nil && index != c.index
	case core.ParamTypeFloat:
		inc := d.Step
		if inc <= 0 {
			inc = 0.05
		}
		value = c.value + float64(dir)*inc
		if d.HasMin {
			value = math.Max(value, d.Min)
		}
		if d.HasMax {
			value = math.Min(value, d.Max)
		}
		return 0, value, h.floatSetter != nil && math.Abs(value-c.value) > 1e-9
	case core.ParamTypeChoice:
		n := len(d.Options)
		if n < 2 {
			return 0, 0, false
		}
		index = ((c.index+dir)%n + n) % n
		return index, 0, h.intSetter != nil
	}
	return 0, 0, false
}

func (h *HUD) apply(c *control, dir int) {
	index, value, ok := h.step(c, dir)
	if !ok {
		return
	}
	if c.def.Type == core.ParamTypeFloat {
		ok = h.floatSetter.SetFloatParameter(c.def.Key, value)
	} else {
		ok = h.intSetter.SetIntParameter(c.def.Key, index)
	}
	if ok {
		c.index, c.value = index, value
		c.shown = h.format(c)
	}
}

func (h *HUD) format(c *control) string {
	switch c.def.Type {
	case core.ParamTypeInt:
		return strconv.Itoa(c.index)
	case core.ParamTypeChoice:
		return c.def.Options[c.index]
	}
	precision := 1
	switch {
	case c.def.Step > 0 && c.def.Step < 0.001:
		precision = 4
	case c.def.Step > 0 && c.def.Step < 0.01:
		precision = 3
	case c.def.Step <= 0 || c.def.Step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(c.value, 'f', precision, 64)
}

// Draw paints the panel at offsetX, spanning the screen height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	height := screen.Bounds().Dy()
	if h.width == 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, titleColor)
	adjustable := make(map[string]bool, len(h.controls))
	for i := range h.controls {
		c := &h.controls[i]
		adjustable[c.def.Key] = true
		y := c.minus.Min.Y - (rowHeight-buttonSize)/2 + labelBaseline
		text.Draw(h.panel, c.def.Label, face, panelPadding, y, textColor)
		valueColor := textColor
		if !c.ok {
			valueColor = dimColor
		}
		w := text.BoundString(face, c.shown).Dx()
		text.Draw(h.panel, c.shown, face, c.minus.Min.X-buttonGap-w, y, valueColor)
		_, _, minusOK := h.step(c, -1)
		_, _, plusOK := h.step(c, 1)
		h.drawButton(c.minus, "-", minusOK)
		h.drawButton(c.plus, "+", plusOK)
	}
	h.drawReadouts(adjustable)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

// drawReadouts lists the non-adjustable parameters below the controls.
func (h *HUD) drawReadouts(adjustable map[string]bool) {
	face := basicfont.Face7x13
	y := controlsTop + len(h.controls)*rowHeight + headerBaseline
	for _, group := range h.snapshot.Groups {
		header := false
		for _, p := range group.Params {
			if adjustable[p.Key] {
				continue
			}
			if !header {
				text.Draw(h.panel, group.Name, face, panelPadding, y, titleColor)
				y += readoutSpacing
				header = true
			}
			text.Draw(h.panel, p.Label, face, panelPadding, y, dimColor)
			w := text.BoundString(face, p.Value).Dx()
			text.Draw(h.panel, p.Value, face, h.width-panelPadding-w, y, textColor)
			y += readoutSpacing
		}
		if header {
			y += readoutSpacing / 2
		}
	}
}

func (h *HUD) drawButton(r image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	b := text.BoundString(basicfont.Face7x13, label)
	x := r.Min.X + (r.Dx()-b.Dx())/2
	y := r.Min.Y + (r.Dy()+b.Dy())/2
	text.Draw(h.panel, label, basicfont.Face7x13, x, y, fg)
}
