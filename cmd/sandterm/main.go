// Command sandterm runs a world in the terminal. Every character cell shows
// two samples using the upper half block, so pixels stay roughly square.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	"polar-sand/internal/core"
	"polar-sand/internal/element"
	"polar-sand/internal/render"
	"polar-sand/internal/world"

	"github.com/gdamore/tcell/v2"
)

type viewer struct {
	screen  tcell.Screen
	world   *world.World
	grid    *core.ByteGrid
	palette []tcell.Color

	width, height int
	paused        bool
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func newViewer(w *world.World) (*viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	v := &viewer{screen: screen, world: w, grid: core.NewByteGrid(1, 1)}
	for _, c := range render.Palette() {
		v.palette = append(v.palette, tcellColor(c))
	}
	v.resize()
	return v, nil
}

// resize keeps the last row for the status line.
func (v *viewer) resize() {
	v.width, v.height = v.screen.Size()
	v.grid.Resize(max(1, v.width), max(1, 2*(v.height-1)))
	v.world.Camera.Fit(v.world.Geometry().Radius(), v.grid.W, v.grid.H)
}

func (v *viewer) draw() {
	v.world.Rasterize(v.grid)
	for y := 0; y+1 < v.height; y++ {
		for x := 0; x < v.width; x++ {
			top := v.palette[v.grid.At(x, 2*y)]
			bottom := v.palette[v.grid.At(x, 2*y+1)]
			v.screen.SetContent(x, y, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}

	s := v.world.Stats()
	state := "running"
	if v.paused {
		state = "paused"
	}
	status := fmt.Sprintf(" tick %d  %s  brush %s  [space] pause [n] step [tab] brush [r] reset [q] quit",
		s.Tick, state, v.world.BrushKind())
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	for x := 0; x < v.width; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		v.screen.SetContent(x, v.height-1, r, nil, style)
	}
	v.screen.Show()
}

func (v *viewer) paint(x, y int) {
	wx, wy := v.world.Camera.ToWorld(float64(x)+0.5, float64(2*y)+1, v.grid.W, v.grid.H)
	_, _ = v.world.PaintBrush(wx, wy)
}

// handle applies one event and reports whether the viewer should exit.
func (v *viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyTab:
			v.world.SetBrushKind(element.Kind((int(v.world.BrushKind()) + 1) % element.NumKinds))
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case ' ':
				v.paused = !v.paused
			case 'n':
				v.world.Step()
			case 'r':
				v.world.Reset(v.world.Config().Seed)
			case 's':
				v.world.Reset(time.Now().UnixNano())
			case '+':
				v.world.Camera.Zoom *= 1.25
			case '-':
				v.world.Camera.Zoom /= 1.25
			}
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			if y < v.height-1 {
				v.paint(x, y)
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
		v.resize()
	}
	return false
}

func (v *viewer) run(tps int) {
	ticker := time.NewTicker(time.Second / time.Duration(max(1, tps)))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || v.handle(ev) {
				return
			}
		case <-ticker.C:
			if !v.paused {
				v.world.Step()
			}
			v.draw()
		}
	}
}

func main() {
	cfg := world.DefaultConfig()
	configFile := flag.String("config", "", "INI file with [geometry] and [world] sections")
	tps := flag.Int("tps", 30, "frames per second")
	logFile := flag.String("log", "", "write logs to this file instead of discarding them")
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if *configFile != "" {
		loaded, err := world.LoadFile(*configFile)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	// The terminal belongs to tcell while running, so logs never go to stderr.
	var logger *log.Logger
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logger = log.New(f, "sandterm: ", log.LstdFlags)
	}

	w, err := world.New(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()

	v, err := newViewer(w)
	if err != nil {
		log.Fatal(err)
	}
	v.run(*tps)
	v.screen.Fini()
}
