//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"polar-sand/internal/app"
	"polar-sand/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()
	if err := cfg.Resolve(flag.CommandLine); err != nil {
		log.Fatal(err)
	}

	logger := log.New(os.Stderr, "sand: ", log.LstdFlags)
	w, err := world.New(cfg.World, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()

	game, err := app.New(w, cfg)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("polar-sand: " + w.Name())
	ebiten.SetWindowSize(cfg.Width+cfg.HUDWidth, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
