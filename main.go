package main

import (
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/jamesthegreati/visualize/internal/config"
	"github.com/jamesthegreati/visualize/internal/game"
)

const configFile = "visualizer.yaml"

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	g := game.New(cfg, log)

	// Optional: play a file given on the command line right away.
	if len(os.Args) > 1 {
		g.OpenFile(os.Args[1])
	}

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal("game loop", zap.Error(err))
	}
}
