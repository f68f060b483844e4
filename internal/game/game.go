// Package game hosts the ebiten frame loop and the UI around the scene:
// file opening, pause, seeking, and the status line.
package game

import (
	"errors"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/jamesthegreati/visualize/internal/audio"
	"github.com/jamesthegreati/visualize/internal/config"
	"github.com/jamesthegreati/visualize/internal/scene"
)

const (
	buttonWidth  = 120
	buttonHeight = 40
	buttonX      = 20
	buttonY      = 50

	frameDT = time.Second / 60
)

type Game struct {
	cfg config.Config
	log *zap.Logger

	player   *audio.Player
	analyzer *audio.Analyzer
	field    *scene.Field
	camera   *scene.Camera
	bloom    *scene.Bloom

	spectrum      []float64
	particleLayer *ebiten.Image

	// viz clock
	time       float64
	colorPhase float64

	// progress bar
	progressBarHovered  bool
	progressBarDragging bool

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttonHovered bool
	buttonPressed bool

	lastErr error
}

func New(cfg config.Config, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	return &Game{
		cfg:      cfg,
		log:      log,
		player:   audio.NewPlayer(cfg.Audio.TapRingSize, log),
		analyzer: audio.NewAnalyzer(cfg.Audio.FFTSize, cfg.Audio.Bins, cfg.Audio.Smoothing),
		field: scene.NewField(cfg.Particle.Count, cfg.Particle.BaseRadius,
			cfg.Particle.RadiusJitter, cfg.Particle.Seed),
		camera: scene.NewCamera(cfg.Camera.Distance, cfg.Camera.FOVDegrees,
			cfg.Window.Width, cfg.Window.Height),
		bloom: scene.NewBloom(cfg.Window.Width, cfg.Window.Height,
			cfg.Bloom.Passes, cfg.Bloom.Strength),
		particleLayer: ebiten.NewImage(cfg.Window.Width, cfg.Window.Height),
		prevKey:       map[ebiten.Key]bool{},
	}
}

// OpenFile loads and plays the given path, surfacing any failure on the
// status line. Used for the startup argument and the file dialog result.
func (g *Game) OpenFile(path string) {
	if err := g.player.Load(path); err != nil {
		g.lastErr = err
		g.log.Warn("load failed", zap.String("path", path), zap.Error(err))
		return
	}
	g.lastErr = nil
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= buttonX && mouseX <= buttonX+buttonWidth &&
		mouseY >= buttonY && mouseY <= buttonY+buttonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			g.openFileDialog()
		}
		g.buttonPressed = false
	}

	g.updateProgressBar(mouseX, mouseY)

	if justPressed(ebiten.KeySpace) {
		g.player.TogglePause()
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		g.player.Close()
		return ebiten.Termination
	}

	g.time += 1.0 / 60.0
	g.colorPhase += 0.01

	// The scene only advances while audio is actually playing; a failed load
	// leaves the field at rest and the error on the status line.
	if g.player.Playing() {
		g.analyzer.Update(g.player.Tap())
		g.spectrum = g.analyzer.Spectrum()
		g.field.Apply(g.spectrum, g.cfg.Particle.Gain)
		g.camera.Orbit(g.cfg.Camera.OrbitSpeed)
		g.player.Advance(frameDT)
	}

	return nil
}

func (g *Game) updateProgressBar(mouseX, mouseY int) {
	barX, barY, barWidth, barHeight := g.progressBarRect()

	g.progressBarHovered = mouseX >= barX && mouseX <= barX+barWidth &&
		mouseY >= barY && mouseY <= barY+barHeight

	if !g.player.Loaded() || g.player.Duration() <= 0 {
		g.progressBarDragging = false
		return
	}

	if g.progressBarHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.progressBarDragging = true
		g.seekTo(float64(mouseX-barX) / float64(barWidth))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.progressBarDragging = false
	}

	if g.progressBarDragging {
		fraction := clamp01(float64(mouseX-barX) / float64(barWidth))
		current := float64(g.player.Position()) / float64(g.player.Duration())
		// 1% threshold avoids micro-seeks while dragging.
		if math.Abs(fraction-current) > 0.01 {
			g.seekTo(fraction)
		}
	}
}

func (g *Game) seekTo(fraction float64) {
	if err := g.player.Seek(fraction); err != nil {
		g.lastErr = err
		g.log.Warn("seek failed", zap.Error(err))
	}
}

func (g *Game) openFileDialog() {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return
		}
		g.lastErr = err
		g.log.Warn("file dialog failed", zap.Error(err))
		return
	}
	g.OpenFile(filename)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

func (g *Game) progressBarRect() (x, y, w, h int) {
	return 20, g.cfg.Window.Height - 120, g.cfg.Window.Width - 40, 30
}

func (g *Game) spectrumBarRect() (x, y, w, h int) {
	return 20, g.cfg.Window.Height - 80, g.cfg.Window.Width - 40, 60
}
