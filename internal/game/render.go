package game

import (
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	g.drawButton(screen)
	g.drawParticles(screen)
	g.drawProgressBar(screen)
	g.drawSpectrumBar(screen)

	status := ""
	switch {
	case !g.player.Loaded():
		status = "Click the button above to open an audio file"
	case g.player.Paused():
		status = "Paused - Space to play, click button to open another"
	default:
		status = "Playing - Space to pause, click button to open another"
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	w := float64(g.cfg.Window.Width)
	h := g.cfg.Window.Height
	for y := 0; y < h; y++ {
		ratio := float64(y) / float64(h)
		r := u8(10 + 20*math.Sin(g.time*0.5+ratio*math.Pi))
		g_val := u8(12 + 15*math.Cos(g.time*0.3+ratio*math.Pi))
		b := u8(20 + 25*math.Sin(g.time*0.7+ratio*math.Pi))
		ebitenutil.DrawLine(screen, 0, float64(y), w, float64(y), color.RGBA{R: r, G: g_val, B: b, A: 255})
	}
}

// drawParticles projects the field through the camera onto the particle
// layer, back to front, then runs the layer through bloom.
func (g *Game) drawParticles(screen *ebiten.Image) {
	positions := g.field.Positions()

	type projected struct {
		x, y, depth float64
		idx         int
	}
	pts := make([]projected, 0, len(positions))
	for i, p := range positions {
		x, y, depth, ok := g.camera.Project(p)
		if !ok {
			continue
		}
		pts = append(pts, projected{x: x, y: y, depth: depth, idx: i})
	}
	sort.Slice(pts, func(a, b int) bool { return pts[a].depth > pts[b].depth })

	g.particleLayer.Clear()

	near := g.camera.Distance() - g.cfg.Particle.BaseRadius*3
	far := g.camera.Distance() + g.cfg.Particle.BaseRadius*3
	if near < 0.1 {
		near = 0.1
	}
	for _, pt := range pts {
		// Depth attenuation: closer particles are larger and brighter.
		t := clamp01((far - pt.depth) / (far - near))
		size := 1.5 + 3.0*t

		hue := (g.colorPhase + float64(pt.idx)*0.002) * 360
		col := hsv(hue, 0.8, 0.4+0.6*t, uint8(90+165*t))

		vector.DrawFilledCircle(g.particleLayer, float32(pt.x), float32(pt.y), float32(size), col, false)
	}

	screen.DrawImage(g.particleLayer, nil)
	if g.cfg.Bloom.Enabled {
		g.bloom.Apply(screen, g.particleLayer)
	}
}

func (g *Game) drawSpectrumBar(screen *ebiten.Image) {
	if len(g.spectrum) == 0 {
		return
	}

	barX, barY, barWidth, barHeight := g.spectrumBarRect()
	const segments = 64
	segmentWidth := float64(barWidth) / segments

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), color.RGBA{R: 20, G: 25, B: 35, A: 200}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), 2, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)

	for i := 0; i < segments; i++ {
		// Resample the spectrum down to the segment count.
		bin := i * len(g.spectrum) / segments
		val := g.spectrum[bin]

		segmentX := float64(barX) + float64(i)*segmentWidth
		segmentHeight := val * float64(barHeight-10)
		if segmentHeight < 2 {
			segmentHeight = 2
		}

		freqRatio := float64(i) / segments
		hue := (g.colorPhase + freqRatio*180) * 360
		segmentColor := hsv(hue, 0.8, 0.9, uint8(100+155*val))

		segmentY := float64(barY) + float64(barHeight) - segmentHeight
		vector.DrawFilledRect(screen, float32(segmentX), float32(segmentY), float32(segmentWidth-1), float32(segmentHeight), segmentColor, false)

		if val > 0.3 {
			highlightColor := color.RGBA{R: 255, G: 255, B: 255, A: uint8(100 * val)}
			vector.StrokeRect(screen, float32(segmentX), float32(segmentY), float32(segmentWidth-1), float32(segmentHeight), 1, highlightColor, false)
		}
	}

	ebitenutil.DebugPrintAt(screen, "Low", barX, barY-15)
	ebitenutil.DebugPrintAt(screen, "High", barX+barWidth-25, barY-15)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	}

	vector.DrawFilledRect(screen, float32(buttonX), float32(buttonY), float32(buttonWidth), float32(buttonHeight), bgColor, false)
	vector.StrokeRect(screen, float32(buttonX), float32(buttonY), float32(buttonWidth), float32(buttonHeight), 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)

	text := "Open File"
	textWidth := len(text) * 8
	textX := buttonX + (buttonWidth-textWidth)/2
	textY := buttonY + (buttonHeight+8)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

func (g *Game) drawProgressBar(screen *ebiten.Image) {
	duration := g.player.Duration()
	if !g.player.Loaded() || duration == 0 {
		return
	}

	barX, barY, barWidth, barHeight := g.progressBarRect()
	progress := clamp01(float64(g.player.Position()) / float64(duration))

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), color.RGBA{R: 25, G: 30, B: 40, A: 200}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), 2, color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)

	if progress > 0 {
		fillWidth := progress * float64(barWidth)
		hue := (g.colorPhase + progress*180) * 360
		vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(fillWidth), float32(barHeight), hsv(hue, 0.8, 0.9, 180), false)
	}

	indicatorX := float64(barX) + progress*float64(barWidth)
	vector.DrawFilledCircle(screen, float32(indicatorX), float32(barY+barHeight/2), 8, color.RGBA{R: 255, G: 255, B: 255, A: 255}, false)
	vector.StrokeCircle(screen, float32(indicatorX), float32(barY+barHeight/2), 8, 2, color.RGBA{R: 100, G: 110, B: 130, A: 255}, false)

	ebitenutil.DebugPrintAt(screen, formatDuration(g.player.Position()), barX, barY+barHeight+5)
	totalTime := formatDuration(duration)
	ebitenutil.DebugPrintAt(screen, totalTime, barX+barWidth-len(totalTime)*8, barY+barHeight+5)

	if g.progressBarHovered {
		g.drawSeekTooltip(screen, barX, barY, barWidth, barHeight, duration)
	}
}

func (g *Game) drawSeekTooltip(screen *ebiten.Image, barX, barY, barWidth, barHeight int, duration time.Duration) {
	mouseX, mouseY := ebiten.CursorPosition()
	if mouseX < barX || mouseX > barX+barWidth || mouseY < barY || mouseY > barY+barHeight {
		return
	}

	fraction := float64(mouseX-barX) / float64(barWidth)
	tooltipTime := formatDuration(time.Duration(fraction * float64(duration)))

	tooltipWidth := len(tooltipTime)*8 + 10
	tooltipX := mouseX - tooltipWidth/2
	tooltipY := mouseY - 25
	if tooltipX < 0 {
		tooltipX = 0
	}
	if tooltipX+tooltipWidth > g.cfg.Window.Width {
		tooltipX = g.cfg.Window.Width - tooltipWidth
	}

	vector.DrawFilledRect(screen, float32(tooltipX), float32(tooltipY), float32(tooltipWidth), 20, color.RGBA{R: 0, G: 0, B: 0, A: 200}, false)
	vector.StrokeRect(screen, float32(tooltipX), float32(tooltipY), float32(tooltipWidth), 20, 1, color.RGBA{R: 100, G: 110, B: 130, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, tooltipTime, tooltipX+5, tooltipY+5)
}
