package game

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHSVPrimaries(t *testing.T) {
	tests := []struct {
		name string
		h    float64
		want color.RGBA
	}{
		{"red", 0, color.RGBA{R: 255, A: 255}},
		{"green", 120, color.RGBA{G: 255, A: 255}},
		{"blue", 240, color.RGBA{B: 255, A: 255}},
		{"wraps past 360", 480, color.RGBA{G: 255, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hsv(tt.h, 1, 1, 255))
		})
	}
}

func TestHSVZeroValueIsBlack(t *testing.T) {
	got := hsv(200, 1, 0, 255)
	assert.Equal(t, color.RGBA{A: 255}, got)
}

func TestHSVCarriesAlpha(t *testing.T) {
	got := hsv(0, 1, 1, 100)
	assert.Equal(t, uint8(100), got.A)
}

func TestU8ClampsChannelRange(t *testing.T) {
	assert.Equal(t, uint8(0), u8(-10))
	assert.Equal(t, uint8(255), u8(300))
	assert.Equal(t, uint8(30), u8(30))
	assert.Equal(t, uint8(0), u8(0))
	assert.Equal(t, uint8(255), u8(255))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-3))
	assert.Equal(t, 1.0, clamp01(4.2))
	assert.Equal(t, 0.5, clamp01(0.5))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", formatDuration(0))
	assert.Equal(t, "01:05", formatDuration(65*time.Second))
	assert.Equal(t, "10:59", formatDuration(659*time.Second))
}
