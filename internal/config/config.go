// Package config holds the visualizer settings. Defaults are compiled in;
// an optional YAML file next to the binary can override any of them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Window   Window   `yaml:"window"`
	Audio    Audio    `yaml:"audio"`
	Particle Particle `yaml:"particles"`
	Bloom    Bloom    `yaml:"bloom"`
	Camera   Camera   `yaml:"camera"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Audio struct {
	// TapRingSize is the number of recent stereo samples kept for analysis.
	TapRingSize int `yaml:"tap_ring_size"`
	// FFTSize is the number of mono samples fed to each FFT. Power of two.
	FFTSize int `yaml:"fft_size"`
	// Bins is the number of output frequency bands.
	Bins int `yaml:"bins"`
	// Smoothing in [0,1): weight of the previous frame on bin decay.
	Smoothing float64 `yaml:"smoothing"`
}

type Particle struct {
	Count int `yaml:"count"`
	// BaseRadius is the radius of the rest sphere the particles sit on.
	BaseRadius float64 `yaml:"base_radius"`
	// RadiusJitter spreads initial positions around the base radius.
	RadiusJitter float64 `yaml:"radius_jitter"`
	// Gain is the displacement multiplier K: pos = init * (1 + bin*K).
	Gain float64 `yaml:"gain"`
	Seed int64   `yaml:"seed"`
}

type Bloom struct {
	Enabled bool `yaml:"enabled"`
	// Passes is the number of blur iterations over the downsampled layer.
	Passes int `yaml:"passes"`
	// Strength scales the additive composite, [0,1].
	Strength float64 `yaml:"strength"`
}

type Camera struct {
	Distance   float64 `yaml:"distance"`
	FOVDegrees float64 `yaml:"fov_degrees"`
	OrbitSpeed float64 `yaml:"orbit_speed"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Window: Window{
			Width:  1024,
			Height: 768,
			Title:  "Visualize - click to open a file, Space: play/pause, Esc/Q: quit",
		},
		Audio: Audio{
			TapRingSize: 8192,
			FFTSize:     2048,
			Bins:        256,
			Smoothing:   0.6,
		},
		Particle: Particle{
			Count:        1200,
			BaseRadius:   1.0,
			RadiusJitter: 0.15,
			Gain:         1.5,
			Seed:         1,
		},
		Bloom: Bloom{
			Enabled:  true,
			Passes:   3,
			Strength: 0.8,
		},
		Camera: Camera{
			Distance:   4.0,
			FOVDegrees: 60,
			OrbitSpeed: 0.005,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path, if present.
// A missing file is not an error; an unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.sanitize()
	return cfg, nil
}

// sanitize clamps values that would break the frame loop.
func (c *Config) sanitize() {
	d := Default()
	if c.Window.Width <= 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = d.Window.Height
	}
	if c.Audio.TapRingSize <= 0 {
		c.Audio.TapRingSize = d.Audio.TapRingSize
	}
	if c.Audio.FFTSize <= 0 || c.Audio.FFTSize&(c.Audio.FFTSize-1) != 0 {
		c.Audio.FFTSize = d.Audio.FFTSize
	}
	if c.Audio.Bins <= 0 {
		c.Audio.Bins = d.Audio.Bins
	}
	if c.Audio.Smoothing < 0 || c.Audio.Smoothing >= 1 {
		c.Audio.Smoothing = d.Audio.Smoothing
	}
	if c.Particle.Count <= 0 {
		c.Particle.Count = d.Particle.Count
	}
	if c.Particle.BaseRadius <= 0 {
		c.Particle.BaseRadius = d.Particle.BaseRadius
	}
	if c.Particle.Gain < 0 {
		c.Particle.Gain = d.Particle.Gain
	}
	if c.Bloom.Passes <= 0 {
		c.Bloom.Passes = d.Bloom.Passes
	}
	if c.Bloom.Strength < 0 || c.Bloom.Strength > 1 {
		c.Bloom.Strength = d.Bloom.Strength
	}
	if c.Camera.Distance <= 0 {
		c.Camera.Distance = d.Camera.Distance
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		c.Camera.FOVDegrees = d.Camera.FOVDegrees
	}
}
