// Package scene holds the 3D side of the visualizer: the particle field,
// the orbiting camera, and the bloom compositor.
package scene

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Field is a fixed set of particles. Each particle keeps the position it was
// born with; every frame the current position is recomputed as a scalar
// multiple of it, driven by one frequency band.
type Field struct {
	initial []mgl64.Vec3
	current []mgl64.Vec3
}

// NewField samples count initial positions from a pseudo-spherical shell:
// uniform random directions, radius jittered around baseRadius. The seed
// makes a session's layout reproducible.
func NewField(count int, baseRadius, radiusJitter float64, seed int64) *Field {
	rng := rand.New(rand.NewSource(seed))
	f := &Field{
		initial: make([]mgl64.Vec3, count),
		current: make([]mgl64.Vec3, count),
	}
	for i := range f.initial {
		// Uniform direction: z uniform in [-1,1], azimuth uniform.
		z := rng.Float64()*2 - 1
		theta := rng.Float64() * 2 * math.Pi
		s := math.Sqrt(1 - z*z)
		dir := mgl64.Vec3{s * math.Cos(theta), s * math.Sin(theta), z}

		r := baseRadius + (rng.Float64()*2-1)*radiusJitter
		if r < 0 {
			r = 0
		}
		f.initial[i] = dir.Mul(r)
		f.current[i] = f.initial[i]
	}
	return f
}

// Apply recomputes every current position from the spectrum:
// particle i reads band floor(i/N * len(spectrum)) and scales its initial
// position by 1 + band*gain. An empty spectrum resets the field to rest.
func (f *Field) Apply(spectrum []float64, gain float64) {
	n := len(f.initial)
	if len(spectrum) == 0 {
		copy(f.current, f.initial)
		return
	}
	for i := 0; i < n; i++ {
		bin := i * len(spectrum) / n
		if bin >= len(spectrum) {
			bin = len(spectrum) - 1
		}
		mag := spectrum[bin]
		if mag < 0 {
			mag = 0
		}
		if mag > 1 {
			mag = 1
		}
		f.current[i] = f.initial[i].Mul(1 + mag*gain)
	}
}

// Positions returns the current positions. The slice is owned by the field;
// callers must not retain it across Apply calls.
func (f *Field) Positions() []mgl64.Vec3 { return f.current }

// Initial returns the birth position of particle i.
func (f *Field) Initial(i int) mgl64.Vec3 { return f.initial[i] }

// Len returns the particle count.
func (f *Field) Len() int { return len(f.initial) }
