package audio

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	// normFloor keeps normalization sane during silence.
	normFloor = 1e-4
	// normDecay lets the running maximum fall slowly between loud passages.
	normDecay = 0.995
	attack    = 0.7
)

// Analyzer turns recent samples into a normalized frequency spectrum.
// Each frame: Hann window, real FFT, magnitudes grouped into bands,
// log compression, asymmetric smoothing against the previous frame, and
// normalization to [0,1] against a decaying running maximum.
type Analyzer struct {
	smoothing float64

	samples []float64
	bins    []float64
	runMax  float64
}

func NewAnalyzer(fftSize, bins int, smoothing float64) *Analyzer {
	return &Analyzer{
		smoothing: smoothing,
		samples:   make([]float64, fftSize),
		bins:      make([]float64, bins),
		runMax:    normFloor,
	}
}

// Update pulls the latest samples from the tap and recomputes the spectrum.
// A nil tap leaves the previous spectrum in place.
func (a *Analyzer) Update(tap *Tap) {
	if tap == nil {
		return
	}
	n := tap.SnapshotMono(a.samples)
	if n == 0 {
		return
	}
	a.Process(a.samples[:n])
}

// Process recomputes the spectrum from the given mono samples.
// Split out from Update so a fixed buffer can drive it directly.
func (a *Analyzer) Process(samples []float64) {
	buf := make([]float64, len(samples))
	copy(buf, samples)
	window.Apply(buf, window.Hann)

	out := fft.FFTReal(buf)
	half := len(out) / 2
	if half < 1 {
		return
	}

	// Group FFT magnitudes into output bands.
	perBand := float64(half) / float64(len(a.bins))
	frameMax := normFloor
	for b := range a.bins {
		start := int(float64(b) * perBand)
		end := int(float64(b+1) * perBand)
		if end <= start {
			end = start + 1
		}
		if end > half {
			end = half
		}
		var sum float64
		for i := start; i < end; i++ {
			re := real(out[i])
			im := imag(out[i])
			sum += math.Sqrt(re*re + im*im)
		}
		mag := sum / float64(end-start) / float64(len(buf))
		mag = math.Log10(1 + mag*9)

		// Fast attack, smoothed decay.
		prev := a.bins[b]
		if mag >= prev {
			a.bins[b] = mag*attack + prev*(1-attack)
		} else {
			a.bins[b] = mag*(1-a.smoothing) + prev*a.smoothing
		}
		if a.bins[b] > frameMax {
			frameMax = a.bins[b]
		}
	}

	a.runMax *= normDecay
	if frameMax > a.runMax {
		a.runMax = frameMax
	}
	if a.runMax < normFloor {
		a.runMax = normFloor
	}
}

// Spectrum returns the current bands normalized to [0,1]. The slice is
// reallocated each call so callers can hold on to it.
func (a *Analyzer) Spectrum() []float64 {
	out := make([]float64, len(a.bins))
	for i, v := range a.bins {
		n := v / a.runMax
		if n > 1 {
			n = 1
		}
		if n < 0 {
			n = 0
		}
		out[i] = n
	}
	return out
}
