package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sine returns n samples of a sine with the given number of cycles per buffer.
func sine(n int, cycles float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * cycles * float64(i) / float64(n))
	}
	return out
}

func TestSpectrumRange(t *testing.T) {
	a := NewAnalyzer(1024, 64, 0.6)
	a.Process(sine(1024, 100))

	for i, v := range a.Spectrum() {
		assert.GreaterOrEqual(t, v, 0.0, "bin %d", i)
		assert.LessOrEqual(t, v, 1.0, "bin %d", i)
	}
}

func TestPureSinePeaksInExpectedBand(t *testing.T) {
	const (
		fftSize = 1024
		bins    = 64
		cycles  = 100
	)
	a := NewAnalyzer(fftSize, bins, 0.6)
	buf := sine(fftSize, cycles)
	// Several frames so the attack smoothing settles.
	for i := 0; i < 10; i++ {
		a.Process(buf)
	}

	spectrum := a.Spectrum()
	require.Len(t, spectrum, bins)

	// FFT index 100 of 512 falls into band 100/(512/64) = 12.
	peak := 0
	for i, v := range spectrum {
		if v > spectrum[peak] {
			peak = i
		}
	}
	assert.Equal(t, 12, peak)
	assert.InDelta(t, 1.0, spectrum[peak], 1e-9, "peak band defines the running max")
}

func TestConstantInputIsConvergentAndStable(t *testing.T) {
	a := NewAnalyzer(512, 32, 0.5)
	buf := sine(512, 20)

	for i := 0; i < 200; i++ {
		a.Process(buf)
	}
	first := a.Spectrum()
	a.Process(buf)
	second := a.Spectrum()

	for i := range first {
		assert.InDelta(t, first[i], second[i], 1e-6, "bin %d drifted on constant input", i)
	}
}

func TestSilenceProducesNoSpectrumSpike(t *testing.T) {
	a := NewAnalyzer(512, 32, 0.5)
	a.Process(make([]float64, 512))

	for i, v := range a.Spectrum() {
		assert.LessOrEqual(t, v, 1.0, "bin %d", i)
		assert.GreaterOrEqual(t, v, 0.0, "bin %d", i)
	}
}

func TestUpdateWithNilTapIsNoOp(t *testing.T) {
	a := NewAnalyzer(256, 16, 0.5)
	a.Process(sine(256, 10))
	before := a.Spectrum()

	a.Update(nil)

	assert.Equal(t, before, a.Spectrum())
}

func TestUpdateReadsFromTap(t *testing.T) {
	a := NewAnalyzer(256, 16, 0.5)
	tap := NewTap(&leftRamp{}, 1024)
	stream(tap, 512)

	a.Update(tap)

	var sum float64
	for _, v := range a.Spectrum() {
		sum += v
	}
	assert.Greater(t, sum, 0.0, "non-silent tap must light up some band")
}
