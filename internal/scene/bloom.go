package scene

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Bloom is a cheap additive glow pass: the particle layer is downsampled to
// quarter resolution, smeared by a few jittered redraws, and composited back
// over the destination with additive blending.
type Bloom struct {
	passes   int
	strength float64

	low *ebiten.Image
	tmp *ebiten.Image
}

func NewBloom(width, height, passes int, strength float64) *Bloom {
	return &Bloom{
		passes:   passes,
		strength: strength,
		low:      ebiten.NewImage(width/4, height/4),
		tmp:      ebiten.NewImage(width/4, height/4),
	}
}

// Apply composites the glow of layer onto dst. layer must match the size
// the bloom was created with.
func (b *Bloom) Apply(dst, layer *ebiten.Image) {
	// Downsample.
	b.low.Clear()
	var down ebiten.DrawImageOptions
	down.GeoM.Scale(0.25, 0.25)
	down.Filter = ebiten.FilterLinear
	b.low.DrawImage(layer, &down)

	// Smear: each pass redraws the low-res layer at one-pixel offsets with
	// linear filtering, which acts as a widening box blur.
	offsets := [4][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for p := 0; p < b.passes; p++ {
		b.tmp.Clear()
		for _, off := range offsets {
			var op ebiten.DrawImageOptions
			op.GeoM.Translate(off[0], off[1])
			op.Filter = ebiten.FilterLinear
			op.ColorScale.ScaleAlpha(0.25)
			op.Blend = ebiten.BlendLighter
			b.tmp.DrawImage(b.low, &op)
		}
		b.low, b.tmp = b.tmp, b.low
	}

	// Composite back, upsampled, additive.
	var up ebiten.DrawImageOptions
	up.GeoM.Scale(4, 4)
	up.Filter = ebiten.FilterLinear
	up.Blend = ebiten.BlendLighter
	up.ColorScale.ScaleAlpha(float32(b.strength))
	dst.DrawImage(b.low, &up)
}
