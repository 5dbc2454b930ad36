package noise

import (
	"github.com/aquilax/go-perlin"
)

// perlinField wraps go-perlin and maps its output into [0,1].
type perlinField struct {
	p         *perlin.Perlin
	frequency float64
}

func newPerlinField(octaves int, frequency float64, seed int64) *perlinField {
	if octaves < 1 {
		octaves = 1
	}
	// alpha: amplitude falloff per octave, beta: frequency growth per octave
	return &perlinField{p: perlin.NewPerlin(2, 2, int32(octaves), seed), frequency: frequency}
}

func (f *perlinField) sample3(x, y, z float64) float64 {
	return clamp01((f.p.Noise3D(x*f.frequency, y*f.frequency, z*f.frequency) + 1) * 0.5)
}

func (f *perlinField) sample2(x, y float64) float64 {
	return clamp01((f.p.Noise2D(x*f.frequency, y*f.frequency) + 1) * 0.5)
}

// tiled3 blends the field with its copies shifted by one period along each
// axis, so the unit cube repeats without a seam.
func (f *perlinField) tiled3(x, y, z float64) float64 {
	v := 0.0
	for i := 0; i < 8; i++ {
		ox, oy, oz := float64(i&1), float64(i>>1&1), float64(i>>2&1)
		w := periodWeight(x, ox) * periodWeight(y, oy) * periodWeight(z, oz)
		if w != 0 {
			v += w * f.sample3(x-ox, y-oy, z-oz)
		}
	}
	return v
}

// tiled2 is the 2D version of tiled3.
func (f *perlinField) tiled2(x, y float64) float64 {
	v := 0.0
	for i := 0; i < 4; i++ {
		ox, oy := float64(i&1), float64(i>>1&1)
		if w := periodWeight(x, ox) * periodWeight(y, oy); w != 0 {
			v += w * f.sample2(x-ox, y-oy)
		}
	}
	return v
}

// periodWeight is the blend weight of the copy shifted by o (0 or 1) at t in [0,1].
func periodWeight(t, o float64) float64 {
	t = clamp01(t)
	if o == 0 {
		return 1 - t
	}
	return t
}

// Field2D is a seeded 2D fractal Perlin field in [0,1] that tiles over the unit
// square, used by the environment maps.
type Field2D struct {
	f *perlinField
}

func NewField2D(octaves int, frequency float64, seed int64) *Field2D {
	return &Field2D{f: newPerlinField(octaves, frequency, seed)}
}

// At samples the field at (x,y) in [0,1]².
func (f *Field2D) At(x, y float64) float64 { return f.f.tiled2(x, y) }

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// remap maps v from [lo0,hi0] to [lo1,hi1] without clamping.
func remap(v, lo0, hi0, lo1, hi1 float64) float64 {
	if hi0 == lo0 {
		return lo1
	}
	return lo1 + (v-lo0)*(hi1-lo1)/(hi0-lo0)
}
