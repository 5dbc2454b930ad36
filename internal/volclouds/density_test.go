package volclouds

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukaszgryglicki/volclouds/internal/texture"
)

// constNoise serves uniform shape and detail volumes.
type constNoise struct {
	shape, detail *texture.Texture3D
}

func (n constNoise) Shape() *texture.Texture3D  { return n.shape }
func (n constNoise) Detail() *texture.Texture3D { return n.detail }

func constVolume(t *testing.T, ch [4]float64) *texture.Texture3D {
	t.Helper()
	tex, err := texture.NewTexture3D(2, 2, 2, 4)
	require.NoError(t, err)
	for i := range tex.Pix {
		tex.Pix[i] = ch[i%4]
	}
	return tex
}

func uniformNoise(t *testing.T, shape, detail float64) constNoise {
	return constNoise{
		shape:  constVolume(t, [4]float64{shape, shape, shape, shape}),
		detail: constVolume(t, [4]float64{detail, detail, detail, detail}),
	}
}

func randomInside(rng *rand.Rand, b BoundingVolume) mgl64.Vec3 {
	s := b.Size()
	return mgl64.Vec3{
		b.Min.X() + rng.Float64()*s.X(),
		b.Min.Y() + rng.Float64()*s.Y(),
		b.Min.Z() + rng.Float64()*s.Z(),
	}
}

func TestDensityZeroNoiseIsUniform(t *testing.T) {
	b := testBounds(t)
	s := DefaultSettings()
	s.DensityMultiplier = 2
	s.DensityOffset = -0.2
	d := NewSampler(b, s, Collaborators{Noise: uniformNoise(t, 0, 0)}, 0)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := randomInside(rng, b)
		assert.InDelta(t, 0.4, d.Sample(p), 1e-12, "p=%v", p)
	}
}

func TestDensityNonNegative(t *testing.T) {
	b := testBounds(t)
	cases := []struct {
		name          string
		shape, detail float64
		offset        float64
	}{
		{"positive noise", 0.7, 1, 0.1},
		{"negative noise", -1, -1, -0.3},
		{"strong erosion", 0.2, 1, -0.5},
	}
	rng := rand.New(rand.NewSource(2))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			s.DensityOffset = tc.offset
			s.DetailNoiseWeight = 50
			d := NewSampler(b, s, Collaborators{Noise: uniformNoise(t, tc.shape, tc.detail)}, 3)
			for i := 0; i < 200; i++ {
				assert.GreaterOrEqual(t, d.Sample(randomInside(rng, b)), 0.0)
			}
		})
	}
}

func TestDensityMonotoneInMultiplier(t *testing.T) {
	b := testBounds(t)
	noise := constNoise{
		shape:  constVolume(t, [4]float64{0.9, 0.6, 0.3, 0.1}),
		detail: constVolume(t, [4]float64{0.5, 0.2, 0.8, 0}),
	}
	rng := rand.New(rand.NewSource(3))
	prev := make([]float64, 100)
	points := make([]mgl64.Vec3, len(prev))
	for i := range points {
		points[i] = randomInside(rng, b)
	}
	for _, dm := range []float64{0, 0.5, 1, 2, 8} {
		s := DefaultSettings()
		s.DensityMultiplier = dm
		s.DensityOffset = -0.1
		d := NewSampler(b, s, Collaborators{Noise: noise}, 0)
		for i, p := range points {
			v := d.Sample(p)
			assert.GreaterOrEqual(t, v, prev[i], "dm=%v p=%v", dm, p)
			prev[i] = v
		}
	}
}

func TestDensityZeroDetailWeightEqualsBaseShape(t *testing.T) {
	b := testBounds(t)
	s := DefaultSettings()
	s.DetailNoiseWeight = 0
	s.DensityOffset = -0.1
	d := NewSampler(b, s, Collaborators{Noise: uniformNoise(t, 0.8, 1)}, 0)
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		p := randomInside(rng, b)
		assert.Equal(t, d.BaseShape(p), d.Sample(p))
	}
}

func TestDensityDetailErodes(t *testing.T) {
	b := testBounds(t)
	s := DefaultSettings()
	s.DensityOffset = -0.5
	s.DetailNoiseWeight = 0.5
	d := NewSampler(b, s, Collaborators{Noise: uniformNoise(t, 0.3, 1)}, 0)
	p := mgl64.Vec3{0, 0, 0}
	assert.Less(t, d.Sample(p), d.BaseShape(p))
}

func TestDensityOutsideOrWithoutNoise(t *testing.T) {
	b := testBounds(t)
	s := DefaultSettings()
	s.DensityOffset = -1
	d := NewSampler(b, s, Collaborators{Noise: uniformNoise(t, 0, 0)}, 0)
	assert.Zero(t, d.Sample(mgl64.Vec3{0, 60, 0}))
	assert.Greater(t, d.Sample(mgl64.Vec3{0, 0, 0}), 0.0)

	empty := NewSampler(b, s, Collaborators{}, 0)
	assert.Zero(t, empty.Sample(mgl64.Vec3{0, 0, 0}))
}

func TestSamplerDriftFrozenWhenNotPlaying(t *testing.T) {
	b := testBounds(t)
	s := DefaultSettings()
	s.Playing = false
	d := NewSampler(b, s, Collaborators{}, 100)
	assert.Equal(t, mgl64.Vec3{}, d.shapeDrift)
	assert.Equal(t, mgl64.Vec3{}, d.detailDrift)

	s.Playing = true
	d = NewSampler(b, s, Collaborators{}, 100)
	assert.NotEqual(t, mgl64.Vec3{}, d.shapeDrift)
}

func TestDensityNegativeDetailWeightsNeverAdd(t *testing.T) {
	b := testBounds(t)
	s := DefaultSettings()
	s.DensityOffset = -0.2
	s.DetailNoiseWeight = 1
	s.DetailNoiseWeights = mgl64.Vec3{1, -0.5, 0}
	d := NewSampler(b, s, Collaborators{Noise: constNoise{
		shape:  constVolume(t, [4]float64{0, 0, 0, 0}),
		detail: constVolume(t, [4]float64{0.1, 0.9, 0, 0}),
	}}, 0)

	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		p := randomInside(rng, b)
		assert.InDelta(t, 0.2, d.BaseShape(p), 1e-12)
		assert.LessOrEqual(t, d.Sample(p), d.BaseShape(p))
	}
}
