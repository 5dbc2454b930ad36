package volclouds

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukaszgryglicki/volclouds/internal/envmap"
	"github.com/lukaszgryglicki/volclouds/internal/logging"
	"github.com/lukaszgryglicki/volclouds/internal/texture"
)

const testW, testH = 16, 12

func testRenderer(t *testing.T, c Collaborators) *Renderer {
	t.Helper()
	return NewRenderer(testBounds(t), testSun(t), c, logging.NewNop())
}

func testFrame(t *testing.T, s Settings) Frame {
	t.Helper()
	bg, err := GradientBuffer(testW, testH, mgl64.Vec3{0.2, 0.4, 0.8}, mgl64.Vec3{0.8, 0.8, 0.9})
	require.NoError(t, err)
	return Frame{Source: bg, Camera: testCamera(), Settings: s, Seed: 7}
}

func TestRenderEmptyVolumeIsIdentity(t *testing.T) {
	r := testRenderer(t, Collaborators{Noise: uniformNoise(t, 0, 0)})
	s := DefaultSettings()
	s.DensityOffset = 0.3
	f := testFrame(t, s)
	orig := f.Source.Clone()

	out, err := r.Render(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, orig.Buf, out.Buf)
	assert.Equal(t, orig.Buf, f.Source.Buf, "source must not be modified")
	assert.Equal(t, testW*testH, r.Stats().Pixels())
	assert.Zero(t, r.Stats().Saturated)
}

func TestRenderCloudDarkensAndKeepsSource(t *testing.T) {
	r := testRenderer(t, Collaborators{Noise: uniformNoise(t, 0, 0)})
	s := DefaultSettings()
	s.DensityOffset = -0.5
	s.DensityMultiplier = 10
	f := testFrame(t, s)
	orig := f.Source.Clone()

	out, err := r.Render(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, orig.Buf, f.Source.Buf)
	assert.NotEqual(t, orig.Buf, out.Buf)
	// the centre pixel looks straight through the box
	st := r.Stats()
	assert.Positive(t, st.Saturated)
	assert.Equal(t, testW*testH, st.Pixels())
	for _, v := range out.Buf {
		assert.True(t, isFinite(v))
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := testRenderer(t, Collaborators{Noise: constNoise{
		shape:  constVolume(t, [4]float64{0.7, 0.5, 0.2, 0}),
		detail: constVolume(t, [4]float64{0.4, 0.4, 0.4, 0}),
	}})
	s := DefaultSettings()
	s.RayOffsetStrength = 6
	f := testFrame(t, s)
	a, err := r.Render(context.Background(), f)
	require.NoError(t, err)
	r.Workers = 3
	b, err := r.Render(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, a.Buf, b.Buf)
}

func TestRenderValidation(t *testing.T) {
	r := testRenderer(t, Collaborators{})
	f := testFrame(t, DefaultSettings())

	_, err := r.Render(context.Background(), Frame{Camera: testCamera()})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	bad := f
	bad.Depth = make([]float64, 3)
	_, err = r.Render(context.Background(), bad)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	bad = f
	bad.Camera.Target = bad.Camera.Position
	_, err = r.Render(context.Background(), bad)
	assert.Error(t, err)
}

func TestRenderCancelled(t *testing.T) {
	r := testRenderer(t, Collaborators{Noise: uniformNoise(t, 0, 0)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Render(ctx, testFrame(t, DefaultSettings()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderDepthOccludesClouds(t *testing.T) {
	r := testRenderer(t, Collaborators{Noise: uniformNoise(t, 0, 0)})
	s := DefaultSettings()
	s.DensityOffset = -0.5
	f := testFrame(t, s)
	f.Depth = make([]float64, testW*testH)
	for i := range f.Depth {
		f.Depth[i] = 1 // geometry right in front of the camera
	}
	out, err := r.Render(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, f.Source.Buf, out.Buf)
	assert.Equal(t, testW*testH, r.Stats().Missed)
}

func rampTexture(t *testing.T) *texture.Texture2D {
	t.Helper()
	tex, err := texture.NewTexture2D(4, 4, 1, texture.Clamp)
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			tex.Set(x, y, 0, float64(x+4*y)/15)
		}
	}
	return tex
}

func TestRenderAltitudeDebugView(t *testing.T) {
	alt := &envmap.AltitudeMap{Tex: rampTexture(t), Multiplier: 1}
	weather := &envmap.WeatherMap{Tex: rampTexture(t)}
	r := testRenderer(t, Collaborators{Noise: uniformNoise(t, 0.5, 0.5), Altitude: alt, Weather: weather})
	s := DefaultSettings()
	s.Debug.AltitudeViewer = true
	s.Debug.WeatherViewer = true
	s.Debug.NoiseViewer = true

	out, err := r.Render(context.Background(), testFrame(t, s))
	require.NoError(t, err)
	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			u := (float64(x) + 0.5) / testW
			v := (float64(testH-1-y) + 0.5) / testH
			want := alt.Sample(u, v)
			got := out.At(x, y)
			assert.InDelta(t, want, got[0], 1e-12)
			assert.Equal(t, got[0], got[1])
			assert.Equal(t, got[0], got[2])
		}
	}
	assert.Equal(t, testW*testH, r.Stats().Debug)
}

func TestRenderDebugViewerSize(t *testing.T) {
	weather := &envmap.WeatherMap{Tex: rampTexture(t)}
	r := testRenderer(t, Collaborators{Noise: uniformNoise(t, 0, 0), Weather: weather})
	s := DefaultSettings()
	s.DensityOffset = 0.5
	s.Debug.WeatherViewer = true
	s.Debug.ViewerSize = 0.5
	f := testFrame(t, s)

	out, err := r.Render(context.Background(), f)
	require.NoError(t, err)
	// bottom-left 6x6 pixels are the overlay, the rest is the untouched scene
	side := 6
	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			inside := x < side && y >= testH-side
			if inside {
				u := (float64(x) + 0.5) / float64(side)
				v := (float64(testH-1-y) + 0.5) / float64(side)
				assert.InDelta(t, weather.Coverage(u, v), out.At(x, y)[0], 1e-12, "x=%d y=%d", x, y)
			} else {
				assert.Equal(t, f.Source.At(x, y), out.At(x, y), "x=%d y=%d", x, y)
			}
		}
	}
	assert.Equal(t, side*side, r.Stats().Debug)
}

func TestResolveDebugView(t *testing.T) {
	cases := []struct {
		name  string
		flags DebugFlags
		want  DebugView
	}{
		{"none", DebugFlags{}, DebugNone},
		{"shape", DebugFlags{NoiseViewer: true}, DebugShapeNoise},
		{"detail", DebugFlags{NoiseViewer: true, NoiseType: NoiseTypeDetail}, DebugDetailNoise},
		{"weather over noise", DebugFlags{NoiseViewer: true, WeatherViewer: true}, DebugWeatherMap},
		{"altitude over all", DebugFlags{NoiseViewer: true, WeatherViewer: true, AltitudeViewer: true}, DebugAltitudeMap},
		{"noise type alone", DebugFlags{NoiseType: NoiseTypeDetail}, DebugNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveDebugView(tc.flags))
		})
	}
	assert.Equal(t, "altitude-map", DebugAltitudeMap.String())
	assert.Equal(t, "none", DebugNone.String())
}

func TestNoiseDebugChannels(t *testing.T) {
	c := Collaborators{Noise: constNoise{
		shape:  constVolume(t, [4]float64{0.1, 0.2, 0.3, 0.4}),
		detail: constVolume(t, [4]float64{0.9, 0.8, 0.7, 0}),
	}}
	cases := []struct {
		name  string
		flags DebugFlags
		want  mgl64.Vec3
	}{
		{"mask green", DebugFlags{NoiseViewer: true, ChannelMask: mgl64.Vec4{0, 1, 0, 0}}, mgl64.Vec3{0, 0.2, 0}},
		{"greyscale", DebugFlags{NoiseViewer: true, Greyscale: true, ChannelMask: mgl64.Vec4{0, 1, 0, 0}}, mgl64.Vec3{0.2, 0.2, 0.2}},
		{"alpha mask is greyscale", DebugFlags{NoiseViewer: true, ChannelMask: mgl64.Vec4{0, 0, 0, 1}}, mgl64.Vec3{0.4, 0.4, 0.4}},
		{"all channels", DebugFlags{NoiseViewer: true, ShowAllChannels: true}, mgl64.Vec3{0.1, 0.2, 0.3}},
		{"default mask", DebugFlags{NoiseViewer: true}, mgl64.Vec3{0.1, 0, 0}},
		{"detail", DebugFlags{NoiseViewer: true, NoiseType: NoiseTypeDetail, ShowAllChannels: true}, mgl64.Vec3{0.9, 0.8, 0.7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := newDebugOverlay(ResolveDebugView(tc.flags), tc.flags, c, 8, 8)
			require.NotNil(t, o)
			got, ok := o.pixel(3, 5)
			require.True(t, ok)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, tc.want[i], got[i], 1e-12)
			}
		})
	}
	assert.Nil(t, newDebugOverlay(DebugNone, DebugFlags{}, c, 8, 8))
}

func TestEstimateCoverage(t *testing.T) {
	r := testRenderer(t, Collaborators{Noise: uniformNoise(t, 0, 0)})
	s := DefaultSettings()
	s.DensityOffset = 0.5
	f := testFrame(t, s)

	empty, err := r.EstimateCoverage(context.Background(), f, testW, testH, 500)
	require.NoError(t, err)
	assert.Equal(t, 500, empty.Trials)
	assert.Positive(t, empty.HitFraction)
	assert.Zero(t, empty.CloudFraction)
	assert.Zero(t, empty.MeanOpacity)

	f.Settings.DensityOffset = -0.5
	dense, err := r.EstimateCoverage(context.Background(), f, testW, testH, 500)
	require.NoError(t, err)
	assert.Positive(t, dense.CloudFraction)
	assert.LessOrEqual(t, dense.CloudFraction, dense.HitFraction)
	assert.Positive(t, dense.MeanOpacity)
	assert.LessOrEqual(t, dense.MeanOpacity, 1.0)

	again, err := r.EstimateCoverage(context.Background(), f, testW, testH, 500)
	require.NoError(t, err)
	assert.Equal(t, dense, again)

	none, err := r.EstimateCoverage(context.Background(), f, testW, testH, 0)
	require.NoError(t, err)
	assert.Zero(t, none.Trials)
}
