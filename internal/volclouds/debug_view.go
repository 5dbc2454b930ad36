package volclouds

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lukaszgryglicki/volclouds/internal/texture"
)

// DebugView selects a raw texture to display instead of the clouds.
type DebugView uint8

const (
	DebugNone DebugView = iota
	DebugShapeNoise
	DebugDetailNoise
	DebugWeatherMap
	DebugAltitudeMap
)

func (v DebugView) String() string {
	switch v {
	case DebugShapeNoise:
		return "shape-noise"
	case DebugDetailNoise:
		return "detail-noise"
	case DebugWeatherMap:
		return "weather-map"
	case DebugAltitudeMap:
		return "altitude-map"
	}
	return "none"
}

const (
	NoiseTypeShape  = "shape"
	NoiseTypeDetail = "detail"
)

// DebugFlags are the viewer toggles of the individual generators.
type DebugFlags struct {
	AltitudeViewer  bool       `json:"altitudeViewer" yaml:"altitudeViewer"`
	WeatherViewer   bool       `json:"weatherViewer" yaml:"weatherViewer"`
	NoiseViewer     bool       `json:"noiseViewer" yaml:"noiseViewer"`
	NoiseType       string     `json:"noiseType" yaml:"noiseType"` // shape (default) or detail
	SliceDepth      float64    `json:"sliceDepth" yaml:"sliceDepth"`
	TileAmount      float64    `json:"tileAmount" yaml:"tileAmount"`
	ViewerSize      float64    `json:"viewerSize" yaml:"viewerSize"` // 0 or 1 means full frame
	ChannelMask     mgl64.Vec4 `json:"channelMask" yaml:"channelMask"`
	Greyscale       bool       `json:"greyscale" yaml:"greyscale"`
	ShowAllChannels bool       `json:"showAllChannels" yaml:"showAllChannels"`
}

func (f DebugFlags) sanitized() DebugFlags {
	if !(f.TileAmount > 0) {
		f.TileAmount = 1
	}
	f.ViewerSize = clamp01(f.ViewerSize)
	if f.ChannelMask == (mgl64.Vec4{}) {
		f.ChannelMask = mgl64.Vec4{1, 0, 0, 0}
	}
	return f
}

// ResolveDebugView picks the active view: altitude > weather > noise > none.
func ResolveDebugView(f DebugFlags) DebugView {
	switch {
	case f.AltitudeViewer:
		return DebugAltitudeMap
	case f.WeatherViewer:
		return DebugWeatherMap
	case f.NoiseViewer && f.NoiseType == NoiseTypeDetail:
		return DebugDetailNoise
	case f.NoiseViewer:
		return DebugShapeNoise
	}
	return DebugNone
}

// debugOverlay renders the selected texture for a frame.
type debugOverlay struct {
	view  DebugView
	flags DebugFlags
	w, h  int
	side  float64 // overlay square side in pixels, 0 for full frame
	tex2D *texture.Texture2D
	tex3D *texture.Texture3D
}

func newDebugOverlay(view DebugView, flags DebugFlags, c Collaborators, w, h int) *debugOverlay {
	if view == DebugNone {
		return nil
	}
	o := &debugOverlay{view: view, flags: flags.sanitized(), w: w, h: h}
	if o.flags.ViewerSize > 0 && o.flags.ViewerSize < 1 {
		o.side = o.flags.ViewerSize * float64(h)
	}
	switch view {
	case DebugAltitudeMap:
		o.tex2D = c.Altitude.Texture()
	case DebugWeatherMap:
		o.tex2D = c.Weather.Texture()
	case DebugShapeNoise:
		if c.Noise != nil {
			o.tex3D = c.Noise.Shape()
		}
	case DebugDetailNoise:
		if c.Noise != nil {
			o.tex3D = c.Noise.Detail()
		}
	}
	return o
}

// pixel returns the overlay color for (x,y) and whether the overlay covers it.
func (o *debugOverlay) pixel(x, y int) (mgl64.Vec3, bool) {
	// uv has v=0 at the bottom row, like the textures
	fx := float64(x) + 0.5
	fy := float64(o.h-1-y) + 0.5
	var u, v float64
	if o.side > 0 {
		if fx >= o.side || fy >= o.side {
			return mgl64.Vec3{}, false
		}
		u, v = fx/o.side, fy/o.side
	} else {
		u, v = fx/float64(o.w), fy/float64(o.h)
	}
	u *= o.flags.TileAmount
	v *= o.flags.TileAmount

	if o.view == DebugAltitudeMap || o.view == DebugWeatherMap {
		s := o.tex2D.Sample1(frac(u), frac(v))
		return mgl64.Vec3{s, s, s}, true
	}
	s := o.tex3D.Sample(u, v, o.flags.SliceDepth)
	if o.flags.ShowAllChannels {
		return mgl64.Vec3{s[0], s[1], s[2]}, true
	}
	m := o.flags.ChannelMask
	masked := mgl64.Vec4{s[0] * m[0], s[1] * m[1], s[2] * m[2], s[3] * m[3]}
	if o.flags.Greyscale || m[3] == 1 {
		g := masked[0] + masked[1] + masked[2] + masked[3]
		return mgl64.Vec3{g, g, g}, true
	}
	return masked.Vec3(), true
}

// frac keeps tiled map coordinates inside [0,1).
func frac(x float64) float64 { return x - math.Floor(x) }
