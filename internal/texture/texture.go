// Package texture holds the immutable sampled volumes fed to the cloud renderer:
// 2D maps, 3D noise volumes and 1D gradient lookups. Values are float64 and
// usually (but not necessarily) in [0,1].
package texture

import (
	"fmt"
	"math"
)

// Addressing selects how out-of-range coordinates are resolved.
type Addressing uint8

const (
	Wrap  Addressing = iota // repeat, used for tiling noise
	Clamp                   // clamp to edge
)

// Texture2D is a W×H grid with C channels, laid out as ((y*W)+x)*C + c.
type Texture2D struct {
	W, H, C int
	Mode    Addressing
	Pix     []float64
}

// NewTexture2D allocates a zeroed 2D texture.
func NewTexture2D(w, h, c int, mode Addressing) (*Texture2D, error) {
	if w <= 0 || h <= 0 || c <= 0 {
		return nil, fmt.Errorf("texture2d: dimensions must be positive, got %dx%dx%d", w, h, c)
	}
	return &Texture2D{W: w, H: h, C: c, Mode: mode, Pix: make([]float64, w*h*c)}, nil
}

func (t *Texture2D) idx(x, y, c int) int { return (y*t.W+x)*t.C + c }

// At returns the raw texel; channel indices past C read as zero.
func (t *Texture2D) At(x, y, c int) float64 {
	if c >= t.C {
		return 0
	}
	return t.Pix[t.idx(x, y, c)]
}

// Set writes a texel.
func (t *Texture2D) Set(x, y, c int, v float64) {
	t.Pix[t.idx(x, y, c)] = v
}

// Sample returns a bilinear sample of all channels (up to 4) at (u,v) in texture space.
// A nil texture samples as zero.
func (t *Texture2D) Sample(u, v float64) [4]float64 {
	var out [4]float64
	if t == nil {
		return out
	}
	fx := u*float64(t.W) - 0.5
	fy := v*float64(t.H) - 0.5
	x0f, y0f := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0f, fy-y0f
	x0 := address(int(x0f), t.W, t.Mode)
	x1 := address(int(x0f)+1, t.W, t.Mode)
	y0 := address(int(y0f), t.H, t.Mode)
	y1 := address(int(y0f)+1, t.H, t.Mode)
	n := t.C
	if n > 4 {
		n = 4
	}
	for c := 0; c < n; c++ {
		a := lerp(t.Pix[t.idx(x0, y0, c)], t.Pix[t.idx(x1, y0, c)], tx)
		b := lerp(t.Pix[t.idx(x0, y1, c)], t.Pix[t.idx(x1, y1, c)], tx)
		out[c] = lerp(a, b, ty)
	}
	return out
}

// Sample1 returns the first channel at (u,v).
func (t *Texture2D) Sample1(u, v float64) float64 {
	return t.Sample(u, v)[0]
}

// Texture3D is a W×H×D volume with C channels, laid out as (((z*H)+y)*W+x)*C + c.
type Texture3D struct {
	W, H, D, C int
	Pix        []float64
}

// NewTexture3D allocates a zeroed 3D texture. 3D textures always wrap.
func NewTexture3D(w, h, d, c int) (*Texture3D, error) {
	if w <= 0 || h <= 0 || d <= 0 || c <= 0 {
		return nil, fmt.Errorf("texture3d: dimensions must be positive, got %dx%dx%dx%d", w, h, d, c)
	}
	return &Texture3D{W: w, H: h, D: d, C: c, Pix: make([]float64, w*h*d*c)}, nil
}

func (t *Texture3D) idx(x, y, z, c int) int { return ((z*t.H+y)*t.W+x)*t.C + c }

func (t *Texture3D) At(x, y, z, c int) float64 {
	if c >= t.C {
		return 0
	}
	return t.Pix[t.idx(x, y, z, c)]
}

func (t *Texture3D) Set(x, y, z, c int, v float64) {
	t.Pix[t.idx(x, y, z, c)] = v
}

// Slice returns the z-th slice (z in texels) as its own buffer slice, no copy.
func (t *Texture3D) Slice(z int) []float64 {
	n := t.W * t.H * t.C
	z = address(z, t.D, Wrap)
	return t.Pix[z*n : (z+1)*n]
}

// Sample returns a trilinear, wrapped sample of all channels (up to 4).
// A nil texture samples as zero.
func (t *Texture3D) Sample(u, v, w float64) [4]float64 {
	var out [4]float64
	if t == nil {
		return out
	}
	fx := u*float64(t.W) - 0.5
	fy := v*float64(t.H) - 0.5
	fz := w*float64(t.D) - 0.5
	x0f, y0f, z0f := math.Floor(fx), math.Floor(fy), math.Floor(fz)
	tx, ty, tz := fx-x0f, fy-y0f, fz-z0f
	x0, x1 := address(int(x0f), t.W, Wrap), address(int(x0f)+1, t.W, Wrap)
	y0, y1 := address(int(y0f), t.H, Wrap), address(int(y0f)+1, t.H, Wrap)
	z0, z1 := address(int(z0f), t.D, Wrap), address(int(z0f)+1, t.D, Wrap)
	n := t.C
	if n > 4 {
		n = 4
	}
	for c := 0; c < n; c++ {
		c00 := lerp(t.Pix[t.idx(x0, y0, z0, c)], t.Pix[t.idx(x1, y0, z0, c)], tx)
		c10 := lerp(t.Pix[t.idx(x0, y1, z0, c)], t.Pix[t.idx(x1, y1, z0, c)], tx)
		c01 := lerp(t.Pix[t.idx(x0, y0, z1, c)], t.Pix[t.idx(x1, y0, z1, c)], tx)
		c11 := lerp(t.Pix[t.idx(x0, y1, z1, c)], t.Pix[t.idx(x1, y1, z1, c)], tx)
		out[c] = lerp(lerp(c00, c10, ty), lerp(c01, c11, ty), tz)
	}
	return out
}

// Gradient1D is a clamped linear lookup table over [0,1].
type Gradient1D struct {
	Values []float64
}

// Sample returns the interpolated value at t; t outside [0,1] is clamped.
// An empty or nil gradient returns ok=false.
func (g *Gradient1D) Sample(t float64) (float64, bool) {
	if g == nil || len(g.Values) == 0 {
		return 0, false
	}
	n := len(g.Values)
	if n == 1 {
		return g.Values[0], true
	}
	if t <= 0 {
		return g.Values[0], true
	}
	if t >= 1 {
		return g.Values[n-1], true
	}
	f := t * float64(n-1)
	i := int(f)
	return lerp(g.Values[i], g.Values[i+1], f-float64(i)), true
}

func address(i, n int, mode Addressing) int {
	if mode == Clamp {
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
