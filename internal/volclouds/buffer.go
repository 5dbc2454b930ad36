package volclouds

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lukaszgryglicki/volclouds/internal/texture"
)

var ErrSizeMismatch = errors.New("buffer size mismatch")

// Buffer is a flat linear RGB color buffer, row 0 at the top.
type Buffer struct {
	W, H int
	Buf  []float64 // flat: (y*W + x)*3 + c
}

// NewBuffer allocates a black buffer.
func NewBuffer(w, h int) (*Buffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("buffer resolution must be positive, got %dx%d", w, h)
	}
	return &Buffer{W: w, H: h, Buf: make([]float64, w*h*3)}, nil
}

// GradientBuffer fills a buffer with a vertical gradient from top to bottom.
func GradientBuffer(w, h int, top, bottom mgl64.Vec3) (*Buffer, error) {
	b, err := NewBuffer(w, h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		c := lerpVec3(top, bottom, t)
		for x := 0; x < w; x++ {
			b.Set(x, y, c)
		}
	}
	return b, nil
}

// LoadBackground reads an image resampled to w×h.
func LoadBackground(path string, w, h int) (*Buffer, error) {
	tex, err := texture.LoadImage2D(path, w, h, 3, texture.Clamp)
	if err != nil {
		return nil, err
	}
	b, err := NewBuffer(tex.W, tex.H)
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.H; y++ {
		// textures keep v=0 at the bottom
		ty := b.H - 1 - y
		for x := 0; x < b.W; x++ {
			b.Set(x, y, mgl64.Vec3{tex.At(x, ty, ChR), tex.At(x, ty, ChG), tex.At(x, ty, ChB)})
		}
	}
	return b, nil
}

func (b *Buffer) idx(x, y, c int) int { return (y*b.W+x)*3 + c }

func (b *Buffer) At(x, y int) mgl64.Vec3 {
	i := b.idx(x, y, ChR)
	return mgl64.Vec3{b.Buf[i], b.Buf[i+1], b.Buf[i+2]}
}

func (b *Buffer) Set(x, y int, c mgl64.Vec3) {
	i := b.idx(x, y, ChR)
	b.Buf[i], b.Buf[i+1], b.Buf[i+2] = c[0], c[1], c[2]
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{W: b.W, H: b.H, Buf: append([]float64(nil), b.Buf...)}
}
