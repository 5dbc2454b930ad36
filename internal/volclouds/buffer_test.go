package volclouds

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer(t *testing.T) {
	b, err := NewBuffer(3, 2)
	require.NoError(t, err)
	assert.Len(t, b.Buf, 18)

	_, err = NewBuffer(0, 2)
	assert.Error(t, err)
}

func TestBufferSetAtClone(t *testing.T) {
	b, err := NewBuffer(3, 2)
	require.NoError(t, err)
	b.Set(2, 1, mgl64.Vec3{0.1, 0.2, 0.3})
	assert.Equal(t, mgl64.Vec3{0.1, 0.2, 0.3}, b.At(2, 1))
	assert.Equal(t, 0.3, b.Buf[(1*3+2)*3+ChB])

	c := b.Clone()
	c.Set(2, 1, mgl64.Vec3{})
	assert.Equal(t, mgl64.Vec3{0.1, 0.2, 0.3}, b.At(2, 1))
}

func TestGradientBuffer(t *testing.T) {
	top, bottom := mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}
	b, err := GradientBuffer(2, 3, top, bottom)
	require.NoError(t, err)
	assert.Equal(t, top, b.At(1, 0))
	assert.Equal(t, mgl64.Vec3{0.5, 0, 0.5}, b.At(0, 1))
	assert.Equal(t, bottom, b.At(0, 2))
}

func TestLoadBackgroundKeepsTopRow(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{R: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{B: 255, A: 255})
	path := filepath.Join(t.TempDir(), "bg.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	b, err := LoadBackground(path, 2, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1, b.At(0, 0)[ChR], 1e-9)
	assert.InDelta(t, 1, b.At(1, 1)[ChB], 1e-9)
	assert.InDelta(t, 0, b.At(1, 1)[ChR], 1e-9)

	_, err = LoadBackground(filepath.Join(t.TempDir(), "missing.png"), 2, 2)
	assert.Error(t, err)
}
