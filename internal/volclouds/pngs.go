package volclouds

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

// toUnit maps a linear channel value to [0,1] with display gamma applied.
// Frames are not normalized: cloud output is already in display range and
// per-frame scaling would make animations flicker.
func toUnit(v, gamma float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		v = 1
	}
	if gamma > 0 && gamma != 1 {
		v = math.Pow(v, 1.0/gamma)
	}
	return v
}

func toU16(v, gamma float64) uint16 {
	return uint16(math.Round(toUnit(v, gamma) * 65535.0))
}

// Image16 converts the buffer to a 16-bit image.
func (b *Buffer) Image16(gamma float64) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, b.W, b.H))
	const pxBytes = 8
	for y := 0; y < b.H; y++ {
		rowOff := y * img.Stride
		for x := 0; x < b.W; x++ {
			c := b.At(x, y)
			p := rowOff + x*pxBytes
			for ch := 0; ch < 3; ch++ {
				v := toU16(c[ch], gamma)
				img.Pix[p+2*ch] = uint8(v >> 8)
				img.Pix[p+2*ch+1] = uint8(v)
			}
			img.Pix[p+6], img.Pix[p+7] = 0xff, 0xff
		}
	}
	return img
}

// SavePNG16 writes one lossless 16-bit PNG.
func (b *Buffer) SavePNG16(path string, gamma float64) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, b.Image16(gamma)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// sequenceName is prefix_NNN.png with the index zero-padded to fit n frames.
func sequenceName(prefix string, i, n int) string {
	width := 1
	if n > 1 {
		width = int(math.Log10(float64(n-1))) + 1
	}
	return fmt.Sprintf("%s_%0*d.png", prefix, width, i)
}

// SavePNGSequence16 writes one 16-bit PNG per frame and returns the paths.
func SavePNGSequence16(frames []*Buffer, prefix string, gamma float64) ([]string, error) {
	paths := make([]string, 0, len(frames))
	for i, fr := range frames {
		p := sequenceName(prefix, i, len(frames))
		if err := fr.SavePNG16(p, gamma); err != nil {
			return paths, fmt.Errorf("frame %d: %w", i, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
