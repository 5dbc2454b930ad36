package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
)

// FromImage resamples img to w×h (CatmullRom) and stores its RGBA channels as
// [0,1] floats. channels selects how many of R,G,B,A are kept (1..4).
// w or h <= 0 keeps the source size.
func FromImage(img image.Image, w, h, channels int, mode Addressing) (*Texture2D, error) {
	if channels < 1 || channels > 4 {
		return nil, fmt.Errorf("texture: channels must be in [1,4], got %d", channels)
	}
	b := img.Bounds()
	if w <= 0 {
		w = b.Dx()
	}
	if h <= 0 {
		h = b.Dy()
	}
	dst := image.NewNRGBA64(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	t, err := NewTexture2D(w, h, channels, mode)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := dst.NRGBA64At(x, y)
			vals := [4]float64{
				float64(c.R) / 65535.0,
				float64(c.G) / 65535.0,
				float64(c.B) / 65535.0,
				float64(c.A) / 65535.0,
			}
			// flip Y so v=0 is the bottom row
			ty := h - 1 - y
			for ch := 0; ch < channels; ch++ {
				t.Set(x, ty, ch, vals[ch])
			}
		}
	}
	return t, nil
}

// LoadImage2D decodes a PNG/JPEG file and converts it with FromImage.
func LoadImage2D(path string, w, h, channels int, mode Addressing) (*Texture2D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return FromImage(img, w, h, channels, mode)
}

// LoadGradient reads a gradient strip image and returns its red channel along
// the longer axis, resampled to n entries (n <= 0 keeps the image length).
// Horizontal strips run left to right, vertical strips bottom to top.
func LoadGradient(path string, n int) (*Gradient1D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gradient %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode gradient %s: %w", path, err)
	}
	b := img.Bounds()
	horizontal := b.Dx() >= b.Dy()
	length := b.Dy()
	if horizontal {
		length = b.Dx()
	}
	if n <= 0 {
		n = length
	}
	w, h := 1, n
	if horizontal {
		w, h = n, 1
	}
	t, err := FromImage(img, w, h, 1, Clamp)
	if err != nil {
		return nil, err
	}
	return &Gradient1D{Values: append([]float64(nil), t.Pix...)}, nil
}
