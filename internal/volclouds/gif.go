package volclouds

import (
	"errors"
	"image"
	"image/color/palette"
	"image/gif"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// SaveAnimatedGIF writes one GIF frame per buffer, looping forever.
// delay is in 100ths of a second (e.g., 10 => 10 fps).
func SaveAnimatedGIF(frames []*Buffer, path string, delay int, gamma float64) error {
	if len(frames) == 0 {
		return errors.New("gif: no frames")
	}
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for _, fr := range frames {
		rgba := image.NewNRGBA(image.Rect(0, 0, fr.W, fr.H))
		for y := 0; y < fr.H; y++ {
			rowOff := y * rgba.Stride
			for x := 0; x < fr.W; x++ {
				c := fr.At(x, y)
				p := rowOff + x*4
				rgba.Pix[p+0] = uint8(math.Round(toUnit(c[0], gamma) * 255))
				rgba.Pix[p+1] = uint8(math.Round(toUnit(c[1], gamma) * 255))
				rgba.Pix[p+2] = uint8(math.Round(toUnit(c[2], gamma) * 255))
				rgba.Pix[p+3] = 255
			}
		}
		// quantize
		pimg := image.NewPaletted(rgba.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), rgba, image.Point{})
		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, out); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
