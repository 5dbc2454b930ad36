// Package envmap builds the 2D environment maps that modulate cloud density:
// the weather map (horizontal coverage), the altitude map (per-column cloud
// base) and the vertical height gradient profile.
package envmap

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lukaszgryglicki/volclouds/internal/noise"
	"github.com/lukaszgryglicki/volclouds/internal/texture"
)

const (
	Resolution      = 128
	Octaves         = 4
	Frequency       = 3
	GradientEntries = 64
	MaxResolution   = 4096
)

// MapSettings describe a procedurally generated (or loaded) single channel map.
type MapSettings struct {
	Seed       int64   `json:"seed" yaml:"seed"`
	Resolution int     `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	Octaves    int     `json:"octaves,omitempty" yaml:"octaves,omitempty"`
	Frequency  float64 `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Intensity  float64 `json:"intensity,omitempty" yaml:"intensity,omitempty"` // 0 means 1
	Bias       float64 `json:"bias,omitempty" yaml:"bias,omitempty"`
	// PNG, when set, replaces the procedural map with an image (red channel).
	PNG string `json:"png,omitempty" yaml:"png,omitempty"`
}

func (s MapSettings) WithDefaults() MapSettings {
	if s.Resolution <= 0 {
		s.Resolution = Resolution
	}
	if s.Octaves <= 0 {
		s.Octaves = Octaves
	}
	if s.Frequency <= 0 {
		s.Frequency = Frequency
	}
	if s.Intensity == 0 {
		s.Intensity = 1
	}
	return s
}

// buildMap produces a clamped [0,1] single channel map from s.
func buildMap(ctx context.Context, s MapSettings, mode texture.Addressing) (*texture.Texture2D, error) {
	s = s.WithDefaults()
	if s.PNG != "" {
		return texture.LoadImage2D(s.PNG, s.Resolution, s.Resolution, 1, mode)
	}
	tex, err := texture.NewTexture2D(s.Resolution, s.Resolution, 1, mode)
	if err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}
	field := noise.NewField2D(s.Octaves, s.Frequency, s.Seed)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for y := 0; y < tex.H; y++ {
		y := y
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v := (float64(y) + 0.5) / float64(tex.H)
			for x := 0; x < tex.W; x++ {
				u := (float64(x) + 0.5) / float64(tex.W)
				tex.Set(x, y, 0, clamp01(field.At(u, v)*s.Intensity+s.Bias))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tex, nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
