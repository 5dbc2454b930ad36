package envmap

import (
	"context"

	"github.com/lukaszgryglicki/volclouds/internal/texture"
)

// WeatherMap holds horizontal cloud coverage in [0,1].
type WeatherMap struct {
	Tex *texture.Texture2D
}

// NewWeatherMap generates (or loads) a weather map.
func NewWeatherMap(ctx context.Context, s MapSettings) (*WeatherMap, error) {
	tex, err := buildMap(ctx, s, texture.Wrap)
	if err != nil {
		return nil, err
	}
	return &WeatherMap{Tex: tex}, nil
}

// Coverage returns coverage at (u,v). A missing map means full coverage.
func (w *WeatherMap) Coverage(u, v float64) float64 {
	if w == nil || w.Tex == nil {
		return 1
	}
	return w.Tex.Sample1(u, v)
}

// Texture exposes the raw map for debug views.
func (w *WeatherMap) Texture() *texture.Texture2D {
	if w == nil {
		return nil
	}
	return w.Tex
}
