package envmap

import (
	"context"

	"github.com/lukaszgryglicki/volclouds/internal/texture"
)

// AltitudeSettings extends MapSettings with the offset/multiplier applied to
// the raw altitude sample.
type AltitudeSettings struct {
	MapSettings `yaml:",inline"`
	Offset      float64 `json:"offset" yaml:"offset"`
	Multiplier  float64 `json:"multiplier" yaml:"multiplier"`
}

// AltitudeMap gives, per horizontal position, the normalized height of the
// cloud base: floor = clamp01(sample*Multiplier + Offset).
type AltitudeMap struct {
	Tex        *texture.Texture2D
	Offset     float64
	Multiplier float64
}

func NewAltitudeMap(ctx context.Context, s AltitudeSettings) (*AltitudeMap, error) {
	tex, err := buildMap(ctx, s.MapSettings, texture.Clamp)
	if err != nil {
		return nil, err
	}
	return &AltitudeMap{Tex: tex, Offset: s.Offset, Multiplier: s.Multiplier}, nil
}

// Sample returns the raw altitude value at (u,v); missing maps read as 0.
func (a *AltitudeMap) Sample(u, v float64) float64 {
	if a == nil || a.Tex == nil {
		return 0
	}
	return a.Tex.Sample1(u, v)
}

// Floor returns the normalized cloud base height at (u,v). Without a map only
// the offset applies.
func (a *AltitudeMap) Floor(u, v float64) float64 {
	if a == nil {
		return 0
	}
	return clamp01(a.Sample(u, v)*a.Multiplier + a.Offset)
}

func (a *AltitudeMap) Texture() *texture.Texture2D {
	if a == nil {
		return nil
	}
	return a.Tex
}
