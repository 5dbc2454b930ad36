package envmap

import (
	"github.com/lukaszgryglicki/volclouds/internal/texture"
)

// DefaultHeightGradient is a cumulus-like vertical profile: ramps up over the
// bottom 20% of the layer, holds, and fades out over the top 30%.
func DefaultHeightGradient(n int) *texture.Gradient1D {
	if n < 2 {
		n = GradientEntries
	}
	vals := make([]float64, n)
	for i := range vals {
		t := float64(i) / float64(n-1)
		vals[i] = clamp01(t/0.2) * clamp01((1-t)/0.3)
	}
	return &texture.Gradient1D{Values: vals}
}

// LoadHeightGradient loads a gradient strip image, falling back to the default
// profile when path is empty.
func LoadHeightGradient(path string) (*texture.Gradient1D, error) {
	if path == "" {
		return DefaultHeightGradient(GradientEntries), nil
	}
	return texture.LoadGradient(path, GradientEntries)
}
