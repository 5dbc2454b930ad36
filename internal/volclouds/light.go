package volclouds

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// Sun is a directional light. ToLight points from the scene towards the sun.
type Sun struct {
	ToLight mgl64.Vec3 // unit
	Color   mgl64.Vec3 // each in [0,1]
}

// NewSun normalizes the direction and clamps the color.
func NewSun(toLight, color mgl64.Vec3) (Sun, error) {
	if toLight.Len() == 0 || !isFinite(toLight.Len()) {
		return Sun{}, errors.New("sun direction must be non-zero and finite")
	}
	return Sun{ToLight: toLight.Normalize(), Color: clampVec3(color)}, nil
}
