package volclouds

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestSanitizedClampsRanges(t *testing.T) {
	s := Settings{
		StepSizeRender:              1,
		NumStepsLight:               -3,
		RayOffsetStrength:           -2,
		DensityMultiplier:           -1,
		DetailNoiseWeight:           -0.5,
		LightAbsorptionThroughCloud: -1,
		LightAbsorptionTowardSun:    -1,
		DarknessThreshold:           2,
		ForwardScattering:           1.5,
		BackScattering:              -0.2,
		BaseBrightness:              7,
		PhaseFactor:                 -7,
		ColA:                        mgl64.Vec3{2, -1, 0.5},
	}
	got := s.Sanitized()
	assert.Equal(t, float64(MinStepSize), got.StepSizeRender)
	assert.Equal(t, 1, got.NumStepsLight)
	assert.Zero(t, got.RayOffsetStrength)
	assert.Zero(t, got.DensityMultiplier)
	assert.Zero(t, got.DetailNoiseWeight)
	assert.Zero(t, got.LightAbsorptionThroughCloud)
	assert.Zero(t, got.LightAbsorptionTowardSun)
	assert.Equal(t, 1.0, got.DarknessThreshold)
	assert.Equal(t, 1.0, got.ForwardScattering)
	assert.Equal(t, 0.0, got.BackScattering)
	assert.Equal(t, 1.0, got.BaseBrightness)
	assert.Equal(t, 0.0, got.PhaseFactor)
	assert.Equal(t, mgl64.Vec3{1, 0, 0.5}, got.ColA)

	// the receiver is a value; the caller keeps its copy
	assert.Equal(t, 1.0, s.StepSizeRender)
}

func TestSanitizedKeepsValidValues(t *testing.T) {
	d := DefaultSettings()
	d.StepSizeRender = 12
	got := d.Sanitized()
	assert.Equal(t, 12.0, got.StepSizeRender)
	assert.Equal(t, d.Lighting(), got.Lighting())
	assert.Equal(t, d.NumStepsLight, got.NumStepsLight)
}

func TestSanitizedStepSizeNaN(t *testing.T) {
	s := Settings{StepSizeRender: math.NaN()}
	assert.Equal(t, float64(MinStepSize), s.Sanitized().StepSizeRender)
}

func TestAnimationTimeFrozenWhenNotPlaying(t *testing.T) {
	s := DefaultSettings()
	s.TimeScale = 2
	assert.Zero(t, s.AnimationTime(10))
	s.Playing = true
	assert.Equal(t, 20.0, s.AnimationTime(10))
}
