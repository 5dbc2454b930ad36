package volclouds

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Settings is the immutable per-frame configuration snapshot. It is passed by
// value into every render call; use Sanitized before sampling.
type Settings struct {
	// March
	StepSizeRender    float64 `json:"stepSizeRender" yaml:"stepSizeRender"`
	NumStepsLight     int     `json:"numStepsLight" yaml:"numStepsLight"`
	RayOffsetStrength float64 `json:"rayOffsetStrength" yaml:"rayOffsetStrength"`
	// Base shape
	CloudScale        float64    `json:"cloudScale" yaml:"cloudScale"`
	DensityMultiplier float64    `json:"densityMultiplier" yaml:"densityMultiplier"`
	DensityOffset     float64    `json:"densityOffset" yaml:"densityOffset"`
	ShapeOffset       mgl64.Vec3 `json:"shapeOffset" yaml:"shapeOffset"`
	ShapeNoiseWeights mgl64.Vec4 `json:"shapeNoiseWeights" yaml:"shapeNoiseWeights"`
	// Detail
	DetailNoiseScale   float64    `json:"detailNoiseScale" yaml:"detailNoiseScale"`
	DetailNoiseWeight  float64    `json:"detailNoiseWeight" yaml:"detailNoiseWeight"`
	DetailNoiseWeights mgl64.Vec3 `json:"detailNoiseWeights" yaml:"detailNoiseWeights"`
	DetailOffset       mgl64.Vec3 `json:"detailOffset" yaml:"detailOffset"`
	// Lighting
	LightAbsorptionThroughCloud float64 `json:"lightAbsorptionThroughCloud" yaml:"lightAbsorptionThroughCloud"`
	LightAbsorptionTowardSun    float64 `json:"lightAbsorptionTowardSun" yaml:"lightAbsorptionTowardSun"`
	DarknessThreshold           float64 `json:"darknessThreshold" yaml:"darknessThreshold"`
	ForwardScattering           float64 `json:"forwardScattering" yaml:"forwardScattering"`
	BackScattering              float64 `json:"backScattering" yaml:"backScattering"`
	BaseBrightness              float64 `json:"baseBrightness" yaml:"baseBrightness"`
	PhaseFactor                 float64 `json:"phaseFactor" yaml:"phaseFactor"`
	// Animation. TimeScale only applies while Playing.
	TimeScale   float64 `json:"timeScale" yaml:"timeScale"`
	BaseSpeed   float64 `json:"baseSpeed" yaml:"baseSpeed"`
	DetailSpeed float64 `json:"detailSpeed" yaml:"detailSpeed"`
	Playing     bool    `json:"playing" yaml:"playing"`
	// Sky
	ColA mgl64.Vec3 `json:"colA" yaml:"colA"`
	ColB mgl64.Vec3 `json:"colB" yaml:"colB"`

	Debug DebugFlags `json:"debug" yaml:"debug"`
}

// LightingParameters groups the light transport knobs.
type LightingParameters struct {
	AbsorptionThroughCloud float64
	AbsorptionTowardSun    float64
	DarknessThreshold      float64
	ForwardScattering      float64
	BackScattering         float64
	BaseBrightness         float64
	PhaseFactor            float64
}

// DefaultSettings returns the stock tuning values.
func DefaultSettings() Settings {
	return Settings{
		StepSizeRender:              StepSizeRender,
		NumStepsLight:               NumStepsLight,
		CloudScale:                  CloudScale,
		DensityMultiplier:           DensityMultiplier,
		ShapeNoiseWeights:           mgl64.Vec4{1, 0.48, 0.15, 0},
		DetailNoiseScale:            DetailNoiseScale,
		DetailNoiseWeight:           DetailNoiseWeight,
		DetailNoiseWeights:          mgl64.Vec3{1, 0.5, 0.5},
		LightAbsorptionThroughCloud: LightAbsorptionThroughCloud,
		LightAbsorptionTowardSun:    LightAbsorptionTowardSun,
		DarknessThreshold:           DarknessThreshold,
		ForwardScattering:           ForwardScattering,
		BackScattering:              BackScattering,
		BaseBrightness:              BaseBrightness,
		PhaseFactor:                 PhaseFactor,
		TimeScale:                   TimeScale,
		BaseSpeed:                   BaseSpeed,
		DetailSpeed:                 DetailSpeed,
		ColA:                        mgl64.Vec3{0.73, 0.84, 0.95},
		ColB:                        mgl64.Vec3{0.33, 0.55, 0.85},
		Debug: DebugFlags{
			TileAmount:  1,
			ChannelMask: mgl64.Vec4{1, 0, 0, 0},
		},
	}
}

// Sanitized returns a copy with every parameter clamped into its valid range.
func (s Settings) Sanitized() Settings {
	if !(s.StepSizeRender >= MinStepSize) {
		s.StepSizeRender = MinStepSize
	}
	if s.NumStepsLight < 1 {
		s.NumStepsLight = 1
	}
	s.RayOffsetStrength = nonNeg(s.RayOffsetStrength)
	s.DensityMultiplier = nonNeg(s.DensityMultiplier)
	s.DetailNoiseWeight = nonNeg(s.DetailNoiseWeight)
	s.LightAbsorptionThroughCloud = nonNeg(s.LightAbsorptionThroughCloud)
	s.LightAbsorptionTowardSun = nonNeg(s.LightAbsorptionTowardSun)
	s.DarknessThreshold = clamp01(s.DarknessThreshold)
	s.ForwardScattering = clamp01(s.ForwardScattering)
	s.BackScattering = clamp01(s.BackScattering)
	s.BaseBrightness = clamp01(s.BaseBrightness)
	s.PhaseFactor = clamp01(s.PhaseFactor)
	s.ColA = clampVec3(s.ColA)
	s.ColB = clampVec3(s.ColB)
	s.Debug = s.Debug.sanitized()
	return s
}

// AnimationTime is the drift time fed to the sampler: frozen outside a
// running simulation. BaseSpeed/DetailSpeed are applied on top unchanged.
func (s Settings) AnimationTime(t float64) float64 {
	if !s.Playing {
		return 0
	}
	return t * s.TimeScale
}

func (s Settings) Lighting() LightingParameters {
	return LightingParameters{
		AbsorptionThroughCloud: s.LightAbsorptionThroughCloud,
		AbsorptionTowardSun:    s.LightAbsorptionTowardSun,
		DarknessThreshold:      s.DarknessThreshold,
		ForwardScattering:      s.ForwardScattering,
		BackScattering:         s.BackScattering,
		BaseBrightness:         s.BaseBrightness,
		PhaseFactor:            s.PhaseFactor,
	}
}

func nonNeg(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}
