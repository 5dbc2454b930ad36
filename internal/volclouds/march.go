package volclouds

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the per-ray march state machine.
type State uint8

const (
	EnteringVolume State = iota // ray/box test pending
	Marching                    // stepping through the volume
	Exited                      // left the volume (or never entered it)
	Saturated                   // transmittance fell below saturationEpsilon
)

func (s State) String() string {
	switch s {
	case EnteringVolume:
		return "entering"
	case Marching:
		return "marching"
	case Exited:
		return "exited"
	case Saturated:
		return "saturated"
	}
	return "unknown"
}

// MarchState is the transient per-ray state.
type MarchState struct {
	State            State
	Transmittance    float64
	AccumulatedLight mgl64.Vec3
	Distance         float64
}

// MarchResult is what a finished ray contributes to its pixel.
type MarchResult struct {
	Color         mgl64.Vec3
	Transmittance float64
	State         State
	Hit           bool // the ray intersected the volume
	Steps         int
}

// Integrator marches view rays through the density field.
type Integrator struct {
	bounds     BoundingVolume
	sampler    *Sampler
	sun        Sun
	light      LightingParameters
	step       float64
	lightSteps int
	dither     float64
	colA, colB mgl64.Vec3

	// Observe, if set, is called with every state transition and step.
	Observe func(MarchState)
}

// NewIntegrator uses the sampler's sanitized settings.
func NewIntegrator(sampler *Sampler, sun Sun) *Integrator {
	s := sampler.Settings()
	return &Integrator{
		bounds:     sampler.bounds,
		sampler:    sampler,
		sun:        sun,
		light:      s.Lighting(),
		step:       s.StepSizeRender,
		lightSteps: s.NumStepsLight,
		dither:     s.RayOffsetStrength,
		colA:       s.ColA,
		colB:       s.ColB,
	}
}

func (in *Integrator) observe(st MarchState) {
	if in.Observe != nil {
		in.Observe(st)
	}
}

// skyTint is the ambient gradient for a view direction.
func (in *Integrator) skyTint(dir mgl64.Vec3) mgl64.Vec3 {
	return lerpVec3(in.colA, in.colB, math.Sqrt(clamp01(dir.Y())))
}

// March integrates one ray. depth is the scene depth along the ray (+Inf
// when there is no geometry) and offset in [0,1) is the pixel's dither value.
func (in *Integrator) March(r Ray, background mgl64.Vec3, depth, offset float64) MarchResult {
	st := MarchState{State: EnteringVolume, Transmittance: 1}
	in.observe(st)

	ok, dstToBox, dstInside := in.bounds.Intersect(r)
	limit := math.Min(dstInside, depth-dstToBox)
	if !ok || !(limit > 0) {
		st.State = Exited
		in.observe(st)
		return MarchResult{Color: background, Transmittance: 1, State: Exited}
	}

	entry := r.At(dstToBox)
	ph := phase(r.Dir.Dot(in.sun.ToLight), in.light)
	ambient := in.skyTint(r.Dir).Mul(in.light.DarknessThreshold)

	res := MarchResult{Hit: true}
	st.State = Marching
	st.Distance = offset * in.dither
	for st.Distance < limit {
		p := entry.Add(r.Dir.Mul(st.Distance))
		res.Steps++
		if d := in.sampler.Sample(p); d > 0 {
			lt := in.lightMarch(p)
			inscatter := in.sun.Color.Mul(lt * ph).Add(ambient)
			st.AccumulatedLight = st.AccumulatedLight.Add(inscatter.Mul(d * in.step * st.Transmittance))
			st.Transmittance *= beer(d * in.step * in.light.AbsorptionThroughCloud)
			if st.Transmittance < saturationEpsilon {
				st.State = Saturated
				in.observe(st)
				break
			}
		}
		st.Distance += in.step
		in.observe(st)
	}
	if st.State == Marching {
		st.State = Exited
		in.observe(st)
	}

	res.State = st.State
	res.Transmittance = st.Transmittance
	res.Color = background.Mul(st.Transmittance).Add(st.AccumulatedLight)
	return res
}

// lightMarch estimates how much sunlight reaches p, floored at the darkness
// threshold so shadowed cloud never goes fully black.
func (in *Integrator) lightMarch(p mgl64.Vec3) float64 {
	dir := in.sun.ToLight
	_, _, inside := in.bounds.rayBox(p, newRayRecips(dir))
	stepSize := inside / float64(in.lightSteps)
	total := 0.0
	for i := 0; i < in.lightSteps; i++ {
		p = p.Add(dir.Mul(stepSize))
		total += math.Max(0, in.sampler.Sample(p)*stepSize)
	}
	t := beer(total * in.light.AbsorptionTowardSun)
	dt := in.light.DarknessThreshold
	return dt + t*(1-dt)
}
