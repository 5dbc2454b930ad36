package volclouds

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lukaszgryglicki/volclouds/internal/envmap"
	"github.com/lukaszgryglicki/volclouds/internal/texture"
)

var defaultHeightGradient = envmap.DefaultHeightGradient(envmap.GradientEntries)

// Sampler is the density field for one frame. Every input is a read-only
// snapshot, so a Sampler can be shared by all render workers.
type Sampler struct {
	bounds   BoundingVolume
	size     mgl64.Vec3
	centre   mgl64.Vec3
	maxXZ    float64
	s        Settings
	time     float64
	shape    *texture.Texture3D
	detail   *texture.Texture3D
	weather  *envmap.WeatherMap
	altitude *envmap.AltitudeMap
	gradient *texture.Gradient1D

	shapeWeights  mgl64.Vec4
	detailWeights mgl64.Vec3
	shapeDrift    mgl64.Vec3
	detailDrift   mgl64.Vec3
}

// NewSampler snapshots the collaborators for a frame at time t (seconds).
// s is sanitized here.
func NewSampler(bounds BoundingVolume, s Settings, c Collaborators, t float64) *Sampler {
	s = s.Sanitized()
	size := bounds.Size()
	d := &Sampler{
		bounds:   bounds,
		size:     size,
		centre:   bounds.Centre(),
		maxXZ:    math.Max(size.X(), size.Z()),
		s:        s,
		time:     s.AnimationTime(t),
		weather:  c.Weather,
		altitude: c.Altitude,
		gradient: c.HeightGradient,
	}
	if c.Noise != nil {
		d.shape = c.Noise.Shape()
		d.detail = c.Noise.Detail()
	}
	if d.gradient == nil || len(d.gradient.Values) == 0 {
		d.gradient = defaultHeightGradient
	}
	if sum := s.ShapeNoiseWeights[0] + s.ShapeNoiseWeights[1] + s.ShapeNoiseWeights[2] + s.ShapeNoiseWeights[3]; sum != 0 {
		d.shapeWeights = s.ShapeNoiseWeights.Mul(1 / sum)
	}
	if sum := s.DetailNoiseWeights[0] + s.DetailNoiseWeights[1] + s.DetailNoiseWeights[2]; sum != 0 {
		d.detailWeights = s.DetailNoiseWeights.Mul(1 / sum)
	}
	tm := d.time
	d.shapeDrift = s.ShapeOffset.Mul(offsetSpeed).Add(mgl64.Vec3{tm, tm * 0.1, tm * 0.2}.Mul(s.BaseSpeed))
	d.detailDrift = s.DetailOffset.Mul(offsetSpeed).Add(mgl64.Vec3{tm * 0.4, -tm, tm * 0.1}.Mul(s.DetailSpeed))
	return d
}

// Settings returns the sanitized snapshot the sampler works with.
func (d *Sampler) Settings() Settings { return d.s }

// Sample returns the cloud density at p, always >= 0.
func (d *Sampler) Sample(p mgl64.Vec3) float64 {
	return d.density(p, true)
}

// BaseShape returns the density before detail erosion.
func (d *Sampler) BaseShape(p mgl64.Vec3) float64 {
	return d.density(p, false)
}

func (d *Sampler) density(p mgl64.Vec3, withDetail bool) float64 {
	if d.shape == nil || !d.bounds.Contains(p) {
		return 0
	}
	uvw := d.size.Mul(0.5).Add(p).Mul(baseScale * d.s.CloudScale)
	sp := uvw.Add(d.shapeDrift)
	sn := d.shape.Sample(sp[0], sp[1], sp[2])
	shapeFBM := sn[0]*d.shapeWeights[0] + sn[1]*d.shapeWeights[1] + sn[2]*d.shapeWeights[2] + sn[3]*d.shapeWeights[3]

	u, v := d.mapUV(p)
	falloff := 1 - d.heightWeight(p, u, v)
	shaped := math.Max(0, shapeFBM-falloff) * d.weather.Coverage(u, v)

	base := math.Max(0, shaped-d.s.DensityOffset) * d.s.DensityMultiplier
	if !withDetail || base <= 0 || d.s.DetailNoiseWeight <= 0 || d.detail == nil {
		return base
	}

	dp := uvw.Mul(d.s.DetailNoiseScale).Add(d.detailDrift)
	dn := d.detail.Sample(dp[0], dp[1], dp[2])
	// negative weights must not turn erosion into extra density
	detailFBM := math.Max(0, dn[0]*d.detailWeights[0]+dn[1]*d.detailWeights[1]+dn[2]*d.detailWeights[2])
	// erode edges more than cores
	oneMinusShape := math.Max(0, 1-shapeFBM)
	erodeWeight := oneMinusShape * oneMinusShape * oneMinusShape
	erode := d.s.DetailNoiseWeight * detailFBM * erodeWeight * d.s.DensityMultiplier
	return math.Max(0, base-erode)
}

// mapUV projects p onto the horizontal map space shared by weather and altitude.
func (d *Sampler) mapUV(p mgl64.Vec3) (float64, float64) {
	u := (d.size.X()*0.5 + (p.X() - d.centre.X())) / d.maxXZ
	v := (d.size.Z()*0.5 + (p.Z() - d.centre.Z())) / d.maxXZ
	return u, v
}

// heightWeight is the vertical profile above the local cloud base, faded out
// near the horizontal container walls.
func (d *Sampler) heightWeight(p mgl64.Vec3, u, v float64) float64 {
	h := (p.Y() - d.bounds.Min.Y()) / d.size.Y()
	floor := d.altitude.Floor(u, v)
	if h < floor || floor >= 1 {
		return 0
	}
	g, _ := d.gradient.Sample((h - floor) / (1 - floor))

	dx := math.Min(containerEdgeFadeDst, math.Min(p.X()-d.bounds.Min.X(), d.bounds.Max.X()-p.X()))
	dz := math.Min(containerEdgeFadeDst, math.Min(p.Z()-d.bounds.Min.Z(), d.bounds.Max.Z()-p.Z()))
	edge := math.Min(dx, dz) / containerEdgeFadeDst
	return clamp01(g) * clamp01(edge)
}
