package volclouds

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a world-space ray with unit direction.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// Camera is a pinhole camera, Y up.
type Camera struct {
	Position mgl64.Vec3 `json:"position" yaml:"position"`
	Target   mgl64.Vec3 `json:"target" yaml:"target"`
	Up       mgl64.Vec3 `json:"up" yaml:"up"`
	FovDeg   float64    `json:"fovDeg" yaml:"fovDeg"`
}

// Validate checks the camera can produce a view matrix.
func (c Camera) Validate() error {
	if c.Target.Sub(c.Position).Len() == 0 {
		return errors.New("camera target must differ from position")
	}
	if c.Up.Len() == 0 {
		return errors.New("camera up vector must be non-zero")
	}
	if c.Target.Sub(c.Position).Cross(c.Up).Len() == 0 {
		return errors.New("camera up vector must not be parallel to the view direction")
	}
	if c.FovDeg <= 0 || c.FovDeg >= 180 {
		return fmt.Errorf("camera fovDeg must be in (0, 180), got %g", c.FovDeg)
	}
	return nil
}

// rayGen turns pixel coordinates into world rays for a fixed viewport.
type rayGen struct {
	eye    mgl64.Vec3
	invVP  mgl64.Mat4
	w, h   int
	fw, fh float64
}

func (c Camera) rays(w, h int) rayGen {
	aspect := float64(w) / float64(h)
	proj := mgl64.Perspective(mgl64.DegToRad(c.FovDeg), aspect, camNear, camFar)
	view := mgl64.LookAtV(c.Position, c.Target, c.Up)
	return rayGen{
		eye:   c.Position,
		invVP: proj.Mul4(view).Inv(),
		w:     w,
		h:     h,
		fw:    float64(w),
		fh:    float64(h),
	}
}

// ray returns the ray through the centre of pixel (x,y); y=0 is the top row.
func (g rayGen) ray(x, y int) Ray {
	nx := 2*(float64(x)+0.5)/g.fw - 1
	ny := 1 - 2*(float64(y)+0.5)/g.fh
	far := g.invVP.Mul4x1(mgl64.Vec4{nx, ny, 1, 1})
	p := far.Vec3().Mul(1 / far[3])
	return Ray{Origin: g.eye, Dir: p.Sub(g.eye).Normalize()}
}

// RayForPixel is a convenience wrapper used outside of the render loop.
func (c Camera) RayForPixel(x, y, w, h int) Ray {
	return c.rays(w, h).ray(x, y)
}
