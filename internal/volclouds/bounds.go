package volclouds

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidBounds = errors.New("invalid bounding volume")

// BoundingVolume is the axis-aligned cloud container in world space.
type BoundingVolume struct {
	Min, Max mgl64.Vec3
}

// NewBoundingVolume validates min < max on every axis.
func NewBoundingVolume(min, max mgl64.Vec3) (BoundingVolume, error) {
	for i := 0; i < 3; i++ {
		if !(min[i] < max[i]) {
			return BoundingVolume{}, fmt.Errorf("%w: min %v must be < max %v on every axis", ErrInvalidBounds, min, max)
		}
	}
	return BoundingVolume{Min: min, Max: max}, nil
}

// ContainerBounds builds the box of a container transform: position ± scale/2.
func ContainerBounds(position, scale mgl64.Vec3) (BoundingVolume, error) {
	half := scale.Mul(0.5)
	return NewBoundingVolume(position.Sub(half), position.Add(half))
}

func (b BoundingVolume) Size() mgl64.Vec3   { return b.Max.Sub(b.Min) }
func (b BoundingVolume) Centre() mgl64.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }

// Contains reports whether p lies inside the box (faces included).
func (b BoundingVolume) Contains(p mgl64.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

type rayRecips struct {
	inv [3]float64
	par [3]bool // parallel flags (|D| < eps)
}

func newRayRecips(d mgl64.Vec3) rayRecips {
	var rr rayRecips
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			rr.par[i] = true
			continue
		}
		rr.inv[i] = 1 / d[i]
	}
	return rr
}

// rayBox is the slab test against the volume. It returns the distance from O
// to the box (0 when O is inside) and the distance travelled inside the box.
// ok is false when the ray misses or the box is entirely behind O.
func (b BoundingVolume) rayBox(O mgl64.Vec3, rr rayRecips) (ok bool, dstToBox, dstInside float64) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if rr.par[i] {
			if O[i] < b.Min[i] || O[i] > b.Max[i] {
				return false, 0, 0
			}
			continue
		}
		t1 := (b.Min[i] - O[i]) * rr.inv[i]
		t2 := (b.Max[i] - O[i]) * rr.inv[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}
	if tmax < 0 || tmin > tmax {
		return false, 0, 0
	}
	dstToBox = math.Max(0, tmin)
	dstInside = tmax - dstToBox
	if !(dstInside > 0) {
		return false, dstToBox, 0
	}
	return true, dstToBox, dstInside
}

// Intersect runs the slab test for a ray.
func (b BoundingVolume) Intersect(r Ray) (ok bool, dstToBox, dstInside float64) {
	return b.rayBox(r.Origin, newRayRecips(r.Dir))
}
