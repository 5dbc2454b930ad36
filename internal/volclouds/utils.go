package volclouds

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func isFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func clamp01(x float64) float64 { return mgl64.Clamp(x, 0, 1) }

func lerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 { return a.Add(b.Sub(a).Mul(t)) }

func clampVec3(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{clamp01(v[0]), clamp01(v[1]), clamp01(v[2])}
}

// pixelHash maps a pixel and seed to a stable value in [0,1), used to dither
// the march start between neighbouring pixels.
func pixelHash(x, y int, seed uint64) float64 {
	// SplitMix64 finalizer
	v := uint64(x)*0x9E3779B97F4A7C15 ^ uint64(y)*0xC2B2AE3D27D4EB4F ^ seed
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v ^= v >> 31
	return float64(v>>11) / float64(1<<53)
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
