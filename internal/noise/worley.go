package noise

import (
	"math"
	"math/rand"
)

// worleyGrid holds one feature point per cell of an n×n×n lattice over the
// unit cube. Lookups wrap, so the resulting noise tiles.
type worleyGrid struct {
	n      int
	points []float64 // (((z*n)+y)*n+x)*3, in unit-cube coordinates
}

func newWorleyGrid(n int, rng *rand.Rand) *worleyGrid {
	if n < 1 {
		n = 1
	}
	g := &worleyGrid{n: n, points: make([]float64, n*n*n*3)}
	cell := 1 / float64(n)
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				i := ((z*n+y)*n + x) * 3
				g.points[i+0] = (float64(x) + rng.Float64()) * cell
				g.points[i+1] = (float64(y) + rng.Float64()) * cell
				g.points[i+2] = (float64(z) + rng.Float64()) * cell
			}
		}
	}
	return g
}

// sample returns inverted, cell-normalized distance to the nearest feature
// point: 1 on a feature point, falling to 0 one cell away.
func (g *worleyGrid) sample(x, y, z float64) float64 {
	n := g.n
	cx := int(math.Floor(x * float64(n)))
	cy := int(math.Floor(y * float64(n)))
	cz := int(math.Floor(z * float64(n)))
	minD2 := math.MaxFloat64
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				ix, iy, iz := cx+dx, cy+dy, cz+dz
				// shift wrapped cells so the point lands next to the query
				wx, ox := wrapCell(ix, n)
				wy, oy := wrapCell(iy, n)
				wz, oz := wrapCell(iz, n)
				i := ((wz*n+wy)*n + wx) * 3
				px := g.points[i+0] + ox
				py := g.points[i+1] + oy
				pz := g.points[i+2] + oz
				ddx, ddy, ddz := px-x, py-y, pz-z
				if d2 := ddx*ddx + ddy*ddy + ddz*ddz; d2 < minD2 {
					minD2 = d2
				}
			}
		}
	}
	d := math.Sqrt(minD2) * float64(n)
	if d > 1 {
		d = 1
	}
	return 1 - d
}

// wrapCell maps a cell index into [0,n) and returns the unit-cube offset to add
// to the wrapped cell's point.
func wrapCell(i, n int) (int, float64) {
	switch {
	case i < 0:
		return i + n, -1
	case i >= n:
		return i - n, 1
	}
	return i, 0
}

// worleyFBM layers three grids at increasing frequency with the given persistence.
type worleyFBM struct {
	grids       [3]*worleyGrid
	persistence float64
}

func newWorleyFBM(cells [3]int, persistence float64, rng *rand.Rand) *worleyFBM {
	f := &worleyFBM{persistence: persistence}
	for i, c := range cells {
		f.grids[i] = newWorleyGrid(c, rng)
	}
	return f
}

func (f *worleyFBM) sample(x, y, z float64) float64 {
	p := f.persistence
	v := f.grids[0].sample(x, y, z) + f.grids[1].sample(x, y, z)*p + f.grids[2].sample(x, y, z)*p*p
	return v / (1 + p + p*p)
}
