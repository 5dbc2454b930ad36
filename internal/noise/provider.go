// Package noise generates the tiling 3D noise volumes that drive cloud density:
// a 4-channel base shape volume (Perlin-Worley + three Worley octaves) and a
// 3-channel detail volume (Worley octaves).
package noise

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lukaszgryglicki/volclouds/internal/logging"
	"github.com/lukaszgryglicki/volclouds/internal/texture"
)

const (
	ShapeResolution  = 64
	DetailResolution = 32
	PerlinOctaves    = 4
	PerlinFrequency  = 4
	Persistence      = 0.5
	// MaxResolution bounds each volume side; a 4-channel volume at this size is 64 MiB.
	MaxResolution = 128
)

var (
	ShapeCells  = [3]int{2, 4, 8}
	DetailCells = [3]int{2, 4, 8}
)

// Settings are the generator parameters. Any change triggers a regeneration.
type Settings struct {
	Seed             int64   `json:"seed" yaml:"seed"`
	ShapeResolution  int     `json:"shapeResolution,omitempty" yaml:"shapeResolution,omitempty"`
	DetailResolution int     `json:"detailResolution,omitempty" yaml:"detailResolution,omitempty"`
	ShapeCells       [3]int  `json:"shapeCells,omitempty" yaml:"shapeCells,omitempty"`
	DetailCells      [3]int  `json:"detailCells,omitempty" yaml:"detailCells,omitempty"`
	PerlinOctaves    int     `json:"perlinOctaves,omitempty" yaml:"perlinOctaves,omitempty"`
	PerlinFrequency  float64 `json:"perlinFrequency,omitempty" yaml:"perlinFrequency,omitempty"`
	Persistence      float64 `json:"persistence,omitempty" yaml:"persistence,omitempty"`
}

// WithDefaults fills zero values.
func (s Settings) WithDefaults() Settings {
	if s.ShapeResolution <= 0 {
		s.ShapeResolution = ShapeResolution
	}
	if s.DetailResolution <= 0 {
		s.DetailResolution = DetailResolution
	}
	if s.ShapeCells == [3]int{} {
		s.ShapeCells = ShapeCells
	}
	if s.DetailCells == [3]int{} {
		s.DetailCells = DetailCells
	}
	if s.PerlinOctaves <= 0 {
		s.PerlinOctaves = PerlinOctaves
	}
	if s.PerlinFrequency <= 0 {
		s.PerlinFrequency = PerlinFrequency
	}
	if s.Persistence <= 0 {
		s.Persistence = Persistence
	}
	return s
}

// Provider owns the shape and detail volumes and regenerates them only when
// its settings change. Textures handed out are never mutated afterwards, so
// they are safe to read from many goroutines during a frame.
type Provider struct {
	mu          sync.Mutex
	settings    Settings
	dirty       bool
	shape       *texture.Texture3D
	detail      *texture.Texture3D
	generations int
	log         logging.Logger
}

func NewProvider(s Settings, log logging.Logger) *Provider {
	return &Provider{settings: s.WithDefaults(), dirty: true, log: logging.OrNop(log)}
}

// SetSettings replaces the generator parameters; volumes are rebuilt on the
// next Update only if something actually changed.
func (p *Provider) SetSettings(s Settings) {
	s = s.WithDefaults()
	p.mu.Lock()
	defer p.mu.Unlock()
	if s != p.settings {
		p.settings = s
		p.dirty = true
	}
}

// Update regenerates the volumes if needed.
func (p *Provider) Update(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.dirty {
		return nil
	}
	s := p.settings
	shape, detail, err := Generate(ctx, s)
	if err != nil {
		return err
	}
	p.shape, p.detail = shape, detail
	p.dirty = false
	p.generations++
	p.log.Debugf("Generated noise: shape=%d^3 cells=%v, detail=%d^3 cells=%v, seed=%d", s.ShapeResolution, s.ShapeCells, s.DetailResolution, s.DetailCells, s.Seed)
	return nil
}

// Shape returns the current base shape volume (nil before the first Update).
func (p *Provider) Shape() *texture.Texture3D {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shape
}

// Detail returns the current detail volume (nil before the first Update).
func (p *Provider) Detail() *texture.Texture3D {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.detail
}

// Generations reports how many times the volumes were built.
func (p *Provider) Generations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generations
}

// Generate builds both volumes for s (defaults applied).
func Generate(ctx context.Context, s Settings) (shape, detail *texture.Texture3D, err error) {
	s = s.WithDefaults()
	rng := rand.New(rand.NewSource(s.Seed))

	shapeFBM := [3]*worleyFBM{}
	for i := range shapeFBM {
		// each channel doubles the base cell count
		k := 1 << i
		shapeFBM[i] = newWorleyFBM([3]int{s.ShapeCells[0] * k, s.ShapeCells[1] * k, s.ShapeCells[2] * k}, s.Persistence, rng)
	}
	perlinWorley := newWorleyFBM(s.ShapeCells, s.Persistence, rng)
	pf := newPerlinField(s.PerlinOctaves, s.PerlinFrequency, s.Seed)

	detailFBM := [3]*worleyFBM{}
	for i := range detailFBM {
		k := 1 << i
		detailFBM[i] = newWorleyFBM([3]int{s.DetailCells[0] * k, s.DetailCells[1] * k, s.DetailCells[2] * k}, s.Persistence, rng)
	}

	shape, err = texture.NewTexture3D(s.ShapeResolution, s.ShapeResolution, s.ShapeResolution, 4)
	if err != nil {
		return nil, nil, fmt.Errorf("shape volume: %w", err)
	}
	detail, err = texture.NewTexture3D(s.DetailResolution, s.DetailResolution, s.DetailResolution, 3)
	if err != nil {
		return nil, nil, fmt.Errorf("detail volume: %w", err)
	}

	err = fillVolume(ctx, shape, func(x, y, z float64) [4]float64 {
		// Perlin-Worley: dilate the perlin field by the worley cells
		w := perlinWorley.sample(x, y, z)
		pw := clamp01(remap(pf.tiled3(x, y, z), w-1, 1, 0, 1))
		return [4]float64{pw, shapeFBM[0].sample(x, y, z), shapeFBM[1].sample(x, y, z), shapeFBM[2].sample(x, y, z)}
	})
	if err != nil {
		return nil, nil, err
	}
	err = fillVolume(ctx, detail, func(x, y, z float64) [4]float64 {
		return [4]float64{detailFBM[0].sample(x, y, z), detailFBM[1].sample(x, y, z), detailFBM[2].sample(x, y, z), 0}
	})
	if err != nil {
		return nil, nil, err
	}
	return shape, detail, nil
}

// fillVolume evaluates fn at every texel centre, one z slice per task.
func fillVolume(ctx context.Context, t *texture.Texture3D, fn func(x, y, z float64) [4]float64) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for z := 0; z < t.D; z++ {
		z := z
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fz := (float64(z) + 0.5) / float64(t.D)
			for y := 0; y < t.H; y++ {
				fy := (float64(y) + 0.5) / float64(t.H)
				for x := 0; x < t.W; x++ {
					fx := (float64(x) + 0.5) / float64(t.W)
					v := fn(fx, fy, fz)
					for c := 0; c < t.C && c < 4; c++ {
						t.Set(x, y, z, c, v[c])
					}
				}
			}
			return nil
		})
	}
	return g.Wait()
}
