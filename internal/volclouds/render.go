package volclouds

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/lukaszgryglicki/volclouds/internal/envmap"
	"github.com/lukaszgryglicki/volclouds/internal/logging"
	"github.com/lukaszgryglicki/volclouds/internal/texture"
)

// NoiseSource supplies the base shape and detail volumes.
type NoiseSource interface {
	Shape() *texture.Texture3D
	Detail() *texture.Texture3D
}

// Collaborators are the upstream data providers, injected at construction.
// Any of them may be nil; the sampler degrades to its documented fallbacks.
type Collaborators struct {
	Noise          NoiseSource
	Weather        *envmap.WeatherMap
	Altitude       *envmap.AltitudeMap
	HeightGradient *texture.Gradient1D
}

// Frame is everything a single render call needs.
type Frame struct {
	Source   *Buffer   // scene color, never modified
	Depth    []float64 // optional per-pixel scene depth along the view ray, len W*H
	Camera   Camera
	Settings Settings
	Time     float64 // simulated seconds
	Seed     uint64  // dither seed
}

// Renderer composites clouds over scene color buffers.
type Renderer struct {
	bounds  BoundingVolume
	sun     Sun
	collab  Collaborators
	log     logging.Logger
	Workers int // 0 means runtime.NumCPU()

	mu    sync.Mutex
	stats MarchStats
}

func NewRenderer(bounds BoundingVolume, sun Sun, c Collaborators, log logging.Logger) *Renderer {
	return &Renderer{bounds: bounds, sun: sun, collab: c, log: logging.OrNop(log)}
}

// Stats returns the march statistics of the last completed frame.
func (r *Renderer) Stats() MarchStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Render marches every pixel of f.Source and returns a new buffer of the same
// size. Rows are split evenly across workers; the context is checked per row.
func (r *Renderer) Render(ctx context.Context, f Frame) (*Buffer, error) {
	if f.Source == nil {
		return nil, fmt.Errorf("render: %w: no source buffer", ErrSizeMismatch)
	}
	W, H := f.Source.W, f.Source.H
	if f.Depth != nil && len(f.Depth) != W*H {
		return nil, fmt.Errorf("render: %w: depth has %d entries, want %d", ErrSizeMismatch, len(f.Depth), W*H)
	}
	if err := f.Camera.Validate(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	dst, err := NewBuffer(W, H)
	if err != nil {
		return nil, err
	}

	s := f.Settings.Sanitized()
	sampler := NewSampler(r.bounds, s, r.collab, f.Time)
	view := ResolveDebugView(s.Debug)
	overlay := newDebugOverlay(view, s.Debug, r.collab, W, H)
	rays := f.Camera.rays(W, H)

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > H {
		workers = H
	}
	base, rem := H/workers, H%workers

	var rowsDone int64
	nextPrint := int64(imax(1, H/10))
	collector := &statsCollector{}

	g, ctx := errgroup.WithContext(ctx)
	row := 0
	for w := 0; w < workers; w++ {
		n := base
		if w < rem {
			n++
		}
		y0, y1 := row, row+n
		row = y1
		g.Go(func() error {
			in := NewIntegrator(sampler, r.sun)
			var local MarchStats
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for x := 0; x < W; x++ {
					if overlay != nil {
						if c, ok := overlay.pixel(x, y); ok {
							dst.Set(x, y, c)
							local.Debug++
							continue
						}
					}
					depth := math.Inf(1)
					if f.Depth != nil {
						depth = f.Depth[y*W+x]
					}
					res := in.March(rays.ray(x, y), f.Source.At(x, y), depth, pixelHash(x, y, f.Seed))
					dst.Set(x, y, res.Color)
					local.record(res)
				}
				if done := atomic.AddInt64(&rowsDone, 1); done%nextPrint == 0 {
					r.log.Debugf("[PROGRESS] %.2f%%", float64(done)*100/float64(H))
				}
			}
			collector.add(local)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := collector.get()
	r.mu.Lock()
	r.stats = stats
	r.mu.Unlock()
	r.log.Debugf("Frame t=%.3f view=%s %s", f.Time, view, stats)
	return dst, nil
}
