package volclouds

import (
	"context"
	"math"
	"math/rand"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
)

// Coverage is a cheap pre-render probe of how cloudy a view is.
type Coverage struct {
	Trials        int
	HitFraction   float64 // rays that entered the volume
	CloudFraction float64 // rays that lost any transmittance
	MeanOpacity   float64 // mean of 1 - transmittance
}

// EstimateCoverage marches trials random pixels of the frame's view without
// writing any output. The estimate is deterministic for a given f.Seed.
func (r *Renderer) EstimateCoverage(ctx context.Context, f Frame, w, h, trials int) (Coverage, error) {
	if trials <= 0 || w <= 0 || h <= 0 {
		return Coverage{}, nil
	}
	if err := f.Camera.Validate(); err != nil {
		return Coverage{}, err
	}
	s := f.Settings.Sanitized()
	sampler := NewSampler(r.bounds, s, r.collab, f.Time)
	rays := f.Camera.rays(w, h)

	workers := imax(1, runtime.NumCPU())
	if workers > trials {
		workers = trials
	}
	per, rem := trials/workers, trials%workers
	results := make([]Coverage, workers)

	g, ctx := errgroup.WithContext(ctx)
	for wid := 0; wid < workers; wid++ {
		n := per
		if wid < rem {
			n++
		}
		wid := wid
		g.Go(func() error {
			// independent RNG per worker
			rng := rand.New(rand.NewSource(int64(f.Seed ^ uint64(wid)*0x9e3779b97f4a7c15)))
			in := NewIntegrator(sampler, r.sun)
			local := &results[wid]
			for i := 0; i < n; i++ {
				if i%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				x, y := rng.Intn(w), rng.Intn(h)
				res := in.March(rays.ray(x, y), mgl64.Vec3{}, math.Inf(1), rng.Float64())
				local.Trials++
				if res.Hit {
					local.HitFraction++
				}
				if res.Transmittance < 1 {
					local.CloudFraction++
				}
				local.MeanOpacity += 1 - res.Transmittance
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Coverage{}, err
	}

	var c Coverage
	for _, l := range results {
		c.Trials += l.Trials
		c.HitFraction += l.HitFraction
		c.CloudFraction += l.CloudFraction
		c.MeanOpacity += l.MeanOpacity
	}
	n := float64(c.Trials)
	c.HitFraction /= n
	c.CloudFraction /= n
	c.MeanOpacity /= n
	return c, nil
}
