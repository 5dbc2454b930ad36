package volclouds

import (
	"fmt"
	"sync"
)

// MarchStats counts how the rays of a frame terminated.
type MarchStats struct {
	Missed    int // never entered the volume
	Exited    int // marched through and left
	Saturated int // early exit on opaque cloud
	Debug     int // pixels drawn by the debug overlay
	Steps     int // total view-ray steps
}

func (s *MarchStats) record(r MarchResult) {
	s.Steps += r.Steps
	switch {
	case !r.Hit:
		s.Missed++
	case r.State == Saturated:
		s.Saturated++
	default:
		s.Exited++
	}
}

func (s *MarchStats) add(o MarchStats) {
	s.Missed += o.Missed
	s.Exited += o.Exited
	s.Saturated += o.Saturated
	s.Debug += o.Debug
	s.Steps += o.Steps
}

// Pixels is the number of pixels accounted for.
func (s MarchStats) Pixels() int { return s.Missed + s.Exited + s.Saturated + s.Debug }

func (s MarchStats) String() string {
	return fmt.Sprintf("pixels=%d missed=%d exited=%d saturated=%d debug=%d steps=%d", s.Pixels(), s.Missed, s.Exited, s.Saturated, s.Debug, s.Steps)
}

// statsCollector merges per-worker stats.
type statsCollector struct {
	mu    sync.Mutex
	stats MarchStats
}

func (c *statsCollector) add(s MarchStats) {
	c.mu.Lock()
	c.stats.add(s)
	c.mu.Unlock()
}

func (c *statsCollector) get() MarchStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
