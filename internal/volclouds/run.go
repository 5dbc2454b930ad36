package volclouds

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lukaszgryglicki/volclouds/internal/envmap"
	"github.com/lukaszgryglicki/volclouds/internal/logging"
	"github.com/lukaszgryglicki/volclouds/internal/noise"
)

// probeRays is the size of the pre-render coverage estimate.
const probeRays = 2048

// Run loads the config at cfgPath, renders every frame and writes the outputs
// selected by the PNG/RAW flags.
func Run(ctx context.Context, cfgPath string) error {
	runID := uuid.NewString()
	log := logging.New("volclouds "+runID[:8], Debug)

	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	log.Infof("Run %s: %s, %dx%d, %d frame(s)", runID, cfgPath, cfg.Width, cfg.Height, cfg.Frames)

	frames, err := RenderFrames(ctx, cfg, log)
	if err != nil {
		return err
	}
	return WriteOutputs(frames, cfg.Output, log)
}

// Scene is everything a run renders with: the renderer, the background every
// frame is composited over and the noise provider feeding the renderer.
type Scene struct {
	Renderer   *Renderer
	Background *Buffer
	Noise      *noise.Provider
}

// NewScene builds the collaborators and renderer a config describes.
func NewScene(ctx context.Context, cfg *Config, log logging.Logger) (*Scene, error) {
	log = logging.OrNop(log)

	provider := noise.NewProvider(cfg.Noise, log)
	if err := provider.Update(ctx); err != nil {
		return nil, fmt.Errorf("noise: %w", err)
	}
	weather, err := envmap.NewWeatherMap(ctx, cfg.Weather)
	if err != nil {
		return nil, fmt.Errorf("weather map: %w", err)
	}
	altitude, err := envmap.NewAltitudeMap(ctx, cfg.Altitude)
	if err != nil {
		return nil, fmt.Errorf("altitude map: %w", err)
	}
	gradient, err := envmap.LoadHeightGradient(cfg.HeightGradientPNG)
	if err != nil {
		return nil, fmt.Errorf("height gradient: %w", err)
	}

	bounds, err := ContainerBounds(cfg.Container.Position, cfg.Container.Scale)
	if err != nil {
		return nil, err
	}
	sun, err := NewSun(cfg.Sun.Direction, cfg.Sun.Color)
	if err != nil {
		return nil, err
	}

	var bg *Buffer
	if cfg.Background.PNG != "" {
		bg, err = LoadBackground(cfg.Background.PNG, cfg.Width, cfg.Height)
	} else {
		bg, err = GradientBuffer(cfg.Width, cfg.Height, cfg.Background.Top, cfg.Background.Bottom)
	}
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	r := NewRenderer(bounds, sun, Collaborators{
		Noise:          provider,
		Weather:        weather,
		Altitude:       altitude,
		HeightGradient: gradient,
	}, log)
	return &Scene{Renderer: r, Background: bg, Noise: provider}, nil
}

// RenderFrames renders cfg.Frames frames at t = i*FrameTime.
func RenderFrames(ctx context.Context, cfg *Config, log logging.Logger) ([]*Buffer, error) {
	log = logging.OrNop(log)
	sc, err := NewScene(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return sc.RenderFrames(ctx, cfg, log)
}

// RenderFrames renders cfg.Frames frames of the scene, reseeding the noise
// volumes every cfg.NoiseReseedEvery frames when that is set.
func (sc *Scene) RenderFrames(ctx context.Context, cfg *Config, log logging.Logger) ([]*Buffer, error) {
	log = logging.OrNop(log)
	r := sc.Renderer
	first := Frame{Source: sc.Background, Camera: cfg.Camera, Settings: cfg.Settings, Seed: cfg.Seed}
	cov, err := r.EstimateCoverage(ctx, first, cfg.Width, cfg.Height, probeRays)
	if err != nil {
		return nil, err
	}
	log.Debugf("Coverage probe: hit=%.3f cloud=%.3f opacity=%.3f", cov.HitFraction, cov.CloudFraction, cov.MeanOpacity)

	frames := make([]*Buffer, 0, cfg.Frames)
	start := time.Now()
	for i := 0; i < cfg.Frames; i++ {
		if every := cfg.NoiseReseedEvery; every > 0 && i > 0 && i%every == 0 {
			ns := cfg.Noise
			ns.Seed += int64(i / every)
			sc.Noise.SetSettings(ns)
			if err := sc.Noise.Update(ctx); err != nil {
				return nil, fmt.Errorf("frame %d: noise: %w", i, err)
			}
		}
		f := first
		f.Time = float64(i) * cfg.FrameTime
		f.Seed = cfg.Seed + uint64(i)
		out, err := r.Render(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, out)
		if Debug {
			log.Debugf("Frame %d/%d: %s", i+1, cfg.Frames, r.Stats())
		}
	}
	log.Infof("Rendered %d frame(s) in %s", len(frames), time.Since(start))
	return frames, nil
}

// WriteOutputs saves frames as a PNG sequence (PNG flag) or an animated GIF,
// and additionally as raw floats when the RAW flag is set.
func WriteOutputs(frames []*Buffer, out OutputConfig, log logging.Logger) error {
	log = logging.OrNop(log)
	if PNG {
		paths, err := SavePNGSequence16(frames, out.PNGPrefix, out.Gamma)
		if err != nil {
			return err
		}
		log.Infof("Saved %d PNG(s) with prefix: %s", len(paths), out.PNGPrefix)
	} else {
		if err := SaveAnimatedGIF(frames, out.GIF, out.GIFDelay, out.Gamma); err != nil {
			return err
		}
		log.Infof("Saved animated GIF: %s", out.GIF)
	}
	if RAW {
		if err := SaveRawRGB64(frames, out.RAW); err != nil {
			return err
		}
		log.Infof("Saved raw frames: %s", out.RAW)
	}
	return nil
}
