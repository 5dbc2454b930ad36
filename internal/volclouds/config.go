package volclouds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/lukaszgryglicki/volclouds/internal/envmap"
	"github.com/lukaszgryglicki/volclouds/internal/noise"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config describes one offline render run.
type Config struct {
	Width     int     `json:"width" yaml:"width"`
	Height    int     `json:"height" yaml:"height"`
	Frames    int     `json:"frames" yaml:"frames"`
	FrameTime float64 `json:"frameTime" yaml:"frameTime"` // simulated seconds between frames
	Seed      uint64  `json:"seed" yaml:"seed"`           // dither seed

	Camera     Camera           `json:"camera" yaml:"camera"`
	Sun        SunConfig        `json:"sun" yaml:"sun"`
	Container  ContainerConfig  `json:"container" yaml:"container"`
	Background BackgroundConfig `json:"background" yaml:"background"`

	Settings          Settings                `json:"settings" yaml:"settings"`
	Noise             noise.Settings          `json:"noise" yaml:"noise"`
	Weather           envmap.MapSettings      `json:"weather" yaml:"weather"`
	Altitude          envmap.AltitudeSettings `json:"altitude" yaml:"altitude"`
	HeightGradientPNG string                  `json:"heightGradientPNG" yaml:"heightGradientPNG"`
	// NoiseReseedEvery regenerates the noise volumes with the next seed every N
	// frames; 0 keeps one set of volumes for the whole run.
	NoiseReseedEvery int `json:"noiseReseedEvery" yaml:"noiseReseedEvery"`

	Output OutputConfig `json:"output" yaml:"output"`
}

type SunConfig struct {
	Direction mgl64.Vec3 `json:"direction" yaml:"direction"` // toward the sun
	Color     mgl64.Vec3 `json:"color" yaml:"color"`
}

type ContainerConfig struct {
	Position mgl64.Vec3 `json:"position" yaml:"position"`
	Scale    mgl64.Vec3 `json:"scale" yaml:"scale"`
}

// BackgroundConfig is the scene color behind the clouds: either an image or a
// vertical gradient.
type BackgroundConfig struct {
	Top    mgl64.Vec3 `json:"top" yaml:"top"`
	Bottom mgl64.Vec3 `json:"bottom" yaml:"bottom"`
	PNG    string     `json:"png" yaml:"png"`
}

type OutputConfig struct {
	GIF       string  `json:"gif" yaml:"gif"`
	GIFDelay  int     `json:"gifDelay" yaml:"gifDelay"`
	PNGPrefix string  `json:"pngPrefix" yaml:"pngPrefix"`
	RAW       string  `json:"raw" yaml:"raw"`
	Gamma     float64 `json:"gamma" yaml:"gamma"`
}

// DefaultConfig renders a single frame of the stock cloud box seen from the side.
func DefaultConfig() *Config {
	return &Config{
		Width:     Width,
		Height:    Height,
		Frames:    Frames,
		FrameTime: FrameTime,
		Camera: Camera{
			Position: mgl64.Vec3{0, -150, -900},
			Target:   mgl64.Vec3{0, 0, 0},
			Up:       mgl64.Vec3{0, 1, 0},
			FovDeg:   FovDeg,
		},
		Sun: SunConfig{
			Direction: mgl64.Vec3{0.3, 1, -0.4},
			Color:     mgl64.Vec3{1, 1, 1},
		},
		Container: ContainerConfig{
			Position: mgl64.Vec3{0, 0, 0},
			Scale:    mgl64.Vec3{1000, 200, 1000},
		},
		Background: BackgroundConfig{
			Top:    mgl64.Vec3{0.35, 0.55, 0.85},
			Bottom: mgl64.Vec3{0.75, 0.85, 0.95},
		},
		Settings: DefaultSettings(),
		Noise:    noise.Settings{}.WithDefaults(),
		Weather:  envmap.MapSettings{Seed: 2}.WithDefaults(),
		Altitude: envmap.AltitudeSettings{
			MapSettings: envmap.MapSettings{Seed: 3}.WithDefaults(),
			Multiplier:  0.3,
		},
		Output: OutputConfig{
			GIF:       GIFOut,
			GIFDelay:  GIFDelay,
			PNGPrefix: "clouds",
			RAW:       "clouds.raw",
			Gamma:     Gamma,
		},
	}
}

// LoadConfig reads a JSON or YAML (by extension) config over DefaultConfig.
// An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data, filepath.Ext(path)); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	default:
		return json.Unmarshal(data, c)
	}
}

// resolvePaths makes relative input image paths relative to the config file.
func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.Background.PNG, &c.Weather.PNG, &c.Altitude.PNG, &c.HeightGradientPNG} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Validate checks everything the renderer cannot sanitize on its own.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: resolution must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Width > MaxFrameDim || c.Height > MaxFrameDim {
		return fmt.Errorf("%w: resolution %dx%d exceeds %d", ErrInvalidConfig, c.Width, c.Height, MaxFrameDim)
	}
	if c.Frames <= 0 || c.Frames > MaxFrames {
		return fmt.Errorf("%w: frames must be in [1, %d], got %d", ErrInvalidConfig, MaxFrames, c.Frames)
	}
	if c.NoiseReseedEvery < 0 {
		return fmt.Errorf("%w: noiseReseedEvery must be non-negative, got %d", ErrInvalidConfig, c.NoiseReseedEvery)
	}
	if c.FrameTime < 0 || !isFinite(c.FrameTime) {
		return fmt.Errorf("%w: frameTime must be a finite non-negative number, got %v", ErrInvalidConfig, c.FrameTime)
	}
	if err := c.Camera.Validate(); err != nil {
		return fmt.Errorf("%w: camera: %v", ErrInvalidConfig, err)
	}
	if c.Sun.Direction.Len() == 0 {
		return fmt.Errorf("%w: sun direction must be non-zero", ErrInvalidConfig)
	}
	s := c.Container.Scale
	if !(s.X() > 0 && s.Y() > 0 && s.Z() > 0) {
		return fmt.Errorf("%w: container scale must be positive, got %v", ErrInvalidConfig, s)
	}
	n := c.Noise.WithDefaults()
	if n.ShapeResolution > noise.MaxResolution || n.DetailResolution > noise.MaxResolution {
		return fmt.Errorf("%w: noise resolution must be at most %d, got shape=%d detail=%d", ErrInvalidConfig, noise.MaxResolution, n.ShapeResolution, n.DetailResolution)
	}
	if c.Weather.Resolution > envmap.MaxResolution || c.Altitude.Resolution > envmap.MaxResolution {
		return fmt.Errorf("%w: map resolution must be at most %d, got weather=%d altitude=%d", ErrInvalidConfig, envmap.MaxResolution, c.Weather.Resolution, c.Altitude.Resolution)
	}
	if c.Output.GIFDelay < 0 {
		return fmt.Errorf("%w: gifDelay must be non-negative", ErrInvalidConfig)
	}
	if c.Output.Gamma <= 0 || math.IsNaN(c.Output.Gamma) {
		return fmt.Errorf("%w: gamma must be positive, got %v", ErrInvalidConfig, c.Output.Gamma)
	}
	return nil
}
