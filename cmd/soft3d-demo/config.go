package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/soft3d"
)

// Config is the render configuration of the demo. It can be loaded from a
// YAML file and overridden by flags.
type Config struct {
	Width         int        `yaml:"width"`
	Height        int        `yaml:"height"`
	Frames        int        `yaml:"frames"`
	Workers       int        `yaml:"workers"`
	QueueCapacity int        `yaml:"queue_capacity"`
	RasterMode    string     `yaml:"raster_mode"`
	ShadowSize    int        `yaml:"shadow_size"`
	Output        string     `yaml:"output"`
	Encoders      int        `yaml:"encoders"`
	Caption       bool       `yaml:"caption"`
	Clear         [4]float32 `yaml:"clear"`
}

// maxConfigSize bounds the config file read.
const maxConfigSize = 1 << 20

func defaultConfig() Config {
	return Config{
		Width:      640,
		Height:     480,
		Frames:     24,
		RasterMode: soft3d.RasterBoundingBox.String(),
		ShadowSize: 1024,
		Output:     "frames",
		Encoders:   4,
		Caption:    true,
		Clear:      [4]float32{0.1, 0.1, 0.12, 1},
	}
}

// loadConfig reads a YAML config over the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	info, err := os.Stat(path)
	if err != nil {
		return cfg, err
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("config %s too large (%d bytes)", path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", c.Width, c.Height))
	}
	if c.Frames <= 0 {
		errs = append(errs, fmt.Errorf("frames must be positive, got %d", c.Frames))
	}
	if c.ShadowSize <= 0 {
		errs = append(errs, fmt.Errorf("shadow_size must be positive, got %d", c.ShadowSize))
	}
	if _, ok := soft3d.ParseRasterMode(c.RasterMode); !ok {
		errs = append(errs, fmt.Errorf("unknown raster_mode %q", c.RasterMode))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output directory is empty"))
	}
	return errors.Join(errs...)
}

// options converts the config into pipeline options.
func (c *Config) options(res *soft3d.Resources) []soft3d.Option {
	mode, _ := soft3d.ParseRasterMode(c.RasterMode)
	return []soft3d.Option{
		soft3d.WithWorkers(c.Workers),
		soft3d.WithQueueCapacity(c.QueueCapacity),
		soft3d.WithRasterMode(mode),
		soft3d.WithResources(res),
	}
}
