// Package config holds the settings shared by tinyrender and tinyview.
package config

import (
	"errors"
	"fmt"
)

// Config holds all renderer settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Texture string        `yaml:"texture"`
	Output  string        `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds frame buffer and pipeline settings.
type RenderConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Depth   float64 `yaml:"depth"`
	Mode    string  `yaml:"mode"`
	Workers int     `yaml:"workers"`
	Seed    uint64  `yaml:"seed"`
}

// CameraConfig holds the camera used by the ortho, perspective and camera
// modes.
type CameraConfig struct {
	Eye      [3]float64 `yaml:"eye"`
	Up       [3]float64 `yaml:"up"`
	Distance float64    `yaml:"distance"`
	// Perspective is the camera distance of the Mat3 perspective mode.
	Perspective float64 `yaml:"perspective"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Modes lists the accepted values of Render.Mode.
var Modes = []string{"triangle", "flat", "lit", "textured", "perspective", "ortho", "camera", "wireframe"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:   800,
			Height:  800,
			Depth:   255,
			Mode:    "camera",
			Workers: 1,
		},
		Camera: CameraConfig{
			Eye:         [3]float64{-2, 1, 3},
			Up:          [3]float64{0, 1, 0},
			Distance:    3,
			Perspective: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every setting that cannot be rendered with.
func (c *Config) Validate() error {
	var errs []error
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.Depth <= 0 {
		errs = append(errs, fmt.Errorf("invalid depth %g", c.Render.Depth))
	}
	if c.Render.Workers < 0 {
		errs = append(errs, fmt.Errorf("invalid worker count %d", c.Render.Workers))
	}
	if !validMode(c.Render.Mode) {
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Render.Mode))
	}
	// Distances at or below 1 put the camera inside the unit cube.
	if c.Camera.Distance <= 1 || c.Camera.Perspective <= 1 {
		errs = append(errs, fmt.Errorf("camera distance must be above 1"))
	}
	if c.Camera.Up == [3]float64{} {
		errs = append(errs, errors.New("camera up vector is zero"))
	}
	return errors.Join(errs...)
}

func validMode(m string) bool {
	for _, v := range Modes {
		if v == m {
			return true
		}
	}
	return false
}
