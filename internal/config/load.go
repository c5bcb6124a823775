package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and in
// ConfigDir.
const FileName = "tinyrender.yaml"

// EnvPrefix prefixes every environment override, e.g. TINYRENDER_WIDTH.
const EnvPrefix = "tinyrender"

// env mirrors the settings that may come from the environment. Unset
// variables leave the pointer nil.
type env struct {
	Width          *int     `envconfig:"WIDTH"`
	Height         *int     `envconfig:"HEIGHT"`
	Depth          *float64 `envconfig:"DEPTH"`
	Mode           *string  `envconfig:"MODE"`
	Workers        *int     `envconfig:"WORKERS"`
	Seed           *uint64  `envconfig:"SEED"`
	Texture        *string  `envconfig:"TEXTURE"`
	Output         *string  `envconfig:"OUTPUT"`
	CameraDistance *float64 `envconfig:"CAMERA_DISTANCE"`
	LogLevel       *string  `envconfig:"LOG_LEVEL"`
	LogFile        *string  `envconfig:"LOG_FILE"`
}

// Load loads configuration with priority: defaults < file < environment.
// Flags are applied on top by the caller. An empty path searches
// ./tinyrender.yaml and then ConfigDir; a missing file there is not an
// error, but an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		filepath.Join(".", FileName),
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "tinyrender")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "tinyrender")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "tinyrender")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tinyrender")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return err
	}
	set(&cfg.Render.Width, e.Width)
	set(&cfg.Render.Height, e.Height)
	set(&cfg.Render.Depth, e.Depth)
	set(&cfg.Render.Mode, e.Mode)
	set(&cfg.Render.Workers, e.Workers)
	set(&cfg.Render.Seed, e.Seed)
	set(&cfg.Texture, e.Texture)
	set(&cfg.Output, e.Output)
	set(&cfg.Camera.Distance, e.CameraDistance)
	set(&cfg.Logging.Level, e.LogLevel)
	set(&cfg.Logging.LogFile, e.LogFile)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
