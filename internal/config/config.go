package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ADB      ADB      `yaml:"adb"`
	Output   Output   `yaml:"output"`
	Database Database `yaml:"database"`
	Props    Props    `yaml:"props"`
}

type ADB struct {
	// Path to the adb binary; empty means auto-detect.
	Path string `yaml:"path,omitempty"`
	// Serial selects a device when several are attached.
	Serial string `yaml:"serial,omitempty"`
}

type Output struct {
	// Dir is where partition images are written. Supports ~ and $VAR.
	Dir string `yaml:"dir"`
}

type Database struct {
	// Path to the dump-history SQLite database.
	Path string `yaml:"path,omitempty"`
}

type Props struct {
	// StaticFile is a saved getprop dump used when no device is reachable.
	StaticFile string `yaml:"static_file,omitempty"`
}

var defaultConfig = Config{
	Output: Output{Dir: "./dumped"},
}

func Load(path string) (*Config, error) {
	if path == "" {
		// Try default locations
		candidates := []string{
			"/etc/adbdump/config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/adbdump/config.yaml"),
			"config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	cfg := defaultConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		}
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultConfig.Output.Dir
	}
	return &cfg, nil
}

// ResolveOutputDir expands ~, environment variables, and relative paths to an
// absolute output directory.
func ResolveOutputDir(dir string) string {
	if dir == "" {
		dir = defaultConfig.Output.Dir
	}
	dir = os.ExpandEnv(dir)
	if dir == "~" || len(dir) > 1 && dir[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}
