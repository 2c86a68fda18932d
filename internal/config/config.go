package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const FileName = ".audityzer.yaml"

type IgnoreRule struct {
	Detector string `yaml:"detector"`
	Path     string `yaml:"path"`
	Reason   string `yaml:"reason,omitempty"`
}

type Config struct {
	SeverityThreshold string       `yaml:"severityThreshold"`
	Mode              string       `yaml:"mode"`
	MaxSourceBytes    int          `yaml:"maxSourceBytes,omitempty"`
	ExtraRules        bool         `yaml:"extraRules"`
	Format            string       `yaml:"format"`
	Ignore            []IgnoreRule `yaml:"ignore,omitempty"`
}

func Default() Config {
	return Config{
		SeverityThreshold: "info",
		Mode:              "speed",
		Format:            "table",
	}
}

// Load searches upwards from startDir for a config file. Missing files are
// not an error; the defaults are returned with an empty path.
func Load(startDir string) (Config, string, error) {
	cfg := Default()
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return cfg, "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			b, err := os.ReadFile(candidate)
			if err != nil {
				return cfg, candidate, err
			}
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, candidate, err
			}
			return cfg, candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached root
			break
		}
		dir = parent
	}
	return cfg, "", nil
}

// Write serializes cfg to dir/FileName.
func Write(dir string, cfg Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), b, 0o644)
}
