package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxDistance   = 100.0
	DefaultVelocityDecay = 0.1
	DefaultSteps         = 300
	DefaultDistance      = 30.0
	DefaultStrength      = 0.1
	DefaultCharge        = 1.0
)

type Config struct {
	Graph         string         `yaml:"graph"`
	MaxDistance   float64        `yaml:"max_distance"`
	VelocityDecay float64        `yaml:"velocity_decay"`
	Steps         int            `yaml:"steps"`
	Converge      float64        `yaml:"converge"`
	Workers       int            `yaml:"workers"`
	Defaults      DefaultsConfig `yaml:"defaults"`
	Generate      GenerateConfig `yaml:"generate"`
}

// DefaultsConfig fills in node/link fields the graph file omits.
type DefaultsConfig struct {
	Distance float64 `yaml:"distance"`
	Strength float64 `yaml:"strength"`
	Charge   float64 `yaml:"charge"`
}

// GenerateConfig describes a synthetic graph used when no graph file is
// given: kind is ring, clusters or random.
type GenerateConfig struct {
	Kind     string  `yaml:"kind"`
	Nodes    int     `yaml:"nodes"`
	Links    int     `yaml:"links"`
	Clusters int     `yaml:"clusters"`
	Radius   float64 `yaml:"radius"`
	Spread   float64 `yaml:"spread"`
	Seed     int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxDistance:   DefaultMaxDistance,
		VelocityDecay: DefaultVelocityDecay,
		Steps:         DefaultSteps,
		Defaults: DefaultsConfig{
			Distance: DefaultDistance,
			Strength: DefaultStrength,
			Charge:   DefaultCharge,
		},
		Generate: GenerateConfig{
			Kind:   "ring",
			Nodes:  24,
			Links:  36,
			Radius: 40,
			Spread: 10,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
