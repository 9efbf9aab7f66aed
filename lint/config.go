package lint

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the optional lint configuration file:
//
//	disable: [W001, W005]
//	fail-on-warn: true
type Config struct {
	Disable    []string `yaml:"disable"`
	FailOnWarn bool     `yaml:"fail-on-warn"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) enabled(code string) bool {
	if c == nil {
		return true
	}
	for _, d := range c.Disable {
		if d == code {
			return false
		}
	}
	return true
}
