package config

import (
	"fmt"
	"path/filepath"
)

// BindingProperties configures one binding: the destination it binds to, the
// consumer group (empty means an anonymous, non-restartable binding), and
// whether the endpoint starts as soon as the binding is created.
type BindingProperties struct {
	// Destination is the subject/topic the binding targets
	Destination string `yaml:"destination" json:"destination"`

	// Group is the consumer group; empty marks the binding anonymous
	Group string `yaml:"group" json:"group"`

	// AutoStartup starts the endpoint when the binding is created
	AutoStartup *bool `yaml:"autoStartup" json:"autoStartup"`
}

// IsAutoStartup reports the auto-startup setting, defaulting to true
func (p BindingProperties) IsAutoStartup() bool {
	return p.AutoStartup == nil || *p.AutoStartup
}

// Config is the root configuration: binding properties keyed by binding name
type Config struct {
	Bindings map[string]BindingProperties `yaml:"bindings" json:"bindings"`
}

// Load reads configuration from path, dispatching on the file extension
// (.yaml/.yml or .json)
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = LoadYAML(path, &cfg)
	case ".json":
		err = LoadJSON(path, &cfg)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every binding names a destination
func (c *Config) Validate() error {
	for name, props := range c.Bindings {
		if props.Destination == "" {
			return fmt.Errorf("binding %s: destination cannot be empty", name)
		}
	}
	return nil
}
