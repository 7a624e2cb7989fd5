package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/safelinkshield/shield/pkg/ratelimit"
)

// rateLimitsFile mirrors the on-disk YAML layout:
//
//	classes:
//	  scan:
//	    per_minute: 20
//	    per_hour: 200
//	    burst_limit: 5
//	    burst_window_seconds: 10
type rateLimitsFile struct {
	Classes map[string]ratelimit.ClassConfig `yaml:"classes"`
}

// LoadRateLimits reads per-class budget overrides from a YAML file and
// merges them over the built-in defaults. Classes absent from the file
// keep their default budgets; an empty path returns the defaults as-is.
func LoadRateLimits(path string) (map[ratelimit.Class]ratelimit.ClassConfig, error) {
	configs := ratelimit.DefaultClassConfigs()
	if path == "" {
		return configs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rate limits file: %w", err)
	}

	var f rateLimitsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rate limits file: %w", err)
	}

	for name, cfg := range f.Classes {
		class := ratelimit.Class(name)
		if _, known := configs[class]; !known {
			return nil, fmt.Errorf("unknown rate limit class %q", name)
		}
		if cfg.PerMinute <= 0 || cfg.PerHour <= 0 || cfg.BurstLimit <= 0 || cfg.BurstWindow <= 0 {
			return nil, fmt.Errorf("rate limit class %q: all budgets must be positive", name)
		}
		configs[class] = cfg
	}
	return configs, nil
}
