package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/danielpuglisi/kn-cli/persist"
)

const (
	envPrefix = "KN_"
	envConfig = "KN_CONFIG"

	minTitleWidth = 8
)

// Load layers, low to high:
//  1. defaults (New)
//  2. YAML file at path, or KN_CONFIG when path is empty
//  3. env (KN_ prefix, "__" separates nested keys: KN_STORAGE__DRIVER)
//  4. overrides, keyed by dotted path (explicit CLI flags)
func Load(path string, overrides map[string]any) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envConfig)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoad, err)
	}

	for key, val := range overrides {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoad, key, err)
		}
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return &cfg, nil
}

// Validate checks the settings a session needs
func (c *Config) Validate() error {
	var problems []string
	if c.Roster == "" {
		problems = append(problems, "roster path is empty")
	}
	if c.Catalog == "" {
		problems = append(problems, "catalog path is empty")
	}
	if c.Data == "" {
		problems = append(problems, "data path is empty")
	}
	if !slices.Contains(persist.Drivers, strings.ToLower(c.Storage.Driver)) {
		problems = append(problems, fmt.Sprintf("storage.driver %q not one of %v", c.Storage.Driver, persist.Drivers))
	}
	if c.Scoring.Span <= 0 {
		problems = append(problems, "scoring.span must be positive")
	}
	if c.Scoring.MaxPoints < 0 {
		problems = append(problems, "scoring.max_points must not be negative")
	}
	if c.Layout.TitleWidth < minTitleWidth {
		problems = append(problems, fmt.Sprintf("layout.title_width must be at least %d", minTitleWidth))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
