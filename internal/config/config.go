// Package config loads the morphcorp configuration from defaults, a YAML
// file, MORPHCORP_* environment variables and bound flags.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/morphcorp/internal/model"
)

// EnvPrefix prefixes environment overrides, e.g. MORPHCORP_ANALYZER_KIND.
const EnvPrefix = "MORPHCORP"

// DefaultPath is the config file used when --config is not given.
const DefaultPath = "~/.morphcorp/config.yaml"

// Setup registers every default key on v and enables environment overrides.
// Keys must be registered for environment variables to reach Unmarshal.
func Setup(v *viper.Viper) error {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	setDefaults(v, "", tree)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// Load unmarshals v onto the defaults, expands "~" in paths and validates
// the result.
func Load(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	var err error
	if cfg.Corpus.Dir, err = ExpandPath(cfg.Corpus.Dir); err != nil {
		return nil, err
	}
	if cfg.Cache.Dir, err = ExpandPath(cfg.Cache.Dir); err != nil {
		return nil, err
	}
	if cfg.Analyzer.MystemPath, err = ExpandPath(cfg.Analyzer.MystemPath); err != nil {
		return nil, err
	}

	if cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = runtime.NumCPU()
	}
	cfg.Analyzer.Kind = strings.ToLower(strings.TrimSpace(cfg.Analyzer.Kind))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ExpandPath expands a leading "~" to the home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return expanded, nil
}

// Validate rejects configurations no stage can run with.
func Validate(cfg *model.Config) error {
	var problems []string

	if strings.TrimSpace(cfg.Corpus.Dir) == "" {
		problems = append(problems, "corpus.dir must be set")
	}
	if cfg.Text.Terminators == "" {
		problems = append(problems, "text.terminators must not be empty")
	}
	switch cfg.Analyzer.Kind {
	case "mystem", "service", "pymorphy":
	default:
		problems = append(problems, fmt.Sprintf("analyzer.kind %q is not one of mystem, service", cfg.Analyzer.Kind))
	}
	if cfg.Analyzer.Timeout < 0 {
		problems = append(problems, "analyzer.timeout must not be negative")
	}
	if cfg.Analyzer.BatchSize < 0 {
		problems = append(problems, "analyzer.batch_size must not be negative")
	}
	if cfg.Cache.MemoryTTL < 0 || cfg.Cache.DiskTTL < 0 {
		problems = append(problems, "cache TTLs must not be negative")
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not one of text, json", cfg.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
