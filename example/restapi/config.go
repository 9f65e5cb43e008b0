// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the demo server configuration.
type Config struct {
	Addr     string  `koanf:"addr" yaml:"addr"`
	LogLevel string  `koanf:"log_level" yaml:"log_level"`
	CacheTTL string  `koanf:"cache_ttl" yaml:"cache_ttl"`
	RedisURL string  `koanf:"redis_url" yaml:"redis_url"`
	Tracing  Tracing `koanf:"tracing" yaml:"tracing"`
}

// Tracing holds the OTLP exporter settings.
type Tracing struct {
	Enabled  bool    `koanf:"enabled" yaml:"enabled"`
	Exporter string  `koanf:"exporter" yaml:"exporter"`
	Endpoint string  `koanf:"endpoint" yaml:"endpoint"`
	Sampling float64 `koanf:"sampling" yaml:"sampling"`
}

func defaultConfig() Config {
	return Config{
		Addr:     ":8776",
		LogLevel: "info",
		CacheTTL: "30s",
		Tracing: Tracing{
			Exporter: "noop",
			Sampling: 1.0,
		},
	}
}

// loadConfig layers defaults, an optional YAML file (STRUT_CONFIG) and
// STRUT_-prefixed environment variables, lowest to highest precedence.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	k := koanf.New(".")

	if path := os.Getenv("STRUT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// STRUT_LOG_LEVEL -> log_level, STRUT_TRACING__ENDPOINT -> tracing.endpoint
	envProvider := env.Provider("STRUT_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "STRUT_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return cfg, fmt.Errorf("load env config: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Addr == "" {
		return cfg, fmt.Errorf("addr must not be empty")
	}
	return cfg, nil
}
