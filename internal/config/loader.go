package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix = "YATRA_"

	maxConfigFileSize = 1024 * 1024
)

// Load reads the YAML file at path, if any, then applies environment
// overrides.
//
// Precedence (highest to lowest):
//  1. Environment variables (YATRA_SERVER_ADDR, YATRA_CACHE_TTL, ...)
//  2. YAML config file
//  3. Defaults
//
// Environment variables map to keys by splitting on the first underscore
// after the prefix:
//
//	YATRA_SERVER_TRUSTED_PROXIES -> server.trusted_proxies
//	YATRA_AUTH_JWT_SECRET        -> auth.jwt_secret
//
// List values are comma separated.
func Load(path string) (*Config, error) {
	var content []byte
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
		}
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return LoadBytes(content)
}

// LoadBytes is Load for YAML already in memory.
func LoadBytes(content []byte) (*Config, error) {
	k := koanf.New(".")

	if len(content) > 0 {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if !k.Exists("ratelimit.capacity") {
		cfg.RateLimit.Capacity = DefaultCapacity
	}
	if !k.Exists("ratelimit.refill_per_sec") {
		cfg.RateLimit.RefillPerSec = DefaultRefillPerSec
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, found := strings.Cut(lower, "_")
	if !found {
		return lower
	}
	return section + "." + field
}
