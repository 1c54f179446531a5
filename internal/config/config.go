// Package config loads server configuration from defaults, an optional YAML
// file and YATRA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Cache     CacheConfig     `koanf:"cache"`
	Search    SearchConfig    `koanf:"search"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Auth      AuthConfig      `koanf:"auth"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	TrustedProxies  []string      `koanf:"trusted_proxies"`
	CORSOrigin      string        `koanf:"cors_origin"`
}

// RateLimitConfig sizes the explore token bucket: Capacity requests in a
// burst, refilled at RefillPerSec.
type RateLimitConfig struct {
	Capacity      float64       `koanf:"capacity"`
	RefillPerSec  float64       `koanf:"refill_per_sec"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	Backend       string        `koanf:"backend"`
}

type CacheConfig struct {
	TTL           time.Duration `koanf:"ttl"`
	MaxEntries    int           `koanf:"max_entries"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	Backend       string        `koanf:"backend"`
}

type SearchConfig struct {
	APIKey         string        `koanf:"api_key"`
	BaseURL        string        `koanf:"base_url"`
	Timeout        time.Duration `koanf:"timeout"`
	RequestsPerSec float64       `koanf:"requests_per_sec"`
	Burst          int           `koanf:"burst"`
	DisableCurated bool          `koanf:"disable_curated"`
}

// DatabaseConfig points at Postgres. An empty URL disables accounts and
// support storage.
type DatabaseConfig struct {
	URL          string `koanf:"url"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

// RedisConfig enables the shared backends. An empty Addr keeps everything in
// process memory.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

type AuthConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTTL     time.Duration `koanf:"session_ttl"`
	OTPTTL         time.Duration `koanf:"otp_ttl"`
	OTPMinInterval time.Duration `koanf:"otp_min_interval"`
	ExposeOTP      bool          `koanf:"expose_otp"`
	CookieSecure   bool          `koanf:"cookie_secure"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const (
	DefaultCapacity     = 10
	DefaultRefillPerSec = 1
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	cfg.RateLimit.Capacity = DefaultCapacity
	cfg.RateLimit.RefillPerSec = DefaultRefillPerSec
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills zero values. Rate limit capacity and refill are not
// touched here because zero is meaningful for both; the loader defaults them
// only when they are absent.

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.CORSOrigin == "" {
		cfg.Server.CORSOrigin = "*"
	}

	if cfg.RateLimit.SweepInterval == 0 {
		cfg.RateLimit.SweepInterval = time.Minute
	}
	if cfg.RateLimit.Backend == "" {
		cfg.RateLimit.Backend = BackendMemory
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 10000
	}
	if cfg.Cache.SweepInterval == 0 {
		cfg.Cache.SweepInterval = time.Minute
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = BackendMemory
	}

	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = "https://www.searchapi.io/api/v1/search"
	}
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = 10 * time.Second
	}
	if cfg.Search.RequestsPerSec == 0 {
		cfg.Search.RequestsPerSec = 5
	}
	if cfg.Search.Burst == 0 {
		cfg.Search.Burst = 5
	}

	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}

	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "yatra:"
	}

	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.Auth.OTPTTL == 0 {
		cfg.Auth.OTPTTL = 5 * time.Minute
	}
	if cfg.Auth.OTPMinInterval == 0 {
		cfg.Auth.OTPMinInterval = 30 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// AuthEnabled reports whether account endpoints can be served.
func (c *Config) AuthEnabled() bool {
	return c.Database.URL != ""
}

// Validate checks the loaded configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	for _, proxy := range c.Server.TrustedProxies {
		if err := validateProxy(proxy); err != nil {
			errs = append(errs, err)
		}
	}

	if c.RateLimit.Capacity < 0 {
		errs = append(errs, errors.New("ratelimit.capacity must not be negative"))
	}
	if c.RateLimit.RefillPerSec < 0 {
		errs = append(errs, errors.New("ratelimit.refill_per_sec must not be negative"))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive"))
	}
	if c.Cache.MaxEntries < 0 {
		errs = append(errs, errors.New("cache.max_entries must not be negative"))
	}

	for name, backend := range map[string]string{"ratelimit.backend": c.RateLimit.Backend, "cache.backend": c.Cache.Backend} {
		switch backend {
		case BackendMemory:
		case BackendRedis:
			if c.Redis.Addr == "" {
				errs = append(errs, fmt.Errorf("%s is redis but redis.addr is empty", name))
			}
		default:
			errs = append(errs, fmt.Errorf("%s must be %q or %q, got %q", name, BackendMemory, BackendRedis, backend))
		}
	}

	if c.AuthEnabled() {
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("auth.jwt_secret is required when database.url is set"))
		} else if len(c.Auth.JWTSecret) < 32 {
			errs = append(errs, errors.New("auth.jwt_secret must be at least 32 bytes"))
		}
	}
	if c.Auth.SessionTTL <= 0 || c.Auth.OTPTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl and auth.otp_ttl must be positive"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

func validateProxy(proxy string) error {
	proxy = strings.TrimSpace(proxy)
	if strings.Contains(proxy, "/") {
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return fmt.Errorf("invalid trusted proxy %q: %w", proxy, err)
		}
		return nil
	}
	if net.ParseIP(proxy) == nil {
		return fmt.Errorf("invalid trusted proxy %q", proxy)
	}
	return nil
}
