// Package config loads stanza settings from defaults, an optional YAML file
// and STANZA_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/aretw0/stanza/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STANZA_"

// Config holds all stanza configuration.
type Config struct {
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Chains ChainsConfig `yaml:"chains" mapstructure:"chains"`
	Pool   domain.Pool  `yaml:"pool" mapstructure:"pool"`
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	HTTP   HTTPConfig   `yaml:"http" mapstructure:"http"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// ChainsConfig selects where chain documents come from.
type ChainsConfig struct {
	// Dir holds chain_<id>.json files. Ignored when URL is set.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// URL is the base of a remote host serving /output/chain_<id>.json.
	URL string `yaml:"url" mapstructure:"url"`
	// Watch purges cached chains when files in Dir change.
	Watch bool `yaml:"watch" mapstructure:"watch"`
	// Timeout bounds one remote fetch.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// EngineConfig tunes the traversal engine.
type EngineConfig struct {
	// Seed makes choices reproducible. Zero uses the process-wide source.
	Seed            uint64 `yaml:"seed" mapstructure:"seed"`
	Attribution     string `yaml:"attribution" mapstructure:"attribution"` // anonymous or historical
	CompletionDepth int    `yaml:"completion_depth" mapstructure:"completion_depth"`
	EarlyMaxKeys    int    `yaml:"early_max_keys" mapstructure:"early_max_keys"`
	EarlyMinWords   int    `yaml:"early_min_words" mapstructure:"early_min_words"`
}

// StoreConfig selects session persistence.
type StoreConfig struct {
	Kind    string        `yaml:"kind" mapstructure:"kind"` // memory, file or redis
	Path    string        `yaml:"path" mapstructure:"path"`
	LockTTL time.Duration `yaml:"lock_ttl" mapstructure:"lock_ttl"`
	Redis   RedisConfig   `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig configures the redis store and locker.
type RedisConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	Prefix   string        `yaml:"prefix" mapstructure:"prefix"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	Metrics         bool          `yaml:"metrics" mapstructure:"metrics"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Chains: ChainsConfig{Dir: "output", Timeout: 10 * time.Second},
		Pool:   domain.DefaultPool(),
		Engine: EngineConfig{
			Attribution:     "anonymous",
			CompletionDepth: 10,
			EarlyMaxKeys:    1,
			EarlyMinWords:   4,
		},
		Store: StoreConfig{
			Kind:    StoreMemory,
			LockTTL: 30 * time.Second,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "stanza:session:"},
		},
		HTTP: HTTPConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
	}
}

// envKeys maps environment variables to configuration paths.
var envKeys = map[string][]string{
	"LOG_LEVEL":               {"log", "level"},
	"LOG_FORMAT":              {"log", "format"},
	"CHAINS_DIR":              {"chains", "dir"},
	"CHAINS_URL":              {"chains", "url"},
	"CHAINS_WATCH":            {"chains", "watch"},
	"CHAINS_TIMEOUT":          {"chains", "timeout"},
	"POOL_ALL":                {"pool", "all"},
	"POOL_PREFERRED":          {"pool", "preferred"},
	"ENGINE_SEED":             {"engine", "seed"},
	"ENGINE_ATTRIBUTION":      {"engine", "attribution"},
	"ENGINE_COMPLETION_DEPTH": {"engine", "completion_depth"},
	"ENGINE_EARLY_MAX_KEYS":   {"engine", "early_max_keys"},
	"ENGINE_EARLY_MIN_WORDS":  {"engine", "early_min_words"},
	"STORE_KIND":              {"store", "kind"},
	"STORE_PATH":              {"store", "path"},
	"STORE_LOCK_TTL":          {"store", "lock_ttl"},
	"REDIS_ADDR":              {"store", "redis", "addr"},
	"REDIS_PASSWORD":          {"store", "redis", "password"},
	"REDIS_DB":                {"store", "redis", "db"},
	"REDIS_PREFIX":            {"store", "redis", "prefix"},
	"REDIS_TTL":               {"store", "redis", "ttl"},
	"HTTP_ADDR":               {"http", "addr"},
	"HTTP_METRICS":            {"http", "metrics"},
	"HTTP_SHUTDOWN_TIMEOUT":   {"http", "shutdown_timeout"},
}

// Load builds the configuration. An empty path skips the file; a missing
// file at an explicit path is an error.
func Load(path string) (*Config, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	for suffix, keyPath := range envKeys {
		if v, ok := os.LookupEnv(EnvPrefix + suffix); ok {
			set(raw, keyPath, v)
		}
	}

	cfg := DefaultConfig()
	if err := decode(raw, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// set stores value at keyPath, creating intermediate maps.
func set(m map[string]any, keyPath []string, value any) {
	for _, k := range keyPath[:len(keyPath)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	m[keyPath[len(keyPath)-1]] = value
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown store kind %q", c.Store.Kind))
	}
	if c.Engine.CompletionDepth < 0 {
		errs = append(errs, fmt.Errorf("completion_depth must not be negative"))
	}
	if c.Chains.URL != "" && !strings.HasPrefix(c.Chains.URL, "http://") && !strings.HasPrefix(c.Chains.URL, "https://") {
		errs = append(errs, fmt.Errorf("chains url %q must be http or https", c.Chains.URL))
	}
	return errors.Join(errs...)
}
