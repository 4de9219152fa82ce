// Package config loads the server configuration file.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration. Zero values fall back to the
// defaults below, so a partial file (or none at all) is fine.
type Config struct {
	Store StoreConfig `yaml:"store"`
	Redis RedisConfig `yaml:"redis"`
	Log   LogConfig   `yaml:"log"`
	HTTP  HTTPConfig  `yaml:"http"`
}

// StoreConfig selects the session persistence backend and the at-rest
// protections layered on top of it.
type StoreConfig struct {
	// Backend is "memory" or "redis".
	Backend string `yaml:"backend"`
	// EncryptionKey seals session content at rest when set.
	// Base64-encoded 32 bytes (AES-256).
	EncryptionKey string `yaml:"encryption_key"`
	// FallbackKeys are previous encryption keys still accepted on read,
	// enabling key rotation without downtime.
	FallbackKeys []string `yaml:"fallback_keys"`
	// RedactPatterns are regular expressions whose matches are masked out
	// of session content before it is persisted.
	RedactPatterns []string `yaml:"redact_patterns"`
}

// EncryptionKeys decodes the configured keys. Active is nil when encryption
// is not configured.
func (s StoreConfig) EncryptionKeys() (active []byte, fallbacks [][]byte, err error) {
	if s.EncryptionKey == "" {
		return nil, nil, nil
	}
	active, err = decodeKey(s.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	for i, raw := range s.FallbackKeys {
		key, err := decodeKey(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		fallbacks = append(fallbacks, key)
	}
	return active, fallbacks, nil
}

func decodeKey(raw string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("decodes to %d bytes, want 32", len(key))
	}
	return key, nil
}

// RedisConfig configures the redis backend and distributed lock.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// TTL expires idle sessions; zero keeps them forever.
	TTL Duration `yaml:"ttl"`
}

// Duration wraps time.Duration so YAML accepts "12h" style strings.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level"`
}

// HTTPConfig configures the plain HTTP adapter.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Default returns the configuration used when no file is present: in-memory
// sessions, info logging, HTTP on 8080.
func Default() Config {
	return Config{
		Store: StoreConfig{Backend: "memory"},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Log:   LogConfig{Level: "info"},
		HTTP:  HTTPConfig{Port: 8080},
	}
}

// Load reads a YAML configuration file, overlaying it on the defaults.
// A missing file is not an error; a present but unreadable or invalid one is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Backend {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("unknown store backend %q (want memory or redis)", c.Store.Backend)
	}
	if _, _, err := c.Store.EncryptionKeys(); err != nil {
		return err
	}
	for i, p := range c.Store.RedactPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("store.redact_patterns[%d]: %w", i, err)
		}
	}
	return nil
}
