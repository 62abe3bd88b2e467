// Package config loads server configuration from an optional YAML file
// and SLUICE_-prefixed environment variables, env taking precedence.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
	Engine EngineConfig `koanf:"engine"`
	Store  StoreConfig  `koanf:"store"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type EngineConfig struct {
	MaxSteps int `koanf:"max_steps"`
}

type StoreConfig struct {
	Backend string      `koanf:"backend"` // memory, redis
	Redis   RedisConfig `koanf:"redis"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

// DefaultFile is loaded when no explicit path is given and it exists.
const DefaultFile = "sluice.yaml"

// Load reads configuration from path and the environment
// (SLUICE_STORE_BACKEND -> store.backend). An empty path falls back to
// DefaultFile in the working directory when present.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("server.addr", ":8080")
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("engine.max_steps", 50)
	k.Set("store.backend", "memory")
	k.Set("store.redis.addr", "localhost:6379")
	k.Set("store.redis.db", 0)
	k.Set("store.redis.prefix", "sluice:")

	// 1. Load from file
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (SLUICE_LOG_LEVEL -> log.level)
	if err := k.Load(env.Provider("SLUICE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "SLUICE_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
