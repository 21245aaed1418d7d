// Package config loads service configuration from an optional config.yaml
// and MARKETINTEL_-prefixed environment variables.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	WITS      WITSConfig      `koanf:"wits"`
	Cache     CacheConfig     `koanf:"cache"`
	TradeFlow TradeFlowConfig `koanf:"tradeflow"`
}

type ServerConfig struct {
	Port           int           `koanf:"port"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

type WITSConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

type TradeFlowConfig struct {
	// DefaultPartner is the partner code sent on trade-flow lookups when
	// aggregating across all origins.
	DefaultPartner string `koanf:"default_partner"`
}

// Load reads config.yaml when present, then applies environment overrides
// and defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("MARKETINTEL_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "MARKETINTEL_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	defaults := map[string]any{
		"server.port":               8080,
		"server.request_timeout":    "30s",
		"wits.base_url":             "https://wits.worldbank.org/API/V1",
		"wits.timeout":              "15s",
		"cache.ttl":                 "1h",
		"tradeflow.default_partner": "WLD",
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
