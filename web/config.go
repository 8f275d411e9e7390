// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v2"

	"github.com/Santipap250/configdoctor/pkg/confopt"
)

// Config is the HTTP service configuration.
type Config struct {
	// ListenAddr is the TCP address the service binds to.
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
	// ReadTimeout bounds reading a whole request, including the body.
	ReadTimeout confopt.Duration `yaml:"read_timeout,omitempty" json:"read_timeout"`
	// WriteTimeout bounds writing a whole response.
	WriteTimeout confopt.Duration `yaml:"write_timeout,omitempty" json:"write_timeout"`
	// MaxBodyBytes caps the request body size. Larger bodies get 413.
	MaxBodyBytes int64 `yaml:"max_body_bytes,omitempty" json:"max_body_bytes"`
	// MaxConns caps concurrent connections. Zero means no cap.
	MaxConns int `yaml:"max_conns,omitempty" json:"max_conns"`
	// CacheTTL is how long an analyze report stays cached.
	CacheTTL confopt.Duration `yaml:"cache_ttl,omitempty" json:"cache_ttl"`
	// CacheSize caps the number of cached reports.
	CacheSize int `yaml:"cache_size,omitempty" json:"cache_size"`
}

func defaultConfig() Config {
	return Config{
		ListenAddr:   "127.0.0.1:8056",
		ReadTimeout:  confopt.Duration(time.Second * 10),
		WriteTimeout: confopt.Duration(time.Second * 30),
		MaxBodyBytes: 1024 * 1024,
		MaxConns:     64,
		CacheTTL:     confopt.Duration(time.Minute * 5),
		CacheSize:    256,
	}
}

// LoadConfig reads a YAML config file on top of the defaults. An empty
// path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %v", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config '%s': %v", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %v", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("'listen_addr' is required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("'max_body_bytes' must be positive, got %d", c.MaxBodyBytes)
	}
	if c.MaxConns < 0 {
		return fmt.Errorf("'max_conns' must not be negative, got %d", c.MaxConns)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("'cache_size' must not be negative, got %d", c.CacheSize)
	}
	return nil
}

// ConfigSchema returns the JSON schema of Config.
func ConfigSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
	}

	schema := reflector.Reflect(&Config{})

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %v", err)
	}

	return append(data, '\n'), nil
}
