// Package config loads server configuration from the environment.
package config

import (
	"fmt"

	"github.com/cristalhq/aconfig"
)

// Config holds everything the binaries need to run. All fields have
// defaults suitable for local development; deployments override them via
// CMS_-prefixed environment variables.
type Config struct {
	Addr         string `env:"ADDR" default:":8080"`
	DatabasePath string `env:"DATABASE_PATH" default:"cms.db"`
	SourceURL    string `env:"SOURCE_URL" default:"https://pon.org.ua/novyny/"`
	UserAgent    string `env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	CORSOrigin   string `env:"CORS_ORIGIN" default:"*"`
	LogLevel     string `env:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "CMS",
		SkipFiles: true,
		SkipFlags: true,
	})
	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
