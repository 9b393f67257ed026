// Package config loads typed configuration structs from environment
// variables via caarlos0/env tags.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into cfg, which must be a pointer
// to a struct carrying `env` tags:
//
//	type Config struct {
//	    HTTPPort   string `env:"HTTP_PORT" envDefault:"8080"`
//	    BackendURL string `env:"BACKEND_URL,required"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
