// Package config reads BUCKSHOT_* environment variables into config structs.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from the process environment.
func ParseEnv(target any) error {
	return parse(target, env.Options{})
}

// ParseEnvMap loads configuration from vars instead of the process
// environment.
func ParseEnvMap(target any, vars map[string]string) error {
	if vars == nil {
		vars = map[string]string{}
	}
	return parse(target, env.Options{Environment: vars})
}

func parse(target any, opts env.Options) error {
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
