package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable keymask reads.
const EnvPrefix = "KEYMASK_"

type envLocation struct {
	Path string `env:"CONFIG"`
}

// PathFromEnv returns the definition file named by KEYMASK_CONFIG, or "".
func PathFromEnv() (string, error) {
	return pathFrom(env.Options{Prefix: EnvPrefix})
}

func pathFrom(opts env.Options) (string, error) {
	var loc envLocation
	if err := env.ParseWithOptions(&loc, opts); err != nil {
		return "", fmt.Errorf("reading %sCONFIG: %w", EnvPrefix, err)
	}
	return loc.Path, nil
}

// ApplyEnv overrides settings from KEYMASK_* environment variables.
// Unset variables leave the file's values alone.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(env.Options{Prefix: EnvPrefix})
}

// ApplyEnvFrom is ApplyEnv reading from environ instead of the process
// environment.
func (c *Config) ApplyEnvFrom(environ map[string]string) error {
	return c.applyEnv(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func (c *Config) applyEnv(opts env.Options) error {
	if err := env.ParseWithOptions(&c.Settings, opts); err != nil {
		return fmt.Errorf("applying environment: %w", err)
	}
	return c.Validate()
}
