package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

var ErrUnknownEnv = errors.New("unknown env")

// Config of the CLI. DBPath enables the result history store; it is empty by
// default so a plain run persists nothing.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	DBPath   string        `yaml:"db_path" env:"DEFRAG_DB_PATH"`
	Debounce time.Duration `yaml:"debounce" env:"DEFRAG_DEBOUNCE" env-default:"500ms"`
}

// Load reads the config file when a path is given, otherwise only the
// environment. Priority: env > file > default.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read env: %w", err)
		}
		return &cfg, cfg.validate()
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, cfg.validate()
}

// ResolvePath returns the flag value if set, otherwise CONFIG_PATH.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("CONFIG_PATH")
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownEnv, c.Env)
}
