package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type Config struct {
	MaxStrlen int    `envconfig:"MAX_STRLEN" default:"1024" validate:"min=1"`
	MaxProbes int    `envconfig:"MAX_PROBES" default:"1024" validate:"min=1"`
	License   string `envconfig:"LICENSE" default:"GPL" validate:"required"`
}

const prefix = "BPFTRACE"

// Default is the configuration with no environment overrides.
func Default() Config {
	return Config{
		MaxStrlen: 1024,
		MaxProbes: 1024,
		License:   "GPL",
	}
}

// FromEnv reads BPFTRACE_* variables.
func FromEnv() (Config, error) {
	var cfg Config

	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "process env")
	}

	if err := deprecated(&cfg); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

func deprecated(cfg *Config) error {
	v, ok := os.LookupEnv(prefix + "_STRLEN")
	if !ok {
		return nil
	}

	tlog.Printw("BPFTRACE_STRLEN is deprecated. Use BPFTRACE_MAX_STRLEN instead.")

	if _, ok := os.LookupEnv(prefix + "_MAX_STRLEN"); ok {
		return nil
	}

	x, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrap(err, "parse %v_STRLEN", prefix)
	}

	cfg.MaxStrlen = x

	return nil
}
