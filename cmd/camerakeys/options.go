package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dshills/camerakeys/internal/app"
	"github.com/dshills/camerakeys/internal/logging"
)

// options holds command-line options. Environment variables supply the
// defaults; flags override them.
type options struct {
	ConfigPath  string        `env:"CAMERAKEYS_CONFIG"`
	ProfileDB   string        `env:"CAMERAKEYS_PROFILE_DB"`
	Profile     string        `env:"CAMERAKEYS_PROFILE" envDefault:"default"`
	LogLevel    string        `env:"CAMERAKEYS_LOG_LEVEL" envDefault:"info"`
	LogFile     string        `env:"CAMERAKEYS_LOG_FILE"`
	Tick        time.Duration `env:"CAMERAKEYS_TICK" envDefault:"20ms"`
	HoldTimeout time.Duration `env:"CAMERAKEYS_HOLD_TIMEOUT" envDefault:"550ms"`
	MetricsOut  string        `env:"CAMERAKEYS_METRICS_OUT"`
}

func loadOptions() (*options, error) {
	opts := &options{}
	if err := env.Parse(opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = defaultConfigPath()
	}
	return opts, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "camerakeys.toml"
	}
	return filepath.Join(dir, "camerakeys", "settings.toml")
}

func (o *options) validate() error {
	if !logging.ValidLevel(o.LogLevel) {
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", o.LogLevel)
	}
	if o.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %v", o.Tick)
	}
	if o.HoldTimeout <= o.Tick {
		return fmt.Errorf("hold timeout %v must exceed the tick %v", o.HoldTimeout, o.Tick)
	}
	if o.ProfileDB == "" && o.ConfigPath == "" {
		return errors.New("either --config or --profile-db is required")
	}
	return nil
}

func (o *options) appOptions(logger *logging.Logger) app.Options {
	return app.Options{
		TickInterval: o.Tick,
		HoldTimeout:  o.HoldTimeout,
		Logger:       logger,
	}
}

// openLogger returns the process logger. The terminal belongs to the
// client, so logs only go to a file.
func (o *options) openLogger() (*logging.Logger, io.Closer, error) {
	if o.LogFile == "" {
		return logging.Null, io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(o.LogLevel),
		Output: f,
		Prefix: "camerakeys",
	})
	logging.SetDefault(logger)
	return logger, f, nil
}
