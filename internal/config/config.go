// Package config loads hintnav's YAML configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mj1618/hintnav/internal/dom"
	"github.com/mj1618/hintnav/internal/hint"
	"github.com/mj1618/hintnav/internal/platform"
)

// Backend names.
const (
	BackendCDP     = "cdp"
	BackendFixture = "fixture"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Environment variables consulted by ApplyEnv and the CLI.
const (
	EnvConfig  = "HINTNAV_CONFIG"
	EnvCDPURL  = "HINTNAV_CDP_URL"
	EnvBackend = "HINTNAV_BACKEND"
)

// DefaultCDPURL is where a client started with --remote-debugging-port=9222
// listens.
const DefaultCDPURL = "http://127.0.0.1:9222"

// Config represents the application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"     json:"log"`
	Backend BackendConfig `yaml:"backend" json:"backend"`
	Hint    hint.Rules    `yaml:"hint"    json:"hint"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if err := ValidateRules(&c.Hint); err != nil {
		return fmt.Errorf("hint: %w", err)
	}
	return nil
}

// ApplyEnv overrides backend settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend.Name = v
	}
	if v := os.Getenv(EnvCDPURL); v != "" {
		c.Backend.CDPURL = v
	}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  slog.Level `yaml:"level"  json:"level"`
	Format string     `yaml:"format" json:"format"`
}

// Validate validates the logging configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// NewLogger builds a logger writing to w in the configured format.
func (c *LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level}
	if c.Format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// BackendConfig selects and addresses the document backend.
type BackendConfig struct {
	Name string `yaml:"name" json:"name"`
	// CDPURL is a DevTools HTTP endpoint or a ws:// browser URL.
	CDPURL string `yaml:"cdp_url" json:"cdp_url"`
	// PageMatch picks the first page whose URL or title contains it.
	PageMatch   string `yaml:"page_match"   json:"page_match"`
	FixturePath string `yaml:"fixture_path" json:"fixture_path"`
	// Viewport overrides the fixture viewport, as "WxH".
	Viewport string `yaml:"viewport" json:"viewport"`
}

// Validate validates the backend configuration.
func (c *BackendConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.In(BackendCDP, BackendFixture)),
		validation.Field(&c.CDPURL, validation.When(c.Name == BackendCDP, validation.Required)),
		validation.Field(&c.FixturePath, validation.When(c.Name == BackendFixture, validation.Required)),
		validation.Field(&c.Viewport, validation.By(func(any) error {
			_, err := c.viewport()
			return err
		})),
	)
}

func (c *BackendConfig) viewport() (*dom.Size, error) {
	if c.Viewport == "" {
		return nil, nil
	}
	return platform.ParseViewport(c.Viewport)
}

// Options converts the backend configuration into platform options.
func (c *BackendConfig) Options(logger *slog.Logger) (platform.Options, error) {
	vp, err := c.viewport()
	if err != nil {
		return platform.Options{}, err
	}
	return platform.Options{
		CDPURL:      c.CDPURL,
		PageMatch:   c.PageMatch,
		FixturePath: c.FixturePath,
		Viewport:    vp,
		Logger:      logger,
	}, nil
}

// ValidateRules validates the engine's tunables.
func ValidateRules(r *hint.Rules) error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Alphabet, validation.By(func(any) error {
			return hint.CheckAlphabet(r.Alphabet)
		})),
		validation.Field(&r.IdleDelayMS, validation.Required, validation.Min(1)),
		validation.Field(&r.MaxNeutralize, validation.Min(0)),
		validation.Field(&r.GridMin, validation.Required, validation.Min(1)),
		validation.Field(&r.GridMax, validation.Required, validation.Min(r.GridMin)),
		validation.Field(&r.CellSize, validation.Required, validation.Min(1.0)),
	)
}

// NewDefaultConfig returns a new Config with the defaults for attaching to a
// local client over CDP.
func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: LogFormatText,
		},
		Backend: BackendConfig{
			Name:   BackendCDP,
			CDPURL: DefaultCDPURL,
		},
		Hint: hint.DefaultRules(),
	}
}
