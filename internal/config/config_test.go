package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Backend.Name != BackendCDP || cfg.Backend.CDPURL != DefaultCDPURL {
		t.Errorf("backend = %+v", cfg.Backend)
	}
	if cfg.Hint.IdleDelayMS != 5000 || cfg.Hint.MaxNeutralize != 6 {
		t.Errorf("hint tunables = %d/%d", cfg.Hint.IdleDelayMS, cfg.Hint.MaxNeutralize)
	}
	if cfg.Hint.GridMin != 2 || cfg.Hint.GridMax != 6 {
		t.Errorf("grid = %d..%d", cfg.Hint.GridMin, cfg.Hint.GridMax)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Backend.Name = "x11" }, "backend"},
		{"cdp without url", func(c *Config) { c.Backend.CDPURL = "" }, "cdp_url"},
		{"fixture without path", func(c *Config) { c.Backend.Name = BackendFixture }, "fixture_path"},
		{"bad viewport", func(c *Config) { c.Backend.Viewport = "wide" }, "viewport"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "format"},
		{"short alphabet", func(c *Config) { c.Hint.Alphabet = "A" }, "alphabet"},
		{"lowercase alphabet", func(c *Config) { c.Hint.Alphabet = "asdf" }, "alphabet"},
		{"duplicate alphabet", func(c *Config) { c.Hint.Alphabet = "ASA" }, "alphabet"},
		{"zero delay", func(c *Config) { c.Hint.IdleDelayMS = 0 }, "idle_delay_ms"},
		{"negative depth", func(c *Config) { c.Hint.MaxNeutralize = -1 }, "max_neutralize"},
		{"grid inverted", func(c *Config) { c.Hint.GridMin, c.Hint.GridMax = 5, 3 }, "grid_max"},
		{"zero cell", func(c *Config) { c.Hint.CellSize = 0 }, "cell_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate_ZeroDepthAllowed(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Hint.MaxNeutralize = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero depth should pass: %v", err)
	}
}

func TestLoad_OverlaysDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("HINTNAV_TEST_FIXTURE", "/tmp/page.html")
	path := filepath.Join(t.TempDir(), "hintnav.yaml")
	data := `
log:
  level: debug
  format: json
backend:
  name: fixture
  fixture_path: ${HINTNAV_TEST_FIXTURE}
  viewport: 800x600
hint:
  alphabet: ASDF
  idle_delay_ms: 750
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrDefault(path, false)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Log.Level != slog.LevelDebug || cfg.Log.Format != LogFormatJSON {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Backend.FixturePath != "/tmp/page.html" {
		t.Errorf("fixture_path = %q", cfg.Backend.FixturePath)
	}
	if cfg.Hint.Alphabet != "ASDF" || cfg.Hint.IdleDelayMS != 750 {
		t.Errorf("hint = %q/%d", cfg.Hint.Alphabet, cfg.Hint.IdleDelayMS)
	}
	// Unset keys keep their defaults.
	if cfg.Hint.GridMax != 6 || len(cfg.Hint.Clickable) == 0 {
		t.Errorf("defaults lost: grid_max=%d clickable=%d", cfg.Hint.GridMax, len(cfg.Hint.Clickable))
	}

	opts, err := cfg.Backend.Options(nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Viewport == nil || opts.Viewport.Width != 800 || opts.Viewport.Height != 600 {
		t.Errorf("viewport = %+v", opts.Viewport)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	cfg := NewDefaultConfig()
	err := Decode([]byte("hint:\n  alphabet: a\n"), cfg)
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadOrDefault_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")
	if _, err := LoadOrDefault(missing, true); err != nil {
		t.Fatalf("optional missing file: %v", err)
	}
	if _, err := LoadOrDefault(missing, false); err == nil {
		t.Fatal("required missing file should fail")
	}
	cfg, err := LoadOrDefault("", false)
	if err != nil || cfg.Backend.Name != BackendCDP {
		t.Fatalf("empty path: %v %+v", err, cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvCDPURL, "ws://127.0.0.1:9333/devtools/browser/abc")
	t.Setenv(EnvBackend, "")
	cfg := NewDefaultConfig()
	cfg.ApplyEnv()
	if cfg.Backend.CDPURL != "ws://127.0.0.1:9333/devtools/browser/abc" {
		t.Errorf("cdp_url = %q", cfg.Backend.CDPURL)
	}
	if cfg.Backend.Name != BackendCDP {
		t.Errorf("name = %q", cfg.Backend.Name)
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	var sb strings.Builder
	c := LogConfig{Level: slog.LevelWarn, Format: LogFormatJSON}
	l := c.NewLogger(&sb)
	l.Info("dropped")
	l.Warn("kept", "k", 1)
	out := sb.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, `"msg":"kept"`) {
		t.Errorf("output = %q", out)
	}
}
