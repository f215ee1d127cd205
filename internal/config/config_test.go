package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded default = %+v, expected %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("embedded default invalid: %v", err)
	}
}

func TestLoadCustomPathOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "custom.yaml", "board:\n  size: 5\ntiming:\n  slide_ticks: 0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board.Size != 5 {
		t.Errorf("Board.Size = %d, expected 5", cfg.Board.Size)
	}
	if cfg.Timing.SlideTicks != 0 {
		t.Errorf("SlideTicks = %d, expected 0", cfg.Timing.SlideTicks)
	}
	if cfg.Board.Target != 2048 {
		t.Errorf("unset keys should keep defaults, Target = %d", cfg.Board.Target)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	bad := writeFile(t, dir, "bad.yaml", "board: [not, a, map")
	if _, err := Load(bad); err == nil {
		t.Error("malformed custom file should fail")
	}

	invalid := writeFile(t, dir, "invalid.yaml", "board:\n  size: 12\n")
	if _, err := Load(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load(invalid) error = %v, expected ErrInvalidConfig", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("with no files Load should return the embedded default, got %+v", cfg)
	}

	writeFile(t, work, filepath.Join("configs", "t2048.yaml"), "board:\n  size: 6\n")
	cfg, _ = Load("")
	if cfg.Board.Size != 6 {
		t.Errorf("local config not picked up, size = %d", cfg.Board.Size)
	}

	writeFile(t, home, filepath.Join(".t2048", FileName), "board:\n  size: 5\n")
	cfg, _ = Load("")
	if cfg.Board.Size != 5 {
		t.Errorf("user config should win over local, size = %d", cfg.Board.Size)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"smallest board", func(c *Config) { c.Board.Size = 2; c.Board.InitialTiles = 4 }, true},
		{"board too small", func(c *Config) { c.Board.Size = 1 }, false},
		{"board too large", func(c *Config) { c.Board.Size = 9 }, false},
		{"target not power of two", func(c *Config) { c.Board.Target = 1000 }, false},
		{"target too low", func(c *Config) { c.Board.Target = 2 }, false},
		{"target 4", func(c *Config) { c.Board.Target = 4 }, true},
		{"no initial tiles", func(c *Config) { c.Board.InitialTiles = 0 }, false},
		{"too many initial tiles", func(c *Config) { c.Board.InitialTiles = 17 }, false},
		{"zero tick rate", func(c *Config) { c.Timing.TickRate = 0 }, false},
		{"negative slide", func(c *Config) { c.Timing.SlideTicks = -1 }, false},
		{"no animation", func(c *Config) { c.Timing.SlideTicks = 0; c.Timing.PopTicks = 0 }, true},
		{"zero swipe distance", func(c *Config) { c.Input.SwipeMinDistance = 0 }, false},
		{"negative idle timeout", func(c *Config) { c.Server.IdleTimeoutMinutes = -5 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}
