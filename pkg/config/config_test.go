package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/layout/force"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Gate.MasteryThreshold != 0.7 {
		t.Errorf("MasteryThreshold = %v, want 0.7", cfg.Gate.MasteryThreshold)
	}
	if cfg.Layout != force.DefaultOptions() {
		t.Errorf("Layout = %+v, want defaults", cfg.Layout)
	}
	if cfg.Cache.Backend != BackendFile || cfg.Cache.Dir == "" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
[gate]
mastery_threshold = 0.85

[layout]
seed = 7
link_distance = 120.0

[cache]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2
scope = "course:algebra"
ttl_hours = 24
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Gate.MasteryThreshold != 0.85 {
		t.Errorf("MasteryThreshold = %v", cfg.Gate.MasteryThreshold)
	}
	if cfg.Layout.Seed != 7 || cfg.Layout.LinkDistance != 120 {
		t.Errorf("Layout overrides lost: %+v", cfg.Layout)
	}
	if cfg.Layout.ChargeStrength != force.DefaultChargeStrength {
		t.Errorf("unset layout fields should keep defaults: %+v", cfg.Layout)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisDB != 2 || cfg.Cache.Scope != "course:algebra" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL() != 24*time.Hour {
		t.Errorf("TTL() = %v", cfg.Cache.TTL())
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", "[gate\nmastery_threshold = 1"},
		{"threshold above one", "[gate]\nmastery_threshold = 1.5"},
		{"attractive charge", "[layout]\ncharge_strength = 100.0"},
		{"negative radius", "[layout]\nbase_radius = -1.0"},
		{"unknown backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"negative ttl", "[cache]\nttl_hours = -1"},
		{"unknown key", "[gate]\nthreshold = 0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !cerrors.Is(err, cerrors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error code = %v, want INVALID_CONFIG", cerrors.GetCode(err))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.toml"))
		if !cerrors.Is(err, cerrors.ErrCodeFileNotFound) {
			t.Errorf("Load() = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("default location missing", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "empty"))
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Gate.MasteryThreshold != Default().Gate.MasteryThreshold {
			t.Errorf("missing default file should yield defaults")
		}
	})

	t.Run("default location present", func(t *testing.T) {
		home := filepath.Join(dir, "xdg")
		t.Setenv("XDG_CONFIG_HOME", home)
		path := DefaultPath()
		if path != filepath.Join(home, "conceptmap", "config.toml") {
			t.Fatalf("DefaultPath() = %s", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Cache.Backend != BackendNone {
			t.Errorf("Backend = %q, want none", cfg.Cache.Backend)
		}
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Gate.MasteryThreshold = 0.6
	cfg.Layout.Seed = 99

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(encoded) error: %v\n%s", err, buf.String())
	}
	if got.Gate.MasteryThreshold != 0.6 || got.Layout.Seed != 99 {
		t.Errorf("round trip lost values: %+v", got)
	}
}
