// Package config loads conceptmap settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/conceptmap/config.toml (falling
// back to ~/.config). A missing file is not an error: every setting has a
// default.
//
//	[gate]
//	mastery_threshold = 0.7
//
//	[layout]
//	seed = 42
//	link_distance = 80.0
//
//	[cache]
//	backend = "redis"        # file | redis | none
//	redis_addr = "localhost:6379"
//	scope = "course:algebra"
//	ttl_hours = 168
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/conceptmap/pkg/concept/gate"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/layout/force"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

const appName = "conceptmap"

// Config is the decoded configuration file.
type Config struct {
	Gate   GateConfig    `toml:"gate"`
	Layout force.Options `toml:"layout"`
	Cache  CacheConfig   `toml:"cache"`
}

// GateConfig configures the prerequisite gate.
type GateConfig struct {
	MasteryThreshold float64 `toml:"mastery_threshold"`
}

// MasteryGate returns the gate for the configured threshold.
func (g GateConfig) MasteryGate() gate.Gate {
	return gate.New(g.MasteryThreshold)
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Scope         string `toml:"scope"`
	TTLHours      int    `toml:"ttl_hours"`
}

// TTL returns the configured entry lifetime, or zero for the backend default.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Gate:   GateConfig{MasteryThreshold: gate.DefaultThreshold},
		Layout: force.DefaultOptions(),
		Cache:  CacheConfig{Backend: BackendFile, Dir: DefaultCacheDir()},
	}
}

// Load reads the file at path on top of [Default]. An empty path means
// [DefaultPath]. A missing file at the default location yields the defaults;
// a missing file given explicitly is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return cfg, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg, err = Parse(data)
	if err != nil {
		return cfg, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML on top of [Default] and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	cfg.Layout.SetDefaults()
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = BackendFile
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = DefaultCacheDir()
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks value ranges and the backend selection.
func (c Config) Validate() error {
	if err := cerrors.ValidateThreshold(c.Gate.MasteryThreshold); err != nil {
		return err
	}
	if c.Layout.ChargeStrength > 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "layout.charge_strength must be negative to repel, got %v", c.Layout.ChargeStrength)
	}
	for name, v := range map[string]float64{
		"link_distance":  c.Layout.LinkDistance,
		"collide_radius": c.Layout.CollideRadius,
		"base_radius":    c.Layout.BaseRadius,
	} {
		if v < 0 {
			return cerrors.New(cerrors.ErrCodeInvalidConfig, "layout.%s must not be negative, got %v", name, v)
		}
	}
	if c.Cache.TTLHours < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "cache.ttl_hours must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile:
		if err := cerrors.ValidatePath(c.Cache.Dir); err != nil {
			return err
		}
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return cerrors.New(cerrors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	case BackendNone:
	default:
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(configHome(), appName, "config.toml")
}

// DefaultCacheDir returns the default file cache directory.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(os.TempDir(), appName+"-cache")
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return os.TempDir()
}
