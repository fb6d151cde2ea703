// Package config loads pydocs settings from TOML.
//
// The built-in defaults live in default.toml, embedded into the binary. A
// user file passed with --config is decoded on top of them, so it only needs
// the keys it changes. CLI flags are applied last by the caller.
package config

import (
	_ "embed"
	"fmt"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pydocs/pkg/errors"
)

//go:embed default.toml
var defaultTOML string

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds every tunable of a pydocs run.
type Config struct {
	DocsURL   string   `toml:"docs_url"`   // documentation root, e.g. https://docs.python.org/3/
	PEPsURL   string   `toml:"peps_url"`   // PEP index page
	OutputDir string   `toml:"output_dir"` // parent of results/ and downloads/
	UserAgent string   `toml:"user_agent"` // empty: buildinfo.UserAgent()
	Timeout   Duration `toml:"timeout"`    // per-request timeout

	Cache CacheConfig `toml:"cache"`

	// ExpectedStatus maps the short code from the PEP index to the statuses
	// that may appear on the PEP page itself.
	ExpectedStatus ExpectedStatus `toml:"expected_status"`
}

// CacheConfig selects and configures the response cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`   // file, redis or none
	Dir      string   `toml:"dir"`       // file backend directory; empty means the XDG default
	TTL      Duration `toml:"ttl"`       // entry lifetime; 0 keeps entries forever
	RedisURL string   `toml:"redis_url"` // redis backend address
}

// ExpectedStatus is the fixed table used to flag PEP status mismatches.
type ExpectedStatus map[string][]string

// Lookup returns the accepted statuses for a short code.
func (e ExpectedStatus) Lookup(code string) ([]string, bool) {
	s, ok := e[code]
	return s, ok
}

// Accepts reports whether status is listed for code. Unknown codes accept nothing.
func (e ExpectedStatus) Accepts(code, status string) bool {
	return slices.Contains(e[code], status)
}

// Duration decodes TOML strings such as "30s" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	if _, err := toml.Decode(defaultTOML, cfg); err != nil {
		panic(fmt.Sprintf("config: invalid embedded default.toml: %v", err))
	}
	return cfg
}

// Load returns the defaults overlaid with the file at path. An empty path
// returns the defaults unchanged. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		// The user's table replaces the built-in one instead of merging into it.
		cfg.ExpectedStatus = nil
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
		if !md.IsDefined("expected_status") {
			cfg.ExpectedStatus = Default().ExpectedStatus
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks URLs, the cache backend and the status table.
func (c *Config) Validate() error {
	if err := errors.ValidateURL(c.DocsURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "docs_url")
	}
	if err := errors.ValidateURL(c.PEPsURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "peps_url")
	}
	if c.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout must be positive, got %s", c.Timeout)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if len(c.ExpectedStatus) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "expected_status table is empty")
	}
	return nil
}
