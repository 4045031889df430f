package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"panchview/internal/almanac"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// SourceURL is the endpoint serving the plain-text panchangam file.
	SourceURL string `yaml:"source_url" json:"source_url"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// controlling how often the almanac is re-fetched.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// SourceOffsetMinutes / TargetOffsetMinutes are fixed UTC offsets in
	// minutes east of UTC. The backend writes civil times at the source
	// offset; everything is displayed at the target offset. No DST.
	SourceOffsetMinutes int `yaml:"source_offset_minutes" json:"source_offset_minutes"`
	TargetOffsetMinutes int `yaml:"target_offset_minutes" json:"target_offset_minutes"`

	// CacheDir is where fetched almanac bodies and HTTP cache metadata live.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:              "127.0.0.1:8080",
		RefreshCron:         "*/15 * * * *",
		SourceOffsetMinutes: almanac.DefaultSourceOffsetMinutes,
		TargetOffsetMinutes: almanac.DefaultTargetOffsetMinutes,
		CacheDir:            "/var/lib/panchview/almanac-cache",
		BasicAuth:           nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.SourceOffsetMinutes == 0 {
		c.SourceOffsetMinutes = almanac.DefaultSourceOffsetMinutes
	}
	if c.TargetOffsetMinutes == 0 {
		c.TargetOffsetMinutes = almanac.DefaultTargetOffsetMinutes
	}
	if c.CacheDir == "" {
		c.CacheDir = "/var/lib/panchview/almanac-cache"
	}
}

// Converter builds the fixed-offset time converter this config describes.
func (c *Config) Converter() *almanac.Converter {
	return almanac.NewConverter(c.SourceOffsetMinutes, c.TargetOffsetMinutes)
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create parent directory if needed, write a
//     default config with 0600 perms, and return the default config.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path, atomically via a
// temp file + rename, with 0600 final permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".panchview-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
