package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"weekpack/internal/grid"
)

// ICSConfig describes a single ICS subscription source.
type ICSConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
	// Source is the visual source tag assigned to events from this feed
	// (simplepractice, google, holiday, manual, ...). Tag resolution
	// happens here, once, at ingestion.
	Source string `yaml:"source" json:"source"`
}

// GridConfig sets the visible time range of day columns.
type GridConfig struct {
	// Start / End are "HH:MM" clock values; End is the start of the last
	// visible slot.
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
	// SlotMinutes is the grid granularity.
	SlotMinutes int `yaml:"slot_minutes" json:"slot_minutes"`
}

// StyleConfig overrides the palette for one source tag. Colors are
// "#RRGGBB" strings; empty fields keep the default.
type StyleConfig struct {
	Fill   string `yaml:"fill" json:"fill"`
	Border string `yaml:"border" json:"border"`
	Text   string `yaml:"text" json:"text"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the export API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA display timezone for all pages (e.g. "America/New_York").
	Timezone string `yaml:"timezone" json:"timezone"`

	// OutputDir is where weekly-package artifacts are written.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// ExportCron is a cron-style schedule for automatic exports of the
	// current week (e.g. "0 6 * * 1"). Empty disables scheduling.
	ExportCron string `yaml:"export_cron" json:"export_cron"`

	// Grid configures the visible day range.
	Grid GridConfig `yaml:"grid" json:"grid"`

	// MaxLanes caps side-by-side events on day pages; 0 means unlimited.
	// Events past the cap are listed as text overflow.
	MaxLanes int `yaml:"max_lanes" json:"max_lanes"`

	// Banner toggles the rasterized week-summary banner on the overview
	// page. Requires a working headless Chromium.
	Banner bool `yaml:"banner" json:"banner"`

	// Styles overrides palette entries per source tag.
	Styles map[string]StyleConfig `yaml:"styles,omitempty" json:"styles,omitempty"`

	// ICS is the list of subscribed ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:    "127.0.0.1:8080",
		Timezone:  "America/New_York",
		OutputDir: "./exports",
		Grid: GridConfig{
			Start:       "06:00",
			End:         "23:30",
			SlotMinutes: 30,
		},
		MaxLanes: 0,
		Banner:   false,
		ICS:      []ICSConfig{},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "America/New_York"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./exports"
	}
	if c.Grid.Start == "" {
		c.Grid.Start = "06:00"
	}
	if c.Grid.End == "" {
		c.Grid.End = "23:30"
	}
	if c.Grid.SlotMinutes <= 0 {
		c.Grid.SlotMinutes = 30
	}
	if c.MaxLanes < 0 {
		c.MaxLanes = 0
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
}

// TimeGrid converts the configured bounds into a grid.Grid, falling back to
// the default grid when clock values do not parse.
func (c *Config) TimeGrid() (grid.Grid, error) {
	start, err := grid.ParseClock(c.Grid.Start)
	if err != nil {
		return grid.Default(), err
	}
	end, err := grid.ParseClock(c.Grid.End)
	if err != nil {
		return grid.Default(), err
	}
	g := grid.Grid{StartMinute: start, EndMinute: end, SlotMinutes: c.Grid.SlotMinutes}
	if err := g.Validate(); err != nil {
		return grid.Default(), err
	}
	return g, nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create parent directory if needed, write
//     a default config with 0600 perms, and return the default config.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
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

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
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

	tmp, err := os.CreateTemp(dir, ".weekpack-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
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

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
