package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/smokeplan/internal/capacity"
	"github.com/danieljhkim/smokeplan/internal/grid"
)

// Store drivers.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Blob drivers.
const (
	BlobNone = ""
	BlobFS   = "fs"
	BlobS3   = "s3"
)

// DefaultConfigYAML is written by `smokeplan init`.
const DefaultConfigYAML = `# smokeplan configuration

# Shape of the weekly grid: working days, smokers, rows per smoker.
grid:
  days: 6
  units: 4
  positions: 7

# Raw kilograms each smoker takes per slot. 0 or less means unlimited.
# Overrides replace the base row for one product category.
capacity:
  base: [400, 300, 400, 400]
  # overrides:
  #   hovezi: [300, 250, 300, 300]

# Smoker reserved for one category. unit: 0 disables the reservation.
reservation:
  unit: 4
  category: biltong

prefill:
  # Break equal-load ties in favour of the smoker with more capacity.
  prefer_larger_units: false

move:
  # Place the part that fits and drop the rest when a move would overfill a slot.
  allow_split: false

# Plan storage: file, sqlite or postgres.
store:
  driver: file
  # dsn: postgres://localhost/smokeplan?sslmode=disable

# Archive sink for "export --archive": fs, s3 or empty to keep archives local.
blob:
  driver: ""
  # bucket: smokeplan-archives
  # region: eu-central-1
  # endpoint: http://localhost:9000
  # path_style: true
  prefix: plans

metrics:
  # Prometheus textfile written after each command. Empty disables it.
  textfile: ""
`

// GridConfig mirrors grid.Dimensions in the config file.
type GridConfig struct {
	Days      int `yaml:"days"`
	Units     int `yaml:"units"`
	Positions int `yaml:"positions"`
}

// CapacityConfig holds the capacity table.
type CapacityConfig struct {
	Base      []float64            `yaml:"base"`
	Overrides map[string][]float64 `yaml:"overrides,omitempty"`
}

// ReservationConfig names the reserved smoker and its category.
type ReservationConfig struct {
	Unit     int    `yaml:"unit"`
	Category string `yaml:"category"`
}

// PrefillConfig tunes the prefill unit order.
type PrefillConfig struct {
	PreferLargerUnits bool `yaml:"prefer_larger_units"`
}

// MoveConfig tunes move behaviour.
type MoveConfig struct {
	AllowSplit bool `yaml:"allow_split"`
}

// StoreConfig selects the plan store.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn,omitempty"`
}

// BlobConfig selects where export archives are uploaded.
type BlobConfig struct {
	Driver    string `yaml:"driver"`
	Root      string `yaml:"root,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
}

// MetricsConfig controls the Prometheus textfile output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Config models config.yaml.
type Config struct {
	Grid        GridConfig        `yaml:"grid"`
	Capacity    CapacityConfig    `yaml:"capacity"`
	Reservation ReservationConfig `yaml:"reservation"`
	Prefill     PrefillConfig     `yaml:"prefill"`
	Move        MoveConfig        `yaml:"move"`
	Store       StoreConfig       `yaml:"store"`
	Blob        BlobConfig        `yaml:"blob"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Days:      grid.DefaultDays,
			Units:     grid.DefaultUnits,
			Positions: grid.DefaultPositions,
		},
		Capacity: CapacityConfig{
			Base: append([]float64(nil), capacity.DefaultBase...),
		},
		Reservation: ReservationConfig{Unit: 4, Category: "biltong"},
		Store:       StoreConfig{Driver: StoreFile},
		Blob:        BlobConfig{Prefix: "plans"},
	}
}

// Load reads the config file at path. A missing file yields the defaults.
// Environment overrides are applied after the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SMOKEPLAN_STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("SMOKEPLAN_STORE_DSN"); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv("SMOKEPLAN_BLOB_DRIVER"); v != "" {
		c.Blob.Driver = v
	}
	if v := os.Getenv("SMOKEPLAN_BLOB_S3_BUCKET"); v != "" {
		c.Blob.Bucket = v
	}
	if v := os.Getenv("SMOKEPLAN_BLOB_S3_REGION"); v != "" {
		c.Blob.Region = v
	}
	if v := os.Getenv("SMOKEPLAN_BLOB_S3_ENDPOINT"); v != "" {
		c.Blob.Endpoint = v
	}
	if v := os.Getenv("SMOKEPLAN_BLOB_S3_PATH_STYLE"); v != "" {
		c.Blob.PathStyle = strings.EqualFold(v, "true")
	}
}

func (c *Config) normalize() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		c.Store.Driver = StoreFile
	}
	c.Blob.Driver = strings.ToLower(strings.TrimSpace(c.Blob.Driver))
	c.Reservation.Category = capacity.NormalizeCategory(c.Reservation.Category)
}

// Validate checks the configuration for values the planner cannot use.
func (c *Config) Validate() error {
	if err := c.Dimensions().Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if c.Reservation.Unit < 0 || c.Reservation.Unit > c.Grid.Units {
		return fmt.Errorf("reservation.unit %d outside [0, %d]", c.Reservation.Unit, c.Grid.Units)
	}
	if c.Reservation.Unit > 0 && c.Reservation.Category == "" {
		return fmt.Errorf("reservation.category is required when reservation.unit is set")
	}
	switch c.Store.Driver {
	case StoreFile, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("store.driver %q: want file, sqlite or postgres", c.Store.Driver)
	}
	switch c.Blob.Driver {
	case BlobNone, BlobFS:
	case BlobS3:
		if c.Blob.Bucket == "" {
			return fmt.Errorf("blob.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("blob.driver %q: want fs, s3 or empty", c.Blob.Driver)
	}
	return nil
}

// Dimensions returns the configured grid shape.
func (c *Config) Dimensions() grid.Dimensions {
	return grid.Dimensions{Days: c.Grid.Days, Units: c.Grid.Units, Positions: c.Grid.Positions}
}

// CapacityTable builds the capacity table from the config.
func (c *Config) CapacityTable() *capacity.Table {
	return capacity.New(c.Capacity.Base, c.Capacity.Overrides)
}
