// Package project holds the afflint.toml policy configuration consumed by
// the checker pipeline and the driver.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is looked up next to the checked chart by default.
const ConfigFileName = "afflint.toml"

// ValueShape constrains what a metadata value may look like.
type ValueShape string

const (
	ShapeAny   ValueShape = "any"
	ShapeInt   ValueShape = "int"
	ShapeFloat ValueShape = "float"
)

// MetadataPolicy controls the metadata checker.
type MetadataPolicy struct {
	// Required keys must be present; each missing one is an error.
	Required []string `toml:"required"`
	// ExtraKnown extends the built-in key table; unknown keys warn.
	ExtraKnown []string `toml:"extra-known"`
}

// FormatPolicy controls the float formatting checker.
type FormatPolicy struct {
	// FloatDigits is the expected number of fractional digits.
	FloatDigits int `toml:"float-digits"`
}

// BoundsPolicy controls the coordinate range checker.
type BoundsPolicy struct {
	XMin float64 `toml:"x-min"`
	XMax float64 `toml:"x-max"`
	YMin float64 `toml:"y-min"`
	YMax float64 `toml:"y-max"`
}

// Config is the full checker policy.
type Config struct {
	MaxDiagnostics int            `toml:"max-diagnostics"`
	Metadata       MetadataPolicy `toml:"metadata"`
	Format         FormatPolicy   `toml:"format"`
	Bounds         BoundsPolicy   `toml:"bounds"`
}

// builtinKnown maps the keys the notation defines to their value shapes.
var builtinKnown = map[string]ValueShape{
	"AudioOffset":              ShapeInt,
	"TimingPointDensityFactor": ShapeFloat,
	"Version":                  ShapeAny,
}

// Default returns the policy used when no afflint.toml is present.
func Default() *Config {
	return &Config{
		MaxDiagnostics: 200,
		Metadata: MetadataPolicy{
			Required: []string{"AudioOffset"},
		},
		Format: FormatPolicy{FloatDigits: 2},
		Bounds: BoundsPolicy{XMin: -0.5, XMax: 1.5, YMin: 0.0, YMax: 1.0},
	}
}

// Load reads a config file on top of the defaults. A missing file is not an
// error: the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.MaxDiagnostics <= 0 {
		cfg.MaxDiagnostics = Default().MaxDiagnostics
	}
	if cfg.Format.FloatDigits <= 0 {
		cfg.Format.FloatDigits = Default().Format.FloatDigits
	}
	return cfg, nil
}

// KnownShape looks a metadata key up in the built-in table extended by the
// policy. ok=false means the key is unknown.
func (c *Config) KnownShape(key string) (ValueShape, bool) {
	if shape, ok := builtinKnown[key]; ok {
		return shape, true
	}
	for _, k := range c.Metadata.ExtraKnown {
		if k == key {
			return ShapeAny, true
		}
	}
	// a key the policy requires is by definition known
	for _, k := range c.Metadata.Required {
		if k == key {
			return ShapeAny, true
		}
	}
	return "", false
}
