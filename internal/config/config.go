// Package config loads rsdecode settings: default decoding parameters and
// additional Galois fields declared in YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ericlevine/zxingrs/reedsolomon"
)

// FieldSpec declares a GF(2^m) by its construction parameters.
type FieldSpec struct {
	Name          string `yaml:"name"`
	Size          int    `yaml:"size"`
	Primitive     int    `yaml:"primitive"`
	GeneratorBase int    `yaml:"generator_base"`
}

// Defaults holds values used when the corresponding flag is not given.
type Defaults struct {
	Field   string `yaml:"field"`
	EC      int    `yaml:"ec"`
	Format  string `yaml:"format"`
	Verbose bool   `yaml:"verbose"`
}

// Config is the top-level configuration document.
//
//	defaults:
//	  field: qrcode
//	  ec: 10
//	  format: hex
//	fields:
//	  - name: gf32
//	    size: 32
//	    primitive: 0x25
//	    generator_base: 1
type Config struct {
	Defaults Defaults    `yaml:"defaults"`
	Fields   []FieldSpec `yaml:"fields"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{Defaults: Defaults{Field: "qrcode", Format: "dec"}}
}

// SearchLocations lists the files Load tries, in order, when no path is
// given.
func SearchLocations() []string {
	locations := []string{"rsdecode.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "rsdecode", "config.yaml"))
	}
	return append(locations, "/etc/rsdecode.yaml")
}

// Load reads the configuration at path. With an empty path the first
// existing file from SearchLocations is used, falling back to Default.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}
	for _, location := range SearchLocations() {
		cfg, err := loadFile(location)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Default(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes a YAML document on top of Default. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Defaults.Format {
	case "dec", "hex":
	default:
		return fmt.Errorf("unknown format %q", c.Defaults.Format)
	}
	if c.Defaults.EC < 0 {
		return fmt.Errorf("negative ec %d", c.Defaults.EC)
	}
	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f.Name == "" {
			return errors.New("field without a name")
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q declared twice", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// BuildFields constructs the declared fields, keyed by name.
func (c *Config) BuildFields() (map[string]*reedsolomon.GenericGF, error) {
	fields := make(map[string]*reedsolomon.GenericGF, len(c.Fields))
	for _, f := range c.Fields {
		gf, err := reedsolomon.NewGenericGF(f.Primitive, f.Size, f.GeneratorBase)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fields[f.Name] = gf
	}
	return fields, nil
}

// RegisterFields builds the declared fields and adds them to the
// reedsolomon field registry.
func (c *Config) RegisterFields() error {
	fields, err := c.BuildFields()
	if err != nil {
		return err
	}
	for _, f := range c.Fields {
		if err := reedsolomon.RegisterField(f.Name, fields[f.Name]); err != nil {
			return err
		}
	}
	return nil
}
