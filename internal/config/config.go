// Package config handles application configuration and setup
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/psxdisasm/internal/inst/directive"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/retrogolib/log"
	"gopkg.in/yaml.v2"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// Analysis is the analysis configuration read from a YAML file.
type Analysis struct {
	DataCatalogs []string     `yaml:"data_catalogs"`
	FuncCatalogs []string     `yaml:"func_catalogs"`
	ForceDecode  []ForceRange `yaml:"force_decode"`
}

// ForceRange is a force-decode range. An end of 0 leaves the range unbounded.
type ForceRange struct {
	Start uint32 `yaml:"start"`
	End   uint32 `yaml:"end,omitempty"`
	Shape string `yaml:"shape"`
}

// Default returns the configuration used when no file is given.
func Default() Analysis {
	var ranges []ForceRange
	for _, r := range directive.DefaultForceTable().Ranges() {
		fr := ForceRange{
			Start: uint32(r.Start),
			Shape: r.Shape.String(),
		}
		if !r.Unbounded {
			fr.End = uint32(r.End)
		}
		ranges = append(ranges, fr)
	}
	return Analysis{ForceDecode: ranges}
}

// Load reads a configuration file. Keys missing in the file keep their default value,
// relative catalog paths are resolved against the directory of the file.
func Load(path string) (Analysis, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file '%s': %w", path, err)
	}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file '%s': %w", path, err)
	}

	dir := filepath.Dir(path)
	cfg.DataCatalogs = resolvePaths(dir, cfg.DataCatalogs)
	cfg.FuncCatalogs = resolvePaths(dir, cfg.FuncCatalogs)

	if _, err := cfg.ForceTable(); err != nil {
		return cfg, fmt.Errorf("parsing config file '%s': %w", path, err)
	}
	return cfg, nil
}

// ForceTable returns the force-decode table of the configuration.
func (a Analysis) ForceTable() (*directive.ForceTable, error) {
	ranges := make([]directive.ForceRange, 0, len(a.ForceDecode))
	for _, r := range a.ForceDecode {
		shape, err := directive.ParseShape(r.Shape)
		if err != nil {
			return nil, fmt.Errorf("force-decode range at %s: %w", pos.Pos(r.Start), err)
		}

		fr := directive.ForceRange{
			Start:     pos.Pos(r.Start),
			End:       pos.Pos(r.End),
			Unbounded: r.End == 0,
			Shape:     shape,
		}
		if !fr.Unbounded && fr.End <= fr.Start {
			return nil, fmt.Errorf("force-decode range at %s: end %s is not after start", fr.Start, fr.End)
		}
		ranges = append(ranges, fr)
	}
	return directive.NewForceTable(ranges...), nil
}

func resolvePaths(dir string, paths []string) []string {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		resolved = append(resolved, p)
	}
	return resolved
}
