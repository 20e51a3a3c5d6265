// Package config loads the manifest configuration from precache.yaml.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/precache/internal/core/domain"
	"go.trai.ch/precache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load searches cwd and its parents for precache.yaml. Without one it
// returns the built-in defaults.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	path, ok := findConfiguration(cwd)
	if !ok {
		l.Logger.Info("no "+domain.ConfigFileName+" found, using built-in manifest", "version", domain.DefaultVersion)
		return l.finish(domain.DefaultConfig())
	}
	return l.LoadFile(path)
}

// LoadFile reads and validates the config file at path.
func (l *Loader) LoadFile(path string) (*domain.Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Manifestfile
	if err := readAndUnmarshalYAML(abs, &file); err != nil {
		return nil, zerr.With(err, "path", abs)
	}

	cfg := domain.DefaultConfig()
	cfg.Path = abs
	if file.Version != "" {
		cfg.Manifest.Version = file.Version
	}
	if file.Origin != "" {
		cfg.Manifest.Origin = file.Origin
	}
	if file.Listen != "" {
		cfg.Listen = file.Listen
	}
	if file.Assets != nil {
		cfg.Manifest.Assets = file.Assets
	}

	return l.finish(cfg)
}

// finish applies environment overrides and validates cfg.
func (l *Loader) finish(cfg *domain.Config) (*domain.Config, error) {
	if err := applyEnvironment(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Manifest.Validate(); err != nil {
		if cfg.Path != "" {
			return nil, zerr.With(err, "path", cfg.Path)
		}
		return nil, err
	}

	if len(cfg.Manifest.Assets) == 0 {
		l.Logger.Warn("manifest lists no assets, install will create an empty cache", "path", cfg.Path)
	}

	return cfg, nil
}

func applyEnvironment(cfg *domain.Config) error {
	var vars Environment
	if err := env.Parse(&vars); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	if vars.Version != "" {
		cfg.Manifest.Version = vars.Version
	}
	if vars.Origin != "" {
		cfg.Manifest.Origin = vars.Origin
	}
	if vars.Listen != "" {
		cfg.Listen = vars.Listen
	}
	if len(vars.Assets) > 0 {
		cfg.Manifest.Assets = vars.Assets
	}
	return nil
}

// findConfiguration walks from cwd up to the file system root.
func findConfiguration(cwd string) (string, bool) {
	current := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(current, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is supplied by the user or found by discovery
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.Wrap(err, domain.ErrConfigNotFound.Error())
		}
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
