package app

import (
	"go.trai.ch/precache/internal/adapters/detector" //nolint:depguard // Wired in app layer
	"go.trai.ch/precache/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/precache/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

// formatSetter is implemented by loggers whose output format can change after construction.
type formatSetter interface {
	SetFormat(logger.Format)
}

// ConfigureLogging applies the --log-format flag on top of the detected environment.
func (c *Components) ConfigureLogging(flag string) error {
	format, err := detector.ResolveFormat(detector.DetectEnvironment(), flag)
	if err != nil {
		return err
	}

	fs, ok := c.Logger.(formatSetter)
	if !ok {
		return nil
	}
	if format == detector.FormatJSON {
		fs.SetFormat(logger.FormatJSON)
	} else {
		fs.SetFormat(logger.FormatPretty)
	}
	return nil
}
