// Package detector picks the log format from the environment.
package detector

import (
	"os"

	"go.trai.ch/precache/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// LogFormat is the resolved log output format.
type LogFormat int

const (
	// FormatPretty writes colored lines for a human reader.
	FormatPretty LogFormat = iota
	// FormatJSON writes structured records for log collectors.
	FormatJSON
)

// Flag values accepted by ResolveFormat.
const (
	FlagAuto   = "auto"
	FlagPretty = "pretty"
	FlagJSON   = "json"
)

// DetectEnvironment returns the format suited to the process environment.
// A terminal on stderr or a CI runner gets pretty output; anything else,
// such as a service manager or container runtime, gets JSON.
func DetectEnvironment() LogFormat {
	return detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) LogFormat {
	if isTTY || ci == "true" || ci == "1" {
		return FormatPretty
	}
	return FormatJSON
}

// ResolveFormat applies the --log-format flag on top of the detected format.
func ResolveFormat(detected LogFormat, flag string) (LogFormat, error) {
	switch flag {
	case FlagAuto, "":
		return detected, nil
	case FlagPretty:
		return FormatPretty, nil
	case FlagJSON:
		return FormatJSON, nil
	default:
		return detected, zerr.With(domain.ErrInvalidLogFormat, "log_format", flag)
	}
}
