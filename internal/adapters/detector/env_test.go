package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precache/internal/adapters/detector"
	"go.trai.ch/precache/internal/core/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		isTTY bool
		ci    string
		want  detector.LogFormat
	}{
		{name: "terminal", isTTY: true, want: detector.FormatPretty},
		{name: "CI=true without terminal", ci: "true", want: detector.FormatPretty},
		{name: "CI=1 without terminal", ci: "1", want: detector.FormatPretty},
		{name: "CI=false without terminal", ci: "false", want: detector.FormatJSON},
		{name: "no terminal", want: detector.FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.Detect(tt.isTTY, tt.ci))
		})
	}
}

func TestDetectEnvironment_CI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, detector.FormatPretty, detector.DetectEnvironment())
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name     string
		detected detector.LogFormat
		flag     string
		want     detector.LogFormat
		wantErr  bool
	}{
		{name: "auto keeps pretty", detected: detector.FormatPretty, flag: "auto", want: detector.FormatPretty},
		{name: "auto keeps json", detected: detector.FormatJSON, flag: "auto", want: detector.FormatJSON},
		{name: "empty keeps detected", detected: detector.FormatJSON, flag: "", want: detector.FormatJSON},
		{name: "pretty overrides", detected: detector.FormatJSON, flag: "pretty", want: detector.FormatPretty},
		{name: "json overrides", detected: detector.FormatPretty, flag: "json", want: detector.FormatJSON},
		{name: "unknown", detected: detector.FormatPretty, flag: "xml", want: detector.FormatPretty, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detector.ResolveFormat(tt.detected, tt.flag)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorContains(t, err, domain.ErrInvalidLogFormat.Error())
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
