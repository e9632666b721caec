// SPDX-License-Identifier: EPL-2.0

package sndf

import (
	"log/slog"
	"os"
)

const (
	// EnvFormat names the default format, optionally with PCM options as
	// in "PCM/R8000C1".
	EnvFormat = "SNDFFTYPE"
	// EnvPCMFormat holds the PCM option string.
	EnvPCMFormat = "PCMFORMAT"
)

// Config sets up a Session.
type Config struct {
	DefaultFormat string
	PCMFormat     string
	Logger        *slog.Logger
}

// ConfigFromEnv reads SNDFFTYPE and PCMFORMAT.
func ConfigFromEnv() Config {
	return Config{
		DefaultFormat: os.Getenv(EnvFormat),
		PCMFormat:     os.Getenv(EnvPCMFormat),
	}
}
