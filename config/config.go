package config

import (
	"os"

	"github.com/rs/zerolog"
)

const LogLevelEnv = "PNGREAD_LOG_LEVEL"

type PngreadConfig struct {
	LogLevel zerolog.Level

	// Log how long the chunk walk, inflate and unfilter stages took.
	ShowTimings bool
}

var Config = PngreadConfig{
	LogLevel: zerolog.InfoLevel,
}

// LoadEnv overrides Config with anything set in the environment. An
// unparseable level is returned as an error and leaves Config unchanged.
func LoadEnv() error {
	if raw, ok := os.LookupEnv(LogLevelEnv); ok && raw != "" {
		level, err := zerolog.ParseLevel(raw)
		if err != nil {
			return err
		}
		Config.LogLevel = level
	}
	return nil
}
