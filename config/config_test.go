package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoadEnv(t *testing.T) {
	saved := Config
	t.Cleanup(func() { Config = saved })

	t.Run("unset keeps default", func(t *testing.T) {
		Config = saved
		t.Setenv(LogLevelEnv, "")
		assert.NoError(t, LoadEnv())
		assert.Equal(t, zerolog.InfoLevel, Config.LogLevel)
	})
	t.Run("valid level", func(t *testing.T) {
		Config = saved
		t.Setenv(LogLevelEnv, "debug")
		assert.NoError(t, LoadEnv())
		assert.Equal(t, zerolog.DebugLevel, Config.LogLevel)
	})
	t.Run("invalid level", func(t *testing.T) {
		Config = saved
		t.Setenv(LogLevelEnv, "loud")
		assert.Error(t, LoadEnv())
		assert.Equal(t, zerolog.InfoLevel, Config.LogLevel)
	})
}
