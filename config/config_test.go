package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "vine-api", cfg.AppName)
		assert.Equal(t, "memory", cfg.SessionStore)
		assert.Equal(t, time.Hour, cfg.SessionTTL)
		assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
		assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("SESSION_STORE", "redis")
		t.Setenv("SESSION_TTL", "15m")
		t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "redis", cfg.SessionStore)
		assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	})

	t.Run("InvalidStore", func(t *testing.T) {
		t.Setenv("SESSION_STORE", "disk")
		_, err := Load()
		assert.ErrorContains(t, err, "SESSION_STORE")
	})
}
