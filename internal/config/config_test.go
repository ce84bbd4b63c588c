package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MONGO_DB", "")
	t.Setenv("AUTH_PROVIDER", "")
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("MQTT_BROKER", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, "mmfrota", cfg.Mongo.Database)
	assert.False(t, cfg.Mongo.Transactions)
	assert.Equal(t, AuthProviderJWT, cfg.Auth.Provider)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone.String())
	assert.Equal(t, 10*time.Minute, cfg.Redis.SummaryTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.MQTT.Broker)
	assert.Equal(t, "mmfrota", cfg.MQTT.TopicPrefix)
	assert.Empty(t, cfg.RateLimit.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SUMMARY_CACHE_TTL", "1m")
	t.Setenv("MQTT_TOPIC_PREFIX", "frota/")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, ,127.0.0.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Mongo.Transactions)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Minute, cfg.Redis.SummaryTTL)
	assert.Equal(t, "frota", cfg.MQTT.TopicPrefix)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.RateLimit.TrustedProxies)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad port", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"bad timezone", "APP_TIMEZONE", "Mars/Olympus"},
		{"bad provider", "AUTH_PROVIDER", "ldap"},
		{"firebase without credentials", "AUTH_PROVIDER", "firebase"},
		{"zero burst", "RATE_LIMIT_BURST", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FIREBASE_CREDENTIALS", "")
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(LogConfig{Level: "debug", Format: "text"})
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	logger = NewLogger(LogConfig{Level: "nonsense", Format: "json"})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}
