package config

import (
	"errors"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "bookshelf", cfg.Mongo.Database)
	assert.Equal(t, 3, cfg.Mongo.RetryAttempts)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.HTTP.AllowedOrigins)
	assert.Empty(t, cfg.HTTP.TrustedProxies)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{
		"APP_ADDR":             ":8080",
		"STORE_DRIVER":         "postgres",
		"DB_DSN":               "postgres://u:p@db:5432/books",
		"DB_QUERY_TIMEOUT":     "750ms",
		"LOG_FORMAT":           "console",
		"RATE_LIMIT_RPS":       "12.5",
		"CORS_ALLOWED_ORIGINS": "http://a.test,http://b.test",
		"TRUSTED_PROXIES":      "10.0.0.0/8,192.0.2.1",
	}})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres://u:p@db:5432/books", cfg.Postgres.DSN)
	assert.Equal(t, 750*time.Millisecond, cfg.QueryTimeout)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.InDelta(t, 12.5, cfg.HTTP.RateLimitRPS, 0.0001)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.HTTP.TrustedProxies)
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}},
		{"unknown log format", map[string]string{"LOG_FORMAT": "xml"}},
		{"zero query timeout", map[string]string{"DB_QUERY_TIMEOUT": "0s"}},
		{"no mongo attempts", map[string]string{"MONGO_RETRY_ATTEMPTS": "0"}},
		{"negative rate", map[string]string{"RATE_LIMIT_RPS": "-1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(env.Options{Environment: tc.env})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(env.Options{Environment: map[string]string{"DB_QUERY_TIMEOUT": "soon"}})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidConfig))
}
