package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ASSISTANT_CALL_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 3500, cfg.Server.Port)
	assert.False(t, cfg.OpenAI.Enabled)
	assert.Equal(t, 20*time.Second, cfg.Assistant.CallTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_API_BASE", "https://integrate.api.nvidia.com/v1/")
	t.Setenv("ASSISTANT_CALL_TIMEOUT", "5")
	t.Setenv("PLATFORM_INFO_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.True(t, cfg.OpenAI.Enabled)
	assert.Equal(t, "https://integrate.api.nvidia.com/v1", cfg.OpenAI.APIBase)
	assert.Equal(t, 5*time.Second, cfg.Assistant.CallTimeout)
	assert.Equal(t, 90*time.Second, cfg.Assistant.PlatformInfoTTL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("ASSISTANT_CALL_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3500, cfg.Server.Port)
	assert.Equal(t, 5.0, cfg.Server.RateLimitRPS)
	assert.Equal(t, 20*time.Second, cfg.Assistant.CallTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "redis" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Assistant.CallTimeout = 0 }, wantErr: true},
		{name: "zero breaker threshold", mutate: func(c *Config) { c.Assistant.BreakerThreshold = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Store:     StoreConfig{Driver: StoreDriverMemory},
				Assistant: AssistantConfig{CallTimeout: time.Second, BreakerThreshold: 3},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{Store: StoreConfig{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5433, User: "roomie", Password: "secret", Database: "roomie", SSLMode: "disable",
	}}}
	assert.Equal(t, "host=db port=5433 user=roomie password=secret dbname=roomie sslmode=disable", cfg.GetPostgreSQLDSN())

	cfg.Store.PostgreSQL.DSN = "postgres://u:p@h/d"
	assert.Equal(t, "postgres://u:p@h/d", cfg.GetPostgreSQLDSN())
}
