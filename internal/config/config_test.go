package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 60*time.Second, cfg.OpenAITimeout)
	assert.Equal(t, 9, cfg.TZOffsetHours)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.OpenAIKey)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadOffset(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("TZ_OFFSET_HOURS", "20")
	_, err := Load()
	assert.Error(t, err)
}

func TestConnString(t *testing.T) {
	c := &Config{DBHost: "db", DBPort: 5433, DBUser: "u", DBPassword: "p", DBName: "todos", DBSSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=todos sslmode=require", c.ConnString())
}
