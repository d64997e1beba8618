package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "xear-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "xear", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, 10, cfg.JWT.MaxRefreshCount)
	assert.Equal(t, 72*time.Hour, cfg.Reservation.DefaultExpiration)
	assert.Equal(t, "xear-documents", cfg.Storage.Bucket)
	assert.Equal(t, 8.27, cfg.Printing.PaperWidth)
	assert.Equal(t, 30*time.Second, cfg.GIB.Timeout)

	// CORS origins stay empty until configured explicitly
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.NotEmpty(t, cfg.HTTP.CORSAllowMethods)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults pass in development", func(t *testing.T) {
		require.NoError(t, base().validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = 50
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.Database.Password = "gizli"
		cfg.Database.SSLMode = "require"
		cfg.Cookie.Secure = true

		cfg.JWT.Secret = ""
		assert.Error(t, cfg.validate())

		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.validate())

		cfg.JWT.Secret = "a-production-secret-of-32-chars!!"
		assert.NoError(t, cfg.validate())
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-production-secret-of-32-chars!!"
		cfg.Database.Password = "gizli"
		cfg.Cookie.Secure = true
		assert.Error(t, cfg.validate())
	})

	t.Run("production rejects wildcard CORS origin", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-production-secret-of-32-chars!!"
		cfg.Database.Password = "gizli"
		cfg.Database.SSLMode = "require"
		cfg.Cookie.Secure = true
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})

	t.Run("production GIB submission needs credentials", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-production-secret-of-32-chars!!"
		cfg.Database.Password = "gizli"
		cfg.Database.SSLMode = "require"
		cfg.Cookie.Secure = true
		cfg.GIB.Enabled = true
		assert.Error(t, cfg.validate())

		cfg.GIB.TestMode = true
		assert.NoError(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "xear",
		Password: "p@ss/word",
		DBName:   "xear",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters survive escaping
	assert.NotContains(t, dsn, "p@ss/word")
}
