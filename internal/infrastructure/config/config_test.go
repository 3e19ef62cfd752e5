package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"GIVEBRIDGE_APP_NAME":                 os.Getenv("GIVEBRIDGE_APP_NAME"),
		"GIVEBRIDGE_APP_ENV":                  os.Getenv("GIVEBRIDGE_APP_ENV"),
		"GIVEBRIDGE_APP_PORT":                 os.Getenv("GIVEBRIDGE_APP_PORT"),
		"GIVEBRIDGE_DATABASE_HOST":            os.Getenv("GIVEBRIDGE_DATABASE_HOST"),
		"GIVEBRIDGE_DATABASE_PORT":            os.Getenv("GIVEBRIDGE_DATABASE_PORT"),
		"GIVEBRIDGE_DATABASE_USER":            os.Getenv("GIVEBRIDGE_DATABASE_USER"),
		"GIVEBRIDGE_DATABASE_PASSWORD":        os.Getenv("GIVEBRIDGE_DATABASE_PASSWORD"),
		"GIVEBRIDGE_DATABASE_DBNAME":          os.Getenv("GIVEBRIDGE_DATABASE_DBNAME"),
		"GIVEBRIDGE_DATABASE_SSLMODE":         os.Getenv("GIVEBRIDGE_DATABASE_SSLMODE"),
		"GIVEBRIDGE_DATABASE_MAX_OPEN_CONNS":  os.Getenv("GIVEBRIDGE_DATABASE_MAX_OPEN_CONNS"),
		"GIVEBRIDGE_DATABASE_MAX_IDLE_CONNS":  os.Getenv("GIVEBRIDGE_DATABASE_MAX_IDLE_CONNS"),
		"GIVEBRIDGE_MARKETPLACE_API_KEY":      os.Getenv("GIVEBRIDGE_MARKETPLACE_API_KEY"),
		"GIVEBRIDGE_MARKETPLACE_API_SECRET":   os.Getenv("GIVEBRIDGE_MARKETPLACE_API_SECRET"),
		"GIVEBRIDGE_BANK_FEED_WEBHOOK_SECRET": os.Getenv("GIVEBRIDGE_BANK_FEED_WEBHOOK_SECRET"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "givebridge-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "givebridge", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 14, cfg.Settlement.PaymentTermsDays)
		assert.Equal(t, 200, cfg.Tracker.ScanLimit)
	})

	t.Run("loads values from environment variables with GIVEBRIDGE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("GIVEBRIDGE_APP_NAME", "test-app")
		os.Setenv("GIVEBRIDGE_APP_PORT", "9000")
		os.Setenv("GIVEBRIDGE_DATABASE_HOST", "testdb.local")
		os.Setenv("GIVEBRIDGE_DATABASE_PORT", "5433")
		os.Setenv("GIVEBRIDGE_DATABASE_USER", "testuser")
		os.Setenv("GIVEBRIDGE_DATABASE_PASSWORD", "testpass")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("GIVEBRIDGE_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("GIVEBRIDGE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("requires marketplace credentials in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("GIVEBRIDGE_APP_ENV", "production")
		os.Setenv("GIVEBRIDGE_DATABASE_PASSWORD", "secure-password")
		os.Setenv("GIVEBRIDGE_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "marketplace.api_key")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("GIVEBRIDGE_APP_ENV", "production")
		os.Setenv("GIVEBRIDGE_DATABASE_PASSWORD", "secure-password")
		os.Setenv("GIVEBRIDGE_DATABASE_SSLMODE", "require")
		os.Setenv("GIVEBRIDGE_MARKETPLACE_API_KEY", "key")
		os.Setenv("GIVEBRIDGE_MARKETPLACE_API_SECRET", "secret")
		os.Setenv("GIVEBRIDGE_BANK_FEED_WEBHOOK_SECRET", "webhook-secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})
}
