package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("UPLOAD_DIR", "/tmp/uploads")
		t.Setenv("ONBOARDING_FAIL_MODE", "deny")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "secret", cfg.JWTSecret)
		assert.Equal(t, "/tmp/uploads", cfg.UploadDir)
		assert.Equal(t, "deny", cfg.OnboardingFailMode)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("UPLOAD_DIR", "")
		t.Setenv("ONBOARDING_FAIL_MODE", "")

		cfg := LoadConfig()

		assert.Equal(t, "./uploads", cfg.UploadDir)
		assert.Equal(t, "allow", cfg.OnboardingFailMode)
	})

	t.Run("Unknown fail mode falls back to allow", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("ONBOARDING_FAIL_MODE", "explode")

		cfg := LoadConfig()
		assert.Equal(t, "allow", cfg.OnboardingFailMode)
	})
}
