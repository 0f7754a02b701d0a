package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.ServerPort())
	assert.Equal(t, "smokey.db", cfg.DatabaseURL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, int64(25*1024*1024), cfg.MaxFileSize)
	assert.True(t, cfg.AllowAllOrigins)
	assert.Contains(t, cfg.AllowedFileTypes, "video/mp4")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRATION", "3600")
	t.Setenv("ALLOW_ALL_ORIGINS", "false")
	t.Setenv("ALLOWED_ORIGINS", "https://smokeys.sg,https://admin.smokeys.sg")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3600, cfg.JWTExpiration)
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://smokeys.sg", "https://admin.smokeys.sg"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	t.Run("DefaultsAreValid", func(t *testing.T) {
		require.NoError(t, Load().Validate())
	})

	t.Run("MissingSecrets", func(t *testing.T) {
		cfg := Load()
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())

		cfg = Load()
		cfg.AdminPassword = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("UnknownEnvironment", func(t *testing.T) {
		cfg := Load()
		cfg.Environment = "staging"
		assert.Error(t, cfg.Validate())
	})
}

func TestMediaEndpoint(t *testing.T) {
	cfg := &Config{MediaCloudName: "smokey"}
	assert.Equal(t, "https://api.cloudinary.com/v1_1/smokey/auto/upload", cfg.MediaEndpoint())

	cfg.MediaUploadURL = "https://cdn.example.com/upload"
	assert.Equal(t, "https://cdn.example.com/upload", cfg.MediaEndpoint())

	assert.Empty(t, (&Config{}).MediaEndpoint())
}
