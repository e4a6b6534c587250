package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{
			Name:         "MetroAtlas Server",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			MaxUploadMB:  20,
		},
		Geocoder: GeocoderConfig{
			BaseURL:        "https://nominatim.openstreetmap.org/search",
			UserAgent:      "MetroAtlas/1.0",
			RequestTimeout: 10 * time.Second,
			RequestsPerSec: 2,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // case insensitive
		{"verbose", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_GeocoderSettings(t *testing.T) {
	t.Run("zero rate is rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Geocoder.RequestsPerSec = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty base URL is rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Geocoder.BaseURL = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestValidate_UploadSize(t *testing.T) {
	cfg := validConfig()
	cfg.Server.MaxUploadMB = 0
	assert.Error(t, cfg.Validate())
}

func TestStorageConfig_Enabled(t *testing.T) {
	t.Run("fully configured", func(t *testing.T) {
		s := StorageConfig{
			S3Bucket:    "metro-data",
			S3Region:    "us-east-1",
			S3AccessKey: "AKIA...",
			S3SecretKey: "secret",
		}
		assert.True(t, s.Enabled())
	})

	t.Run("partial configuration is disabled", func(t *testing.T) {
		s := StorageConfig{S3Bucket: "metro-data", S3Region: "us-east-1"}
		assert.False(t, s.Enabled())
	})

	t.Run("empty configuration is disabled", func(t *testing.T) {
		assert.False(t, StorageConfig{}.Enabled())
	})
}

func TestGetConfigValue_Precedence(t *testing.T) {
	const envKey = "METROATLAS_TEST_VALUE"
	t.Setenv(envKey, "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", envKey, "default"))
	assert.Equal(t, "from-env", getConfigValue("", envKey, "default"))

	os.Unsetenv(envKey)
	assert.Equal(t, "default", getConfigValue("", envKey, "default"))
}

func TestGetIntConfigValue(t *testing.T) {
	const envKey = "METROATLAS_TEST_INT"

	assert.Equal(t, 42, getIntConfigValue("42", envKey, 7))
	assert.Equal(t, 7, getIntConfigValue("", envKey, 7))
	assert.Equal(t, 7, getIntConfigValue("not-a-number", envKey, 7))

	t.Setenv(envKey, "13")
	assert.Equal(t, 13, getIntConfigValue("", envKey, 7))
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("parses keys and respects existing env", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		content := "# comment\n\nS3_BUCKET=metro-data\nS3_REGION=\"us-east-1\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		t.Setenv("S3_BUCKET", "already-set")
		t.Setenv("S3_REGION", "")

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "already-set", os.Getenv("S3_BUCKET"))
		assert.Equal(t, "us-east-1", os.Getenv("S3_REGION"))
	})

	t.Run("rejects malformed lines", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte("NOT AN ASSIGNMENT\n"), 0o600))

		assert.Error(t, loadEnvFile(path))
	})

	t.Run("missing file returns error", func(t *testing.T) {
		assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	})
}
