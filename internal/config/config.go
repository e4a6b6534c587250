// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Geocoder GeocoderConfig
	Storage  StorageConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	MaxUploadMB  int           // Maximum upload body size in MiB (default: 20)
}

// GeocoderConfig holds geocoding configuration.
type GeocoderConfig struct {
	BaseURL        string        // Geocoding endpoint (default: Nominatim)
	UserAgent      string        // Identifies the app to the geocoding service
	RequestTimeout time.Duration // Per-lookup timeout (default: 10s)
	RequestsPerSec float64       // Outbound request rate (default: 2)
}

// StorageConfig holds cleaned-table persistence configuration.
// All four S3 values must be set together; when any is missing,
// persistence is disabled and the server still starts.
type StorageConfig struct {
	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Key       string // Object key for the cleaned table (default: metro-systems.csv)
}

// Enabled reports whether S3 persistence is fully configured.
func (s StorageConfig) Enabled() bool {
	return s.S3Bucket != "" && s.S3Region != "" && s.S3AccessKey != "" && s.S3SecretKey != ""
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	serverName := flag.String("server-name", "", "Name for the server")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	maxUploadMB := flag.String("max-upload-mb", "", "Maximum upload size in MiB (default: 20)")

	// Geocoder flags
	geocoderURL := flag.String("geocoder-url", "", "Geocoding service base URL")
	geocoderTimeout := flag.String("geocoder-timeout", "", "Geocoding request timeout (default: 10s)")
	geocoderRate := flag.String("geocoder-rps", "", "Geocoding requests per second (default: 2)")

	// Storage flags
	s3Bucket := flag.String("s3-bucket", "", "S3 bucket for the cleaned table")
	s3Region := flag.String("s3-region", "", "S3 region")
	s3Key := flag.String("s3-key", "", "S3 object key (default: metro-systems.csv)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name:        getConfigValue(*serverName, "SERVER_NAME", "MetroAtlas Server"),
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			MaxUploadMB: getIntConfigValue(*maxUploadMB, "SERVER_MAX_UPLOAD_MB", 20),
		},
		Geocoder: GeocoderConfig{
			BaseURL:   getConfigValue(*geocoderURL, "GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
			UserAgent: getConfigValue("", "GEOCODER_USER_AGENT", "MetroAtlas/1.0"),
		},
		Storage: StorageConfig{
			S3Bucket:    getConfigValue(*s3Bucket, "S3_BUCKET", ""),
			S3Region:    getConfigValue(*s3Region, "S3_REGION", ""),
			S3AccessKey: getConfigValue("", "S3_ACCESS_KEY", ""),
			S3SecretKey: getConfigValue("", "S3_SECRET_KEY", ""),
			S3Key:       getConfigValue(*s3Key, "S3_KEY", "metro-systems.csv"),
		},
	}

	// Parse server timeouts.
	var err error
	if cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	// Parse geocoder settings.
	if cfg.Geocoder.RequestTimeout, err = parseDurationValue(*geocoderTimeout, "GEOCODER_TIMEOUT", "10s"); err != nil {
		return nil, fmt.Errorf("invalid geocoder timeout: %w", err)
	}
	rateStr := getConfigValue(*geocoderRate, "GEOCODER_RPS", "2")
	cfg.Geocoder.RequestsPerSec, err = strconv.ParseFloat(rateStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid geocoder rate %q: %w", rateStr, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d", c.Server.MaxUploadMB)
	}

	if c.Geocoder.RequestsPerSec <= 0 {
		return fmt.Errorf("invalid geocoder rate: %v", c.Geocoder.RequestsPerSec)
	}
	if c.Geocoder.BaseURL == "" {
		return errors.New("geocoder URL cannot be empty")
	}

	// Storage is optional; a partially configured S3 section is treated as
	// disabled rather than rejected, matching the single-user workflow
	// where the cache is a convenience.

	return nil
}

// parseDurationValue resolves a duration setting through the usual
// flag/env/default precedence.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", raw, err)
	}
	return d, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
