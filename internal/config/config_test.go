package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileOnly(t *testing.T) {
	path := writeConfig(t, "api_url: https://api.example.com\napi_token: file-tok\ntimeout: 5s\n")

	cfg, err := Load(path, Config{})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "file-tok", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoad_FlagsBeatEnvBeatsFile(t *testing.T) {
	path := writeConfig(t, "api_url: https://file.example.com\napi_token: file-tok\nlog_mode: prod\n")
	t.Setenv(envBaseURL, "https://env.example.com")
	t.Setenv(envToken, "env-tok")

	cfg, err := Load(path, Config{BaseURL: "https://flag.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com", cfg.BaseURL)
	assert.Equal(t, "env-tok", cfg.Token)
	assert.Equal(t, "prod", cfg.LogMode)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Load(path, Config{BaseURL: "https://api.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := writeConfig(t, "api_url: [unterminated\n")

	_, err := Load(path, Config{BaseURL: "https://api.example.com"})
	require.Error(t, err)
}

func TestLoad_NoBaseURLAnywhere(t *testing.T) {
	t.Setenv(envBaseURL, "")
	path := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(path, Config{})
	require.Error(t, err)
}
