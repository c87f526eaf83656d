package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/notevault-test"},
		Server: ServerConfig{Port: "8080"},
	}
}

func TestValidate_Success(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_BadEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "prod"
	assert.Error(t, cfg.Validate())
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestDataPaths_DerivedFromBase(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, filepath.Join("/tmp/notevault-test", "db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/tmp/notevault-test", "search"), cfg.SearchPath())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("NOTEVAULT_TEST_KEY", "from-env")

	// Flag wins over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "NOTEVAULT_TEST_KEY", "default"))
	// Env wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "NOTEVAULT_TEST_KEY", "default"))
	// Default when nothing else is set.
	assert.Equal(t, "default", getConfigValue("", "NOTEVAULT_TEST_KEY_UNSET", "default"))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t, []string{"http://a", "http://b"}, splitOrigins("http://a, http://b"))
	assert.Equal(t, []string{"*"}, splitOrigins(" , "))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nNOTEVAULT_ENVFILE_KEY=\"quoted value\"\n\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("NOTEVAULT_ENVFILE_KEY", "")
	require.NoError(t, os.Unsetenv("NOTEVAULT_ENVFILE_KEY"))

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "quoted value", os.Getenv("NOTEVAULT_ENVFILE_KEY"))
}

func TestLoadEnvFile_BadLine(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NOT A PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(envPath))
}

func TestExpandPath_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/notes", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), expanded)
}
