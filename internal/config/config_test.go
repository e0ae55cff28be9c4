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
		Store:  StoreConfig{DataPath: "/some/path"},
		Portal: PortalConfig{BaseURL: "https://members.foodcoop.com"},
		Digest: DigestConfig{Schedule: "1 20 * * *", TopN: 5},
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
		{"INFO", true}, // case insensitive
		{"trace", false},
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

func TestValidate_PortalURL(t *testing.T) {
	cfg := validConfig()
	cfg.Portal.BaseURL = "members.foodcoop.com"
	assert.Error(t, cfg.Validate())

	cfg.Portal.BaseURL = "http://localhost:9999"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_DigestTopN(t *testing.T) {
	cfg := validConfig()
	cfg.Digest.TopN = 0
	assert.Error(t, cfg.Validate())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("SHIFTMATCH_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "SHIFTMATCH_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "SHIFTMATCH_TEST_KEY", "default"))

	os.Unsetenv("SHIFTMATCH_TEST_KEY")
	assert.Equal(t, "default", getConfigValue("", "SHIFTMATCH_TEST_KEY", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"TRUE", true},
		{"false", false},
		{"0", false},
		{"banana", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, getBoolConfigValue(tt.value, "UNSET_KEY", !tt.want))
		})
	}

	// Empty falls back to the default.
	assert.True(t, getBoolConfigValue("", "UNSET_KEY", true))
}

func TestGetFloatConfigValue(t *testing.T) {
	assert.Equal(t, 0.5, getFloatConfigValue("0.5", "UNSET_KEY", 1))
	assert.Equal(t, 1.0, getFloatConfigValue("", "UNSET_KEY", 1))
	assert.Equal(t, 1.0, getFloatConfigValue("abc", "UNSET_KEY", 1))
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("45s", "UNSET_KEY", "15s")
	require.NoError(t, err)
	assert.Equal(t, "45s", d.String())

	d, err = parseDurationValue("", "UNSET_KEY", "10m")
	require.NoError(t, err)
	assert.Equal(t, "10m0s", d.String())

	_, err = parseDurationValue("soon", "UNSET_KEY", "15s")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := "# comment\nSHIFTMATCH_ENV_A=hello\nSHIFTMATCH_ENV_B=\"quoted\"\n\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("SHIFTMATCH_ENV_A", "")
	os.Unsetenv("SHIFTMATCH_ENV_A")
	t.Setenv("SHIFTMATCH_ENV_B", "already-set")

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "hello", os.Getenv("SHIFTMATCH_ENV_A"))
	// Existing env vars win over the .env file.
	assert.Equal(t, "already-set", os.Getenv("SHIFTMATCH_ENV_B"))

	os.Unsetenv("SHIFTMATCH_ENV_A")
}

func TestLoadEnvFile_BadFormat(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("JUSTAKEY\n"), 0o600))

	assert.Error(t, loadEnvFile(envPath))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/shiftmatch", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "shiftmatch"), got)

	got, err = expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", got)
}
