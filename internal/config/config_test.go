package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv hides any settings inherited from the developer's shell.
// Viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	for _, key := range []string{"LOG_LEVEL", "GITHUB_TOKEN", "GITHUB_API_URL", "GITHUB_GRAPHQL_URL", "USER_AGENT", "STATS_MAX_ATTEMPTS", "STATS_RETRY_DELAY"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "https://api.github.com/", cfg.APIURL)
	assert.Equal(t, "https://api.github.com/graphql", cfg.GraphQLURL)
	assert.Equal(t, "github-stats", cfg.UserAgent)
	assert.Equal(t, 60, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "from-env")
	t.Setenv("STATS_MAX_ATTEMPTS", "5")
	t.Setenv("STATS_RETRY_DELAY", "250ms")

	cfg, err := Load(New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.GithubToken)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := "GITHUB_TOKEN=from-file\nLOG_LEVEL=debug\nSTATS_RETRY_DELAY=10s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := Load(New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.GithubToken)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.RetryDelay)
}

func TestLoad_Validation(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero attempts", key: "STATS_MAX_ATTEMPTS", value: "0"},
		{name: "negative delay", key: "STATS_RETRY_DELAY", value: "-1s"},
		{name: "empty api url", key: "GITHUB_API_URL", value: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			v := New()
			v.Set(tc.key, tc.value)
			_, err := Load(v, t.TempDir())
			assert.Error(t, err)
		})
	}
}
