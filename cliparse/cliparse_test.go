// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Config reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "IDENTITY_SECRET", "IDENTITY_ISSUER",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REDIS_ADDR", "TRUSTED_PROXIES", "TRACING", "METRICS_ENABLED",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("IDENTITY_SECRET", "test-secret")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := ParseFlags([]string{"--env-file", ""})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://test", cfg.DatabaseURL)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("IDENTITY_SECRET", "s")

	cfg, err := ParseFlags([]string{"--env-file", ""})
	require.NoError(t, err)

	assert.Equal(t, 3318, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, TracingNone, cfg.Tracing)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestParseFlags_TrustedProxies(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("IDENTITY_SECRET", "s")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.1")

	cfg, err := ParseFlags([]string{"--env-file", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)

	cfg, err = ParseFlags([]string{"--env-file", "", "--trusted-proxies", "172.16.0.0/12"})
	require.NoError(t, err)
	assert.Equal(t, []string{"172.16.0.0/12"}, cfg.TrustedProxies)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := ParseFlags([]string{
		"--env-file", "",
		"-p", "8080",
		"-d", "file:test.db",
		"--identity-secret", "s1",
		"--metrics=false",
	})
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.MetricsEnabled)
}

func TestParseFlags_DotenvBelowEnv(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=file:dotenv.db\nIDENTITY_SECRET=from-file\nPORT=7000\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	t.Setenv("PORT", "7100")

	cfg, err := ParseFlags([]string{"--env-file", envFile})
	require.NoError(t, err)

	assert.Equal(t, "file:dotenv.db", cfg.DatabaseURL)
	assert.Equal(t, "from-file", cfg.IdentitySecret)
	assert.Equal(t, 7100, cfg.Port, "environment beats the dotenv file")
}

func TestParseFlags_Required(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database url", map[string]string{"IDENTITY_SECRET": "s"}, nil},
		{"missing identity secret", map[string]string{"DATABASE_URL": "file:x.db"}, nil},
		{"bad database type", map[string]string{"DATABASE_URL": "x", "IDENTITY_SECRET": "s"}, []string{"-t", "mysql"}},
		{"bad tracing", map[string]string{"DATABASE_URL": "x", "IDENTITY_SECRET": "s", "TRACING": "zipkin"}, nil},
		{"bad port", map[string]string{"DATABASE_URL": "x", "IDENTITY_SECRET": "s"}, []string{"-p", "70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(append([]string{"--env-file", ""}, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestParseFlags_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")
	_, err := ParseFlags([]string{"--env-file", ""})
	assert.Error(t, err)
}
