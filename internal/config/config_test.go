package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "test-secret-key-for-jwt")
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://campus.example.edu")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "09:00", cfg.Attendance.LateCutoff)
	assert.Equal(t, 10000, cfg.Cache.Size)
	assert.Equal(t, 10*time.Minute, cfg.Cache.PruneInterval)
	assert.Equal(t, []string{"http://localhost:3000", "https://campus.example.edu"}, cfg.CORS.AllowedOrigins)

	defaults, err := cfg.AttendanceDefaults()
	require.NoError(t, err)
	assert.Equal(t, attendance.MustClockTime("09:00"), defaults.LateCutoff)
	assert.Equal(t, attendance.MustClockTime("16:00"), defaults.EarlyCutoff)
}

func TestLoad_PolicyFileOverridesEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	setRequiredEnv(t)
	t.Setenv("ATTENDANCE_LATE_CUTOFF", "09:00")

	policy := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(policy, []byte(`
attendance:
  lateCutoff: "09:10"
cache:
  size: 50
  pruneInterval: 30s
`), 0o600))
	t.Setenv("POLICY_FILE", policy)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "09:10", cfg.Attendance.LateCutoff)
	assert.Equal(t, "16:00", cfg.Attendance.EarlyCutoff)
	assert.Equal(t, 50, cfg.Cache.Size)
	assert.Equal(t, 30*time.Second, cfg.Cache.PruneInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing jwt secret", env: map[string]string{"JWT_SECRET_KEY": ""}},
		{name: "malformed cutoff", env: map[string]string{"ATTENDANCE_EARLY_CUTOFF": "4pm"}},
		{name: "malformed port", env: map[string]string{"APP_PORT": "http"}},
		{name: "negative cache size", env: map[string]string{"RESOLUTION_CACHE_SIZE": "-1"}},
		{name: "missing policy file", env: map[string]string{"POLICY_FILE": "does-not-exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			assert.Error(t, err)
		})
	}
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
