package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mudra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10.0, cfg.Server.MaxEventsPerSecond)
	assert.Equal(t, 20, cfg.Server.EventBurst)
	assert.Equal(t, time.Second, cfg.Game.CountdownInterval)
	assert.True(t, cfg.Game.AutoStartAIRounds)
	assert.Equal(t, "🤖 AI", cfg.Game.AIName)
	assert.Equal(t, BackendMediaPipe, cfg.Detector.Backend)
	assert.Equal(t, 1, cfg.Detector.MaxHands)
	assert.Equal(t, 0.8, cfg.Detector.MinConfidence)
	assert.Equal(t, 30*time.Second, cfg.Detector.IdleTimeout)
	assert.Equal(t, "mudra", cfg.Metrics.Namespace)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  static_dir: /srv/web
game:
  countdown_interval: 250ms
  auto_start_ai_rounds: false
  ai_name: Robo
detector:
  backend: mock
  min_confidence: 0.5
log:
  level: debug
  development: true
`)

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/srv/web", cfg.Server.StaticDir)
	assert.Equal(t, 250*time.Millisecond, cfg.Game.CountdownInterval)
	assert.False(t, cfg.Game.AutoStartAIRounds)
	assert.Equal(t, "Robo", cfg.Game.AIName)
	assert.Equal(t, BackendMock, cfg.Detector.Backend)
	assert.Equal(t, 0.5, cfg.Detector.MinConfidence)
	assert.Equal(t, 1, cfg.Detector.MaxHands, "unset keys keep their default")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)

	lc := cfg.LobbyConfig()
	assert.Equal(t, 250*time.Millisecond, lc.CountdownInterval)
	assert.Equal(t, "Robo", lc.AIName)
	assert.False(t, lc.AutoStartAIRounds)

	dc := cfg.DetectorConfig()
	assert.Equal(t, 0.5, dc.MinConfidence)
	assert.Equal(t, 30*time.Second, dc.IdleTimeout)
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mudra.yaml"), []byte("server:\n  addr: \":7000\"\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MUDRA_SERVER_ADDR", ":6000")
	t.Setenv("MUDRA_GAME_COUNTDOWN_INTERVAL", "2s")
	t.Setenv("MUDRA_DETECTOR_BACKEND", "mock")

	path := writeConfig(t, "server:\n  addr: \":9090\"\n")
	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.Server.Addr, "env overrides the file")
	assert.Equal(t, 2*time.Second, cfg.Game.CountdownInterval)
	assert.Equal(t, BackendMock, cfg.Detector.Backend)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(New(), writeConfig(t, "server: [unclosed"))
		assert.Error(t, err)
	})

	tests := []struct {
		name string
		body string
	}{
		{"unknown backend", "detector:\n  backend: opencl\n"},
		{"zero countdown", "game:\n  countdown_interval: 0s\n"},
		{"zero rate", "server:\n  max_events_per_second: 0\n"},
		{"confidence above one", "detector:\n  min_confidence: 1.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(New(), writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
