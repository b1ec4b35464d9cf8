package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/cliprec/internal/encoder"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 16, cfg.FPS)
	assert.NotEmpty(t, cfg.Mirror.ID)

	formats, err := cfg.AnimatedFormats()
	require.NoError(t, err)
	assert.Equal(t, []encoder.Format{encoder.FormatGIF, encoder.FormatAPNG}, formats)
	assert.Equal(t, encoder.FormatPNG8, cfg.StillFormat())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cliprec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir: /tmp/clips
fps: 30
formats: [apng]
overlay:
  min_distance: 10
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/clips", cfg.OutputDir)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, []string{"apng"}, cfg.Formats)
	assert.Equal(t, 10.0, cfg.Overlay.MinDistance)
	// untouched sections keep their defaults
	assert.Equal(t, 800, cfg.Window.Width)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cliprec.yaml")
	cfg := DefaultConfig()
	cfg.FrameLimit = 90
	cfg.Mirror.Enabled = true
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		"CLIPREC_FPS":           " 24 ",
		"CLIPREC_FORMATS":       "gif, ,apng,",
		"CLIPREC_PNG8":          "false",
		"CLIPREC_SIGNALING_URL": "ws://example:9000",
		"CLIPREC_OUTPUT_DIR":    "",
	}))
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.FPS)
	assert.Equal(t, []string{"gif", "apng"}, cfg.Formats)
	assert.False(t, cfg.PNG8)
	assert.Equal(t, "ws://example:9000", cfg.Mirror.SignalingURL)
	assert.Equal(t, "recordings", cfg.OutputDir)
}

func TestApplyEnvCollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		"CLIPREC_FPS":          "fast",
		"CLIPREC_ASYNC_ENCODE": "maybe",
		"CLIPREC_FRAME_LIMIT":  "30",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLIPREC_FPS")
	assert.Contains(t, err.Error(), "CLIPREC_ASYNC_ENCODE")
	assert.Equal(t, 16, cfg.FPS)
	assert.Equal(t, 30, cfg.FrameLimit)
}

func TestEnvLookupPrefersProcessEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("CLIPREC_FPS=12\nCLIPREC_MIRROR_ID=from-file\n"), 0o644))
	t.Setenv("CLIPREC_FPS", "20")

	lookup, err := EnvLookup(envPath)
	require.NoError(t, err)

	v, ok := lookup("CLIPREC_FPS")
	assert.True(t, ok)
	assert.Equal(t, "20", v)
	v, ok = lookup("CLIPREC_MIRROR_ID")
	assert.True(t, ok)
	assert.Equal(t, "from-file", v)

	_, err = EnvLookup(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestValidateClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FPS = 500
	cfg.FrameLimit = -1
	cfg.Window.Width = 0
	cfg.Overlay.MinDistance = 0
	cfg.Overlay.DefaultWidth = 4
	cfg.Mirror.Quality = 0
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, 0, cfg.FrameLimit)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 16.0, cfg.Overlay.MinDistance)
	assert.Equal(t, 50.0, cfg.Overlay.DefaultWidth)
	assert.Equal(t, 1, cfg.Mirror.Quality)
}

func TestValidateRejectsFormats(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Formats = []string{"png"}
	assert.Error(t, cfg.Validate())

	cfg.Formats = []string{"bmp"}
	assert.Error(t, cfg.Validate())

	cfg.Formats = nil
	assert.Error(t, cfg.Validate())
}
