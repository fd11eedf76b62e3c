package pipeline

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "/ipc_dog_shm", cfg.ShmName)
	assert.Equal(t, "/dev/shm", cfg.ShmDir)
	assert.Equal(t, "dog.jpg", cfg.ImagePath)
	assert.Equal(t, "ipc_dog_out.jpg", cfg.OutputPath)
	require.NoError(t, cfg.Validate())

	style, err := cfg.Style()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, style.Color)
	assert.Equal(t, 2, style.LineThickness)
	assert.Equal(t, 0.7, style.FontScale)
	assert.Equal(t, 2, style.TextThickness)
	assert.Equal(t, 10, style.LabelOffset)
	assert.Equal(t, "dog", style.LabelPrefix)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("IPCDOG_SHM_NAME", "/other_shm")
	t.Setenv("IPCDOG_OUTPUT_PATH", "annotated.png")
	t.Setenv("IPCDOG_FONT_SCALE", "1.25")
	t.Setenv("IPCDOG_LOG_COLOR", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/other_shm", cfg.ShmName)
	assert.Equal(t, "annotated.png", cfg.OutputPath)
	assert.Equal(t, 1.25, cfg.FontScale)
	assert.False(t, cfg.LogColor)
	// Untouched fields keep their defaults.
	assert.Equal(t, "dog.jpg", cfg.ImagePath)
	assert.Equal(t, 2, cfg.LineThickness)
}

func TestLoadConfigBadEnv(t *testing.T) {
	t.Setenv("IPCDOG_JPEG_QUALITY", "high")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"nested shm name", func(c *Config) { c.ShmName = "/a/b" }},
		{"empty image", func(c *Config) { c.ImagePath = "" }},
		{"empty output", func(c *Config) { c.OutputPath = "" }},
		{"quality too high", func(c *Config) { c.JPEGQuality = 101 }},
		{"quality zero", func(c *Config) { c.JPEGQuality = 0 }},
		{"bad color", func(c *Config) { c.BoxColor = "#xyz" }},
		{"zero thickness", func(c *Config) { c.LineThickness = 0 }},
		{"negative scale", func(c *Config) { c.FontScale = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("plain")))
	assert.Equal(t, 1, ExitCode(newError(KindConfig, "x", errors.New("y"))))
	assert.Equal(t, 2, ExitCode(newError(KindResourceUnavailable, "x", errors.New("y"))))
	assert.Equal(t, 3, ExitCode(newError(KindDataCorruption, "x", errors.New("y"))))
	assert.Equal(t, 4, ExitCode(newError(KindImageLoad, "x", errors.New("y"))))
	assert.Equal(t, 5, ExitCode(newError(KindImageWrite, "x", errors.New("y"))))

	wrapped := fmt.Errorf("outer: %w", newError(KindImageWrite, "x", errors.New("y")))
	assert.Equal(t, 5, ExitCode(wrapped))
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("no such file")
	err := newError(KindResourceUnavailable, "read shared memory", cause)
	assert.Equal(t, "resource_unavailable: read shared memory: no such file", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "unknown", Kind(99).String())
}
