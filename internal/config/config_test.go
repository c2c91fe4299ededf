package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/airtext/internal/gesture"
	"github.com/ayusman/airtext/internal/overlay"
	"github.com/ayusman/airtext/internal/render"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15, cfg.Camera.FPS)
	assert.False(t, cfg.Camera.Enabled)
	assert.Equal(t, "Hi", cfg.Overlay.TargetWord)
	assert.Equal(t, "bold 80px Arial", cfg.Overlay.Font)
	assert.Equal(t, "purple", cfg.Overlay.FontColor)
	assert.True(t, cfg.Overlay.GateVisibility)
	assert.True(t, cfg.Overlay.Mirror)
	assert.Equal(t, 40.0, cfg.Gesture.PinchThreshold)
	assert.Equal(t, 1.5, cfg.Gesture.ExtensionRatio)
	assert.Equal(t, 3, cfg.Gesture.MinExtendedFingers)
	assert.Equal(t, "#00BFFF", cfg.Skeleton.PointColor)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
overlay:
  target_word: Hello
  reveal_mode: letter
gesture:
  pinch_threshold: 25
data_dir: /tmp/airtext-test
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	t.Setenv("AIRTEXT_SERVER_ADDR", ":9090")
	t.Setenv("AIRTEXT_OVERLAY_MIRROR", "false")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "Hello", cfg.Overlay.TargetWord)
	assert.Equal(t, "letter", cfg.Overlay.RevealMode)
	assert.Equal(t, 25.0, cfg.Gesture.PinchThreshold)
	assert.Equal(t, "/tmp/airtext-test", cfg.DataDir)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.False(t, cfg.Overlay.Mirror)
	assert.Equal(t, "bold 80px Arial", cfg.Overlay.Font, "unset keys keep defaults")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"reveal mode", "overlay:\n  reveal_mode: sideways\n"},
		{"font", "overlay:\n  font: bold -1px Arial\n"},
		{"color", "skeleton:\n  line_color: not-a-color\n"},
		{"pinch threshold", "gesture:\n  pinch_threshold: 0\n"},
		{"pinch threshold nan", "gesture:\n  pinch_threshold: .nan\n"},
		{"pinch threshold inf", "gesture:\n  pinch_threshold: .inf\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			_, err := Load(viper.New(), path)
			assert.ErrorIs(t, err, ErrInvalidSetting)
		})
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := Default()
	want.Overlay.TargetWord = "Yo"
	want.Camera.Enabled = true
	want.DataDir = "/var/lib/airtext"
	require.NoError(t, want.Write(path))

	got, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConfig_Session(t *testing.T) {
	cfg := Default()
	cfg.Overlay.RevealMode = "letter"
	cfg.Gesture.PinchThreshold = 30

	s := cfg.Session()
	assert.Equal(t, overlay.RevealByLetter, s.RevealMode)
	assert.Equal(t, "Hi", s.TargetWord)
	assert.True(t, s.Mirror)
	assert.Equal(t, gesture.Thresholds{ExtensionRatio: 1.5, MinExtendedFingers: 3, PinchDistance: 30}, s.Thresholds)
}

func TestConfig_Style(t *testing.T) {
	assert.Equal(t, render.DefaultStyle(), Default().Style())
}

func TestConfig_CameraOptions(t *testing.T) {
	cfg := Default()
	cfg.Camera.DeviceID = 2

	opts := cfg.CameraOptions()
	assert.Equal(t, 2, opts.DeviceID)
	assert.Equal(t, 640, opts.Width)
	assert.Equal(t, 480, opts.Height)
}
