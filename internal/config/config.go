// Package config loads airtext configuration from defaults, an optional YAML
// file and AIRTEXT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/airtext/internal/capture"
	"github.com/ayusman/airtext/internal/gesture"
	"github.com/ayusman/airtext/internal/overlay"
	"github.com/ayusman/airtext/internal/render"
)

// EnvPrefix is the prefix of environment variable overrides, so
// AIRTEXT_OVERLAY_TARGET_WORD sets overlay.target_word.
const EnvPrefix = "AIRTEXT"

// Config holds all airtext configuration.
type Config struct {
	Server    ServerConfig   `mapstructure:"server" yaml:"server"`
	Camera    CameraConfig   `mapstructure:"camera" yaml:"camera"`
	Overlay   OverlayConfig  `mapstructure:"overlay" yaml:"overlay"`
	Gesture   GestureConfig  `mapstructure:"gesture" yaml:"gesture"`
	Skeleton  SkeletonConfig `mapstructure:"skeleton" yaml:"skeleton"`
	DataDir   string         `mapstructure:"data_dir" yaml:"data_dir"`
	Tray      bool           `mapstructure:"tray" yaml:"tray"`
	LogLevel  string         `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string         `mapstructure:"log_format" yaml:"log_format"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr"`
	StaticDir string `mapstructure:"static_dir" yaml:"static_dir"`
}

// CameraConfig configures the local camera pipeline.
type CameraConfig struct {
	DeviceID int  `mapstructure:"device_id" yaml:"device_id"`
	FPS      int  `mapstructure:"fps" yaml:"fps"`
	Width    int  `mapstructure:"width" yaml:"width"`
	Height   int  `mapstructure:"height" yaml:"height"`
	Enabled  bool `mapstructure:"enabled" yaml:"enabled"`
}

// OverlayConfig configures the text overlay.
type OverlayConfig struct {
	TargetWord     string `mapstructure:"target_word" yaml:"target_word"`
	Font           string `mapstructure:"font" yaml:"font"`
	FontColor      string `mapstructure:"font_color" yaml:"font_color"`
	RevealMode     string `mapstructure:"reveal_mode" yaml:"reveal_mode"`
	GateVisibility bool   `mapstructure:"gate_visibility" yaml:"gate_visibility"`
	Mirror         bool   `mapstructure:"mirror" yaml:"mirror"`
}

// GestureConfig configures the gesture classifier.
type GestureConfig struct {
	PinchThreshold     float64 `mapstructure:"pinch_threshold" yaml:"pinch_threshold"`
	ExtensionRatio     float64 `mapstructure:"extension_ratio" yaml:"extension_ratio"`
	MinExtendedFingers int     `mapstructure:"min_extended_fingers" yaml:"min_extended_fingers"`
}

// SkeletonConfig configures hand skeleton drawing.
type SkeletonConfig struct {
	PointRadius  int    `mapstructure:"point_radius" yaml:"point_radius"`
	PointColor   string `mapstructure:"point_color" yaml:"point_color"`
	LineColor    string `mapstructure:"line_color" yaml:"line_color"`
	LineWidth    int    `mapstructure:"line_width" yaml:"line_width"`
	MarkerRadius int    `mapstructure:"marker_radius" yaml:"marker_radius"`
	MarkerColor  string `mapstructure:"marker_color" yaml:"marker_color"`
}

// Default returns the built-in configuration.
func Default() Config {
	style := render.DefaultStyle()
	th := gesture.DefaultThresholds()

	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Camera: CameraConfig{
			FPS:    capture.DefaultFPS,
			Width:  capture.DefaultWidth,
			Height: capture.DefaultHeight,
		},
		Overlay: OverlayConfig{
			TargetWord:     overlay.DefaultTargetWord,
			Font:           overlay.DefaultFont,
			FontColor:      style.FontColor,
			RevealMode:     string(overlay.RevealByPosition),
			GateVisibility: true,
			Mirror:         true,
		},
		Gesture: GestureConfig{
			PinchThreshold:     th.PinchDistance,
			ExtensionRatio:     th.ExtensionRatio,
			MinExtendedFingers: th.MinExtendedFingers,
		},
		Skeleton: SkeletonConfig{
			PointRadius:  style.PointRadius,
			PointColor:   style.PointColor,
			LineColor:    style.LineColor,
			LineWidth:    style.LineWidth,
			MarkerRadius: style.MarkerRadius,
			MarkerColor:  style.MarkerColor,
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultDir returns $HOME/.airtext.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".airtext"
	}
	return filepath.Join(home, ".airtext")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// SetDefaults registers every key of Default on v so environment variables
// can override keys that no config file mentions.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.static_dir", d.Server.StaticDir)
	v.SetDefault("camera.device_id", d.Camera.DeviceID)
	v.SetDefault("camera.fps", d.Camera.FPS)
	v.SetDefault("camera.width", d.Camera.Width)
	v.SetDefault("camera.height", d.Camera.Height)
	v.SetDefault("camera.enabled", d.Camera.Enabled)
	v.SetDefault("overlay.target_word", d.Overlay.TargetWord)
	v.SetDefault("overlay.font", d.Overlay.Font)
	v.SetDefault("overlay.font_color", d.Overlay.FontColor)
	v.SetDefault("overlay.reveal_mode", d.Overlay.RevealMode)
	v.SetDefault("overlay.gate_visibility", d.Overlay.GateVisibility)
	v.SetDefault("overlay.mirror", d.Overlay.Mirror)
	v.SetDefault("gesture.pinch_threshold", d.Gesture.PinchThreshold)
	v.SetDefault("gesture.extension_ratio", d.Gesture.ExtensionRatio)
	v.SetDefault("gesture.min_extended_fingers", d.Gesture.MinExtendedFingers)
	v.SetDefault("skeleton.point_radius", d.Skeleton.PointRadius)
	v.SetDefault("skeleton.point_color", d.Skeleton.PointColor)
	v.SetDefault("skeleton.line_color", d.Skeleton.LineColor)
	v.SetDefault("skeleton.line_width", d.Skeleton.LineWidth)
	v.SetDefault("skeleton.marker_radius", d.Skeleton.MarkerRadius)
	v.SetDefault("skeleton.marker_color", d.Skeleton.MarkerColor)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("tray", d.Tray)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

// Load reads the configuration into v and decodes it. A missing file at
// path is not an error; an empty path skips the file entirely.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDir()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Validate checks the values that the overlay and renderer would reject.
func (c Config) Validate() error {
	if _, err := overlay.ParseRevealMode(c.Overlay.RevealMode); err != nil {
		return fmt.Errorf("%w: overlay.reveal_mode: %v", ErrInvalidSetting, err)
	}
	if _, err := render.ParseFont(c.Overlay.Font); err != nil {
		return fmt.Errorf("%w: overlay.font: %v", ErrInvalidSetting, err)
	}
	if _, err := render.NewRenderer(c.Style()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	if !validThreshold(c.Gesture.PinchThreshold) {
		return fmt.Errorf("%w: gesture.pinch_threshold must be a finite positive number", ErrInvalidSetting)
	}
	return nil
}

// Write stores c as YAML at path, creating the directory if needed.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// DBPath returns the settings database location inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "airtext.db")
}

// Session returns the overlay session configuration. Reveal mode is assumed
// to be valid; an unknown mode falls back to position.
func (c Config) Session() overlay.Config {
	mode, err := overlay.ParseRevealMode(c.Overlay.RevealMode)
	if err != nil {
		mode = overlay.RevealByPosition
	}
	return overlay.Config{
		TargetWord:     c.Overlay.TargetWord,
		Font:           c.Overlay.Font,
		RevealMode:     mode,
		GateVisibility: c.Overlay.GateVisibility,
		Mirror:         c.Overlay.Mirror,
		Thresholds: gesture.Thresholds{
			ExtensionRatio:     c.Gesture.ExtensionRatio,
			MinExtendedFingers: c.Gesture.MinExtendedFingers,
			PinchDistance:      c.Gesture.PinchThreshold,
		},
	}
}

// Style returns the renderer style.
func (c Config) Style() render.Style {
	return render.Style{
		FontColor:    c.Overlay.FontColor,
		PointColor:   c.Skeleton.PointColor,
		PointRadius:  c.Skeleton.PointRadius,
		LineColor:    c.Skeleton.LineColor,
		LineWidth:    c.Skeleton.LineWidth,
		MarkerColor:  c.Skeleton.MarkerColor,
		MarkerRadius: c.Skeleton.MarkerRadius,
	}
}

// CameraOptions returns the capture options.
func (c Config) CameraOptions() capture.Options {
	return capture.Options{
		DeviceID: c.Camera.DeviceID,
		FPS:      c.Camera.FPS,
		Width:    c.Camera.Width,
		Height:   c.Camera.Height,
	}
}
