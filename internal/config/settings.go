package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/ayusman/airtext/internal/overlay"
	"github.com/ayusman/airtext/internal/render"
)

var (
	// ErrInvalidSetting is returned for a setting value that fails validation.
	ErrInvalidSetting = errors.New("invalid setting")
	// ErrUnknownSetting is returned for a key that is not runtime editable.
	ErrUnknownSetting = errors.New("unknown setting")
)

// Runtime-editable setting keys.
const (
	KeyTargetWord     = "target_word"
	KeyFont           = "font"
	KeyFontColor      = "font_color"
	KeyRevealMode     = "reveal_mode"
	KeyGateVisibility = "gate_visibility"
	KeyPinchThreshold = "pinch_threshold"
)

// EditableKeys lists the settings that can be changed at runtime.
func EditableKeys() []string {
	return []string{
		KeyTargetWord,
		KeyFont,
		KeyFontColor,
		KeyRevealMode,
		KeyGateVisibility,
		KeyPinchThreshold,
	}
}

// Settings returns the runtime-editable values of c as strings.
func (c Config) Settings() map[string]string {
	return map[string]string{
		KeyTargetWord:     c.Overlay.TargetWord,
		KeyFont:           c.Overlay.Font,
		KeyFontColor:      c.Overlay.FontColor,
		KeyRevealMode:     c.Overlay.RevealMode,
		KeyGateVisibility: strconv.FormatBool(c.Overlay.GateVisibility),
		KeyPinchThreshold: strconv.FormatFloat(c.Gesture.PinchThreshold, 'g', -1, 64),
	}
}

// ApplySettings validates and applies every value in settings. Either all
// values are applied or c is left unchanged.
func (c *Config) ApplySettings(settings map[string]string) error {
	next := *c

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := next.applySetting(key, settings[key]); err != nil {
			return err
		}
	}

	*c = next
	return nil
}

func (c *Config) applySetting(key, value string) error {
	switch key {
	case KeyTargetWord:
		c.Overlay.TargetWord = value
	case KeyFont:
		if _, err := render.ParseFont(value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSetting, key, err)
		}
		c.Overlay.Font = value
	case KeyFontColor:
		if _, err := render.ParseColor(value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSetting, key, err)
		}
		c.Overlay.FontColor = value
	case KeyRevealMode:
		mode, err := overlay.ParseRevealMode(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSetting, key, err)
		}
		c.Overlay.RevealMode = string(mode)
	case KeyGateVisibility:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a boolean", ErrInvalidSetting, key, value)
		}
		c.Overlay.GateVisibility = b
	case KeyPinchThreshold:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || !validThreshold(f) {
			return fmt.Errorf("%w: %s: %q is not a positive number", ErrInvalidSetting, key, value)
		}
		c.Gesture.PinchThreshold = f
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return nil
}

// validThreshold reports whether f is a finite positive distance.
func validThreshold(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}
