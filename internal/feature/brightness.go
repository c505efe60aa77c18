package feature

import (
	"fmt"
	"math"

	"github.com/kozaktomas/mirage/internal/internalerr"
)

const (
	BrightnessKey         = "ossim-brightness"
	BrightnessFilenameKey = "ob"

	brightnessCmd         = "--brightness %s"
	brightnessDescription = "ossim brightness manipulation set to -1.00 - 1.00"
)

// BrightnessPlaceholder describes the brightness family for catalog listings.
func BrightnessPlaceholder() *Feature {
	return &Feature{
		ID:          -3,
		Group:       GroupAdjustments,
		Name:        BrightnessKey + " " + placeholderValue,
		Value:       placeholderValue,
		Type:        "double",
		Units:       "double",
		Description: brightnessDescription,
		NonOrthoCmd: fmt.Sprintf(brightnessCmd, placeholderValue),
		OrthoCmd:    fmt.Sprintf(brightnessCmd, placeholderValue),
		CanGenerate: true,
		Kind:        KindBrightness,
		placeholder: true,
	}
}

// BrightnessName returns the canonical feature name for a brightness percent.
func BrightnessName(percent int) string {
	return fmt.Sprintf("%s %s", BrightnessKey, formatDecimal(float64(percent)/100))
}

// ParseBrightness reads "ossim-brightness -0.25" (a fraction) or "ob-25" (a
// percentage). Only two decimals survive, so -0.255 becomes -0.25.
func ParseBrightness(name string) (*Feature, error) {
	v, viaLong, err := numericSuffix(name, BrightnessKey, BrightnessFilenameKey)
	if err != nil {
		return nil, err
	}
	if viaLong {
		v *= 100
	}
	if v > 100 || v < -100 {
		return nil, fmt.Errorf("%w: brightness value must be between -1.00 and 1.00, supplied value was %s", internalerr.ErrValueOutOfRange, formatDecimal(v/100))
	}
	return newBrightnessPercent(quantize(v))
}

// NewBrightness builds a brightness feature from a value in [-1, 1].
func NewBrightness(value float64) (*Feature, error) {
	if math.IsNaN(value) || value > 1 || value < -1 {
		return nil, fmt.Errorf("%w: brightness value must be between -1.00 and 1.00, supplied value was %s", internalerr.ErrValueOutOfRange, formatDecimal(value))
	}
	return newBrightnessPercent(quantize(value * 100))
}

func newBrightnessPercent(percent int) (*Feature, error) {
	if percent > 100 || percent < -100 {
		return nil, fmt.Errorf("%w: brightness value must be between -1.00 and 1.00, supplied value was %s", internalerr.ErrValueOutOfRange, formatDecimal(float64(percent)/100))
	}
	value := formatDecimal(float64(percent) / 100)
	return &Feature{
		ID:          BrightnessIDBase - (percent + 100),
		Group:       GroupAdjustments,
		Name:        BrightnessName(percent),
		Value:       value,
		Type:        "double",
		Units:       "double",
		Description: brightnessDescription,
		NonOrthoCmd: fmt.Sprintf(brightnessCmd, value),
		OrthoCmd:    fmt.Sprintf(brightnessCmd, value),
		CanGenerate: true,
		Kind:        KindBrightness,
		magnitude:   percent,
	}, nil
}
