package feature

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kozaktomas/mirage/internal/internalerr"
)

const (
	SharpenKey         = "ossim-sharpen"
	SharpenFilenameKey = "os"

	sharpenOrthoCmd    = "--sharpen-percent %s"
	sharpenDescription = "Ossim sharpen percentage from 0 to 100"
)

// SharpenPlaceholder describes the sharpen family for catalog listings.
func SharpenPlaceholder() *Feature {
	return &Feature{
		ID:          -2,
		Group:       GroupAdjustments,
		Name:        SharpenKey + " " + placeholderValue,
		Value:       placeholderValue,
		Type:        "int",
		Units:       "percentage",
		Description: sharpenDescription,
		OrthoCmd:    fmt.Sprintf(sharpenOrthoCmd, placeholderValue),
		CanGenerate: true,
		Kind:        KindSharpen,
		placeholder: true,
	}
}

// SharpenName returns the canonical feature name for a sharpen percentage.
func SharpenName(percent int) string {
	return fmt.Sprintf("%s %d", SharpenKey, percent)
}

// ParseSharpen reads "ossim-sharpen 30" or "os30".
func ParseSharpen(name string) (*Feature, error) {
	v, _, err := numericSuffix(name, SharpenKey, SharpenFilenameKey)
	if err != nil {
		return nil, err
	}
	if v != math.Trunc(v) {
		return nil, fmt.Errorf("%w: sharpen percentage %q is not an integer", internalerr.ErrMalformedToken, name)
	}
	if v > 100 || v < 0 {
		return nil, fmt.Errorf("%w: sharpen value must be between 0 and 100, supplied value was %s", internalerr.ErrValueOutOfRange, formatDecimal(v))
	}
	return NewSharpen(int(v))
}

// NewSharpen builds a sharpen feature from a percentage in [0, 100]. Ortho
// generation takes the percentage as a fraction.
func NewSharpen(percent int) (*Feature, error) {
	if percent > 100 || percent < 0 {
		return nil, fmt.Errorf("%w: sharpen value must be between 0 and 100, supplied value was %d", internalerr.ErrValueOutOfRange, percent)
	}
	return &Feature{
		ID:          SharpenIDBase - percent,
		Group:       GroupAdjustments,
		Name:        SharpenName(percent),
		Value:       strconv.Itoa(percent),
		Type:        "int",
		Units:       "percentage",
		Description: sharpenDescription,
		OrthoCmd:    fmt.Sprintf(sharpenOrthoCmd, formatDecimal(float64(percent)/100)),
		CanGenerate: true,
		Kind:        KindSharpen,
		magnitude:   percent,
	}, nil
}
