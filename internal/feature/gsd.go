package feature

import (
	"fmt"
	"strconv"

	"github.com/kozaktomas/mirage/internal/internalerr"
)

const (
	GsdKey         = "gsd"
	GsdShortKey    = "g"
	GsdFilenameKey = "gsd"

	gsdNonOrthoCmd   = "-g %s"
	gsdOrthoCmd      = "--meters %s"
	gsdDescription   = "Ground sample distance in cm"
	gsdMaxCentimeter = -(SharpenIDBase - GsdIDBase) - 1
)

// GsdPlaceholder describes the gsd family for catalog listings.
func GsdPlaceholder() *Feature {
	return &Feature{
		ID:          -1,
		Group:       GroupGsd,
		Name:        GsdKey + " " + placeholderValue,
		Value:       placeholderValue,
		Type:        "double",
		Units:       "cm",
		Description: gsdDescription,
		NonOrthoCmd: fmt.Sprintf(gsdNonOrthoCmd, placeholderValue),
		OrthoCmd:    fmt.Sprintf(gsdOrthoCmd, placeholderValue),
		CanGenerate: true,
		CanOrder:    true,
		Kind:        KindGsd,
		placeholder: true,
	}
}

// GsdName returns the canonical feature name for a gsd in centimeters.
func GsdName(cm int) string {
	return fmt.Sprintf("%s %d", GsdKey, cm)
}

// ParseGsd reads "gsd 50", "gsd50" or "g50"; the number is in centimeters.
func ParseGsd(name string) (*Feature, error) {
	v, _, err := numericSuffix(name, GsdKey, GsdShortKey)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, fmt.Errorf("%w: gsd must not be negative, supplied value was %s", internalerr.ErrValueOutOfRange, formatDecimal(v))
	}
	return NewGsdCentimeters(quantize(v))
}

// NewGsd builds a gsd feature from meters, truncated to whole centimeters.
func NewGsd(meters float64) (*Feature, error) {
	if meters < 0 {
		return nil, fmt.Errorf("%w: gsd must not be negative, supplied value was %s", internalerr.ErrValueOutOfRange, formatDecimal(meters))
	}
	return NewGsdCentimeters(quantize(meters * 100))
}

// NewGsdCentimeters builds a gsd feature from whole centimeters. The upper
// bound keeps the id inside the gsd range.
func NewGsdCentimeters(cm int) (*Feature, error) {
	if cm < 0 || cm > gsdMaxCentimeter {
		return nil, fmt.Errorf("%w: gsd must be between 0 and %d cm, supplied value was %d", internalerr.ErrValueOutOfRange, gsdMaxCentimeter, cm)
	}
	meters := formatDecimal(float64(cm) / 100)
	return &Feature{
		ID:          GsdIDBase - cm,
		Group:       GroupGsd,
		Name:        GsdName(cm),
		Value:       strconv.Itoa(cm),
		Type:        "double",
		Units:       "cm",
		Description: gsdDescription,
		NonOrthoCmd: fmt.Sprintf(gsdNonOrthoCmd, meters),
		OrthoCmd:    fmt.Sprintf(gsdOrthoCmd, meters),
		CanGenerate: true,
		CanOrder:    true,
		Kind:        KindGsd,
		magnitude:   cm,
	}, nil
}
