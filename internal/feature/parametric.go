package feature

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kozaktomas/mirage/internal/internalerr"
)

// Id bases of the parametric families. Each family owns the 10,000 ids at and
// below its base; the bases must stay strictly descending and adjacent.
const (
	GsdIDBase        = -10000
	SharpenIDBase    = -20000
	BrightnessIDBase = -30000
)

const placeholderValue = "<?>"

// Anchored filename-token patterns. The variable token concatenates the codes
// without a separator, so decoding matches each prefix independently.
var (
	gsdTokenPattern        = regexp.MustCompile(`gsd\d+`)
	sharpenTokenPattern    = regexp.MustCompile(`os\d+`)
	brightnessTokenPattern = regexp.MustCompile(`ob-?\d+`)
)

// KindOfID maps an id onto its variant. Ranges are tested high to low because
// the family bases are adjacent; ids in (GsdIDBase, 0) belong to no variant.
func KindOfID(id int) (Kind, bool) {
	switch {
	case id >= 0:
		return KindOrdinary, true
	case id <= GsdIDBase && id > SharpenIDBase:
		return KindGsd, true
	case id <= SharpenIDBase && id > BrightnessIDBase:
		return KindSharpen, true
	case id <= BrightnessIDBase:
		return KindBrightness, true
	}
	return KindOrdinary, false
}

// FromID rebuilds a parametric feature from its id.
func FromID(id int) (*Feature, error) {
	kind, ok := KindOfID(id)
	if !ok || kind == KindOrdinary {
		return nil, fmt.Errorf("%w: id %d is not parametric", internalerr.ErrUnknownFeature, id)
	}
	switch kind {
	case KindGsd:
		return NewGsdCentimeters(GsdIDBase - id)
	case KindSharpen:
		return NewSharpen(SharpenIDBase - id)
	case KindBrightness:
		return newBrightnessPercent(BrightnessIDBase - id - 100)
	case KindOrdinary:
	}
	return nil, fmt.Errorf("%w: id %d", internalerr.ErrUnknownFeature, id)
}

// ParametricKindOfName reports which family, if any, claims a feature name.
// Families are tried in the fixed order gsd, sharpen, brightness.
func ParametricKindOfName(name string) (Kind, bool) {
	n := normalizeName(name)
	switch {
	case claims(n, GsdKey, GsdShortKey):
		return KindGsd, true
	case claims(n, SharpenKey, SharpenFilenameKey):
		return KindSharpen, true
	case claims(n, BrightnessKey, BrightnessFilenameKey):
		return KindBrightness, true
	}
	return KindOrdinary, false
}

// ParseParametric builds the parametric feature named by name.
func ParseParametric(name string) (*Feature, error) {
	kind, ok := ParametricKindOfName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", internalerr.ErrUnknownFeature, name)
	}
	switch kind {
	case KindGsd:
		return ParseGsd(name)
	case KindSharpen:
		return ParseSharpen(name)
	case KindBrightness:
		return ParseBrightness(name)
	case KindOrdinary:
	}
	return nil, fmt.Errorf("%w: %s", internalerr.ErrUnknownFeature, name)
}

// SplitVariableToken extracts the gsd, sharpen and brightness codes from a
// concatenated variable token. Missing codes come back empty.
func SplitVariableToken(token string) (gsd, sharpen, brightness string) {
	return gsdTokenPattern.FindString(token),
		sharpenTokenPattern.FindString(token),
		brightnessTokenPattern.FindString(token)
}

// IsVariableToken reports whether a filename segment starts with one of the
// parametric filename prefixes.
func IsVariableToken(segment string) bool {
	return strings.HasPrefix(segment, GsdFilenameKey) ||
		strings.HasPrefix(segment, SharpenFilenameKey) ||
		strings.HasPrefix(segment, BrightnessFilenameKey)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// claims accepts the long key followed by anything, or the short key followed
// by a number; "ossim-brightness" must not be read as sharpen code "os".
func claims(n, long, short string) bool {
	if strings.HasPrefix(n, long) {
		return true
	}
	rest, ok := strings.CutPrefix(n, short)
	if !ok {
		return false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return false
	}
	c := rest[0]
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

// numericSuffix strips whichever prefix matches and parses the remainder.
func numericSuffix(name, long, short string) (value float64, viaLong bool, err error) {
	n := normalizeName(name)
	var rest string
	switch {
	case strings.HasPrefix(n, long):
		rest, viaLong = n[len(long):], true
	case strings.HasPrefix(n, short):
		rest = n[len(short):]
	default:
		return 0, false, fmt.Errorf("%w: %s", internalerr.ErrUnknownFeature, name)
	}
	rest = strings.TrimSpace(rest)
	v, err := strconv.ParseFloat(rest, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, viaLong, fmt.Errorf("%w: %q has no numeric value", internalerr.ErrMalformedToken, name)
	}
	return v, viaLong, nil
}

// quantize truncates toward zero, absorbing the float error of values that
// were written with two decimals (0.29*100 == 28.999...).
func quantize(v float64) int {
	const eps = 1e-6
	if v < 0 {
		return int(math.Ceil(v - eps))
	}
	return int(math.Floor(v + eps))
}

func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
