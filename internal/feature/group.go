package feature

import (
	"fmt"
	"strings"

	"github.com/kozaktomas/mirage/internal/internalerr"
)

// Group classifies features. Members of a unique group exclude each other
// inside one set of processing parameters.
type Group int

const (
	GroupOperation Group = iota
	GroupSource
	GroupHistogram
	GroupRadiometry
	GroupGsd
	GroupOrtho
	GroupElevationData
	GroupResolution
	GroupAdjustments
	GroupSoftware
	GroupThumbnail
	GroupBands
	GroupFormat
)

var groupInfo = [...]struct {
	name   string
	unique bool
}{
	GroupOperation:     {"OPERATION", true},
	GroupSource:        {"SOURCE", true},
	GroupHistogram:     {"HISTOGRAM", true},
	GroupRadiometry:    {"RADIOMETRY", true},
	GroupGsd:           {"GSD", true},
	GroupOrtho:         {"ORTHO", true},
	GroupElevationData: {"ELEVATION_DATA", true},
	GroupResolution:    {"RESOLUTION", true},
	GroupAdjustments:   {"ADJUSTMENTS", false},
	GroupSoftware:      {"SOFTWARE", false},
	GroupThumbnail:     {"THUMBNAIL", true},
	GroupBands:         {"BANDS", true},
	GroupFormat:        {"FORMAT", true},
}

// Groups returns every group in declaration order.
func Groups() []Group {
	out := make([]Group, len(groupInfo))
	for i := range groupInfo {
		out[i] = Group(i)
	}
	return out
}

func (g Group) valid() bool {
	return g >= 0 && int(g) < len(groupInfo)
}

func (g Group) String() string {
	if !g.valid() {
		return fmt.Sprintf("Group(%d)", int(g))
	}
	return groupInfo[g].name
}

// Unique reports whether at most one feature of the group may be active.
func (g Group) Unique() bool {
	return g.valid() && groupInfo[g].unique
}

// ParseGroup resolves a group name. Matching ignores case and surrounding
// whitespace, and inner spaces stand in for underscores ("elevation data").
func ParseGroup(name string) (Group, error) {
	key := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(name)), " ", "_")
	for i, info := range groupInfo {
		if info.name == key {
			return Group(i), nil
		}
	}
	return 0, fmt.Errorf("%w: group %q is not allowed", internalerr.ErrInvalidCatalogRow, name)
}

// MarshalText renders the group by name.
func (g Group) MarshalText() ([]byte, error) {
	if !g.valid() {
		return nil, fmt.Errorf("invalid group %d", int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText parses a group name.
func (g *Group) UnmarshalText(text []byte) error {
	parsed, err := ParseGroup(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
