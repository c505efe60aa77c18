package imageref

import (
	"fmt"
	"strings"
)

// Type classifies a file reference. It is derived from the processing state
// on every call and never stored.
type Type int

const (
	TypeOriginal Type = iota
	TypeProcessed
	TypeCropped
	TypeThumbnailOverlay
	TypeThumbnail
	TypeInvalid
)

var typeInfo = [...]struct {
	name        string
	description string
}{
	TypeOriginal:         {"ORIGINAL", "An original image acquired from an imagery provider"},
	TypeProcessed:        {"PROCESSED", "An image that has been processed"},
	TypeCropped:          {"CROPPED", "An image that has been cropped from original image"},
	TypeThumbnailOverlay: {"THUMBNAIL_OVERLAY", "A thumbnail of an object with an embedded overlay"},
	TypeThumbnail:        {"THUMBNAIL", "A thumbnail of an image that does not have an overlay in it"},
	TypeInvalid:          {"INVALID", "An image whose processing parameters cannot be determined"},
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeInfo) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeInfo[t].name
}

// Description returns a human readable explanation of the type.
func (t Type) Description() string {
	if t < 0 || int(t) >= len(typeInfo) {
		return ""
	}
	return typeInfo[t].description
}

func (t Type) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(typeInfo) {
		return nil, fmt.Errorf("unknown image type %d", int(t))
	}
	return []byte(typeInfo[t].name), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseType resolves a type name such as "CROPPED", ignoring case.
func ParseType(name string) (Type, error) {
	for i, info := range typeInfo {
		if strings.EqualFold(info.name, strings.TrimSpace(name)) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown image type %q", name)
}
