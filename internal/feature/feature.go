// Package feature describes the processing characteristics that can be encoded
// into a filename: ordinary catalog features, addressed by a bit position, and
// the three parametric families (ground sample distance, sharpen, brightness)
// that carry a numeric value and live in reserved negative id ranges.
package feature

import "fmt"

// Kind tags a Feature with the variant it belongs to.
type Kind int

const (
	KindOrdinary Kind = iota
	KindGsd
	KindSharpen
	KindBrightness
)

func (k Kind) String() string {
	switch k {
	case KindOrdinary:
		return "ordinary"
	case KindGsd:
		return "gsd"
	case KindSharpen:
		return "sharpen"
	case KindBrightness:
		return "brightness"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Parametric reports whether the kind is one of the value-carrying families.
func (k Kind) Parametric() bool {
	return k == KindGsd || k == KindSharpen || k == KindBrightness
}

// Feature is an immutable descriptor. Ordinary features come from the catalog
// with ids 0..N-1; parametric ones are built from a value and carry a negative id.
type Feature struct {
	ID          int    `json:"id" yaml:"id"`
	Group       Group  `json:"group" yaml:"group"`
	Name        string `json:"feature" yaml:"feature"`
	Value       string `json:"value" yaml:"value"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Units       string `json:"units,omitempty" yaml:"units,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	NonOrthoCmd string `json:"non_ortho_cmd,omitempty" yaml:"non_ortho_cmd,omitempty"`
	OrthoCmd    string `json:"ortho_cmd,omitempty" yaml:"ortho_cmd,omitempty"`
	CanGenerate bool   `json:"can_generate" yaml:"can_generate"`
	CanOrder    bool   `json:"can_order" yaml:"can_order"`
	Kind        Kind   `json:"-" yaml:"-"`

	// magnitude is the quantized integer behind a parametric feature:
	// centimeters for gsd, percent for sharpen and brightness.
	magnitude   int
	placeholder bool
}

func (f *Feature) String() string {
	return fmt.Sprintf("id: %d | group: '%s' | feature: '%s' | description: '%s'", f.ID, f.Group, f.Name, f.Description)
}

// IsPlaceholder reports whether f is a documentation descriptor for a
// parametric family rather than a concrete value.
func (f *Feature) IsPlaceholder() bool {
	return f.placeholder
}

// Magnitude returns the quantized integer of a parametric feature.
func (f *Feature) Magnitude() int {
	return f.magnitude
}

// GsdMeters returns the ground sample distance in meters.
func (f *Feature) GsdMeters() float64 {
	return float64(f.magnitude) / 100
}

// SharpenPercent returns the sharpen percentage.
func (f *Feature) SharpenPercent() int {
	return f.magnitude
}

// Brightness returns the brightness adjustment in [-1, 1].
func (f *Feature) Brightness() float64 {
	return float64(f.magnitude) / 100
}

// FilenameToken returns the short code written into filenames, or "" for
// ordinary features and placeholders.
func (f *Feature) FilenameToken() string {
	if f.placeholder {
		return ""
	}
	switch f.Kind {
	case KindGsd:
		return fmt.Sprintf("%s%d", GsdFilenameKey, f.magnitude)
	case KindSharpen:
		return fmt.Sprintf("%s%d", SharpenFilenameKey, f.magnitude)
	case KindBrightness:
		return fmt.Sprintf("%s%d", BrightnessFilenameKey, f.magnitude)
	case KindOrdinary:
	}
	return ""
}

// Builder assembles an ordinary feature field by field. The catalog loader
// drives it from a table of column setters.
type Builder struct {
	f       Feature
	hasID   bool
	hasName bool
	hasGrp  bool
}

func (b *Builder) SetID(id int) {
	b.f.ID = id
	b.hasID = true
}

func (b *Builder) SetGroup(g Group) {
	b.f.Group = g
	b.hasGrp = true
}

func (b *Builder) SetName(name string) {
	b.f.Name = name
	b.hasName = true
}

func (b *Builder) SetValue(v string) {
	b.f.Value = v
}

func (b *Builder) SetType(v string) {
	b.f.Type = v
}

func (b *Builder) SetUnits(v string) {
	b.f.Units = v
}

func (b *Builder) SetDescription(v string) {
	b.f.Description = v
}

func (b *Builder) SetNonOrthoCmd(v string) {
	b.f.NonOrthoCmd = v
}

func (b *Builder) SetOrthoCmd(v string) {
	b.f.OrthoCmd = v
}

func (b *Builder) SetCanGenerate(v bool) {
	b.f.CanGenerate = v
}

func (b *Builder) SetCanOrder(v bool) {
	b.f.CanOrder = v
}

// Build returns the feature, failing when id or group was never supplied.
func (b *Builder) Build() (*Feature, error) {
	if !b.hasID {
		return nil, fmt.Errorf("feature %q has no id", b.f.Name)
	}
	if !b.hasGrp {
		return nil, fmt.Errorf("feature %d has no group", b.f.ID)
	}
	if b.f.ID < 0 {
		return nil, fmt.Errorf("feature %q has negative id %d", b.f.Name, b.f.ID)
	}
	f := b.f
	f.Kind = KindOrdinary
	if !b.hasName {
		f.Name = f.Value
	}
	return &f, nil
}
