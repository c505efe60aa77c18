// Package params aggregates the processing applied to an image: a bit set of
// ordinary catalog features plus at most one gsd, sharpen and brightness value.
package params

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kozaktomas/mirage/internal/bitcodec"
	"github.com/kozaktomas/mirage/internal/catalog"
	"github.com/kozaktomas/mirage/internal/feature"
	"github.com/kozaktomas/mirage/internal/internalerr"
)

// ErrInvalidParams is returned when mutating parameters decoded from a
// malformed token.
var ErrInvalidParams = errors.New("processing parameters are invalid")

// Params is owned by a single caller and is not safe for concurrent mutation.
type Params struct {
	catalog *catalog.Catalog

	// bits is nil when the params were decoded from a malformed token.
	bits       *bitcodec.Set
	gsd        *feature.Feature
	sharpen    *feature.Feature
	brightness *feature.Feature
}

// New returns empty parameters bound to a catalog version.
func New(c *catalog.Catalog) *Params {
	return &Params{catalog: c, bits: bitcodec.NewSet()}
}

// FromToken decodes a base-36 processing token. A malformed token does not
// fail: it yields invalid parameters that report no features.
func FromToken(c *catalog.Catalog, token string) *Params {
	bits, err := bitcodec.FromBase36(token)
	if err != nil {
		return &Params{catalog: c}
	}
	return &Params{catalog: c, bits: bits}
}

// FromFeatureNames applies every comma-separated name in order.
func FromFeatureNames(c *catalog.Catalog, names string) (*Params, error) {
	p := New(c)
	for name := range strings.SplitSeq(names, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if err := p.SetFeatureName(name); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Parse treats input containing a comma as a feature-name list and anything
// else as a processing token.
func Parse(c *catalog.Catalog, input string) (*Params, error) {
	if strings.Contains(input, ",") {
		return FromFeatureNames(c, input)
	}
	return FromToken(c, input), nil
}

// Catalog returns the catalog the parameters resolve against.
func (p *Params) Catalog() *catalog.Catalog {
	return p.catalog
}

// Version returns the catalog version tag.
func (p *Params) Version() string {
	return p.catalog.Version()
}

// IsInvalid reports whether the parameters came from a malformed token.
func (p *Params) IsInvalid() bool {
	return p.bits == nil
}

// IsEmpty reports whether no feature of any kind is set.
func (p *Params) IsEmpty() bool {
	return p.bits.IsEmpty() && p.gsd == nil && p.sharpen == nil && p.brightness == nil
}

// Bits returns a copy of the ordinary feature set, or nil when invalid.
func (p *Params) Bits() *bitcodec.Set {
	if p.bits == nil {
		return nil
	}
	return p.bits.Clone()
}

func (p *Params) Gsd() *feature.Feature        { return p.gsd }
func (p *Params) Sharpen() *feature.Feature    { return p.sharpen }
func (p *Params) Brightness() *feature.Feature { return p.brightness }

// Clone returns an independent copy. Feature descriptors are immutable and shared.
func (p *Params) Clone() *Params {
	c := *p
	if p.bits != nil {
		c.bits = p.bits.Clone()
	}
	return &c
}

// Features lists ordinary features by ascending id, then gsd, sharpen and
// brightness. Filename generation depends on this order.
func (p *Params) Features() []*feature.Feature {
	if p.IsInvalid() {
		return nil
	}
	var out []*feature.Feature
	for _, id := range p.bits.Positions() {
		f, err := p.catalog.Get(id)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	for _, slot := range []*feature.Feature{p.gsd, p.sharpen, p.brightness} {
		if slot != nil {
			out = append(out, slot)
		}
	}
	return out
}

// UnknownIDs returns the set positions the catalog has no feature for. They
// survive String but are absent from Features.
func (p *Params) UnknownIDs() []int {
	if p.IsInvalid() {
		return nil
	}
	var out []int
	for _, id := range p.bits.Positions() {
		if _, err := p.catalog.Get(id); err != nil {
			out = append(out, id)
		}
	}
	return out
}

// CheckKnown fails with ErrUnknownFeature when a set position is not in the catalog.
func (p *Params) CheckKnown() error {
	ids := p.UnknownIDs()
	if len(ids) == 0 {
		return nil
	}
	return fmt.Errorf("%w: ids %v are not in catalog version %s", internalerr.ErrUnknownFeature, ids, p.Version())
}

// FeatureNames returns the names of Features in the same order.
func (p *Params) FeatureNames() []string {
	features := p.Features()
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.Name
	}
	return names
}

// HasFeature reports whether f is active. Parametric features compare by
// family tag and value; a family placeholder matches any value of its family.
func (p *Params) HasFeature(f *feature.Feature) bool {
	if f == nil || p.IsInvalid() {
		return false
	}
	switch f.Kind {
	case feature.KindGsd, feature.KindSharpen, feature.KindBrightness:
		slot := p.slot(f.Kind)
		if slot == nil {
			return false
		}
		return f.IsPlaceholder() || slot.ID == f.ID
	case feature.KindOrdinary:
		return f.ID >= 0 && p.bits.Has(f.ID)
	}
	return false
}

// HasFeatureName resolves name against the catalog and reports whether it is active.
func (p *Params) HasFeatureName(name string) (bool, error) {
	f, err := p.catalog.Find(name)
	if err != nil {
		return false, err
	}
	return p.HasFeature(f), nil
}

// SetFeature activates f. A parametric feature replaces its family slot. An
// ordinary feature of a unique group first evicts the rest of that group.
func (p *Params) SetFeature(f *feature.Feature) error {
	if f == nil {
		return nil
	}
	if p.IsInvalid() {
		return fmt.Errorf("unable to set feature %q: %w", f.Name, ErrInvalidParams)
	}
	if f.IsPlaceholder() {
		return fmt.Errorf("unable to set feature %q: %w: placeholder has no value", f.Name, internalerr.ErrUnknownFeature)
	}

	switch f.Kind {
	case feature.KindGsd:
		p.gsd = f
	case feature.KindSharpen:
		p.sharpen = f
	case feature.KindBrightness:
		p.brightness = f
	case feature.KindOrdinary:
		if f.Group.Unique() {
			p.removeGroup(f.Group)
		}
		p.bits.Add(f.ID)
	}
	return nil
}

// SetFeatureName resolves name against the catalog and activates it.
func (p *Params) SetFeatureName(name string) error {
	f, err := p.catalog.Find(name)
	if err != nil {
		return fmt.Errorf("unable to set feature %q: %w", strings.TrimSpace(name), err)
	}
	return p.SetFeature(f)
}

// SetFeatureID resolves id against the catalog and activates it.
func (p *Params) SetFeatureID(id int) error {
	f, err := p.catalog.Get(id)
	if err != nil {
		return fmt.Errorf("unable to set feature %d: %w", id, err)
	}
	return p.SetFeature(f)
}

// AddFeatures merges every feature of other into p.
func (p *Params) AddFeatures(other *Params) error {
	if other == nil {
		return nil
	}
	for _, f := range other.Features() {
		if err := p.SetFeature(f); err != nil {
			return err
		}
	}
	return nil
}

// RemoveFeatureID clears the feature with the given id. Negative ids select
// the family slot by range and clear it only when it holds that exact value;
// an empty slot is left alone.
func (p *Params) RemoveFeatureID(id int) {
	if p.IsInvalid() {
		return
	}
	kind, ok := feature.KindOfID(id)
	if !ok {
		return
	}
	if kind == feature.KindOrdinary {
		p.bits.Remove(id)
		return
	}
	if slot := p.slot(kind); slot != nil && slot.ID == id {
		p.clearSlot(kind)
	}
}

// RemoveFeature clears f if it is active.
func (p *Params) RemoveFeature(f *feature.Feature) {
	if f == nil || f.IsPlaceholder() {
		return
	}
	p.RemoveFeatureID(f.ID)
}

// RemoveFeatures clears every feature that is active in other.
func (p *Params) RemoveFeatures(other *Params) {
	if other == nil {
		return
	}
	for _, f := range other.Features() {
		p.RemoveFeature(f)
	}
}

// Difference returns a copy of output without the features present in
// source. It is a set difference, not a symmetric one.
func Difference(output, source *Params) *Params {
	delta := output.Clone()
	delta.RemoveFeatures(source)
	return delta
}

// IsProcessed reports whether any feature implies processing: an ordinary
// feature outside SOURCE and FORMAT, or any parametric value.
func (p *Params) IsProcessed() bool {
	if p.IsInvalid() {
		return false
	}
	for _, id := range p.bits.Positions() {
		f, err := p.catalog.Get(id)
		if err != nil {
			continue
		}
		if f.Group != feature.GroupSource && f.Group != feature.GroupFormat {
			return true
		}
	}
	return p.gsd != nil || p.sharpen != nil || p.brightness != nil
}

// IsSimilar compares everything except the SOURCE group. An absent parametric
// value never equals a present one, zero included.
func (p *Params) IsSimilar(other *Params) bool {
	if other == nil {
		return false
	}
	if p.IsInvalid() || other.IsInvalid() {
		return p.IsInvalid() && other.IsInvalid()
	}
	if !p.withoutGroup(feature.GroupSource).Equal(other.withoutGroup(feature.GroupSource)) {
		return false
	}
	return sameValue(p.gsd, other.gsd) &&
		sameValue(p.sharpen, other.sharpen) &&
		sameValue(p.brightness, other.brightness)
}

// Equivalent reports whether both hold the same ordinary features and the
// same parametric values.
func (p *Params) Equivalent(other *Params) bool {
	if other == nil {
		return false
	}
	if p.IsInvalid() || other.IsInvalid() {
		return p.IsInvalid() && other.IsInvalid()
	}
	return p.bits.Equal(other.bits) &&
		sameValue(p.gsd, other.gsd) &&
		sameValue(p.sharpen, other.sharpen) &&
		sameValue(p.brightness, other.brightness)
}

// Group returns the active feature of group, or nil. GSD answers with the gsd slot.
func (p *Params) Group(group feature.Group) *feature.Feature {
	if group == feature.GroupGsd {
		return p.gsd
	}
	for _, f := range p.catalog.GroupFeatures(group) {
		if !p.HasFeature(f) {
			continue
		}
		if f.IsPlaceholder() {
			return p.slot(f.Kind)
		}
		return f
	}
	return nil
}

// String returns the base-36 processing token of the ordinary features.
// Parametric values are not part of it; the filename carries them separately.
func (p *Params) String() string {
	if p.IsInvalid() || p.bits.IsEmpty() {
		return ""
	}
	return bitcodec.ToBase36(p.bits)
}

func (p *Params) slot(kind feature.Kind) *feature.Feature {
	switch kind {
	case feature.KindGsd:
		return p.gsd
	case feature.KindSharpen:
		return p.sharpen
	case feature.KindBrightness:
		return p.brightness
	case feature.KindOrdinary:
	}
	return nil
}

func (p *Params) clearSlot(kind feature.Kind) {
	switch kind {
	case feature.KindGsd:
		p.gsd = nil
	case feature.KindSharpen:
		p.sharpen = nil
	case feature.KindBrightness:
		p.brightness = nil
	case feature.KindOrdinary:
	}
}

// removeGroup evicts every member of group. Parametric members are found by
// id range, which only matters for placeholder rows listed under the group.
func (p *Params) removeGroup(group feature.Group) {
	for _, f := range p.catalog.GroupFeatures(group) {
		if f.Kind.Parametric() {
			p.clearSlot(f.Kind)
			continue
		}
		p.bits.Remove(f.ID)
	}
}

func (p *Params) withoutGroup(group feature.Group) *bitcodec.Set {
	bits := p.bits.Clone()
	for _, f := range p.catalog.GroupFeatures(group) {
		if f.Kind == feature.KindOrdinary {
			bits.Remove(f.ID)
		}
	}
	return bits
}

func sameValue(a, b *feature.Feature) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind == b.Kind && a.Magnitude() == b.Magnitude()
}
