// Package catalog holds the version-scoped registry of ordinary features and
// resolves parametric features by id or name.
//
// A Catalog is filled once from a tabular source and then locked. After Lock
// it is read-only apart from the memo caches of parametric instances, which
// are append-once and safe for concurrent use.
package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/kozaktomas/mirage/internal/feature"
	"github.com/kozaktomas/mirage/internal/internalerr"
)

// Catalog is the feature registry of one catalog version.
type Catalog struct {
	version string
	logger  *zap.Logger

	mu       sync.RWMutex
	locked   bool
	features []*feature.Feature
	byName   map[string]*feature.Feature
	mapping  map[feature.Group][]*feature.Feature

	gsd        *cache.Cache
	sharpen    *cache.Cache
	brightness *cache.Cache

	gsdPlaceholder        *feature.Feature
	sharpenPlaceholder    *feature.Feature
	brightnessPlaceholder *feature.Feature
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used while loading.
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns an empty, unlocked catalog for version.
func New(version string, opts ...Option) *Catalog {
	c := &Catalog{
		version:               version,
		logger:                zap.NewNop(),
		byName:                make(map[string]*feature.Feature),
		mapping:               make(map[feature.Group][]*feature.Feature),
		gsd:                   cache.New(cache.NoExpiration, 0),
		sharpen:               cache.New(cache.NoExpiration, 0),
		brightness:            cache.New(cache.NoExpiration, 0),
		gsdPlaceholder:        feature.GsdPlaceholder(),
		sharpenPlaceholder:    feature.SharpenPlaceholder(),
		brightnessPlaceholder: feature.BrightnessPlaceholder(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version returns the catalog version tag.
func (c *Catalog) Version() string {
	return c.version
}

// Add registers an ordinary feature at its id.
func (c *Catalog) Add(f *feature.Feature) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locked {
		return fmt.Errorf("%w: cannot add %q to catalog version %s", internalerr.ErrCatalogLocked, f.Name, c.version)
	}
	if f.Kind != feature.KindOrdinary || f.ID < 0 {
		return fmt.Errorf("%w: feature %q with id %d is not an ordinary feature", internalerr.ErrInvalidCatalogRow, f.Name, f.ID)
	}
	for f.ID >= len(c.features) {
		c.features = append(c.features, nil)
	}
	if c.features[f.ID] != nil {
		return fmt.Errorf("%w: duplicate id %d", internalerr.ErrInvalidCatalogRow, f.ID)
	}
	key := fold(f.Name)
	if _, dup := c.byName[key]; dup {
		return fmt.Errorf("%w: duplicate feature name %q", internalerr.ErrInvalidCatalogRow, f.Name)
	}

	c.features[f.ID] = f
	c.byName[key] = f
	c.mapping[f.Group] = append(c.mapping[f.Group], f)
	return nil
}

// Lock freezes the catalog. It fails if the ids added so far leave a gap.
func (c *Catalog) Lock() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, f := range c.features {
		if f == nil {
			return fmt.Errorf("%w: no row for id %d", internalerr.ErrInvalidCatalogRow, id)
		}
	}
	c.locked = true
	return nil
}

// Locked reports whether Lock has succeeded.
func (c *Catalog) Locked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locked
}

// Len returns the number of ordinary features.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.features)
}

// Features returns the ordinary features ordered by id.
func (c *Catalog) Features() []*feature.Feature {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*feature.Feature, len(c.features))
	copy(out, c.features)
	return out
}

// Get returns the feature with the given id. Ids inside a parametric range are
// rebuilt from the id and fail when the magnitude is outside the family domain.
func (c *Catalog) Get(id int) (*feature.Feature, error) {
	kind, ok := feature.KindOfID(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", internalerr.ErrUnknownFeature, id)
	}
	if kind == feature.KindOrdinary {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if id >= len(c.features) || c.features[id] == nil {
			return nil, fmt.Errorf("%w: id %d", internalerr.ErrUnknownFeature, id)
		}
		return c.features[id], nil
	}

	f, err := feature.FromID(id)
	if err != nil {
		return nil, err
	}
	return c.memoize(f), nil
}

// Find resolves a feature name. Ordinary names match case-insensitively and
// win over the parametric parsers, which are tried gsd, sharpen, brightness.
func (c *Catalog) Find(name string) (*feature.Feature, error) {
	c.mu.RLock()
	f, ok := c.byName[fold(name)]
	c.mu.RUnlock()
	if ok {
		return f, nil
	}

	if _, ok := feature.ParametricKindOfName(name); ok {
		p, err := feature.ParseParametric(name)
		if err != nil {
			return nil, err
		}
		return c.memoize(p), nil
	}
	return nil, fmt.Errorf("%w: %s", internalerr.ErrUnknownFeature, name)
}

// FindInGroup resolves a feature by its display value within one group. The
// GSD group has no rows and always goes through the gsd parser; ADJUSTMENTS
// falls back to the sharpen and brightness parsers.
func (c *Catalog) FindInGroup(group feature.Group, value string, caseInsensitive bool) (*feature.Feature, error) {
	if group == feature.GroupGsd {
		return c.findParametric(feature.KindGsd, group, value)
	}

	c.mu.RLock()
	rows := c.mapping[group]
	c.mu.RUnlock()
	for _, f := range rows {
		if f.Value == value || (caseInsensitive && fold(f.Value) == fold(value)) {
			return f, nil
		}
	}

	if group == feature.GroupAdjustments {
		if kind, ok := feature.ParametricKindOfName(value); ok && kind != feature.KindGsd {
			return c.findParametric(kind, group, value)
		}
	}
	return nil, fmt.Errorf("%w: group %s, value %s", internalerr.ErrUnknownFeature, group, value)
}

func (c *Catalog) findParametric(kind feature.Kind, group feature.Group, value string) (*feature.Feature, error) {
	if k, ok := feature.ParametricKindOfName(value); !ok || k != kind {
		return nil, fmt.Errorf("%w: group %s, value %s", internalerr.ErrUnknownFeature, group, value)
	}
	f, err := feature.ParseParametric(value)
	if err != nil {
		return nil, err
	}
	return c.memoize(f), nil
}

// GroupFeatures lists the features of a group. GSD yields its placeholder and
// ADJUSTMENTS carries the sharpen and brightness placeholders after its rows.
func (c *Catalog) GroupFeatures(group feature.Group) []*feature.Feature {
	if group == feature.GroupGsd {
		return []*feature.Feature{c.gsdPlaceholder}
	}
	c.mu.RLock()
	out := append([]*feature.Feature(nil), c.mapping[group]...)
	c.mu.RUnlock()
	if group == feature.GroupAdjustments {
		out = append(out, c.sharpenPlaceholder, c.brightnessPlaceholder)
	}
	return out
}

// Mapping returns the rows of every group that has any.
func (c *Catalog) Mapping() map[feature.Group][]*feature.Feature {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[feature.Group][]*feature.Feature, len(c.mapping))
	for g, rows := range c.mapping {
		out[g] = append([]*feature.Feature(nil), rows...)
	}
	return out
}

// Placeholders returns the gsd, sharpen and brightness descriptors.
func (c *Catalog) Placeholders() []*feature.Feature {
	return []*feature.Feature{c.gsdPlaceholder, c.sharpenPlaceholder, c.brightnessPlaceholder}
}

// PrintFeatureList renders every row followed by the three placeholders.
func (c *Catalog) PrintFeatureList() string {
	features := c.Features()
	lines := make([]string, 0, len(features)+3)
	for _, f := range features {
		lines = append(lines, f.String())
	}
	for _, p := range c.Placeholders() {
		lines = append(lines, p.String())
	}
	return strings.Join(lines, "\n")
}

// PrintGroupFeatureList renders the features of one group.
func (c *Catalog) PrintGroupFeatureList(group feature.Group) string {
	features := c.GroupFeatures(group)
	lines := make([]string, 0, len(features))
	for _, f := range features {
		lines = append(lines, f.String())
	}
	return strings.Join(lines, "\n")
}

// memoize returns the shared instance for f's canonical name, storing f if it
// is the first of its value.
func (c *Catalog) memoize(f *feature.Feature) *feature.Feature {
	var store *cache.Cache
	switch f.Kind {
	case feature.KindGsd:
		store = c.gsd
	case feature.KindSharpen:
		store = c.sharpen
	case feature.KindBrightness:
		store = c.brightness
	case feature.KindOrdinary:
		return f
	}
	if cached, found := store.Get(f.Name); found {
		return cached.(*feature.Feature)
	}
	if err := store.Add(f.Name, f, cache.NoExpiration); err != nil {
		// lost the race, another caller stored the same value first
		if cached, found := store.Get(f.Name); found {
			return cached.(*feature.Feature)
		}
	}
	return f
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
