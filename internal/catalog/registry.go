package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kozaktomas/mirage/internal/internalerr"
)

// Registry maps catalog versions to locked catalogs. It replaces a process-wide
// singleton: build one at startup and hand it to whatever needs lookups.
type Registry struct {
	mu             sync.RWMutex
	catalogs       map[string]*Catalog
	defaultVersion string
}

// NewRegistry returns a registry resolving empty versions to defaultVersion.
func NewRegistry(defaultVersion string) *Registry {
	if defaultVersion == "" {
		defaultVersion = DefaultVersion
	}
	return &Registry{
		catalogs:       make(map[string]*Catalog),
		defaultVersion: defaultVersion,
	}
}

// NewDefaultRegistry loads the embedded catalog and registers it.
func NewDefaultRegistry(opts ...Option) (*Registry, error) {
	c, err := LoadEmbedded(opts...)
	if err != nil {
		return nil, err
	}
	r := NewRegistry(DefaultVersion)
	if err := r.Register(c); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a locked catalog under its version.
func (r *Registry) Register(c *Catalog) error {
	if !c.Locked() {
		return fmt.Errorf("catalog version %s must be locked before registration", c.Version())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.catalogs[c.Version()]; exists {
		return fmt.Errorf("catalog version %s is already registered", c.Version())
	}
	r.catalogs[c.Version()] = c
	return nil
}

// Get returns the catalog for version; "" selects the default version.
func (r *Registry) Get(version string) (*Catalog, error) {
	if version == "" {
		version = r.defaultVersion
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.catalogs[version]
	if !ok {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownVersion, version)
	}
	return c, nil
}

// Default returns the catalog of the default version, or nil if unregistered.
func (r *Registry) Default() *Catalog {
	c, _ := r.Get("")
	return c
}

// DefaultVersion returns the version used for empty lookups.
func (r *Registry) DefaultVersion() string {
	return r.defaultVersion
}

// Versions lists the registered versions in sorted order.
func (r *Registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.catalogs))
	for v := range r.catalogs {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
