// Package filenamer implements the filename grammar that carries processing
// parameters:
//
//	<catId>[_dcId<version>[_<processingToken>][_<variableToken>][_<cropHash>]][.<ext>]
//
// Every grammar version has its own Namer; the Registry picks one from the
// version digit after the dcId marker.
package filenamer

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kozaktomas/mirage/internal/catalog"
	"github.com/kozaktomas/mirage/internal/constants"
	"github.com/kozaktomas/mirage/internal/imageref"
	"github.com/kozaktomas/mirage/internal/internalerr"
)

// Namer parses and generates the filenames of one grammar version.
type Namer interface {
	Version() string
	Parse(filename string) (*imageref.Ref, error)
	Filename(ref *imageref.Ref, withExt bool) string
	FormatCatID(catID string) string
	DescriptiveName(ref *imageref.Ref) string
}

// Registry maps grammar versions to namers.
type Registry struct {
	mu             sync.RWMutex
	namers         map[string]Namer
	catalogs       *catalog.Registry
	defaultVersion string
}

// NewRegistry returns a registry with the version 1 grammar bound to catalogs.
func NewRegistry(catalogs *catalog.Registry) *Registry {
	r := &Registry{
		namers:         make(map[string]Namer),
		catalogs:       catalogs,
		defaultVersion: catalogs.DefaultVersion(),
	}
	r.Register(NewV1(catalogs))
	return r
}

// Catalogs returns the catalog registry the namers resolve features against.
func (r *Registry) Catalogs() *catalog.Registry {
	return r.catalogs
}

// Register adds or replaces the namer of n.Version().
func (r *Registry) Register(n Namer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namers[n.Version()] = n
}

// Get returns the namer for version; "" selects the default version.
func (r *Registry) Get(version string) (Namer, error) {
	if version == "" {
		version = r.defaultVersion
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.namers[version]
	if !ok {
		return nil, fmt.Errorf("%w: no filename grammar for version %q", internalerr.ErrUnknownVersion, version)
	}
	return n, nil
}

// ForFilename returns the namer matching the version embedded in filename.
func (r *Registry) ForFilename(filename string) (Namer, error) {
	return r.Get(VersionFromFilename(filename))
}

// Parse parses filename with the namer of its embedded version.
func (r *Registry) Parse(filename string) (*imageref.Ref, error) {
	n, err := r.ForFilename(filename)
	if err != nil {
		return nil, err
	}
	return n.Parse(filename)
}

// Versions lists the registered grammar versions in sorted order.
func (r *Registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.namers))
	for v := range r.namers {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// VersionFromFilename returns the single character after the dcId marker,
// or "" when the marker is absent.
func VersionFromFilename(filename string) string {
	i := strings.Index(filename, constants.VersionMarker)
	if i < 0 {
		return ""
	}
	start := i + len(constants.VersionMarker)
	if start >= len(filename) {
		return ""
	}
	return filename[start : start+1]
}
