// Package imageref models a reference to an image file: its identity in the
// catalog of imagery, the processing that produced it and its derived type.
package imageref

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/kozaktomas/mirage/internal/catalog"
	"github.com/kozaktomas/mirage/internal/constants"
	"github.com/kozaktomas/mirage/internal/feature"
	"github.com/kozaktomas/mirage/internal/internalerr"
	"github.com/kozaktomas/mirage/internal/params"
)

// Ref is an image file reference. It owns its processing parameters and is
// not safe for concurrent mutation.
type Ref struct {
	catalog          *catalog.Catalog
	originalFilename string
	ext              string
	catID            string
	croppedHash      string
	sourceImageID    string
	fullPath         string
	source           *feature.Feature
	params           *params.Params
}

// New returns an empty reference resolving features against c.
func New(c *catalog.Catalog) *Ref {
	return &Ref{catalog: c, params: params.New(c)}
}

// Catalog returns the catalog the reference resolves features against.
func (r *Ref) Catalog() *catalog.Catalog { return r.catalog }

// Version returns the catalog version of the processing parameters.
func (r *Ref) Version() string { return r.catalog.Version() }

// SetOriginalFilename records the base name of filename and, when no
// extension is known yet, takes the extension from it.
func (r *Ref) SetOriginalFilename(filename string) {
	if strings.ContainsAny(filename, `/\`) {
		filename = NormalizeName(filename)
	}
	r.originalFilename = filename
	if r.ext == "" {
		r.ext = Ext(filename)
	}
}

func (r *Ref) OriginalFilename() string { return r.originalFilename }

func (r *Ref) SetExt(ext string) { r.ext = strings.TrimPrefix(ext, ".") }
func (r *Ref) Ext() string       { return r.ext }

// SetCatID stores a normalized catalog id.
func (r *Ref) SetCatID(catID string) { r.catID = NormalizeName(catID) }
func (r *Ref) CatID() string         { return r.catID }

func (r *Ref) SetSourceImageID(id string) { r.sourceImageID = id }
func (r *Ref) SourceImageID() string      { return r.sourceImageID }

func (r *Ref) SetFullPath(path string) { r.fullPath = path }
func (r *Ref) FullPath() string        { return r.fullPath }

// CalcCatID returns the catalog id, falling back to the source image id.
func (r *Ref) CalcCatID() string {
	if r.catID != "" {
		return r.catID
	}
	if r.sourceImageID != "" {
		return NormalizeName(r.sourceImageID)
	}
	return ""
}

// Params returns the owned processing parameters.
func (r *Ref) Params() *params.Params { return r.params }

// Source returns the SOURCE feature recorded by SetProcessing, or nil.
func (r *Ref) Source() *feature.Feature { return r.source }

// SetProcessingToken decodes a processing token and applies it with
// SetProcessing. A malformed token makes an empty reference invalid.
func (r *Ref) SetProcessingToken(token string) error {
	return r.SetProcessing(params.FromToken(r.catalog, token))
}

// SetProcessing merges p into parameters that already hold features, or
// replaces them otherwise. A nil p stands for empty parameters.
func (r *Ref) SetProcessing(p *params.Params) error {
	next := params.New(r.catalog)
	if p != nil {
		next = p.Clone()
	}

	if !r.params.IsInvalid() && !r.params.IsEmpty() {
		if err := r.params.AddFeatures(next); err != nil {
			return fmt.Errorf("merging processing parameters: %w", err)
		}
	} else {
		r.params = next
		r.catalog = next.Catalog()
	}

	if source := r.params.Group(feature.GroupSource); source != nil {
		r.source = source
	}
	return nil
}

// SetCroppedHash records the crop hash. A non-empty hash marks the image as
// cropped unless it is a thumbnail; an empty hash clears the cropped feature.
func (r *Ref) SetCroppedHash(hash string) error {
	r.croppedHash = hash
	if r.params.IsInvalid() {
		return nil
	}
	cropped, err := r.catalog.Find(constants.CroppedFeature)
	if err != nil {
		// catalogs without a cropped row only carry the hash
		return nil
	}
	if hash == "" {
		r.params.RemoveFeature(cropped)
		return nil
	}
	if r.IsThumbnail() {
		return nil
	}
	if err := r.params.SetFeature(cropped); err != nil {
		return fmt.Errorf("marking %s as cropped: %w", r.CalcCatID(), err)
	}
	return nil
}

func (r *Ref) CroppedHash() string { return r.croppedHash }

func (r *Ref) IsInvalid() bool   { return r.params.IsInvalid() }
func (r *Ref) IsProcessed() bool { return r.params.IsProcessed() }

func (r *Ref) IsCropped() bool { return r.hasFeature(constants.CroppedFeature) }

// IsThumbnail reports whether either thumbnail feature is active.
func (r *Ref) IsThumbnail() bool {
	return r.hasFeature(constants.ThumbnailFeature) || r.IsThumbnailOverlay()
}

func (r *Ref) IsThumbnailOverlay() bool { return r.hasFeature(constants.ThumbnailOverlayFeature) }

func (r *Ref) hasFeature(name string) bool {
	ok, err := r.params.HasFeatureName(name)
	return err == nil && ok
}

// Type derives the classification. Later checks win: processed, cropped,
// thumbnail, thumbnail with overlay. Invalid parameters override everything.
func (r *Ref) Type() Type {
	if r.IsInvalid() {
		return TypeInvalid
	}
	t := TypeOriginal
	if r.IsProcessed() {
		t = TypeProcessed
	}
	if r.IsCropped() {
		t = TypeCropped
	}
	if r.hasFeature(constants.ThumbnailFeature) {
		t = TypeThumbnail
	}
	if r.IsThumbnailOverlay() {
		t = TypeThumbnailOverlay
	}
	return t
}

// FeatureNames lists the active feature names in filename order.
func (r *Ref) FeatureNames() []string {
	return r.params.FeatureNames()
}

// Modified returns the modification time of the file at FullPath.
func (r *Ref) Modified() (time.Time, bool) {
	if r.fullPath == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(r.fullPath)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// CropHash derives the crop hash of a rectangle: the lowercase hex of the
// leading bytes of the BLAKE3 digest of "x,y,w,h". Hex digits never collide
// with the parametric filename prefixes.
func CropHash(x, y, w, h int) string {
	sum := blake3.Sum256([]byte(fmt.Sprintf("%d,%d,%d,%d", x, y, w, h)))
	return hex.EncodeToString(sum[:constants.CropHashBytes])
}

// ParseCropRect reads "x,y,w,h" with a non-negative origin and positive size.
func ParseCropRect(s string) (x, y, w, h int, err error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("%w: crop rectangle %q must be x,y,w,h", internalerr.ErrMalformedToken, s)
	}
	vals := make([]int, 4)
	for i, f := range fields {
		v, convErr := strconv.Atoi(strings.TrimSpace(f))
		if convErr != nil {
			return 0, 0, 0, 0, fmt.Errorf("%w: crop rectangle %q: %v", internalerr.ErrMalformedToken, s, convErr)
		}
		vals[i] = v
	}
	if vals[0] < 0 || vals[1] < 0 || vals[2] <= 0 || vals[3] <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: crop rectangle %q", internalerr.ErrValueOutOfRange, s)
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
