// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Filename grammar constants
const (
	// VersionMarker precedes the catalog version digit in a processed filename
	VersionMarker = "dcId"

	// DefaultCatalogVersion is assumed when a filename carries no version marker
	DefaultCatalogVersion = "1"

	// PartSeparator joins the segments of a generated filename
	PartSeparator = "_"
)

// Catalog feature names the file reference relies on
const (
	// CroppedFeature marks an image cut out of a larger one
	CroppedFeature = "cropped"

	// ThumbnailFeature marks a thumbnail without overlay
	ThumbnailFeature = "thumbnail"

	// ThumbnailOverlayFeature marks a thumbnail with an embedded overlay
	ThumbnailOverlayFeature = "thumbnail-overlay"
)

// Crop hash constants
const (
	// CropHashBytes is the number of digest bytes rendered into a crop hash
	CropHashBytes = 8
)
