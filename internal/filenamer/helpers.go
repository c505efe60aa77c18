package filenamer

import (
	"path/filepath"
	"strings"

	"github.com/kozaktomas/mirage/internal/config"
	"github.com/kozaktomas/mirage/internal/imageref"
)

// FormatFilename normalizes a path to a base name with spaces turned into
// single underscores, optionally without its extension.
func FormatFilename(filename string, withExt bool) string {
	name := imageref.NormalizeName(filename)
	if withExt {
		return name
	}
	return imageref.StripExt(name)
}

// LowerCaseExt returns path with its extension lower-cased.
func LowerCaseExt(path string) string {
	ext := imageref.Ext(path)
	if ext == "" {
		return path
	}
	return imageref.StripExt(path) + "." + strings.ToLower(ext)
}

// IsImageVariant reports whether filename belongs to the image catID.
func IsImageVariant(filename, catID string) bool {
	if filename == "" || catID == "" {
		return false
	}
	return strings.HasPrefix(filepath.Base(filename), catID)
}

// Classifier sorts files into images and their sidecars using the extension
// rules from configuration.
type Classifier struct {
	files config.FilesConfig
}

// NewClassifier returns a classifier for the given rules.
func NewClassifier(files config.FilesConfig) *Classifier {
	return &Classifier{files: files}
}

// IsImage reports whether filename has an image extension.
func (c *Classifier) IsImage(filename string) bool {
	return c.files.IsImageExt(imageref.Ext(filename))
}

// IsSidecar reports whether filename is an auxiliary file of imageFilename:
// not an image itself and named after the image with or without its extension.
func (c *Classifier) IsSidecar(filename, imageFilename string) bool {
	name := filepath.Base(filename)
	image := filepath.Base(imageFilename)
	if c.IsImage(name) {
		return false
	}
	return strings.HasPrefix(name, imageref.StripExt(image)) || strings.HasPrefix(name, image)
}

// IsOverview reports whether filename is an overview (.ovr) of imageFilename.
func (c *Classifier) IsOverview(filename, imageFilename string) bool {
	return c.IsSidecar(filename, imageFilename) && strings.HasSuffix(filename, ".ovr")
}

// IsHistogram reports whether filename is a histogram (.his) of imageFilename.
func (c *Classifier) IsHistogram(filename, imageFilename string) bool {
	return c.IsSidecar(filename, imageFilename) && strings.HasSuffix(filename, ".his")
}

// IsMetadata reports whether filename is the metadata document of imageFilename.
func (c *Classifier) IsMetadata(filename, imageFilename string) bool {
	return c.IsSidecar(filename, imageFilename) && strings.HasSuffix(filename, ".metadata.json")
}

// HasSidecarSuffix reports whether filename ends in a known sidecar suffix,
// without knowing which image it belongs to.
func (c *Classifier) HasSidecarSuffix(filename string) bool {
	lower := strings.ToLower(filename)
	for _, suffix := range c.files.SidecarSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// CompatibilityFilename rewrites extensions downstream tools cannot read,
// for example r0 becomes nitf. Other paths are returned unchanged.
func (c *Classifier) CompatibilityFilename(path string) string {
	ext := imageref.Ext(path)
	if ext == "" {
		return path
	}
	repl := c.files.CompatibleExt(ext)
	if repl == ext {
		return path
	}
	return imageref.StripExt(path) + "." + repl
}
