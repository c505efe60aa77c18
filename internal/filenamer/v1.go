package filenamer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kozaktomas/mirage/internal/catalog"
	"github.com/kozaktomas/mirage/internal/constants"
	"github.com/kozaktomas/mirage/internal/feature"
	"github.com/kozaktomas/mirage/internal/imageref"
	"github.com/kozaktomas/mirage/internal/internalerr"
	"github.com/kozaktomas/mirage/internal/params"
)

const v1Version = "1"

// V1 is the version 1 grammar. Parametric codes are concatenated into one
// variable token in the order gsd, sharpen, brightness.
type V1 struct {
	catalogs *catalog.Registry
}

// NewV1 returns the version 1 namer resolving features through catalogs.
func NewV1(catalogs *catalog.Registry) *V1 {
	return &V1{catalogs: catalogs}
}

func (n *V1) Version() string {
	return v1Version
}

// Parse decodes filename into a reference. A malformed processing token does
// not fail: the reference comes back INVALID. Unknown versions and
// out-of-range parametric values are errors.
func (n *V1) Parse(filename string) (*imageref.Ref, error) {
	filename = FormatFilename(filename, true)
	if filename == "" {
		return nil, fmt.Errorf("%w: empty filename", internalerr.ErrMalformedToken)
	}

	stem := imageref.StripExt(filename)
	pos := strings.Index(stem, constants.PartSeparator+constants.VersionMarker)
	if pos < 0 {
		c, err := n.catalogs.Get("")
		if err != nil {
			return nil, err
		}
		ref := imageref.New(c)
		ref.SetOriginalFilename(filename)
		ref.SetCatID(stem)
		return ref, nil
	}

	parts := strings.Split(stem[pos+1:], constants.PartSeparator)
	version := strings.TrimPrefix(parts[0], constants.VersionMarker)
	c, err := n.catalogs.Get(version)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	ref := imageref.New(c)
	ref.SetOriginalFilename(filename)
	ref.SetCatID(stem[:pos])
	if err := ref.SetProcessingToken(processingSegment(parts)); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	variable, err := variableFeatures(c, parts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if !ref.IsInvalid() {
		for _, f := range variable {
			if err := ref.Params().SetFeature(f); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", filename, err)
			}
		}
	}

	if err := ref.SetCroppedHash(croppedHash(parts)); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return ref, nil
}

// Filename encodes ref. An INVALID reference returns its original filename.
func (n *V1) Filename(ref *imageref.Ref, withExt bool) string {
	if ref.Type() == imageref.TypeInvalid {
		return ref.OriginalFilename()
	}

	parts := []string{ref.CalcCatID()}
	if token := ProcessingToken(ref.Params()); token != "" {
		parts = append(parts, token)
	}
	if variable := VariableToken(ref.Params()); variable != "" {
		parts = append(parts, variable)
	}
	if hash := ref.CroppedHash(); hash != "" {
		parts = append(parts, hash)
	}
	return n.join(parts, ref.Ext(), withExt)
}

// FormatCatID normalizes a catalog id the way filenames carry it.
func (n *V1) FormatCatID(catID string) string {
	return imageref.NormalizeName(catID)
}

// DescriptiveName renders ref for people: the feature names in brackets
// instead of the processing token, plus the gsd without spaces.
func (n *V1) DescriptiveName(ref *imageref.Ref) string {
	parts := []string{
		ref.CalcCatID(),
		"[" + strings.Join(ref.FeatureNames(), ",") + "]",
	}
	if gsd := ref.Params().Group(feature.GroupGsd); gsd != nil {
		parts = append(parts, strings.ReplaceAll(gsd.Name, " ", ""))
	}
	if hash := ref.CroppedHash(); hash != "" {
		parts = append(parts, hash)
	}
	return n.join(parts, ref.Ext(), true)
}

func (n *V1) join(parts []string, ext string, withExt bool) string {
	if len(parts) > 1 {
		parts = slices.Insert(parts, 1, constants.VersionMarker+v1Version)
	}
	name := strings.Join(parts, constants.PartSeparator)
	if withExt && ext != "" {
		name += "." + ext
	}
	return name
}

// VariableToken concatenates the filename codes of the parametric values.
func VariableToken(p *params.Params) string {
	var b strings.Builder
	for _, f := range []*feature.Feature{p.Gsd(), p.Sharpen(), p.Brightness()} {
		if f != nil {
			b.WriteString(f.FilenameToken())
		}
	}
	return b.String()
}

// ProcessingToken returns the base-36 token of p as filenames carry it. A
// token that would start with a parametric prefix is upper-cased so it is not
// read back as the variable token; decoding accepts either case.
func ProcessingToken(p *params.Params) string {
	token := p.String()
	if feature.IsVariableToken(token) {
		return strings.ToUpper(token)
	}
	return token
}

// processingSegment returns the segment after the version marker unless it is
// a variable token.
func processingSegment(parts []string) string {
	if len(parts) > 1 && !feature.IsVariableToken(parts[1]) {
		return parts[1]
	}
	return ""
}

// croppedHash returns the trailing segment when there are at least two
// segments after the marker and the last one is not a variable token.
func croppedHash(parts []string) string {
	if len(parts) > 2 {
		last := parts[len(parts)-1]
		if last != "" && !feature.IsVariableToken(last) {
			return last
		}
	}
	return ""
}

// variableFeatures resolves the parametric codes of the last variable token.
func variableFeatures(c *catalog.Catalog, parts []string) ([]*feature.Feature, error) {
	var gsd, sharpen, brightness string
	for _, part := range parts {
		if feature.IsVariableToken(part) {
			gsd, sharpen, brightness = feature.SplitVariableToken(part)
		}
	}

	var out []*feature.Feature
	for _, code := range []string{gsd, sharpen, brightness} {
		if code == "" {
			continue
		}
		f, err := c.Find(code)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
