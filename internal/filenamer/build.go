package filenamer

import (
	"fmt"
	"strings"

	"github.com/kozaktomas/mirage/internal/constants"
	"github.com/kozaktomas/mirage/internal/feature"
	"github.com/kozaktomas/mirage/internal/imageref"
	"github.com/kozaktomas/mirage/internal/internalerr"
	"github.com/kozaktomas/mirage/internal/params"
)

// BuildRequest describes a filename to generate. Gsd is in meters; Crop is
// an "x,y,w,h" rectangle hashed into the crop part and excludes CropHash.
type BuildRequest struct {
	Version    string   `json:"version,omitempty"`
	CatID      string   `json:"cat_id"`
	Features   []string `json:"features,omitempty"`
	Gsd        *float64 `json:"gsd,omitempty"`
	Sharpen    *int     `json:"sharpen,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
	CropHash   string   `json:"crop_hash,omitempty"`
	Crop       string   `json:"crop,omitempty"`
	Ext        string   `json:"ext,omitempty"`
}

// Build assembles a reference from req and returns it with its filename.
func (r *Registry) Build(req BuildRequest) (*imageref.Ref, string, error) {
	n, err := r.Get(req.Version)
	if err != nil {
		return nil, "", err
	}
	c, err := r.catalogs.Get(n.Version())
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(req.CatID) == "" {
		return nil, "", fmt.Errorf("%w: catalog id is required", internalerr.ErrMalformedToken)
	}

	p := params.New(c)
	for _, name := range req.Features {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if err := p.SetFeatureName(name); err != nil {
			return nil, "", err
		}
	}
	if err := applyParametric(p, req); err != nil {
		return nil, "", err
	}

	hash, err := requestCropHash(req)
	if err != nil {
		return nil, "", err
	}

	ref := imageref.New(c)
	ref.SetCatID(req.CatID)
	ref.SetExt(req.Ext)
	if err := ref.SetProcessing(p); err != nil {
		return nil, "", err
	}
	if hash != "" {
		if err := ref.SetCroppedHash(hash); err != nil {
			return nil, "", err
		}
	}
	return ref, n.Filename(ref, true), nil
}

func applyParametric(p *params.Params, req BuildRequest) error {
	var values []*feature.Feature
	if req.Gsd != nil {
		f, err := feature.NewGsd(*req.Gsd)
		if err != nil {
			return err
		}
		values = append(values, f)
	}
	if req.Sharpen != nil {
		f, err := feature.NewSharpen(*req.Sharpen)
		if err != nil {
			return err
		}
		values = append(values, f)
	}
	if req.Brightness != nil {
		f, err := feature.NewBrightness(*req.Brightness)
		if err != nil {
			return err
		}
		values = append(values, f)
	}
	for _, f := range values {
		if err := p.SetFeature(f); err != nil {
			return err
		}
	}
	return nil
}

func requestCropHash(req BuildRequest) (string, error) {
	switch {
	case req.Crop != "" && req.CropHash != "":
		return "", fmt.Errorf("%w: crop and crop hash are mutually exclusive", internalerr.ErrMalformedToken)
	case req.Crop != "":
		x, y, w, h, err := imageref.ParseCropRect(req.Crop)
		if err != nil {
			return "", err
		}
		return imageref.CropHash(x, y, w, h), nil
	case req.CropHash != "":
		hash := strings.TrimSpace(req.CropHash)
		if strings.Contains(hash, constants.PartSeparator) || feature.IsVariableToken(hash) {
			return "", fmt.Errorf("%w: crop hash %q cannot be told apart from other filename parts",
				internalerr.ErrMalformedToken, hash)
		}
		return hash, nil
	}
	return "", nil
}

// Description is the readable view of a parsed reference.
type Description struct {
	Filename        string        `json:"filename" yaml:"filename"`
	Descriptive     string        `json:"descriptive" yaml:"descriptive"`
	CatID           string        `json:"cat_id" yaml:"cat_id"`
	Version         string        `json:"version" yaml:"version"`
	Ext             string        `json:"ext,omitempty" yaml:"ext,omitempty"`
	Type            imageref.Type `json:"type" yaml:"type"`
	TypeDescription string        `json:"type_description" yaml:"type_description"`
	ProcessingToken string        `json:"processing_token,omitempty" yaml:"processing_token,omitempty"`
	VariableToken   string        `json:"variable_token,omitempty" yaml:"variable_token,omitempty"`
	CroppedHash     string        `json:"cropped_hash,omitempty" yaml:"cropped_hash,omitempty"`
	Features        []string      `json:"features" yaml:"features"`
	UnknownIDs      []int         `json:"unknown_ids,omitempty" yaml:"unknown_ids,omitempty"`
	GsdMeters       *float64      `json:"gsd_meters,omitempty" yaml:"gsd_meters,omitempty"`
	SharpenPercent  *int          `json:"sharpen_percent,omitempty" yaml:"sharpen_percent,omitempty"`
	Brightness      *float64      `json:"brightness,omitempty" yaml:"brightness,omitempty"`
}

// Describe renders ref with namer n.
func Describe(n Namer, ref *imageref.Ref) Description {
	p := ref.Params()
	d := Description{
		Filename:        n.Filename(ref, true),
		Descriptive:     n.DescriptiveName(ref),
		CatID:           ref.CalcCatID(),
		Version:         ref.Version(),
		Ext:             ref.Ext(),
		Type:            ref.Type(),
		TypeDescription: ref.Type().Description(),
		ProcessingToken: ProcessingToken(p),
		VariableToken:   VariableToken(p),
		CroppedHash:     ref.CroppedHash(),
		Features:        ref.FeatureNames(),
		UnknownIDs:      p.UnknownIDs(),
	}
	if d.Features == nil {
		d.Features = []string{}
	}
	if f := p.Gsd(); f != nil {
		v := f.GsdMeters()
		d.GsdMeters = &v
	}
	if f := p.Sharpen(); f != nil {
		v := f.SharpenPercent()
		d.SharpenPercent = &v
	}
	if f := p.Brightness(); f != nil {
		v := f.Brightness()
		d.Brightness = &v
	}
	return d
}
