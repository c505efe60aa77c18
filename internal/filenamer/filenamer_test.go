package filenamer

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kozaktomas/mirage/internal/catalog"
	"github.com/kozaktomas/mirage/internal/config"
	"github.com/kozaktomas/mirage/internal/constants"
	"github.com/kozaktomas/mirage/internal/feature"
	"github.com/kozaktomas/mirage/internal/imageref"
	"github.com/kozaktomas/mirage/internal/internalerr"
	"github.com/kozaktomas/mirage/internal/params"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	catalogs, err := catalog.NewDefaultRegistry()
	require.NoError(t, err)
	return NewRegistry(catalogs)
}

func TestParse_VariableToken(t *testing.T) {
	r := testRegistry(t)

	ref, err := r.Parse("104001004E9B7800_dcId1_gsd50os30ob-25.tif")
	require.NoError(t, err)

	assert.Equal(t, "104001004E9B7800", ref.CatID())
	assert.Equal(t, "tif", ref.Ext())
	assert.Equal(t, "1", ref.Version())
	assert.Equal(t, "", ref.CroppedHash())

	p := ref.Params()
	require.NotNil(t, p.Gsd())
	require.NotNil(t, p.Sharpen())
	require.NotNil(t, p.Brightness())
	assert.InDelta(t, 0.50, p.Gsd().GsdMeters(), 1e-9)
	assert.Equal(t, 30, p.Sharpen().SharpenPercent())
	assert.InDelta(t, -0.25, p.Brightness().Brightness(), 1e-9)
	assert.Equal(t, imageref.TypeProcessed, ref.Type())

	n, err := r.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "104001004E9B7800_dcId1_gsd50os30ob-25.tif", n.Filename(ref, true))
	assert.Equal(t, "104001004E9B7800_dcId1_gsd50os30ob-25", n.Filename(ref, false))
}

func TestParse_PlainFilename(t *testing.T) {
	r := testRegistry(t)

	ref, err := r.Parse("plainimage.tif")
	require.NoError(t, err)

	assert.Equal(t, "plainimage", ref.CatID())
	assert.Equal(t, "tif", ref.Ext())
	assert.Equal(t, "1", ref.Version())
	assert.True(t, ref.Params().IsEmpty())
	assert.Equal(t, imageref.TypeOriginal, ref.Type())

	n, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, "plainimage.tif", n.Filename(ref, true))
}

func TestParse_MalformedToken(t *testing.T) {
	r := testRegistry(t)

	ref, err := r.Parse("104001004E9B7800_dcId1_y1u-6j5s_gsd50.tif")
	require.NoError(t, err)

	assert.True(t, ref.Params().IsInvalid())
	assert.Equal(t, imageref.TypeInvalid, ref.Type())
	assert.Empty(t, ref.FeatureNames())

	n, err := r.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "104001004E9B7800_dcId1_y1u-6j5s_gsd50.tif", n.Filename(ref, true))
}

func TestParse_FullGrammar(t *testing.T) {
	r := testRegistry(t)
	hash := imageref.CropHash(0, 0, 512, 512)

	ref, err := r.Parse("104001004E9B7800_dcId1_y1u6j5s_gsd30os10_" + hash + ".tif")
	require.NoError(t, err)

	assert.Equal(t, hash, ref.CroppedHash())
	assert.True(t, ref.IsCropped())
	assert.Equal(t, imageref.TypeCropped, ref.Type())
	assert.Contains(t, ref.FeatureNames(), "ortho")
	assert.Contains(t, ref.FeatureNames(), "cropped")
	assert.Equal(t, 30, ref.Params().Gsd().Magnitude())
	assert.Nil(t, ref.Params().Brightness())

	// cropped (id 6) joins the token, so re-encoding changes the token but
	// must parse back to the same parameters
	n, err := r.Get("1")
	require.NoError(t, err)
	again, err := r.Parse(n.Filename(ref, true))
	require.NoError(t, err)
	assert.True(t, ref.Params().Equivalent(again.Params()))
	assert.Equal(t, hash, again.CroppedHash())
}

func TestParse_ProcessingTokenOnly(t *testing.T) {
	r := testRegistry(t)

	ref, err := r.Parse("104001004E9B7800_dcId1_y1u6j5s.tif")
	require.NoError(t, err)
	assert.Equal(t, "y1u6j5s", ref.Params().String())
	assert.Equal(t, "", ref.CroppedHash())
	require.NotNil(t, ref.Params().Group(feature.GroupFormat))
	assert.Equal(t, "format-geotiff", ref.Params().Group(feature.GroupFormat).Name)
}

func TestParse_Errors(t *testing.T) {
	r := testRegistry(t)

	_, err := r.Parse("104001004E9B7800_dcId1_os300.tif")
	assert.ErrorIs(t, err, internalerr.ErrValueOutOfRange)

	_, err = r.Parse("104001004E9B7800_dcId1_ob-150.tif")
	assert.ErrorIs(t, err, internalerr.ErrValueOutOfRange)

	_, err = r.Parse("104001004E9B7800_dcId7_y1u6j5s.tif")
	assert.ErrorIs(t, err, internalerr.ErrUnknownVersion)

	n, err := r.Get("1")
	require.NoError(t, err)
	_, err = n.Parse("   ")
	assert.ErrorIs(t, err, internalerr.ErrMalformedToken)
}

func TestParse_NormalizesName(t *testing.T) {
	r := testRegistry(t)

	ref, err := r.Parse("/data/in/my  image_dcId1_gsd50.TIF")
	require.NoError(t, err)
	assert.Equal(t, "my_image", ref.CatID())
	assert.Equal(t, "TIF", ref.Ext())
	assert.Equal(t, "my_image_dcId1_gsd50.TIF", ref.OriginalFilename())
}

func TestFilename_Build(t *testing.T) {
	catalogs, err := catalog.NewDefaultRegistry()
	require.NoError(t, err)
	c := catalogs.Default()
	n := NewV1(catalogs)

	p, err := params.FromFeatureNames(c, "ortho,bands-rgb,gsd 120,ob5")
	require.NoError(t, err)
	ref := imageref.New(c)
	ref.SetCatID("10300100A1B2C300")
	ref.SetExt("ntf")
	require.NoError(t, ref.SetProcessing(p))

	name := n.Filename(ref, true)
	assert.Regexp(t, `^10300100A1B2C300_dcId1_[0-9a-z]+_gsd120ob5\.ntf$`, name)

	back, err := n.Parse(name)
	require.NoError(t, err)
	assert.True(t, p.Equivalent(back.Params()))
	assert.Equal(t, name, n.Filename(back, true))
}

func TestFilename_NoCatID(t *testing.T) {
	catalogs, err := catalog.NewDefaultRegistry()
	require.NoError(t, err)
	n := NewV1(catalogs)

	ref := imageref.New(catalogs.Default())
	ref.SetSourceImageID("source 42")
	assert.Equal(t, "source_42", n.Filename(ref, true))
}

func TestDescriptiveName(t *testing.T) {
	r := testRegistry(t)
	n, err := r.Get("1")
	require.NoError(t, err)

	ref, err := r.Parse("104001004E9B7800_dcId1_gsd50os30.tif")
	require.NoError(t, err)
	assert.Equal(t,
		"104001004E9B7800_dcId1_[gsd 50,ossim-sharpen 30]_gsd50.tif",
		n.DescriptiveName(ref))

	plain, err := r.Parse("plainimage.tif")
	require.NoError(t, err)
	assert.Equal(t, "plainimage_dcId1_[].tif", n.DescriptiveName(plain))
}

func TestVersionFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"104001004E9B7800_dcId1_y1u6j5s.tif", "1"},
		{"104001004E9B7800_dcId2.tif", "2"},
		{"plainimage.tif", ""},
		{"trailing_dcId", ""},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, VersionFromFilename(tt.filename))
		})
	}
}

func TestRegistry(t *testing.T) {
	r := testRegistry(t)
	assert.Equal(t, []string{"1"}, r.Versions())

	n, err := r.ForFilename("plainimage.tif")
	require.NoError(t, err)
	assert.Equal(t, "1", n.Version())

	_, err = r.ForFilename("x_dcId9.tif")
	assert.ErrorIs(t, err, internalerr.ErrUnknownVersion)
}

func TestFormatFilename(t *testing.T) {
	assert.Equal(t, "a_b_c.tif", FormatFilename(" /tmp/a b__c.tif", true))
	assert.Equal(t, "a_b_c", FormatFilename("/tmp/a b__c.tif", false))
	assert.Equal(t, "", FormatFilename("", true))
}

func TestLowerCaseExt(t *testing.T) {
	assert.Equal(t, "/data/IMAGE.tif", LowerCaseExt("/data/IMAGE.TIF"))
	assert.Equal(t, "/data/IMAGE", LowerCaseExt("/data/IMAGE"))
}

func TestIsImageVariant(t *testing.T) {
	assert.True(t, IsImageVariant("/data/104001004E9B7800_dcId1_gsd50.tif", "104001004E9B7800"))
	assert.False(t, IsImageVariant("/data/other.tif", "104001004E9B7800"))
	assert.False(t, IsImageVariant("", "104001004E9B7800"))
}

func TestClassifier(t *testing.T) {
	c := NewClassifier(config.DefaultFiles())

	assert.True(t, c.IsImage("scene.TIF"))
	assert.False(t, c.IsImage("scene.ovr"))
	assert.False(t, c.IsImage("README"))

	assert.True(t, c.IsSidecar("scene.tif.ovr", "scene.tif"))
	assert.True(t, c.IsSidecar("scene.his", "scene.tif"))
	assert.False(t, c.IsSidecar("scene.ntf", "scene.tif"), "images are never sidecars")
	assert.False(t, c.IsSidecar("other.his", "scene.tif"))

	assert.True(t, c.IsOverview("scene.tif.ovr", "scene.tif"))
	assert.True(t, c.IsHistogram("scene.his", "scene.tif"))
	assert.True(t, c.IsMetadata("scene.metadata.json", "scene.tif"))
	assert.False(t, c.IsMetadata("scene.his", "scene.tif"))

	assert.True(t, c.HasSidecarSuffix("scene.TIF.OVR"))
	assert.False(t, c.HasSidecarSuffix("scene.tif"))

	assert.Equal(t, "/in/scene.nitf", c.CompatibilityFilename("/in/scene.r0"))
	assert.Equal(t, "/in/scene.tif", c.CompatibilityFilename("/in/scene.tif"))
}

func TestBuild(t *testing.T) {
	r := testRegistry(t)
	gsd := 0.5
	sharpen := 30
	brightness := -0.25

	ref, name, err := r.Build(BuildRequest{
		CatID:      "104001004E9B7800",
		Features:   []string{"ortho", "bands-rgb", ""},
		Gsd:        &gsd,
		Sharpen:    &sharpen,
		Brightness: &brightness,
		Crop:       "0,0,512,512",
		Ext:        "tif",
	})
	require.NoError(t, err)

	hash := imageref.CropHash(0, 0, 512, 512)
	assert.Regexp(t, `^104001004E9B7800_dcId1_[0-9a-z]+_gsd50os30ob-25_`+hash+`\.tif$`, name)
	assert.Equal(t, imageref.TypeCropped, ref.Type())

	back, err := r.Parse(name)
	require.NoError(t, err)
	assert.True(t, ref.Params().Equivalent(back.Params()))
	assert.Equal(t, hash, back.CroppedHash())
}

func TestBuild_Errors(t *testing.T) {
	r := testRegistry(t)
	sharpen := 101
	gsd := -1.0

	tests := []struct {
		name string
		req  BuildRequest
		err  error
	}{
		{"missing cat id", BuildRequest{CatID: " "}, internalerr.ErrMalformedToken},
		{"unknown version", BuildRequest{CatID: "a", Version: "9"}, internalerr.ErrUnknownVersion},
		{"unknown feature", BuildRequest{CatID: "a", Features: []string{"nope"}}, internalerr.ErrUnknownFeature},
		{"sharpen range", BuildRequest{CatID: "a", Sharpen: &sharpen}, internalerr.ErrValueOutOfRange},
		{"negative gsd", BuildRequest{CatID: "a", Gsd: &gsd}, internalerr.ErrValueOutOfRange},
		{"both crops", BuildRequest{CatID: "a", Crop: "0,0,1,1", CropHash: "abc"}, internalerr.ErrMalformedToken},
		{"bad crop", BuildRequest{CatID: "a", Crop: "0,0,0,1"}, internalerr.ErrValueOutOfRange},
		{"ambiguous hash", BuildRequest{CatID: "a", CropHash: "gsd1"}, internalerr.ErrMalformedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := r.Build(tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDescribe(t *testing.T) {
	r := testRegistry(t)
	ref, err := r.Parse("104001004E9B7800_dcId1_y1u6j5s_gsd50os30.tif")
	require.NoError(t, err)
	n, err := r.Get("1")
	require.NoError(t, err)

	d := Describe(n, ref)
	assert.Equal(t, "104001004E9B7800_dcId1_y1u6j5s_gsd50os30.tif", d.Filename)
	assert.Equal(t, "y1u6j5s", d.ProcessingToken)
	assert.Equal(t, "gsd50os30", d.VariableToken)
	assert.Equal(t, imageref.TypeProcessed, d.Type)
	require.NotNil(t, d.GsdMeters)
	assert.InDelta(t, 0.5, *d.GsdMeters, 1e-9)
	require.NotNil(t, d.SharpenPercent)
	assert.Equal(t, 30, *d.SharpenPercent)
	assert.Nil(t, d.Brightness)

	plain, err := r.Parse("plainimage.tif")
	require.NoError(t, err)
	assert.Equal(t, []string{}, Describe(n, plain).Features)
}

func TestFilename_TokenWithParametricPrefix(t *testing.T) {
	r := testRegistry(t)

	tests := []struct {
		name     string
		features []string
		expected string
	}{
		{
			name:     "gsd prefix",
			features: []string{"radiometry-dra", "resolution-reduced-2x", "haze-removal", "thumbnail", "bands-multispectral"},
			expected: "CAT_dcId1_GSDXQ80.tif",
		},
		{
			name:     "os prefix",
			features: []string{"elevation-none", "resolution-reduced-2x", "pan-sharpened", "software-ossim", "software-gdal", "software-mirage"},
			expected: "CAT_dcId1_OS48HS.tif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, name, err := r.Build(BuildRequest{CatID: "CAT", Features: tt.features, Ext: "tif"})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)

			back, err := r.Parse(name)
			require.NoError(t, err)
			assert.True(t, ref.Params().Equivalent(back.Params()), "features %v came back as %v", tt.features, back.FeatureNames())
			assert.Equal(t, ref.Type(), back.Type())
			assert.Nil(t, back.Params().Gsd())
			assert.Nil(t, back.Params().Sharpen())
		})
	}
}

func TestFilename_TokenWithParametricPrefixAndVariableToken(t *testing.T) {
	r := testRegistry(t)
	gsd := 0.3

	ref, name, err := r.Build(BuildRequest{
		CatID:    "CAT",
		Features: []string{"radiometry-dra", "resolution-reduced-2x", "haze-removal", "thumbnail", "bands-multispectral"},
		Gsd:      &gsd,
		Ext:      "tif",
	})
	require.NoError(t, err)
	assert.Equal(t, "CAT_dcId1_GSDXQ80_gsd30.tif", name)

	back, err := r.Parse(name)
	require.NoError(t, err)
	assert.True(t, ref.Params().Equivalent(back.Params()))
}

func TestFilename_RoundTripRandomParams(t *testing.T) {
	r := testRegistry(t)
	n, err := r.Get("")
	require.NoError(t, err)
	c, err := r.Catalogs().Get("")
	require.NoError(t, err)

	var candidates []*feature.Feature
	for _, f := range c.Features() {
		// cropped follows the crop hash, which this test leaves out
		if f.Name != constants.CroppedFeature {
			candidates = append(candidates, f)
		}
	}

	rng := rand.New(rand.NewPCG(7, 11))
	for i := range 5000 {
		p := params.New(c)
		for range rng.IntN(len(candidates)) {
			require.NoError(t, p.SetFeature(candidates[rng.IntN(len(candidates))]))
		}
		if rng.IntN(3) == 0 {
			f, err := feature.NewGsdCentimeters(rng.IntN(10000))
			require.NoError(t, err)
			require.NoError(t, p.SetFeature(f))
		}
		if rng.IntN(3) == 0 {
			f, err := feature.NewSharpen(rng.IntN(101))
			require.NoError(t, err)
			require.NoError(t, p.SetFeature(f))
		}
		if rng.IntN(3) == 0 {
			f, err := feature.NewBrightness(float64(rng.IntN(201)-100) / 100)
			require.NoError(t, err)
			require.NoError(t, p.SetFeature(f))
		}

		ref := imageref.New(c)
		ref.SetCatID("CAT")
		ref.SetExt("tif")
		require.NoError(t, ref.SetProcessing(p))

		name := n.Filename(ref, true)
		back, err := r.Parse(name)
		require.NoError(t, err, "iteration %d: %s", i, name)
		if !ref.Params().Equivalent(back.Params()) {
			t.Fatalf("iteration %d: %s parsed as %v, want %v", i, name, back.FeatureNames(), ref.FeatureNames())
		}
		if ref.Type() != back.Type() {
			t.Fatalf("iteration %d: %s parsed as %s, want %s", i, name, back.Type(), ref.Type())
		}
	}
}

func TestDescribe_UnknownIDs(t *testing.T) {
	r := testRegistry(t)
	n, err := r.Get("")
	require.NoError(t, err)

	ref, err := r.Parse("CAT_dcId1_cgzh6phqc.tif")
	require.NoError(t, err)

	d := Describe(n, ref)
	assert.Equal(t, []int{45}, d.UnknownIDs)
	assert.Equal(t, []string{"source-airbus"}, d.Features)
	assert.Equal(t, "cgzh6phqc", d.ProcessingToken)
	assert.Equal(t, "CAT_dcId1_cgzh6phqc.tif", d.Filename)
}
