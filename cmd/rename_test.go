package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kozaktomas/mirage/internal/catalog"
	"github.com/kozaktomas/mirage/internal/config"
	"github.com/kozaktomas/mirage/internal/filenamer"
	"github.com/kozaktomas/mirage/internal/internalerr"
	"github.com/kozaktomas/mirage/internal/scanner"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestSidecarName(t *testing.T) {
	tests := []struct {
		sidecar  string
		expected string
	}{
		{"scene.tif.ovr", "scene_dcId1_abc.tif.ovr"},
		{"scene.his", "scene_dcId1_abc.his"},
		{"scene.metadata.json", "scene_dcId1_abc.metadata.json"},
	}
	for _, tt := range tests {
		t.Run(tt.sidecar, func(t *testing.T) {
			assert.Equal(t, tt.expected, sidecarName(tt.sidecar, "scene.tif", "scene_dcId1_abc.tif"))
		})
	}
}

func TestPlanRenames(t *testing.T) {
	catalogs, err := catalog.NewDefaultRegistry()
	require.NoError(t, err)
	namers := filenamer.NewRegistry(catalogs)
	classifier := filenamer.NewClassifier(config.DefaultFiles())
	s := scanner.New(namers, classifier, nil)

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "scene.tif"))
	touch(t, filepath.Join(dir, "scene.tif.ovr"))
	touch(t, filepath.Join(dir, "scene.his"))
	touch(t, filepath.Join(dir, "scenery.his"))
	touch(t, filepath.Join(dir, "broken_dcId1_y1u-6j5s.tif"))

	listing, err := s.List(dir)
	require.NoError(t, err)
	results, errs := s.Scan(context.Background(), listing.Images, scanner.Options{Concurrency: 2})
	require.Empty(t, errs)

	plans, planErrs := planRenames(namers, classifier, results, listing.Sidecars, []string{"ortho", "gsd 50"})
	require.Len(t, planErrs, 1, "the undecodable token is reported")
	require.Len(t, plans, 1)

	plan := plans[0]
	newName := filepath.Base(plan.Image.To)
	assert.Regexp(t, `^scene_dcId1_[0-9a-z]+_gsd50\.tif$`, newName)
	require.Len(t, plan.Sidecars, 2, "scenery.his belongs to another image")

	require.NoError(t, applyPlan(plan))
	assert.FileExists(t, plan.Image.To)
	assert.FileExists(t, filepath.Join(dir, newName+".ovr"))
	assert.NoFileExists(t, filepath.Join(dir, "scene.his"))
	assert.FileExists(t, filepath.Join(dir, "scenery.his"))

	again, err := namers.Parse(newName)
	require.NoError(t, err)
	has, err := again.Params().HasFeatureName("ortho")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestPlanRenames_UnknownFeature(t *testing.T) {
	catalogs, err := catalog.NewDefaultRegistry()
	require.NoError(t, err)
	namers := filenamer.NewRegistry(catalogs)
	ref, err := namers.Parse("scene.tif")
	require.NoError(t, err)

	_, errs := planRenames(namers, filenamer.NewClassifier(config.DefaultFiles()),
		[]scanner.Result{{Path: "/in/scene.tif", Ref: ref}}, nil, []string{"teleport"})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], internalerr.ErrUnknownFeature)
}

func TestApplyPlan_TargetExists(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "a.tif")
	to := filepath.Join(dir, "b.tif")
	touch(t, from)
	touch(t, to)

	err := applyPlan(renamePlan{Image: renameOp{From: from, To: to}})
	assert.Error(t, err)
	assert.FileExists(t, from)
}

func TestLoadCatalogs(t *testing.T) {
	registry, err := loadCatalogs(config.CatalogConfig{DefaultVersion: "1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, registry.Versions())

	_, err = loadCatalogs(config.CatalogConfig{DefaultVersion: "1", File: filepath.Join(t.TempDir(), "missing.csv")}, nil)
	assert.Error(t, err)
}
