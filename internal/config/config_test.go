package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"MIRAGE_CATALOG_FILE", "MIRAGE_DEFAULT_VERSION", "LOG_LEVEL", "LOG_FORMAT",
		"LOG_FILE", "WEB_HOST", "WEB_PORT", "WEB_ALLOWED_ORIGINS", "SCAN_CONCURRENCY",
	} {
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.Catalog.File != "" {
		t.Errorf("expected no catalog override, got '%s'", cfg.Catalog.File)
	}
	if cfg.Catalog.DefaultVersion != "1" {
		t.Errorf("expected default version '1', got '%s'", cfg.Catalog.DefaultVersion)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Log.Level)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("expected log format 'console', got '%s'", cfg.Log.Format)
	}
	if cfg.Web.Host != "0.0.0.0" {
		t.Errorf("expected host '0.0.0.0', got '%s'", cfg.Web.Host)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Web.Port)
	}
	if len(cfg.Web.AllowedOrigins) != 0 {
		t.Errorf("expected no allowed origins, got %v", cfg.Web.AllowedOrigins)
	}
	if cfg.Scan.Concurrency != 5 {
		t.Errorf("expected scan concurrency 5, got %d", cfg.Scan.Concurrency)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("MIRAGE_CATALOG_FILE", "/etc/mirage/featuremap_v1.csv")
	t.Setenv("MIRAGE_DEFAULT_VERSION", "2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FILE", "/var/log/mirage.log")
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("WEB_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("SCAN_CONCURRENCY", "12")

	cfg := Load()

	if cfg.Catalog.File != "/etc/mirage/featuremap_v1.csv" {
		t.Errorf("unexpected catalog file '%s'", cfg.Catalog.File)
	}
	if cfg.Catalog.DefaultVersion != "2" {
		t.Errorf("expected default version '2', got '%s'", cfg.Catalog.DefaultVersion)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Log.Level)
	}
	if cfg.Log.File != "/var/log/mirage.log" {
		t.Errorf("unexpected log file '%s'", cfg.Log.File)
	}
	if cfg.Web.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Web.Port)
	}
	if len(cfg.Web.AllowedOrigins) != 2 || cfg.Web.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected allowed origins %v", cfg.Web.AllowedOrigins)
	}
	if cfg.Scan.Concurrency != 12 {
		t.Errorf("expected scan concurrency 12, got %d", cfg.Scan.Concurrency)
	}
}

func TestLoad_InvalidConcurrency(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"non-numeric", "many"},
		{"negative", "-3"},
		{"zero", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SCAN_CONCURRENCY", tc.value)

			cfg := Load()

			// Should fall back to default
			if cfg.Scan.Concurrency != 5 {
				t.Errorf("expected default concurrency 5 for %q, got %d", tc.value, cfg.Scan.Concurrency)
			}
		})
	}
}

func TestDefaultFiles_Loaded(t *testing.T) {
	files := DefaultFiles()

	if len(files.ImageExtensions) == 0 {
		t.Fatal("expected image extensions to be loaded from embedded YAML")
	}
	if len(files.SidecarSuffixes) == 0 {
		t.Error("expected sidecar suffixes to be loaded from embedded YAML")
	}
}

func TestFilesConfig_IsImageExt(t *testing.T) {
	files := DefaultFiles()

	tests := []struct {
		ext      string
		expected bool
	}{
		{"tif", true},
		{"TIF", true},
		{".ntf", true},
		{"r0", true},
		{"jp2", true},
		{"ovr", false},
		{"json", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.ext, func(t *testing.T) {
			if got := files.IsImageExt(tc.ext); got != tc.expected {
				t.Errorf("IsImageExt(%q) = %v, expected %v", tc.ext, got, tc.expected)
			}
		})
	}
}

func TestFilesConfig_CompatibleExt(t *testing.T) {
	files := DefaultFiles()

	if got := files.CompatibleExt("r0"); got != "nitf" {
		t.Errorf("expected r0 to map to nitf, got '%s'", got)
	}
	if got := files.CompatibleExt("tif"); got != "tif" {
		t.Errorf("expected tif to stay tif, got '%s'", got)
	}
}
