package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed files.yaml
var filesYAML []byte

type Config struct {
	Catalog CatalogConfig
	Log     LogConfig
	Web     WebConfig
	Scan    ScanConfig
	Files   FilesConfig
}

type CatalogConfig struct {
	File           string // CSV overriding the embedded version 1 catalog (optional)
	DefaultVersion string // version assumed for filenames without a dcId marker, defaults to "1"
}

type LogConfig struct {
	Level      string // debug, info, warn, error (default info)
	Format     string // console or json (default console)
	File       string // rotated JSON log file (optional)
	MaxSizeMB  int    // rotate after this many megabytes (default 100)
	MaxBackups int    // rotated files to keep (default 3)
	MaxAgeDays int    // days to keep rotated files (default 28)
}

type WebConfig struct {
	Host           string // defaults to 0.0.0.0
	Port           int    // defaults to 8080
	AllowedOrigins []string
}

type ScanConfig struct {
	Concurrency int // parallel workers for directory scans (default 5)
}

// FilesConfig holds the file classification rules from the embedded files.yaml.
type FilesConfig struct {
	ImageExtensions         []string          `yaml:"image_extensions"`
	SidecarSuffixes         []string          `yaml:"sidecar_suffixes"`
	CompatibilityExtensions map[string]string `yaml:"compatibility_extensions"`
}

// IsImageExt reports whether ext (without the dot) is an image extension.
func (f *FilesConfig) IsImageExt(ext string) bool {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return false
	}
	for _, e := range f.ImageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// CompatibleExt returns the replacement for an extension downstream tools
// cannot read, or ext itself.
func (f *FilesConfig) CompatibleExt(ext string) string {
	if repl, ok := f.CompatibilityExtensions[strings.ToLower(ext)]; ok {
		return repl
	}
	return ext
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma-separated environment variable, dropping blanks.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// DefaultFiles returns the embedded file classification rules.
func DefaultFiles() FilesConfig {
	var files FilesConfig
	if err := yaml.Unmarshal(filesYAML, &files); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded files.yaml: " + err.Error())
	}
	for i, ext := range files.ImageExtensions {
		files.ImageExtensions[i] = strings.ToLower(ext)
	}
	return files
}

func Load() *Config {
	return &Config{
		Catalog: CatalogConfig{
			File:           os.Getenv("MIRAGE_CATALOG_FILE"),
			DefaultVersion: envString("MIRAGE_DEFAULT_VERSION", "1"),
		},
		Log: LogConfig{
			Level:      envString("LOG_LEVEL", "info"),
			Format:     envString("LOG_FORMAT", "console"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: envInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 28),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8080),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Scan: ScanConfig{
			Concurrency: envInt("SCAN_CONCURRENCY", 5),
		},
		Files: DefaultFiles(),
	}
}
