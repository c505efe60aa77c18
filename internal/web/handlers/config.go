package handlers

import (
	"net/http"

	"github.com/kozaktomas/mirage/internal/config"
	"github.com/kozaktomas/mirage/internal/filenamer"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
	namers *filenamer.Registry
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config, namers *filenamer.Registry) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
		namers: namers,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	CatalogVersions  []string          `json:"catalog_versions"`
	GrammarVersions  []string          `json:"grammar_versions"`
	DefaultVersion   string            `json:"default_version"`
	ImageExtensions  []string          `json:"image_extensions"`
	SidecarSuffixes  []string          `json:"sidecar_suffixes"`
	CompatibilityExt map[string]string `json:"compatibility_extensions"`
}

// Get returns the naming configuration clients need to build filenames
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	catalogs := h.namers.Catalogs()
	respondJSON(w, http.StatusOK, ConfigResponse{
		CatalogVersions:  catalogs.Versions(),
		GrammarVersions:  h.namers.Versions(),
		DefaultVersion:   catalogs.DefaultVersion(),
		ImageExtensions:  h.config.Files.ImageExtensions,
		SidecarSuffixes:  h.config.Files.SidecarSuffixes,
		CompatibilityExt: h.config.Files.CompatibilityExtensions,
	})
}
