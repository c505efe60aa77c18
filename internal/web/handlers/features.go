package handlers

import (
	"net/http"

	"github.com/kozaktomas/mirage/internal/catalog"
	"github.com/kozaktomas/mirage/internal/feature"
)

// FeaturesHandler serves the feature catalogs.
type FeaturesHandler struct {
	catalogs *catalog.Registry
}

// NewFeaturesHandler creates a new features handler
func NewFeaturesHandler(catalogs *catalog.Registry) *FeaturesHandler {
	return &FeaturesHandler{catalogs: catalogs}
}

// FeaturesResponse lists catalog features of one version.
type FeaturesResponse struct {
	Version  string             `json:"version"`
	Count    int                `json:"count"`
	Features []*feature.Feature `json:"features"`
}

// List returns every feature of a catalog version followed by the parametric
// placeholders, or only the features of ?group= when given.
func (h *FeaturesHandler) List(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogs.Get(r.URL.Query().Get("version"))
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	var features []*feature.Feature
	if name := r.URL.Query().Get("group"); name != "" {
		group, err := feature.ParseGroup(name)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		features = c.GroupFeatures(group)
	} else {
		features = append(c.Features(), c.Placeholders()...)
	}

	respondJSON(w, http.StatusOK, FeaturesResponse{
		Version:  c.Version(),
		Count:    len(features),
		Features: features,
	})
}
