package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/mirage/internal/catalog"
	"github.com/kozaktomas/mirage/internal/feature"
	"github.com/kozaktomas/mirage/internal/filenamer"
	"github.com/kozaktomas/mirage/internal/params"
)

// TokensHandler converts between processing tokens and feature names.
type TokensHandler struct {
	catalogs *catalog.Registry
}

// NewTokensHandler creates a new tokens handler
func NewTokensHandler(catalogs *catalog.Registry) *TokensHandler {
	return &TokensHandler{catalogs: catalogs}
}

// TokenResponse describes a processing token.
type TokenResponse struct {
	Version       string             `json:"version"`
	Token         string             `json:"token"`
	VariableToken string             `json:"variable_token,omitempty"`
	Processed     bool               `json:"processed"`
	Features      []*feature.Feature `json:"features"`
}

// EncodeRequest lists the feature names to encode.
type EncodeRequest struct {
	Version  string   `json:"version,omitempty"`
	Features []string `json:"features"`
}

func tokenResponse(p *params.Params) TokenResponse {
	features := p.Features()
	if features == nil {
		features = []*feature.Feature{}
	}
	return TokenResponse{
		Version:       p.Version(),
		Token:         filenamer.ProcessingToken(p),
		VariableToken: filenamer.VariableToken(p),
		Processed:     p.IsProcessed(),
		Features:      features,
	}
}

// Decode lists the features of the token in the URL path.
func (h *TokensHandler) Decode(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogs.Get(r.URL.Query().Get("version"))
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	p := params.FromToken(c, chi.URLParam(r, "token"))
	if p.IsInvalid() {
		respondError(w, http.StatusBadRequest, "malformed processing token")
		return
	}
	if err := p.CheckKnown(); err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse(p))
}

// Encode turns feature names into a processing token.
func (h *TokensHandler) Encode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	c, err := h.catalogs.Get(req.Version)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	p := params.New(c)
	for _, name := range req.Features {
		if err := p.SetFeatureName(name); err != nil {
			respondError(w, errorStatus(err), err.Error())
			return
		}
	}
	respondJSON(w, http.StatusOK, tokenResponse(p))
}
