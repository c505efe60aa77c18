package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type tokenPayload struct {
	Version       string `json:"version"`
	Token         string `json:"token"`
	VariableToken string `json:"variable_token"`
	Processed     bool   `json:"processed"`
	Features      []struct {
		ID   int    `json:"id"`
		Name string `json:"feature"`
	} `json:"features"`
}

func TestTokensHandler_Decode(t *testing.T) {
	handler := NewTokensHandler(testNamers(t).Catalogs())

	req := httptest.NewRequest("GET", "/api/v1/tokens/y1u6j5s", nil)
	req = requestWithChiParams(req, map[string]string{"token": "y1u6j5s"})
	recorder := httptest.NewRecorder()

	handler.Decode(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	var result tokenPayload
	parseJSONResponse(t, recorder, &result)

	if result.Token != "y1u6j5s" {
		t.Errorf("expected token y1u6j5s, got %s", result.Token)
	}
	if !result.Processed {
		t.Error("expected token to be processed")
	}
	if len(result.Features) != 7 {
		t.Fatalf("expected 7 features, got %d", len(result.Features))
	}
	if result.Features[0].Name != "histogram-auto-minmax" {
		t.Errorf("expected histogram-auto-minmax first, got %s", result.Features[0].Name)
	}
}

func TestTokensHandler_DecodeMalformed(t *testing.T) {
	handler := NewTokensHandler(testNamers(t).Catalogs())

	req := httptest.NewRequest("GET", "/api/v1/tokens/y1u-6", nil)
	req = requestWithChiParams(req, map[string]string{"token": "y1u-6"})
	recorder := httptest.NewRecorder()

	handler.Decode(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "malformed processing token")
}

func TestTokensHandler_Encode(t *testing.T) {
	handler := NewTokensHandler(testNamers(t).Catalogs())

	req := jsonRequest(t, "POST", "/api/v1/tokens", EncodeRequest{
		Features: []string{
			"histogram-auto-minmax",
			"radiometry-toa-reflectance",
			"ortho",
			"haze-removal",
			"software-mirage",
			"bands-rgb",
			"format-geotiff",
			"gsd 50",
		},
	})
	recorder := httptest.NewRecorder()

	handler.Encode(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	var result tokenPayload
	parseJSONResponse(t, recorder, &result)
	if result.Token != "y1u6j5s" {
		t.Errorf("expected token y1u6j5s, got %s", result.Token)
	}
	if result.VariableToken != "gsd50" {
		t.Errorf("expected variable token gsd50, got %s", result.VariableToken)
	}
}

func TestTokensHandler_EncodeErrors(t *testing.T) {
	handler := NewTokensHandler(testNamers(t).Catalogs())

	tests := []struct {
		name   string
		body   EncodeRequest
		status int
	}{
		{"unknown feature", EncodeRequest{Features: []string{"ortho", "warp-drive"}}, http.StatusBadRequest},
		{"placeholder", EncodeRequest{Features: []string{"gsd <?>"}}, http.StatusBadRequest},
		{"unknown version", EncodeRequest{Version: "5", Features: []string{"ortho"}}, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.Encode(recorder, jsonRequest(t, "POST", "/api/v1/tokens", tc.body))
			assertStatusCode(t, recorder, tc.status)
		})
	}
}

func TestTokensHandler_DecodeUnknownBits(t *testing.T) {
	handler := NewTokensHandler(testNamers(t).Catalogs())

	req := httptest.NewRequest("GET", "/api/v1/tokens/cgzh6phqc", nil)
	req = requestWithChiParams(req, map[string]string{"token": "cgzh6phqc"})
	recorder := httptest.NewRecorder()

	handler.Decode(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertContentType(t, recorder, "application/json")
}

func TestTokensHandler_EncodeParametricPrefix(t *testing.T) {
	handler := NewTokensHandler(testNamers(t).Catalogs())

	req := jsonRequest(t, "POST", "/api/v1/tokens", EncodeRequest{
		Features: []string{"radiometry-dra", "resolution-reduced-2x", "haze-removal", "thumbnail", "bands-multispectral"},
	})
	recorder := httptest.NewRecorder()

	handler.Encode(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	var result tokenPayload
	parseJSONResponse(t, recorder, &result)

	if result.Token != "GSDXQ80" {
		t.Errorf("expected token GSDXQ80, got %s", result.Token)
	}
	if len(result.Features) != 5 {
		t.Errorf("expected 5 features, got %d", len(result.Features))
	}
}
