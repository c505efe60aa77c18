package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type featuresPayload struct {
	Version  string `json:"version"`
	Count    int    `json:"count"`
	Features []struct {
		ID    int    `json:"id"`
		Group string `json:"group"`
		Name  string `json:"feature"`
		Value string `json:"value"`
	} `json:"features"`
}

func TestFeaturesHandler_ListAll(t *testing.T) {
	handler := NewFeaturesHandler(testNamers(t).Catalogs())

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/features", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	var result featuresPayload
	parseJSONResponse(t, recorder, &result)

	if result.Version != "1" {
		t.Errorf("expected version 1, got %s", result.Version)
	}
	// 41 catalog rows plus the gsd, sharpen and brightness placeholders
	if result.Count != 44 || len(result.Features) != 44 {
		t.Fatalf("expected 44 features, got count=%d len=%d", result.Count, len(result.Features))
	}
	if result.Features[0].ID != 0 {
		t.Errorf("expected first feature id 0, got %d", result.Features[0].ID)
	}
	last := result.Features[len(result.Features)-1]
	if last.ID != -3 || last.Value != "<?>" {
		t.Errorf("expected brightness placeholder last, got %+v", last)
	}
}

func TestFeaturesHandler_ListGroup(t *testing.T) {
	handler := NewFeaturesHandler(testNamers(t).Catalogs())

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/features?group=gsd", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	var result featuresPayload
	parseJSONResponse(t, recorder, &result)
	if len(result.Features) != 1 || result.Features[0].ID != -1 {
		t.Errorf("expected only the gsd placeholder, got %+v", result.Features)
	}

	recorder = httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/features?group=format", nil))
	parseJSONResponse(t, recorder, &result)
	for _, f := range result.Features {
		if f.Group != "FORMAT" {
			t.Errorf("expected FORMAT features only, got %s in %s", f.Name, f.Group)
		}
	}
}

func TestFeaturesHandler_Errors(t *testing.T) {
	handler := NewFeaturesHandler(testNamers(t).Catalogs())

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown group", "/api/v1/features?group=colour", http.StatusBadRequest},
		{"unknown version", "/api/v1/features?version=7", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.List(recorder, httptest.NewRequest("GET", tc.path, nil))
			assertStatusCode(t, recorder, tc.status)
		})
	}
}
