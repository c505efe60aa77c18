package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kozaktomas/mirage/internal/filenamer"
)

// FilesHandler parses and builds image filenames.
type FilesHandler struct {
	namers *filenamer.Registry
	logger *zap.Logger
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(namers *filenamer.Registry, logger *zap.Logger) *FilesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesHandler{namers: namers, logger: logger}
}

// BuildResponse carries a generated filename and its parsed view.
type BuildResponse struct {
	Filename    string                `json:"filename"`
	Description filenamer.Description `json:"description"`
}

// Parse decodes the filename in the URL path.
func (h *FilesHandler) Parse(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		respondError(w, http.StatusBadRequest, "filename is required")
		return
	}

	n, err := h.namers.ForFilename(filename)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	ref, err := n.Parse(filename)
	if err != nil {
		h.logger.Debug("filename rejected",
			zap.String("filename", sanitizeForLog(filename)),
			zap.Error(err),
		)
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, filenamer.Describe(n, ref))
}

// Build generates a filename from a build request.
func (h *FilesHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req filenamer.BuildRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	ref, name, err := h.namers.Build(req)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	n, err := h.namers.Get(ref.Version())
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	h.logger.Debug("filename built", zap.String("filename", name))
	respondJSON(w, http.StatusOK, BuildResponse{
		Filename:    name,
		Description: filenamer.Describe(n, ref),
	})
}
