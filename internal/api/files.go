package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Therealjustindude/stack-guide/internal/upload"
)

// Client-facing messages for the upload endpoints. The size and type messages
// are part of the API contract with the web UI; keep them stable.
const (
	msgNoFile           = "No file provided"
	msgFileTooLarge     = "File size exceeds the 10MB limit"
	msgTypeNotSupported = "File type not supported. Please upload text, markdown, PDF, or data files."
	msgUploadSuccess    = "File uploaded successfully"
	msgDirCreateFailed  = "Failed to create upload directory"
	msgSaveFailed       = "Failed to save file"
	msgListFailed       = "Failed to read upload directory"
)

// filesHandler serves the upload and listing endpoints backed by an
// upload.Store.
type filesHandler struct {
	store  *upload.Store
	logger *slog.Logger
}

// uploadResponse is the success body of POST /upload.
type uploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// upload handles POST /upload: a single multipart file field named "file".
func (h *filesHandler) upload(w http.ResponseWriter, r *http.Request) {
	src, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			h.logger.Debug("closing multipart file", "error", cerr)
		}
	}()

	f, err := h.store.Save(header.Filename, header.Size, src)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrTooLarge):
			writeError(w, http.StatusBadRequest, msgFileTooLarge)
		case errors.Is(err, upload.ErrTypeNotAllowed), errors.Is(err, upload.ErrInvalidFilename):
			// Traversal attempts get the same client error as bad extensions:
			// no hint about on-disk layout.
			writeError(w, http.StatusBadRequest, msgTypeNotSupported)
		case errors.Is(err, upload.ErrDirCreate):
			h.logger.Error("upload directory creation failed", "error", err)
			writeError(w, http.StatusInternalServerError, msgDirCreateFailed)
		default:
			h.logger.Error("saving upload failed", "filename", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, msgSaveFailed)
		}
		return
	}

	h.logger.Info("file uploaded", "filename", f.Name, "size", f.Size)

	writeJSON(w, http.StatusOK, uploadResponse{
		Message:  msgUploadSuccess,
		Filename: f.Name,
		Size:     f.Size,
	})
}

// listResponse is the body of GET /files. Files is always an array, never
// null, so the web UI can iterate without a nil check.
type listResponse struct {
	Files []upload.File `json:"files"`
}

// list handles GET /files: every non-directory entry in the upload directory.
func (h *filesHandler) list(w http.ResponseWriter, _ *http.Request) {
	files, err := h.store.List()
	if err != nil {
		h.logger.Error("listing uploads failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgListFailed)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Files: files})
}
