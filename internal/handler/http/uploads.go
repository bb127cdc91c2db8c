package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
)

// maxUploadBytes bounds the in-memory part of a multipart upload parse.
const maxUploadBytes = 32 << 20

// upload serves POST /api/uploads. It accepts a multipart form with a "file"
// part and responds with the remote URL assigned to the attachment.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart payload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	resp, err := h.services.UploadService.StoreFile(r.Context(), header.Filename)
	if err != nil {
		log.Err(err).Str("func", "Handler.upload").Str("name", header.Filename).Msg("failed to register upload")
		writeError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusCreated)
}
