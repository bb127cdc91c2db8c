package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// syncPull serves POST /api/sync/pull for the bulk cursor-diff protocol.
func (h *Handler) syncPull(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.PullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid pull payload", http.StatusBadRequest)
		return
	}

	resp, err := h.services.SyncService.Pull(r.Context(), req)
	if err != nil {
		log.Err(err).Str("func", "Handler.syncPull").Msg("pull failed")
		writeError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}

// syncPush serves POST /api/sync/push for the bulk cursor-diff protocol.
func (h *Handler) syncPush(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid push payload", http.StatusBadRequest)
		return
	}

	resp, err := h.services.SyncService.Push(r.Context(), req)
	if err != nil {
		log.Err(err).Str("func", "Handler.syncPush").Msg("push failed")
		writeError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}
