package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// issueToken serves POST /api/auth/token. There is no credential check; the
// endpoint exists so clients go through a token exchange before touching the
// API. When token signing is not configured the response is an empty token
// and the API is open.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if !h.services.AuthService.Enabled() {
		_, _ = utils.WriteJSON(w, models.TokenResponse{}, http.StatusOK)
		return
	}

	resp, err := h.services.AuthService.IssueToken(r.Context())
	if err != nil {
		log.Err(err).Str("func", "Handler.issueToken").Msg("failed to issue token")
		writeError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}
