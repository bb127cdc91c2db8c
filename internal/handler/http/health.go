package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/utils"
)

// health serves GET /api/health. Clients use it as the reachability probe,
// so it must stay dependency-free and fast.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
