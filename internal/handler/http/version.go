package http

import (
	"net/http"

	"github.com/MKhiriev/hostile-planets/internal/utils"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	info := h.services.AppInfoService.GetBuildInfo(r.Context())
	utils.WriteJSON(w, info, http.StatusOK)
}
