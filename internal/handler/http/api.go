package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/utils"
	"github.com/MKhiriev/hostile-planets/models"
	"github.com/go-chi/chi/v5"
)

// PlayerPresence is the body of GET /api/players/{name}. Player is set when
// the player has been seen since the server started.
type PlayerPresence struct {
	Name     string         `json:"name"`
	Presence string         `json:"presence"`
	Player   *models.Player `json:"player,omitempty"`
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	lobby := h.services.LobbyService

	status := models.ServerStatus{
		Name:          h.info.Name(),
		PlayersOnline: lobby.Online(),
		PlayersKnown:  len(lobby.Players()),
		Uptime:        h.info.Uptime().Truncate(time.Second).String(),
	}
	if addr := h.info.Addr(); addr != nil {
		status.Address = addr.String()
	}

	utils.WriteJSON(w, status, http.StatusOK)
}

func (h *Handler) getPlayers(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.LobbyService.Players(), http.StatusOK)
}

func (h *Handler) getPlayer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	presence := h.services.LobbyService.Presence(r.Context(), name)
	if presence == models.PresenceUnknown {
		log.Debug().Str("player", name).Msg("unknown player requested")
		utils.WriteError(w, "player not found", http.StatusNotFound)
		return
	}

	resp := PlayerPresence{Name: name, Presence: presence.String()}
	for _, p := range h.services.LobbyService.Players() {
		if p.Name == name {
			resp.Player = &p
			break
		}
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) getMaps(w http.ResponseWriter, r *http.Request) {
	maps := h.info.Maps()
	if maps == nil {
		maps = []config.MapConf{}
	}
	utils.WriteJSON(w, maps, http.StatusOK)
}
