package models

// ServerStatus is the body of GET /api/status.
type ServerStatus struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	PlayersOnline int    `json:"players_online"`
	PlayersKnown  int    `json:"players_known"`
	Uptime        string `json:"uptime"`
}

// MOTD is the message of the day sent in every welcome.
const MOTD = "Welcome to Hostile Planets"
