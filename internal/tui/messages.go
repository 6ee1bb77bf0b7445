package tui

import "github.com/MKhiriev/hostile-planets/models"

type eventMsg struct {
	event models.Event
}

type eventsClosedMsg struct{}

type playersLoadedMsg struct {
	players []models.Player
	err     error
}

type moveSentMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
