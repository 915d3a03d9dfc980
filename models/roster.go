package models

import "time"

// RegisteredParticipant — участник в денормализованном ростере.
type RegisteredParticipant struct {
	Nickname  string    `json:"nickname"`
	GameID    string    `json:"gameId"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisteredTeam — команда вместе с её составом, как отдаёт страница ростера.
type RegisteredTeam struct {
	ID           int                     `json:"id"`
	Name         string                  `json:"name"`
	LogoURL      *string                 `json:"logoUrl,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	Participants []RegisteredParticipant `json:"participants"`
}

// RosterResult — исход чтения ростера.
type RosterResult struct {
	Success bool             `json:"success"`
	Teams   []RegisteredTeam `json:"teams,omitempty"`
	Error   string           `json:"error,omitempty"`
}
