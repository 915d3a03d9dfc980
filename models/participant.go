package models

import "time"

type Participant struct {
	ID        int       `json:"id"`
	TeamID    int       `json:"team_id"`
	Nickname  string    `json:"nickname"`
	GameID    string    `json:"game_id"`
	CreatedAt time.Time `json:"created_at"`
}
