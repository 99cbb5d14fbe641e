package models

import "ctchen222/hotseat/pkg/proto"

// NewGameRequest defines the structure for starting a headless game.
type NewGameRequest struct {
	PlayerOne string `json:"player_one" binding:"required,max=32"`
	PlayerTwo string `json:"player_two" binding:"required,max=32"`
}

// NewGameResponse carries the handle needed for every later call on the game.
type NewGameResponse struct {
	ID     string      `json:"id"`
	Handle string      `json:"handle"`
	State  proto.State `json:"state"`
}

// MoveRequest defines the structure for playing a cell. Range is checked by the game.
type MoveRequest struct {
	Index *int `json:"index" binding:"required"`
}

// MoveResponse reports whether the move was applied and the resulting state.
type MoveResponse struct {
	Accepted  bool        `json:"accepted"`
	Rejection string      `json:"rejection,omitempty"`
	Outcome   string      `json:"outcome"`
	State     proto.State `json:"state"`
}
