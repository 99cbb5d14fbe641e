package proto

import "ctchen222/hotseat/internal/game"

// Client message types
const (
	TypeMove  = "move"
	TypeReset = "reset"
)

// Server message types
const (
	TypeState      = "state"
	TypeCell       = "cell"
	TypeGameOver   = "game_over"
	TypeBoardReset = "reset"
	TypeError      = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type  string `json:"type" validate:"required,oneof=move reset"`
	Index *int   `json:"index,omitempty" validate:"required_if=Type move"`
}

// PlayerInfo describes one seat of a game.
type PlayerInfo struct {
	Name string    `json:"name"`
	Mark game.Mark `json:"mark"`
}

// State is a full snapshot of a session.
type State struct {
	SessionID string                    `json:"session_id"`
	Board     [game.BoardSize]game.Mark `json:"board"`
	Players   [2]PlayerInfo             `json:"players"`
	Current   game.Mark                 `json:"current"`
	Status    string                    `json:"status"`
	Outcome   string                    `json:"outcome"`
	Winner    string                    `json:"winner,omitempty"`
	Message   string                    `json:"message,omitempty"`
	Moves     int                       `json:"moves"`
}

// ServerToClientMessage represents a message from the server to the client.
// Only the fields relevant to Type are set.
type ServerToClientMessage struct {
	Type    string    `json:"type" validate:"required"`
	State   *State    `json:"state,omitempty"`
	Index   *int      `json:"index,omitempty"`
	Mark    game.Mark `json:"mark,omitempty"`
	Outcome string    `json:"outcome,omitempty"`
	Winner  string    `json:"winner,omitempty"`
	Message string    `json:"message,omitempty"`
	Reason  string    `json:"reason,omitempty"`
}

// NewState snapshots g.
func NewState(sessionID string, g *game.Game) State {
	players := g.Players()
	outcome := g.Outcome()

	st := State{
		SessionID: sessionID,
		Board:     g.Board().Cells(),
		Players: [2]PlayerInfo{
			{Name: players[0].Name(), Mark: players[0].Mark()},
			{Name: players[1].Name(), Mark: players[1].Mark()},
		},
		Current: g.Current().Mark(),
		Status:  g.Status().String(),
		Outcome: outcome.Kind.String(),
		Message: g.Announcement(outcome),
		Moves:   g.Moves(),
	}
	if outcome.Kind == game.OutcomeWin {
		st.Winner = g.Player(outcome.Winner).Name()
	}
	return st
}
