package events

import "encoding/json"

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	TypeSessionStarted = "session_started"
	TypeGameFinished   = "game_finished"
	TypeBoardReset     = "board_reset"
	TypeSessionClosed  = "session_closed"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// SessionStartedPayload is the payload for the "session_started" event.
type SessionStartedPayload struct {
	SessionID string    `json:"session_id"`
	Players   [2]string `json:"players"`
	Transport string    `json:"transport"`
}

// GameFinishedPayload is the payload for the "game_finished" event.
type GameFinishedPayload struct {
	SessionID string `json:"session_id"`
	Outcome   string `json:"outcome"`
	Winner    string `json:"winner,omitempty"`
	Moves     int    `json:"moves"`
}

// BoardResetPayload is the payload for the "board_reset" event.
type BoardResetPayload struct {
	SessionID string `json:"session_id"`
}

// SessionClosedPayload is the payload for the "session_closed" event.
type SessionClosedPayload struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

// New wraps payload in an Event of the given type.
func New(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Payload: raw}, nil
}
