package types

import (
	"context"

	"ctchen222/hotseat/internal/session"
)

// RegistrationRequest asks the hub to start a session for a browser connection.
type RegistrationRequest struct {
	PlayerOne string
	PlayerTwo string
	Conn      session.Connection
	Ctx       context.Context
}
