package repository

import (
	"context"
	"errors"

	"ctchen222/hotseat/internal/hub"
	"ctchen222/hotseat/internal/session"
)

// ErrGameNotFound is returned when no live game has the requested ID.
var ErrGameNotFound = errors.New("game not found")

// SessionRepository defines the interface for looking up live sessions.
type SessionRepository interface {
	Create(ctx context.Context, playerOne, playerTwo string) (*session.Session, error)
	FindByID(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

type hubSessionRepository struct {
	hub *hub.Hub
}

// NewSessionRepository creates a SessionRepository backed by the in-memory hub.
func NewSessionRepository(h *hub.Hub) SessionRepository {
	return &hubSessionRepository{hub: h}
}

// Create starts a headless session.
func (r *hubSessionRepository) Create(ctx context.Context, playerOne, playerTwo string) (*session.Session, error) {
	return r.hub.Create(ctx, playerOne, playerTwo, nil)
}

// FindByID returns the live session with the given ID.
func (r *hubSessionRepository) FindByID(_ context.Context, id string) (*session.Session, error) {
	s, err := r.hub.Get(id)
	if errors.Is(err, hub.ErrSessionNotFound) {
		return nil, ErrGameNotFound
	}
	return s, err
}

// Delete closes the session and forgets it.
func (r *hubSessionRepository) Delete(ctx context.Context, id string) error {
	err := r.hub.Remove(ctx, id)
	if errors.Is(err, hub.ErrSessionNotFound) {
		return ErrGameNotFound
	}
	return err
}
