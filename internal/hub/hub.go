package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ctchen222/hotseat/internal/hub/types"
	"ctchen222/hotseat/internal/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultIdleTimeout = 30 * time.Minute
	minReapInterval    = time.Second
)

var tracer = otel.Tracer("hub")

// ErrSessionNotFound is returned when no live session has the requested ID.
var ErrSessionNotFound = errors.New("session not found")

// Hub manages all live sessions. Nothing outlives the process.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session

	register   chan *types.RegistrationRequest
	unregister chan *session.Session

	opts        session.Options
	idleTimeout time.Duration
}

// NewHub creates a new hub. Headless sessions idle for longer than idleTimeout are reaped.
func NewHub(opts session.Options, idleTimeout time.Duration) *Hub {
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}
	return &Hub{
		sessions:    make(map[string]*session.Session),
		register:    make(chan *types.RegistrationRequest),
		unregister:  make(chan *session.Session),
		opts:        opts,
		idleTimeout: idleTimeout,
	}
}

// Run starts the hub and blocks until ctx is done, closing every session on the way out.
func (h *Hub) Run(ctx context.Context) {
	reapTicker := time.NewTicker(max(h.idleTimeout/2, minReapInterval))
	defer reapTicker.Stop()

	slog.InfoContext(ctx, "hub started", "session.idle_timeout", h.idleTimeout)

	for {
		select {
		case <-ctx.Done():
			h.closeAll(context.WithoutCancel(ctx))
			slog.InfoContext(ctx, "hub stopped")
			return

		case req := <-h.register:
			h.handleRegistration(ctx, req)

		case s := <-h.unregister:
			h.forget(s.ID)
			slog.InfoContext(ctx, "session unregistered", "session.id", s.ID)

		case now := <-reapTicker.C:
			h.reapIdle(ctx, now)
		}
	}
}

// Create starts a new session. A nil conn creates a headless session driven through Move and Reset.
func (h *Hub) Create(ctx context.Context, playerOne, playerTwo string, conn session.Connection) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "hub.Create")
	defer span.End()

	s, err := session.New(playerOne, playerTwo, conn, h.opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create session")
		return nil, err
	}
	span.SetAttributes(attribute.String("session.id", s.ID))

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	if conn != nil {
		s.Start(ctx, h.unregister)
	} else {
		s.Announce(ctx)
	}
	return s, nil
}

// Get returns the live session with the given ID.
func (h *Hub) Get(id string) (*session.Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Remove closes and forgets a session.
func (h *Hub) Remove(ctx context.Context, id string) error {
	s, err := h.Get(id)
	if err != nil {
		return err
	}
	h.forget(id)
	s.Close(ctx, "removed")
	return nil
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Register returns the register channel.
func (h *Hub) Register() chan<- *types.RegistrationRequest {
	return h.register
}

func (h *Hub) forget(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

func (h *Hub) closeAll(ctx context.Context) {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*session.Session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close(ctx, "server shutdown")
	}
}

func (h *Hub) reapIdle(ctx context.Context, now time.Time) {
	ctx, span := tracer.Start(ctx, "hub.reapIdle")
	defer span.End()

	var idle []*session.Session
	h.mu.Lock()
	for id, s := range h.sessions {
		if s.Transport != session.TransportREST {
			continue
		}
		if now.Sub(s.LastActive()) > h.idleTimeout {
			idle = append(idle, s)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	span.SetAttributes(attribute.Int("session.reaped", len(idle)))
	for _, s := range idle {
		s.Close(ctx, "idle")
		slog.InfoContext(ctx, "reaped idle session", "session.id", s.ID)
	}
}
