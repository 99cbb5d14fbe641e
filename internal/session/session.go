package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ctchen222/hotseat/internal/events"
	"ctchen222/hotseat/internal/game"
	"ctchen222/hotseat/internal/telemetry"
	"ctchen222/hotseat/pkg/proto"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultHeartbeatInterval = 10 * time.Second
	defaultInboxSize         = 16
	publishTimeout           = 2 * time.Second
)

// Transports a session can be driven by.
const (
	TransportWebsocket = "websocket"
	TransportREST      = "rest"
)

var tracer = otel.Tracer("session")

// Options carries the collaborators shared by every session.
type Options struct {
	Publisher         events.Publisher
	Metrics           *telemetry.Metrics
	HeartbeatInterval time.Duration
	InboxSize         int
}

// Session is one independent game between two players sharing a screen.
type Session struct {
	ID        string
	Transport string

	game      *game.Game
	conn      Connection
	publisher events.Publisher
	metrics   *telemetry.Metrics
	logger    *slog.Logger

	mu         sync.Mutex
	lastActive time.Time

	writeMu sync.Mutex

	inbox     chan []byte
	heartbeat time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a session for two named players. conn may be nil for headless sessions.
func New(playerOne, playerTwo string, conn Connection, opts Options) (*Session, error) {
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = defaultHeartbeatInterval
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = defaultInboxSize
	}

	transport := TransportREST
	if conn != nil {
		transport = TransportWebsocket
	}

	id := uuid.NewString()
	s := &Session{
		ID:         id,
		Transport:  transport,
		conn:       conn,
		publisher:  opts.Publisher,
		metrics:    opts.Metrics,
		logger:     slog.Default().With("session.id", id),
		lastActive: time.Now(),
		inbox:      make(chan []byte, opts.InboxSize),
		heartbeat:  opts.HeartbeatInterval,
		done:       make(chan struct{}),
	}

	g, err := game.NewStandard(playerOne, playerTwo, game.WithNotifier(s))
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	s.game = g
	return s, nil
}

// Announce records the start of the session and sends the initial state to the browser.
func (s *Session) Announce(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "session.Announce", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("session.transport", s.Transport),
	))
	defer span.End()

	state := s.Snapshot()
	s.metrics.SessionStarted(ctx, s.Transport)
	s.publish(ctx, events.TypeSessionStarted, events.SessionStartedPayload{
		SessionID: s.ID,
		Players:   [2]string{state.Players[0].Name, state.Players[1].Name},
		Transport: s.Transport,
	})
	s.logger.InfoContext(ctx, "session started",
		"player.one", state.Players[0].Name,
		"player.two", state.Players[1].Name,
		"session.transport", s.Transport,
	)

	if err := s.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeState, State: &state}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send initial state")
	}
}

// Start launches the read pump and the run loop of a websocket session.
// The session is handed to unregister once its connection goes away.
func (s *Session) Start(ctx context.Context, unregister chan<- *Session) {
	s.Announce(ctx)

	go s.readPump(ctx)
	go s.run(ctx)

	go func() {
		<-s.done
		select {
		case unregister <- s:
		case <-ctx.Done():
		}
	}()
}

// run is the main loop of a websocket session. Messages are handled one at a time.
func (s *Session) run(ctx context.Context) {
	pingTicker := time.NewTicker(s.heartbeat)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			s.logger.DebugContext(ctx, "session run loop stopping")
			return

		case <-ctx.Done():
			s.Close(context.WithoutCancel(ctx), "server shutdown")
			return

		case msg := <-s.inbox:
			s.HandleMessage(ctx, msg)

		case <-pingTicker.C:
			if err := s.ping(); err != nil {
				s.logger.Log(ctx, s.logLevelFor(err), "failed to ping browser", "error", err)
			}
		}
	}
}

// Move plays index for the player whose turn it is and returns the result with the new state.
func (s *Session) Move(ctx context.Context, index int) (game.MoveResult, proto.State, error) {
	ctx, span := tracer.Start(ctx, "session.Move", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("move.index", index),
	))
	defer span.End()

	s.mu.Lock()
	s.lastActive = time.Now()
	res, err := s.game.MakeMove(index)
	state := proto.NewState(s.ID, s.game)
	s.mu.Unlock()

	if err != nil {
		s.logger.WarnContext(ctx, "invalid move index", "move.index", index, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move index")
		return res, state, err
	}

	span.SetAttributes(attribute.Bool("move.accepted", res.Accepted))
	s.metrics.Move(ctx, res.Accepted, res.Rejection.String())

	if !res.Accepted {
		s.logger.DebugContext(ctx, "move ignored", "move.index", index, "move.rejection", res.Rejection.String())
		return res, state, nil
	}

	if err := s.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeState, State: &state}); err != nil {
		span.RecordError(err)
	}

	if res.Outcome.Kind != game.OutcomeInProgress {
		s.metrics.GameFinished(ctx, res.Outcome.Kind.String())
		s.publish(ctx, events.TypeGameFinished, events.GameFinishedPayload{
			SessionID: s.ID,
			Outcome:   state.Outcome,
			Winner:    state.Winner,
			Moves:     state.Moves,
		})
		s.logger.InfoContext(ctx, "game finished", "game.outcome", state.Outcome, "game.winner", state.Winner)
	}
	return res, state, nil
}

// Reset starts a new round with the same players.
func (s *Session) Reset(ctx context.Context) proto.State {
	ctx, span := tracer.Start(ctx, "session.Reset", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	s.lastActive = time.Now()
	s.game.Reset()
	state := proto.NewState(s.ID, s.game)
	s.mu.Unlock()

	s.metrics.Reset(ctx)
	s.publish(ctx, events.TypeBoardReset, events.BoardResetPayload{SessionID: s.ID})
	if err := s.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeState, State: &state}); err != nil {
		span.RecordError(err)
	}
	s.logger.InfoContext(ctx, "board reset")
	return state
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() proto.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return proto.NewState(s.ID, s.game)
}

// LastActive reports when the session last received input.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close stops the session and its connection. Calls after the first are no-ops.
func (s *Session) Close(ctx context.Context, reason string) {
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		close(s.done)
		if s.conn != nil {
			if err := s.conn.Close(); err != nil {
				s.logger.DebugContext(ctx, "error closing connection", "error", err)
			}
		}
		s.writeMu.Unlock()

		s.publish(ctx, events.TypeSessionClosed, events.SessionClosedPayload{SessionID: s.ID, Reason: reason})
		s.logger.InfoContext(ctx, "session closed", "session.reason", reason)
	})
}

func (s *Session) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// publish is fire-and-forget; failures are logged and do not affect the game.
func (s *Session) publish(ctx context.Context, eventType string, payload any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event", "event.type", eventType, "error", err)
	}
}
