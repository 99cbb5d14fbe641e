package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"ctchen222/hotseat/pkg/proto"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=connection.go -destination=mocks/connection_mock.go -package=mocks

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// ErrClosed is returned when a message is sent on a closed session.
var ErrClosed = errors.New("session closed")

// send writes message to the browser. Sessions without a connection drop it.
func (s *Session) send(ctx context.Context, message *proto.ServerToClientMessage) error {
	if s.conn == nil {
		return nil
	}

	ctx, span := tracer.Start(ctx, "session.send", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("message.type", message.Type),
	))
	defer span.End()

	data, err := json.Marshal(message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return fmt.Errorf("failed to marshal %s message: %w", message.Type, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.isClosed() {
		return ErrClosed
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.WarnContext(ctx, "error writing message to browser", "message.type", message.Type, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error writing message")
		return fmt.Errorf("failed to write %s message: %w", message.Type, err)
	}
	return nil
}

func (s *Session) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.isClosed() {
		return ErrClosed
	}
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

// readPump pumps messages from the websocket connection to the session inbox.
// It closes the session when the connection fails.
func (s *Session) readPump(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "session.readPump", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	reason := "connection closed"
	defer func() {
		s.Close(ctx, reason)
	}()

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WarnContext(ctx, "browser connection error", "error", err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "Browser connection error")
				reason = "connection error"
			}
			return
		}

		select {
		case s.inbox <- msg:
		case <-s.done:
			return
		}
	}
}

// logLevelFor keeps connection noise out of warn level once the session is closing.
func (s *Session) logLevelFor(err error) slog.Level {
	if errors.Is(err, ErrClosed) {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
