package session

import (
	"context"
	"encoding/json"
	"errors"

	"ctchen222/hotseat/internal/game"
	"ctchen222/hotseat/internal/validator"
	"ctchen222/hotseat/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage handles a message from the browser. It acts as a dispatcher.
func (s *Session) HandleMessage(ctx context.Context, rawMessage []byte) {
	ctx, span := tracer.Start(ctx, "session.HandleMessage", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		s.logger.ErrorContext(ctx, "error unmarshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		s.sendError(ctx, "malformed message")
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		s.logger.WarnContext(ctx, "invalid message from browser", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		s.sendError(ctx, "invalid message")
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeMove:
		s.handleMove(ctx, *message.Index)
	case proto.TypeReset:
		s.Reset(ctx)
	}
}

func (s *Session) handleMove(ctx context.Context, index int) {
	if _, _, err := s.Move(ctx, index); err != nil {
		if errors.Is(err, game.ErrInvalidIndex) {
			s.sendError(ctx, "invalid cell index")
			return
		}
		s.sendError(ctx, "move failed")
	}
}

func (s *Session) sendError(ctx context.Context, reason string) {
	if err := s.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeError, Reason: reason}); err != nil {
		s.logger.Log(ctx, s.logLevelFor(err), "failed to send error to browser", "error", err)
	}
}
