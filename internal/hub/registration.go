package hub

import (
	"context"
	"encoding/json"
	"log/slog"

	"ctchen222/hotseat/internal/hub/types"
	"ctchen222/hotseat/pkg/proto"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// handleRegistration starts a websocket session. The session lives as long as the hub, not the request.
func (h *Hub) handleRegistration(ctx context.Context, req *types.RegistrationRequest) {
	reqCtx := req.Ctx
	if reqCtx == nil {
		reqCtx = ctx
	}
	_, span := tracer.Start(reqCtx, "hub.handleRegistration", trace.WithAttributes(
		attribute.String("player.one", req.PlayerOne),
		attribute.String("player.two", req.PlayerTwo),
	))
	defer span.End()

	s, err := h.Create(ctx, req.PlayerOne, req.PlayerTwo, req.Conn)
	if err != nil {
		h.rejectConnection(ctx, req, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to register session")
		return
	}
	span.SetAttributes(attribute.String("session.id", s.ID))
}

// rejectConnection tells the browser why no session was started and hangs up.
func (h *Hub) rejectConnection(ctx context.Context, req *types.RegistrationRequest, cause error) {
	data, err := json.Marshal(&proto.ServerToClientMessage{Type: proto.TypeError, Reason: cause.Error()})
	if err == nil {
		err = req.Conn.WriteMessage(websocket.TextMessage, data)
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to send registration error", "error", err)
	}
	if err := req.Conn.Close(); err != nil {
		slog.WarnContext(ctx, "failed to close rejected connection", "error", err)
	}
}
