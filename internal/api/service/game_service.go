package service

import (
	"context"
	"fmt"

	"ctchen222/hotseat/internal/api/models"
	"ctchen222/hotseat/internal/api/repository"
	"ctchen222/hotseat/internal/api/token"
	"ctchen222/hotseat/pkg/proto"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("api")

// GameService defines the interface for playing games without a browser.
type GameService interface {
	NewGame(ctx context.Context, req *models.NewGameRequest) (*models.NewGameResponse, error)
	State(ctx context.Context, id string) (proto.State, error)
	Move(ctx context.Context, id string, index int) (*models.MoveResponse, error)
	Reset(ctx context.Context, id string) (proto.State, error)
	EndGame(ctx context.Context, id string) error
}

type gameService struct {
	sessions repository.SessionRepository
	handles  token.Issuer
}

// NewGameService creates a new GameService.
func NewGameService(sessions repository.SessionRepository, handles token.Issuer) GameService {
	return &gameService{sessions: sessions, handles: handles}
}

// NewGame starts a session and issues its handle.
func (s *gameService) NewGame(ctx context.Context, req *models.NewGameRequest) (*models.NewGameResponse, error) {
	ctx, span := tracer.Start(ctx, "api.NewGame")
	defer span.End()

	sess, err := s.sessions.Create(ctx, req.PlayerOne, req.PlayerTwo)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create game")
		return nil, err
	}
	span.SetAttributes(attribute.String("session.id", sess.ID))

	handle, err := s.handles.Issue(sess.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue handle")
		return nil, fmt.Errorf("failed to issue handle for game %s: %w", sess.ID, err)
	}

	return &models.NewGameResponse{ID: sess.ID, Handle: handle, State: sess.Snapshot()}, nil
}

// State returns the current state of a game.
func (s *gameService) State(ctx context.Context, id string) (proto.State, error) {
	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return proto.State{}, err
	}
	return sess.Snapshot(), nil
}

// Move plays index for the player whose turn it is.
func (s *gameService) Move(ctx context.Context, id string, index int) (*models.MoveResponse, error) {
	ctx, span := tracer.Start(ctx, "api.Move", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.Int("move.index", index),
	))
	defer span.End()

	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	res, state, err := sess.Move(ctx, index)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Move failed")
		return nil, err
	}

	return &models.MoveResponse{
		Accepted:  res.Accepted,
		Rejection: res.Rejection.String(),
		Outcome:   res.Outcome.Kind.String(),
		State:     state,
	}, nil
}

// Reset starts a new round in a game.
func (s *gameService) Reset(ctx context.Context, id string) (proto.State, error) {
	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return proto.State{}, err
	}
	return sess.Reset(ctx), nil
}

// EndGame closes a game; its handle stops working.
func (s *gameService) EndGame(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "api.EndGame", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	if err := s.sessions.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
