package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "ctchen222/hotseat"

// Metrics counts game activity across all sessions.
type Metrics struct {
	sessionsStarted metric.Int64Counter
	moves           metric.Int64Counter
	gamesFinished   metric.Int64Counter
	resets          metric.Int64Counter
}

// NewMetrics creates the instruments on meter, or on the global meter provider when nil.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(meterName)
	}

	sessionsStarted, err := meter.Int64Counter("hotseat.sessions.started",
		metric.WithDescription("Game sessions created"))
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions counter: %w", err)
	}
	moves, err := meter.Int64Counter("hotseat.moves",
		metric.WithDescription("Moves submitted, split by whether they were accepted"))
	if err != nil {
		return nil, fmt.Errorf("failed to create moves counter: %w", err)
	}
	gamesFinished, err := meter.Int64Counter("hotseat.games.finished",
		metric.WithDescription("Games that ended in a win or a draw"))
	if err != nil {
		return nil, fmt.Errorf("failed to create games counter: %w", err)
	}
	resets, err := meter.Int64Counter("hotseat.resets",
		metric.WithDescription("Board resets"))
	if err != nil {
		return nil, fmt.Errorf("failed to create resets counter: %w", err)
	}

	return &Metrics{
		sessionsStarted: sessionsStarted,
		moves:           moves,
		gamesFinished:   gamesFinished,
		resets:          resets,
	}, nil
}

func (m *Metrics) SessionStarted(ctx context.Context, transport string) {
	if m == nil {
		return
	}
	m.sessionsStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("session.transport", transport)))
}

func (m *Metrics) Move(ctx context.Context, accepted bool, rejection string) {
	if m == nil {
		return
	}
	m.moves.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("move.accepted", accepted),
		attribute.String("move.rejection", rejection),
	))
}

func (m *Metrics) GameFinished(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.gamesFinished.Add(ctx, 1, metric.WithAttributes(attribute.String("game.outcome", outcome)))
}

func (m *Metrics) Reset(ctx context.Context) {
	if m == nil {
		return
	}
	m.resets.Add(ctx, 1)
}
