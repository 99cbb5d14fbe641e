package session

import (
	"context"

	"ctchen222/hotseat/internal/game"
	"ctchen222/hotseat/pkg/proto"
)

var _ game.Notifier = (*Session)(nil)

// CellMarked tells the browser to draw mark at index.
func (s *Session) CellMarked(index int, mark game.Mark) {
	s.notify(&proto.ServerToClientMessage{Type: proto.TypeCell, Index: &index, Mark: mark})
}

// GameOver tells the browser how the game ended.
func (s *Session) GameOver(outcome game.Outcome, announcement string) {
	msg := &proto.ServerToClientMessage{
		Type:    proto.TypeGameOver,
		Outcome: outcome.Kind.String(),
		Message: announcement,
	}
	if outcome.Kind == game.OutcomeWin {
		msg.Winner = s.game.Player(outcome.Winner).Name()
	}
	s.notify(msg)
}

// BoardReset tells the browser to clear the grid.
func (s *Session) BoardReset() {
	s.notify(&proto.ServerToClientMessage{Type: proto.TypeBoardReset})
}

// notify runs while the game is locked, so it only writes to the connection.
func (s *Session) notify(msg *proto.ServerToClientMessage) {
	ctx := context.Background()
	if err := s.send(ctx, msg); err != nil {
		s.logger.Log(ctx, s.logLevelFor(err), "failed to notify browser", "message.type", msg.Type, "error", err)
	}
}
