package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"ctchen222/hotseat/internal/events"
	"ctchen222/hotseat/internal/game"
	"ctchen222/hotseat/internal/session/mocks"
	"ctchen222/hotseat/pkg/proto"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingPublisher struct {
	mu       sync.Mutex
	types    []string
	payloads []any
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}

// outbox collects the messages a mocked connection was asked to write.
type outbox struct {
	mu       sync.Mutex
	messages []proto.ServerToClientMessage
}

func (o *outbox) write(messageType int, data []byte) error {
	if messageType != websocket.TextMessage {
		return nil
	}
	var msg proto.ServerToClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
	return nil
}

func (o *outbox) Types() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	types := make([]string, 0, len(o.messages))
	for _, m := range o.messages {
		types = append(types, m.Type)
	}
	return types
}

func (o *outbox) Last() proto.ServerToClientMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.messages[len(o.messages)-1]
}

func (o *outbox) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = nil
}

func newMockedSession(t *testing.T) (*Session, *outbox, *recordingPublisher, *mocks.MockConnection) {
	t.Helper()

	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConnection(ctrl)
	out := &outbox{}
	conn.EXPECT().WriteMessage(gomock.Any(), gomock.Any()).DoAndReturn(out.write).AnyTimes()

	pub := &recordingPublisher{}
	s, err := New("Alice", "Bob", conn, Options{Publisher: pub})
	require.NoError(t, err)
	return s, out, pub, conn
}

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		one, two      string
		conn          Connection
		wantErr       error
		wantTransport string
	}{
		{name: "headless", one: "Alice", two: "Bob", wantTransport: TransportREST},
		{name: "websocket", one: "Alice", two: "Bob", conn: newPipeConn(), wantTransport: TransportWebsocket},
		{name: "blank first name", one: "  ", two: "Bob", wantErr: game.ErrEmptyName},
		{name: "blank second name", one: "Alice", two: "", wantErr: game.ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.one, tt.two, tt.conn, Options{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, s.ID)
			assert.Equal(t, tt.wantTransport, s.Transport)

			state := s.Snapshot()
			assert.Equal(t, s.ID, state.SessionID)
			assert.Equal(t, game.MarkX, state.Current)
			assert.Equal(t, "in_progress", state.Status)
			assert.Equal(t, "Alice", state.Players[0].Name)
		})
	}
}

func TestSession_Announce(t *testing.T) {
	s, out, pub, _ := newMockedSession(t)

	s.Announce(context.Background())

	assert.Equal(t, []string{proto.TypeState}, out.Types())
	require.NotNil(t, out.Last().State)
	assert.Equal(t, s.ID, out.Last().State.SessionID)
	assert.Equal(t, []string{events.TypeSessionStarted}, pub.Types())
}

func TestSession_Move(t *testing.T) {
	s, out, _, _ := newMockedSession(t)
	ctx := context.Background()

	res, state, err := s.Move(ctx, 4)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, game.MarkX, state.Board[4])
	assert.Equal(t, game.MarkO, state.Current)
	assert.Equal(t, []string{proto.TypeCell, proto.TypeState}, out.Types())

	out.Clear()
	res, state, err = s.Move(ctx, 4)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, game.RejectOccupied, res.Rejection)
	assert.Equal(t, 1, state.Moves)
	assert.Empty(t, out.Types(), "a rejected move sends nothing")

	_, _, err = s.Move(ctx, 9)
	assert.ErrorIs(t, err, game.ErrInvalidIndex)
}

func TestSession_MoveFinishesGame(t *testing.T) {
	s, out, pub, _ := newMockedSession(t)
	ctx := context.Background()

	for _, idx := range []int{0, 3, 1, 4} {
		_, _, err := s.Move(ctx, idx)
		require.NoError(t, err)
	}
	out.Clear()

	res, state, err := s.Move(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeWin, res.Outcome.Kind)
	assert.Equal(t, "over", state.Status)
	assert.Equal(t, "Alice", state.Winner)
	assert.Equal(t, []string{proto.TypeCell, proto.TypeGameOver, proto.TypeState}, out.Types())

	require.Equal(t, []string{events.TypeGameFinished}, pub.Types())
	payload, ok := pub.payloads[0].(events.GameFinishedPayload)
	require.True(t, ok)
	assert.Equal(t, events.GameFinishedPayload{SessionID: s.ID, Outcome: "win", Winner: "Alice", Moves: 5}, payload)

	res, _, err = s.Move(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, game.RejectGameOver, res.Rejection)
}

func TestSession_GameOverMessage(t *testing.T) {
	s, out, _, _ := newMockedSession(t)
	ctx := context.Background()

	for _, idx := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
		_, _, err := s.Move(ctx, idx)
		require.NoError(t, err)
	}

	var over proto.ServerToClientMessage
	out.mu.Lock()
	for _, m := range out.messages {
		if m.Type == proto.TypeGameOver {
			over = m
		}
	}
	out.mu.Unlock()

	assert.Equal(t, "draw", over.Outcome)
	assert.Equal(t, "draw", over.Message)
	assert.Empty(t, over.Winner)
}

func TestSession_HandleMessage(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantTypes  []string
		wantReason string
		wantMoves  int
	}{
		{name: "move", raw: `{"type":"move","index":0}`, wantTypes: []string{proto.TypeCell, proto.TypeState}, wantMoves: 1},
		{name: "move at index zero is not missing", raw: `{"type":"move","index":0}`, wantTypes: []string{proto.TypeCell, proto.TypeState}, wantMoves: 1},
		{name: "reset", raw: `{"type":"reset"}`, wantTypes: []string{proto.TypeBoardReset, proto.TypeState}},
		{name: "out of range index", raw: `{"type":"move","index":9}`, wantTypes: []string{proto.TypeError}, wantReason: "invalid cell index"},
		{name: "negative index", raw: `{"type":"move","index":-1}`, wantTypes: []string{proto.TypeError}, wantReason: "invalid cell index"},
		{name: "move without index", raw: `{"type":"move"}`, wantTypes: []string{proto.TypeError}, wantReason: "invalid message"},
		{name: "unknown type", raw: `{"type":"undo"}`, wantTypes: []string{proto.TypeError}, wantReason: "invalid message"},
		{name: "malformed json", raw: `{"type":`, wantTypes: []string{proto.TypeError}, wantReason: "malformed message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out, _, _ := newMockedSession(t)

			s.HandleMessage(context.Background(), []byte(tt.raw))

			assert.Equal(t, tt.wantTypes, out.Types())
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, out.Last().Reason)
			}
			assert.Equal(t, tt.wantMoves, s.Snapshot().Moves)
		})
	}
}

func TestSession_Reset(t *testing.T) {
	s, _, pub, _ := newMockedSession(t)
	ctx := context.Background()

	for _, idx := range []int{0, 3, 1, 4, 2} {
		_, _, err := s.Move(ctx, idx)
		require.NoError(t, err)
	}

	state := s.Reset(ctx)
	assert.Equal(t, "in_progress", state.Status)
	assert.Equal(t, game.MarkX, state.Current)
	assert.Zero(t, state.Moves)
	assert.Equal(t, [game.BoardSize]game.Mark{}, state.Board)
	assert.Contains(t, pub.Types(), events.TypeBoardReset)
}

func TestSession_HeadlessMove(t *testing.T) {
	s, err := New("Alice", "Bob", nil, Options{})
	require.NoError(t, err)

	before := s.LastActive()
	time.Sleep(time.Millisecond)

	res, _, err := s.Move(context.Background(), 8)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.True(t, s.LastActive().After(before))
}

func TestSession_Close(t *testing.T) {
	s, out, pub, conn := newMockedSession(t)
	conn.EXPECT().Close().Return(nil).Times(1)
	ctx := context.Background()

	s.Close(ctx, "test")
	s.Close(ctx, "again")

	select {
	case <-s.Done():
	default:
		t.Fatal("Done should be closed")
	}
	assert.Equal(t, []string{events.TypeSessionClosed}, pub.Types())

	err := s.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeState})
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, out.Types())
}

func TestSession_WriteFailureDoesNotBreakGame(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConnection(ctrl)
	conn.EXPECT().WriteMessage(gomock.Any(), gomock.Any()).Return(errors.New("broken pipe")).AnyTimes()

	s, err := New("Alice", "Bob", conn, Options{})
	require.NoError(t, err)

	res, state, err := s.Move(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, game.MarkX, state.Board[0])
}

// pipeConn is an in-memory Connection fed through a channel.
type pipeConn struct {
	in     chan []byte
	closed chan struct{}
	once   sync.Once

	mu      sync.Mutex
	written []int
}

func newPipeConn() *pipeConn {
	return &pipeConn{in: make(chan []byte), closed: make(chan struct{})}
}

func (c *pipeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg, ok := <-c.in:
		if !ok {
			return 0, nil, io.EOF
		}
		return websocket.TextMessage, msg, nil
	case <-c.closed:
		return 0, nil, io.EOF
	}
}

func (c *pipeConn) WriteMessage(messageType int, _ []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, messageType)
	return nil
}

func (c *pipeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *pipeConn) wrote(messageType int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, mt := range c.written {
		if mt == messageType {
			return true
		}
	}
	return false
}

func TestSession_StartRunsUntilConnectionCloses(t *testing.T) {
	conn := newPipeConn()
	s, err := New("Alice", "Bob", conn, Options{HeartbeatInterval: 5 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	unregister := make(chan *Session, 1)
	s.Start(ctx, unregister)

	conn.in <- []byte(`{"type":"move","index":4}`)
	assert.Eventually(t, func() bool { return s.Snapshot().Moves == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return conn.wrote(websocket.PingMessage) }, time.Second, 5*time.Millisecond)

	close(conn.in)

	select {
	case got := <-unregister:
		assert.Same(t, s, got)
	case <-time.After(time.Second):
		t.Fatal("session was not unregistered after the connection closed")
	}
	<-s.Done()
}
