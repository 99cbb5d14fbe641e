package proto

import (
	"encoding/json"
	"testing"

	"ctchen222/hotseat/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerToClientMessage_Wire(t *testing.T) {
	index := 4

	tests := []struct {
		name string
		msg  ServerToClientMessage
		want string
	}{
		{
			name: "cell carries only index and mark",
			msg:  ServerToClientMessage{Type: TypeCell, Index: &index, Mark: game.MarkX},
			want: `{"type":"cell","index":4,"mark":"X"}`,
		},
		{
			name: "game over",
			msg:  ServerToClientMessage{Type: TypeGameOver, Outcome: "win", Winner: "Alice", Message: "Alice wins"},
			want: `{"type":"game_over","outcome":"win","winner":"Alice","message":"Alice wins"}`,
		},
		{
			name: "board reset",
			msg:  ServerToClientMessage{Type: TypeBoardReset},
			want: `{"type":"reset"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}
