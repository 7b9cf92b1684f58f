package game

import (
	"math/rand/v2"
	"testing"

	"sketch-imprint/internal/deck"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	messages []Message
}

func (s *recordingSink) Send(msg Message) {
	s.messages = append(s.messages, msg)
}

func lastMessage[T Message](s *recordingSink) (T, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if msg, ok := s.messages[i].(T); ok {
			return msg, true
		}
	}
	var zero T
	return zero, false
}

func countMessages[T Message](s *recordingSink) int {
	n := 0
	for _, msg := range s.messages {
		if _, ok := msg.(T); ok {
			n++
		}
	}
	return n
}

func prompts(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + "-" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	return out
}

func testLibrary(t *testing.T) *deck.Library {
	t.Helper()
	lib, err := deck.NewLibrary(map[string][]string{
		"animals": prompts("animal", 30),
		"space":   prompts("space", 30),
	})
	require.NoError(t, err)
	return lib
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1024))
}

func drawingOf(strokes int) Drawing {
	out := make(Drawing, strokes)
	for i := range out {
		out[i] = Stroke{
			Coordinates: [][2]float32{{float32(i), 0}, {float32(i), 1}},
			BrushSize:   i + 1,
			Color:       "#000000",
		}
	}
	return out
}

type table struct {
	game    *Game
	players []uuid.UUID
	sinks   []*recordingSink
}

// newTable creates room "ABCD" with n players. Player 0 is the host.
func newTable(t *testing.T, n int) *table {
	t.Helper()
	tb := &table{}
	hostID := uuid.New()
	hostSink := &recordingSink{}
	g, err := NewGame("ABCD", hostID, "P1", hostSink, Options{Library: testLibrary(t), Rand: testRand()})
	require.NoError(t, err)
	tb.game = g
	tb.players = append(tb.players, hostID)
	tb.sinks = append(tb.sinks, hostSink)
	for i := 1; i < n; i++ {
		tb.join(t, "P"+string(rune('1'+i)))
	}
	return tb
}

func (tb *table) join(t *testing.T, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	sink := &recordingSink{}
	require.NoError(t, tb.game.Handle(id, JoinGame{Name: name, Sink: sink}))
	tb.players = append(tb.players, id)
	tb.sinks = append(tb.sinks, sink)
	return id
}

func (tb *table) setRounds(t *testing.T, rounds int) {
	t.Helper()
	settings := tb.game.Settings()
	settings.Rounds = rounds
	require.NoError(t, tb.game.Handle(tb.players[0], UpdateSettings{Settings: settings}))
}

func (tb *table) start(t *testing.T) {
	t.Helper()
	require.NoError(t, tb.game.Handle(tb.players[0], StartGame{}))
}

func (tb *table) drawAll(t *testing.T, strokes int) {
	t.Helper()
	round := tb.game.RoundNumber()
	for _, id := range tb.players {
		if !tb.game.isConnected(id) {
			continue
		}
		require.NoError(t, tb.game.Handle(id, SubmitDrawing{Drawing: drawingOf(strokes), Round: round}))
	}
}

func (tb *table) drawingID(i int) uuid.UUID {
	return tb.game.currentRound().DrawingID(tb.players[i])
}
