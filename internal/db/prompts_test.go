package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPromptsCSVSkipsHeaderAndBlanks(t *testing.T) {
	input := "category,text\nanimals, cat\n,orphan\nspace,\nspace,comet\nbroken\n"

	records, err := ReadPromptsCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []PromptRecord{
		{Category: "animals", Text: "cat"},
		{Category: "space", Text: "comet"},
	}, records)
}

func TestReadPromptsJSON(t *testing.T) {
	records, err := ReadPromptsJSON(strings.NewReader(`["violin", "  ", " drum "]`), "musical-instruments")
	require.NoError(t, err)
	assert.Equal(t, []PromptRecord{
		{Category: "musical-instruments", Text: "violin"},
		{Category: "musical-instruments", Text: "drum"},
	}, records)

	_, err = ReadPromptsJSON(strings.NewReader(`["violin"]`), " ")
	assert.Error(t, err)

	_, err = ReadPromptsJSON(strings.NewReader(`{"not":"a list"}`), "misc")
	assert.Error(t, err)
}

func TestEventLogDropsWhenFull(t *testing.T) {
	log := NewEventLog(nil, 1)
	log.Record("ABCD", 0, "game_created", map[string]string{"host": "Alice"})
	log.Record("ABCD", 0, "player_joined", map[string]string{"name": "Bob"})

	require.Len(t, log.queue, 1)
	event := <-log.queue
	assert.Equal(t, "game_created", event.Type)
	assert.JSONEq(t, `{"host":"Alice"}`, string(event.Payload))
}
