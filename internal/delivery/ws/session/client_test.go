package ws_session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhirox/chbk/core/internal/registry"
	usecase_session "github.com/akhirox/chbk/core/internal/usecase/session"
)

// The dispatch path is exercised without a network connection: handlers
// only touch the hub and the send channel, so raw JSON in and queued
// events out is the full contract.

type harness struct {
	hub     *Hub
	usecase *usecase_session.Usecase
}

func newHarness() *harness {
	reg := registry.New()
	return &harness{
		hub:     NewHub(slog.Default()),
		usecase: usecase_session.New(reg),
	}
}

func (h *harness) connect(id string) *Client {
	return NewClient(h.hub, h.usecase, nil, id, slog.Default())
}

type wireEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func nextEvent(t *testing.T, c *Client) wireEvent {
	t.Helper()
	select {
	case raw := <-c.send:
		var evt wireEvent
		require.NoError(t, json.Unmarshal(raw, &evt))
		return evt
	default:
		t.Fatal("no event queued")
		return wireEvent{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected event queued: %s", raw)
	default:
	}
}

func send(c *Client, eventType string, payload string) {
	c.handleEvent([]byte(fmt.Sprintf(`{"type":%q,"payload":%s}`, eventType, payload)))
}

func createRoom(t *testing.T, c *Client, pseudo string) string {
	t.Helper()
	send(c, EventCreateRoom, fmt.Sprintf(`{"pseudo":%q}`, pseudo))

	evt := nextEvent(t, c)
	require.Equal(t, EventUpdatePlayers, evt.Type)

	evt = nextEvent(t, c)
	require.Equal(t, EventRoomCreated, evt.Type)
	var code string
	require.NoError(t, json.Unmarshal(evt.Payload, &code))
	return code
}

func TestCreateRoomEmitsCodeAndRoster(t *testing.T) {
	h := newHarness()
	host := h.connect("host-conn")

	send(host, EventCreateRoom, `{"pseudo":"Alice"}`)

	evt := nextEvent(t, host)
	assert.Equal(t, EventUpdatePlayers, evt.Type)
	var players []PlayerDTO
	require.NoError(t, json.Unmarshal(evt.Payload, &players))
	require.Len(t, players, 1)
	assert.Equal(t, "host-conn", players[0].ID)
	assert.Equal(t, "Alice", players[0].Pseudo)

	evt = nextEvent(t, host)
	assert.Equal(t, EventRoomCreated, evt.Type)
	var code string
	require.NoError(t, json.Unmarshal(evt.Payload, &code))
	assert.Len(t, code, 4)
}

func TestJoinUnknownRoomRepliesErrorToCallerOnly(t *testing.T) {
	h := newHarness()
	c := h.connect("conn-1")

	send(c, EventJoinRoom, `{"roomCode":"ZZZZ","pseudo":"Bob"}`)

	evt := nextEvent(t, c)
	assert.Equal(t, EventError, evt.Type)
	var message string
	require.NoError(t, json.Unmarshal(evt.Payload, &message))
	assert.NotEmpty(t, message)
	assertNoEvent(t, c)
}

func TestNonHostStartIsDroppedSilently(t *testing.T) {
	h := newHarness()
	host := h.connect("host-conn")
	bob := h.connect("bob-conn")

	code := createRoom(t, host, "Alice")
	send(bob, EventJoinRoom, fmt.Sprintf(`{"roomCode":%q,"pseudo":"Bob"}`, code))
	nextEvent(t, host) // roster update
	nextEvent(t, bob)

	send(bob, EventStartGame, fmt.Sprintf(`{"roomCode":%q,"csvData":"Q1"}`, code))

	assertNoEvent(t, host)
	assertNoEvent(t, bob)
}

func TestEmptyQuestionSetRepliesErrorToHost(t *testing.T) {
	h := newHarness()
	host := h.connect("host-conn")
	code := createRoom(t, host, "Alice")

	send(host, EventStartGame, fmt.Sprintf(`{"roomCode":%q,"csvData":"\n  \n"}`, code))

	evt := nextEvent(t, host)
	assert.Equal(t, EventError, evt.Type)
}

func TestFullGameOverTheWire(t *testing.T) {
	h := newHarness()
	host := h.connect("host-conn")
	bob := h.connect("bob-conn")

	code := createRoom(t, host, "Alice")
	send(bob, EventJoinRoom, fmt.Sprintf(`{"roomCode":%q,"pseudo":"Bob"}`, code))
	require.Equal(t, EventUpdatePlayers, nextEvent(t, host).Type)
	require.Equal(t, EventUpdatePlayers, nextEvent(t, bob).Type)

	send(host, EventStartGame, fmt.Sprintf(`{"roomCode":%q,"csvData":"Q1"}`, code))
	for _, c := range []*Client{host, bob} {
		evt := nextEvent(t, c)
		require.Equal(t, EventGameStarted, evt.Type)
		var started GameStartedDTO
		require.NoError(t, json.Unmarshal(evt.Payload, &started))
		assert.Equal(t, []string{"Q1"}, started.Questions)
		assert.Len(t, started.Players, 2)
	}

	send(host, EventSubmitVote, fmt.Sprintf(`{"roomCode":%q,"questionIndex":0,"ranking":["host-conn","bob-conn"],"comment":"gg"}`, code))
	for _, c := range []*Client{host, bob} {
		evt := nextEvent(t, c)
		require.Equal(t, EventUpdateStatuses, evt.Type)
		var statuses []PlayerStatusDTO
		require.NoError(t, json.Unmarshal(evt.Payload, &statuses))
		assert.False(t, statuses[1].IsFinished)
	}

	send(bob, EventSubmitVote, fmt.Sprintf(`{"roomCode":%q,"questionIndex":0,"ranking":["bob-conn","host-conn"]}`, code))
	for _, c := range []*Client{host, bob} {
		require.Equal(t, EventUpdateStatuses, nextEvent(t, c).Type)
		require.Equal(t, EventAllFinished, nextEvent(t, c).Type)
	}

	send(host, EventReveal, fmt.Sprintf(`{"roomCode":%q,"questionIndex":0}`, code))
	for _, c := range []*Client{host, bob} {
		evt := nextEvent(t, c)
		require.Equal(t, EventQuestionResults, evt.Type)
		var results QuestionResultsDTO
		require.NoError(t, json.Unmarshal(evt.Payload, &results))
		assert.Equal(t, 0, results.QuestionIndex)
		require.Len(t, results.Results, 2)
		// 3-point tie resolved by roster order.
		assert.Equal(t, "host-conn", results.Results[0].ID)
		assert.Equal(t, 3, results.Results[0].Score)
		assert.Equal(t, "bob-conn", results.Results[1].ID)
		assert.Equal(t, 3, results.Results[1].Score)
		assert.Equal(t, []string{"gg"}, results.Comments)
	}
}

func TestMalformedEventsAreIgnored(t *testing.T) {
	h := newHarness()
	c := h.connect("conn-1")

	c.handleEvent([]byte(`{not json`))
	c.handleEvent([]byte(`{"type":"no_such_event","payload":{}}`))
	c.handleEvent([]byte(`{"type":"submit_vote","payload":{"roomCode":"ZZZZ","questionIndex":0,"ranking":[]}}`))

	assertNoEvent(t, c)
}
