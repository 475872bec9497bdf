package ws_session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"

	usecase_session "github.com/akhirox/chbk/core/internal/usecase/session"
)

// Client is one websocket connection. Its id doubles as the participant
// id for the whole session: a reconnect produces a new participant.
type Client struct {
	hub     *Hub
	usecase *usecase_session.Usecase
	conn    *websocket.Conn
	send    chan []byte

	id       string
	roomCode string

	logger *slog.Logger
}

func NewClient(hub *Hub, usecase *usecase_session.Usecase, conn *websocket.Conn, id string, logger *slog.Logger) *Client {
	return &Client{
		hub:     hub,
		usecase: usecase,
		conn:    conn,
		send:    make(chan []byte, 256),
		id:      id,
		logger:  logger,
	}
}

// ReadPump consumes inbound events until the connection drops. Events
// are handled one at a time, so a single client never interleaves its
// own actions.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.RemoveClient(c)
		c.usecase.Disconnect(context.Background(), c.id)
		close(c.send)
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.handleEvent(raw)
	}
}

func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}

func (c *Client) handleEvent(raw []byte) {
	var evt inboundEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		c.logger.Warn("malformed event", "client", c.id, "error", err.Error())
		return
	}

	switch evt.Type {
	case EventCreateRoom:
		c.handleCreateRoom(evt.Payload)
	case EventJoinRoom:
		c.handleJoinRoom(evt.Payload)
	case EventStartGame:
		c.handleStartGame(evt.Payload)
	case EventSubmitVote:
		c.handleSubmitVote(evt.Payload)
	case EventReveal:
		c.handleReveal(evt.Payload)
	default:
		c.logger.Warn("unknown event type", "client", c.id, "type", evt.Type)
	}
}

func (c *Client) handleCreateRoom(raw json.RawMessage) {
	var payload CreateRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("malformed create_room payload", "client", c.id, "error", err.Error())
		return
	}

	snap, err := c.usecase.CreateRoom(context.Background(), c.id, payload.Pseudo)
	if err != nil {
		c.logger.Error("failed to create room", "client", c.id, "error", err.Error())
		return
	}

	c.hub.JoinRoom(c, snap.Code)
	c.hub.BroadcastToRoom(snap.Code, Event{Type: EventUpdatePlayers, Payload: toPlayerDTOs(snap.Roster)})
	c.sendEvent(Event{Type: EventRoomCreated, Payload: snap.Code})
}

func (c *Client) handleJoinRoom(raw json.RawMessage) {
	var payload JoinRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("malformed join_room payload", "client", c.id, "error", err.Error())
		return
	}

	snap, err := c.usecase.Join(context.Background(), payload.RoomCode, c.id, payload.Pseudo)
	if err != nil {
		c.sendEvent(Event{Type: EventError, Payload: "room not found or game already started"})
		return
	}

	c.hub.JoinRoom(c, snap.Code)
	c.hub.BroadcastToRoom(snap.Code, Event{Type: EventUpdatePlayers, Payload: toPlayerDTOs(snap.Roster)})
}

func (c *Client) handleStartGame(raw json.RawMessage) {
	var payload StartGamePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("malformed start_game payload", "client", c.id, "error", err.Error())
		return
	}

	start, err := c.usecase.StartGame(context.Background(), payload.RoomCode, c.id, payload.CSVData)
	if err != nil {
		if errors.Is(err, usecase_session.ErrEmptyQuestionSet) {
			c.sendEvent(Event{Type: EventError, Payload: "question list is empty or malformed"})
			return
		}
		// Non-host and unknown-room requests get no reply at all.
		c.logger.Debug("start_game dropped", "client", c.id, "room", payload.RoomCode, "reason", err.Error())
		return
	}

	c.hub.BroadcastToRoom(start.Code, Event{Type: EventGameStarted, Payload: GameStartedDTO{
		Players:   toPlayerDTOs(start.Roster),
		Questions: start.Questions,
	}})
}

func (c *Client) handleSubmitVote(raw json.RawMessage) {
	var payload SubmitVotePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("malformed submit_vote payload", "client", c.id, "error", err.Error())
		return
	}

	outcome, err := c.usecase.SubmitVote(context.Background(), payload.RoomCode, c.id, payload.QuestionIndex, payload.Ranking, payload.Comment)
	if err != nil {
		c.logger.Debug("submit_vote dropped", "client", c.id, "room", payload.RoomCode, "reason", err.Error())
		return
	}

	c.hub.BroadcastToRoom(outcome.Code, Event{Type: EventUpdateStatuses, Payload: toStatusDTOs(outcome.Statuses)})
	if outcome.AllFinished {
		c.hub.BroadcastToRoom(outcome.Code, Event{Type: EventAllFinished})
	}
}

func (c *Client) handleReveal(raw json.RawMessage) {
	var payload RevealPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Warn("malformed reveal payload", "client", c.id, "error", err.Error())
		return
	}

	reveal, err := c.usecase.Reveal(context.Background(), payload.RoomCode, c.id, payload.QuestionIndex)
	if err != nil {
		c.logger.Debug("reveal dropped", "client", c.id, "room", payload.RoomCode, "reason", err.Error())
		return
	}

	c.hub.BroadcastToRoom(reveal.Code, Event{Type: EventQuestionResults, Payload: QuestionResultsDTO{
		QuestionIndex: reveal.QuestionIndex,
		Results:       toStandingDTOs(reveal.Results),
		Comments:      reveal.Comments,
	}})
}

// sendEvent delivers an event to this client only.
func (c *Client) sendEvent(event Event) {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("failed to marshal event", "type", event.Type, "error", err.Error())
		return
	}

	select {
	case c.send <- messageBytes:
	default:
		c.logger.Warn("send buffer full, event dropped", "client", c.id, "type", event.Type)
	}
}
