package ws_session

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub tracks which clients belong to which room and fans events out to
// them. A client lands in a room set only after a successful create or
// join.
type Hub struct {
	mu sync.RWMutex

	rooms map[string]map[*Client]bool

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]bool),
		logger: logger,
	}
}

func (h *Hub) JoinRoom(client *Client, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[code]; !ok {
		h.rooms[code] = make(map[*Client]bool)
	}
	h.rooms[code][client] = true
	client.roomCode = code

	h.logger.Info("client registered", "client", client.id, "room", code)
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[client.roomCode]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.roomCode)
		}
	}
	h.logger.Info("client unregistered", "client", client.id, "room", client.roomCode)
}

func (h *Hub) BroadcastToRoom(code string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", "type", event.Type, "error", err.Error())
		return
	}

	if clients, ok := h.rooms[code]; ok {
		for client := range clients {
			select {
			case client.send <- messageBytes:
			default:
				// Slow consumer: drop the event rather than block the room.
				h.logger.Warn("send buffer full, event dropped", "client", client.id, "type", event.Type)
			}
		}
	}
}
