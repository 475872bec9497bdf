package model

import "sync"

type State string

const (
	StateLobby     State = "lobby"
	StateInGame    State = "in_game"
	StateRevealing State = "revealing"
)

// Room is one game session. Players keeps join order; Players[0] is the
// host for the whole room lifetime. Questions and Answers are set once by
// the game start and never resized: Answers holds one slot per question,
// each slot mapping a voter id to their latest Vote.
type Room struct {
	mu sync.Mutex

	Code      string
	State     State
	Players   []*Participant
	Questions []string
	Answers   []map[string]Vote
}

func NewRoom(code string, host *Participant) *Room {
	return &Room{
		Code:    code,
		State:   StateLobby,
		Players: []*Participant{host},
	}
}

// Lock serializes one logical action against the room. Every
// read-validate-mutate sequence runs under it.
func (r *Room) Lock() { r.mu.Lock() }

func (r *Room) Unlock() { r.mu.Unlock() }

func (r *Room) Host() *Participant {
	if len(r.Players) == 0 {
		return nil
	}
	return r.Players[0]
}

func (r *Room) IsHost(id string) bool {
	host := r.Host()
	return host != nil && host.ID == id
}

func (r *Room) Player(id string) *Participant {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) AddPlayer(p *Participant) {
	r.Players = append(r.Players, p)
}

// Roster returns a value snapshot of the players in join order, safe to
// hand to broadcasts after the room lock is released.
func (r *Room) Roster() []Participant {
	roster := make([]Participant, 0, len(r.Players))
	for _, p := range r.Players {
		roster = append(roster, *p)
	}
	return roster
}
