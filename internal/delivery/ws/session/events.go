package ws_session

import (
	"encoding/json"

	"github.com/akhirox/chbk/core/internal/model"
	usecase_scoring "github.com/akhirox/chbk/core/internal/usecase/scoring"
)

// Inbound event types. Names and payload fields follow the browser
// client contract.
const (
	EventCreateRoom = "create_room"
	EventJoinRoom   = "join_room"
	EventStartGame  = "start_game"
	EventSubmitVote = "submit_vote"
	EventReveal     = "reveal_results_for_question"
)

// Outbound event types.
const (
	EventRoomCreated     = "room_created"
	EventUpdatePlayers   = "update_players"
	EventGameStarted     = "game_started"
	EventUpdateStatuses  = "update_statuses"
	EventAllFinished     = "all_players_finished"
	EventQuestionResults = "show_question_results"
	EventError           = "error"
)

// Event is the wire envelope in both directions.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// inboundEvent defers payload decoding until the type is known.
type inboundEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type CreateRoomPayload struct {
	Pseudo string `json:"pseudo"`
}

type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Pseudo   string `json:"pseudo"`
}

type StartGamePayload struct {
	RoomCode string `json:"roomCode"`
	CSVData  string `json:"csvData"`
}

type SubmitVotePayload struct {
	RoomCode      string   `json:"roomCode"`
	QuestionIndex int      `json:"questionIndex"`
	Ranking       []string `json:"ranking"`
	Comment       string   `json:"comment"`
}

type RevealPayload struct {
	RoomCode      string `json:"roomCode"`
	QuestionIndex int    `json:"questionIndex"`
}

type PlayerDTO struct {
	ID       string `json:"id"`
	Pseudo   string `json:"pseudo"`
	Progress int    `json:"progress"`
}

type PlayerStatusDTO struct {
	ID         string `json:"id"`
	Pseudo     string `json:"pseudo"`
	Progress   int    `json:"progress"`
	IsFinished bool   `json:"isFinished"`
}

type GameStartedDTO struct {
	Players   []PlayerDTO `json:"players"`
	Questions []string    `json:"questions"`
}

type StandingDTO struct {
	ID     string `json:"id"`
	Pseudo string `json:"pseudo"`
	Score  int    `json:"score"`
}

type QuestionResultsDTO struct {
	QuestionIndex int           `json:"questionIndex"`
	Results       []StandingDTO `json:"results"`
	Comments      []string      `json:"comments"`
}

func toPlayerDTOs(roster []model.Participant) []PlayerDTO {
	players := make([]PlayerDTO, 0, len(roster))
	for _, p := range roster {
		players = append(players, PlayerDTO{
			ID:       p.ID,
			Pseudo:   p.Pseudo,
			Progress: p.Progress,
		})
	}
	return players
}

func toStatusDTOs(statuses []model.PlayerStatus) []PlayerStatusDTO {
	dtos := make([]PlayerStatusDTO, 0, len(statuses))
	for _, s := range statuses {
		dtos = append(dtos, PlayerStatusDTO{
			ID:         s.ID,
			Pseudo:     s.Pseudo,
			Progress:   s.Progress,
			IsFinished: s.IsFinished,
		})
	}
	return dtos
}

func toStandingDTOs(results []usecase_scoring.Standing) []StandingDTO {
	dtos := make([]StandingDTO, 0, len(results))
	for _, r := range results {
		dtos = append(dtos, StandingDTO{
			ID:     r.ID,
			Pseudo: r.Pseudo,
			Score:  r.Score,
		})
	}
	return dtos
}
