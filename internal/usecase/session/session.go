package usecase_session

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/akhirox/chbk/core/internal/model"
	usecase_scoring "github.com/akhirox/chbk/core/internal/usecase/scoring"
)

var (
	// Surfaced to the acting player.
	ErrRoomUnavailable  = errors.New("room not found or game already started")
	ErrEmptyQuestionSet = errors.New("question list is empty or malformed")

	// Dropped silently at the delivery layer.
	ErrNotHost          = errors.New("actor is not the room host")
	ErrBadQuestionIndex = errors.New("no answer slot for this question")
	ErrInternal         = errors.New("internal error")
)

// RoomRegistry is the room store the state machine runs against.
type RoomRegistry interface {
	Create(room *model.Room) error
	Get(code string) (*model.Room, bool)
	Touch(code string)
}

// RoomSnapshot is what lobby operations report back: the room code and
// the roster in join order.
type RoomSnapshot struct {
	Code   string
	Roster []model.Participant
}

// GameStart reports a successful game start.
type GameStart struct {
	Code      string
	Roster    []model.Participant
	Questions []string
}

// VoteOutcome reports an accepted vote. AllFinished makes the implicit
// lobby->revealing side effect of the last vote an explicit, testable
// result: it is true exactly once per player set when every participant
// has answered every question, and the room has then already moved to
// the revealing state.
type VoteOutcome struct {
	Code        string
	Statuses    []model.PlayerStatus
	AllFinished bool
}

// RevealOutcome is the leaderboard for one question.
type RevealOutcome struct {
	Code          string
	QuestionIndex int
	Results       []usecase_scoring.Standing
	Comments      []string
}

type Usecase struct {
	registry RoomRegistry
	logger   *slog.Logger
}

type UsecaseOption func(*Usecase)

func WithLogger(logger *slog.Logger) UsecaseOption {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func New(registry RoomRegistry, opts ...UsecaseOption) *Usecase {
	u := &Usecase{
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

const codeLen = 4

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func buildRoomCode() string {
	var builder strings.Builder
	builder.Grow(codeLen)

	for i := 0; i < codeLen; i++ {
		builder.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}

	return builder.String()
}

// CreateRoom opens a fresh lobby with the actor as host.
// Assuming that codes can conflict. Retrying...
func (u *Usecase) CreateRoom(ctx context.Context, actorID, pseudo string) (RoomSnapshot, error) {
	host := &model.Participant{ID: actorID, Pseudo: pseudo}

	var retries = 3
	for retries > 0 {
		room := model.NewRoom(buildRoomCode(), host)
		if err := u.registry.Create(room); err != nil {
			retries--
			continue
		}

		u.logger.Info("room created", "room", room.Code, "host", actorID)
		return RoomSnapshot{Code: room.Code, Roster: room.Roster()}, nil
	}
	return RoomSnapshot{}, ErrInternal
}

// Join appends the actor to a lobby. Joining a missing room or one whose
// game already started fails with ErrRoomUnavailable.
func (u *Usecase) Join(ctx context.Context, code, actorID, pseudo string) (RoomSnapshot, error) {
	room, ok := u.registry.Get(code)
	if !ok {
		return RoomSnapshot{}, ErrRoomUnavailable
	}

	room.Lock()
	defer room.Unlock()

	if room.State != model.StateLobby {
		return RoomSnapshot{}, ErrRoomUnavailable
	}

	room.AddPlayer(&model.Participant{ID: actorID, Pseudo: pseudo})
	u.registry.Touch(code)

	u.logger.Info("player joined", "room", code, "player", actorID, "pseudo", pseudo)
	return RoomSnapshot{Code: code, Roster: room.Roster()}, nil
}

// StartGame parses the multi-line question text and moves the lobby into
// the game. Host-gated: any other actor gets ErrNotHost, which the
// delivery drops without a reply.
func (u *Usecase) StartGame(ctx context.Context, code, actorID, questionText string) (GameStart, error) {
	room, ok := u.registry.Get(code)
	if !ok {
		return GameStart{}, ErrRoomUnavailable
	}

	room.Lock()
	defer room.Unlock()

	if !room.IsHost(actorID) {
		return GameStart{}, ErrNotHost
	}
	if room.State != model.StateLobby {
		return GameStart{}, ErrRoomUnavailable
	}

	questions := parseQuestions(questionText)
	if len(questions) == 0 {
		return GameStart{}, ErrEmptyQuestionSet
	}

	room.Questions = questions
	room.Answers = make([]map[string]model.Vote, len(questions))
	for i := range room.Answers {
		room.Answers[i] = make(map[string]model.Vote)
	}
	room.State = model.StateInGame
	u.registry.Touch(code)

	u.logger.Info("game started", "room", code, "questions", len(questions))
	return GameStart{Code: code, Roster: room.Roster(), Questions: questions}, nil
}

func parseQuestions(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			questions = append(questions, line)
		}
	}
	return questions
}

// SubmitVote records (or overwrites) the actor's ranking for one
// question and recomputes the room-wide progress picture. When the vote
// makes every participant finished, the room switches to revealing and
// the outcome says so.
func (u *Usecase) SubmitVote(ctx context.Context, code, actorID string, questionIndex int, ranking []string, comment string) (VoteOutcome, error) {
	room, ok := u.registry.Get(code)
	if !ok {
		return VoteOutcome{}, ErrRoomUnavailable
	}

	room.Lock()
	defer room.Unlock()

	if questionIndex < 0 || questionIndex >= len(room.Answers) {
		return VoteOutcome{}, ErrBadQuestionIndex
	}

	room.Answers[questionIndex][actorID] = model.Vote{
		Ranking: ranking,
		Comment: comment,
	}

	// Progress never goes backwards, even when an earlier question is
	// answered again.
	if p := room.Player(actorID); p != nil && questionIndex+1 > p.Progress {
		p.Progress = questionIndex + 1
	}

	statuses := buildStatuses(room)
	allFinished := len(statuses) > 0
	for _, s := range statuses {
		if !s.IsFinished {
			allFinished = false
			break
		}
	}
	if allFinished {
		room.State = model.StateRevealing
	}
	u.registry.Touch(code)

	return VoteOutcome{Code: code, Statuses: statuses, AllFinished: allFinished}, nil
}

func buildStatuses(room *model.Room) []model.PlayerStatus {
	statuses := make([]model.PlayerStatus, 0, len(room.Players))
	for _, p := range room.Players {
		statuses = append(statuses, model.PlayerStatus{
			ID:         p.ID,
			Pseudo:     p.Pseudo,
			Progress:   p.Progress,
			IsFinished: p.Progress == len(room.Questions),
		})
	}
	return statuses
}

// Reveal computes the leaderboard for one question. Host-gated and
// freely repeatable: re-revealing just recomputes from the same votes.
func (u *Usecase) Reveal(ctx context.Context, code, actorID string, questionIndex int) (RevealOutcome, error) {
	room, ok := u.registry.Get(code)
	if !ok {
		return RevealOutcome{}, ErrRoomUnavailable
	}

	room.Lock()
	defer room.Unlock()

	if !room.IsHost(actorID) {
		return RevealOutcome{}, ErrNotHost
	}
	if questionIndex < 0 || questionIndex >= len(room.Answers) {
		return RevealOutcome{}, ErrBadQuestionIndex
	}

	outcome := usecase_scoring.Tally(room.Roster(), room.Answers[questionIndex])
	u.registry.Touch(code)

	u.logger.Info("results revealed", "room", code, "question", questionIndex)
	return RevealOutcome{
		Code:          code,
		QuestionIndex: questionIndex,
		Results:       outcome.Results,
		Comments:      outcome.Comments,
	}, nil
}

// Status reports the lifecycle state of a room.
func (u *Usecase) Status(ctx context.Context, code string) (model.State, error) {
	room, ok := u.registry.Get(code)
	if !ok {
		return "", ErrRoomUnavailable
	}

	room.Lock()
	defer room.Unlock()

	return room.State, nil
}

// Disconnect is deliberately a no-op on room state: the player stays on
// the roster and keeps their score weight, matching the source behavior.
// A room waiting on a dropped player stalls until the TTL sweep takes it.
func (u *Usecase) Disconnect(ctx context.Context, actorID string) {
	u.logger.Info("player disconnected", "player", actorID)
}
