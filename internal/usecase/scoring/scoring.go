package usecase_scoring

import (
	"sort"
	"strings"

	"github.com/akhirox/chbk/core/internal/model"
)

// Standing is one row of a question leaderboard.
type Standing struct {
	ID     string
	Pseudo string
	Score  int
}

// Outcome bundles the leaderboard for one question with the anonymized
// comments collected from its votes.
type Outcome struct {
	Results  []Standing
	Comments []string
}

// Tally computes the Borda-count leaderboard for one question. Each vote
// awards n-i points to the participant at position i of its ranking
// (n = ranking length); ids that are not in the roster are skipped, and
// participants who never got ranked stay at 0. Results are sorted by
// score descending; the sort is stable, so ties keep roster order.
// Comments are collected without their authors; blank ones are dropped.
//
// The function is pure: rerunning it on the same inputs yields the same
// leaderboard. Comment order follows map iteration and is unordered.
func Tally(players []model.Participant, votes map[string]model.Vote) Outcome {
	scores := make(map[string]int, len(players))
	for _, p := range players {
		scores[p.ID] = 0
	}

	comments := make([]string, 0, len(votes))
	for _, vote := range votes {
		if comment := strings.TrimSpace(vote.Comment); comment != "" {
			comments = append(comments, comment)
		}

		n := len(vote.Ranking)
		for i, rankedID := range vote.Ranking {
			if _, known := scores[rankedID]; known {
				scores[rankedID] += n - i
			}
		}
	}

	results := make([]Standing, 0, len(players))
	for _, p := range players {
		results = append(results, Standing{
			ID:     p.ID,
			Pseudo: p.Pseudo,
			Score:  scores[p.ID],
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return Outcome{Results: results, Comments: comments}
}
