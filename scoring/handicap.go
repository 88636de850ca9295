package scoring

import (
	"context"
	"math"

	"github.com/strikezone/league-system/models"
)

const (
	// Scratch average the handicap is measured against.
	handicapBase = 180
	// Handicap is bounded to ±15 pins per game.
	handicapLimit = 15
	// Only the two most recent completed tournaments count towards form.
	handicapHistorySize = 2
	// At most the first six qualification games of each tournament count.
	handicapGamesPerTournament = 6
)

// ResultHistory is the port the handicap calculator needs from persistence:
// a player's ParticipationResults in completed tournaments of a season,
// most recent tournament first.
type ResultHistory interface {
	RecentCompletedResults(ctx context.Context, playerID, seasonID, limit int) ([]models.ParticipationResult, error)
}

// HandicapCalculator computes admission-time handicaps from recent form.
type HandicapCalculator struct {
	history ResultHistory
}

func NewHandicapCalculator(history ResultHistory) *HandicapCalculator {
	return &HandicapCalculator{history: history}
}

// ComputeHandicap returns the player's handicap for a season, or nil when
// the player has no handicap (fewer than two completed tournaments, or no
// played games in them). The value is computed once, at admission, and
// callers must not recompute it after scores are entered.
func (c *HandicapCalculator) ComputeHandicap(ctx context.Context, playerID, seasonID int) (*int, error) {
	results, err := c.history.RecentCompletedResults(ctx, playerID, seasonID, handicapHistorySize)
	if err != nil {
		return nil, err
	}
	if len(results) < handicapHistorySize {
		return nil, nil
	}

	var totalScore, gamesPlayed int64
	for _, result := range results[:handicapHistorySize] {
		scores := result.QualificationScores
		if len(scores) > handicapGamesPerTournament {
			scores = scores[:handicapGamesPerTournament]
		}
		for _, score := range scores {
			if score <= 0 { // zero means the game was not played
				continue
			}
			totalScore += score
			gamesPlayed++
		}
	}
	if gamesPlayed == 0 {
		return nil, nil
	}

	average := float64(totalScore) / float64(gamesPlayed)
	raw := roundHalfAwayFromZero((handicapBase - average) / 2)
	handicap := clampHandicap(raw)
	return &handicap, nil
}

func roundHalfAwayFromZero(v float64) int {
	return int(math.Round(v))
}

func clampHandicap(v int) int {
	if v > handicapLimit {
		return handicapLimit
	}
	if v < -handicapLimit {
		return -handicapLimit
	}
	return v
}
