package scoring

import (
	"sort"

	"github.com/strikezone/league-system/models"
)

// AssignRatingPoints sets RatingPoints on every positioned result from the
// season's points distribution. Placements the table does not mention are
// worth zero points, never an error, so every completed result ends up with
// a defined, non-negative value.
func AssignRatingPoints(ordered []models.ParticipationResult, distribution map[int]int) {
	for i := range ordered {
		points := 0
		if ordered[i].FinalPosition != nil {
			points = distribution[*ordered[i].FinalPosition]
		}
		ordered[i].RatingPoints = &points
	}
}

// Standing is one player's aggregate over a season's scored results.
type Standing struct {
	PlayerID          int
	TotalPoints       int
	TournamentsPlayed int
	AveragePoints     float64
	AverageGameScore  float64
	Rank              int
}

// BuildStandings aggregates scored results (completed tournaments, rating
// points assigned) into a season ranking. Players are ordered by total
// points descending and ranked 1..n by that order; equal totals get
// consecutive ranks in encounter order, not shared ones. Average game score
// counts only games actually bowled (non-zero qualification entries).
func BuildStandings(results []models.ParticipationResult) []Standing {
	byPlayer := make(map[int]*Standing)
	order := make([]int, 0)

	for i := range results {
		result := &results[i]
		if result.RatingPoints == nil {
			continue
		}
		standing, ok := byPlayer[result.PlayerID]
		if !ok {
			standing = &Standing{PlayerID: result.PlayerID}
			byPlayer[result.PlayerID] = standing
			order = append(order, result.PlayerID)
		}
		standing.TotalPoints += *result.RatingPoints
		standing.TournamentsPlayed++
	}

	// Second pass for game averages, so partially scored results do not
	// skew the played-game count of skipped players.
	gameTotals := make(map[int]int64)
	gameCounts := make(map[int]int)
	for i := range results {
		result := &results[i]
		if result.RatingPoints == nil {
			continue
		}
		for _, score := range result.QualificationScores {
			if score <= 0 {
				continue
			}
			gameTotals[result.PlayerID] += score
			gameCounts[result.PlayerID]++
		}
	}

	standings := make([]Standing, 0, len(order))
	for _, playerID := range order {
		standing := byPlayer[playerID]
		standing.AveragePoints = float64(standing.TotalPoints) / float64(standing.TournamentsPlayed)
		if gameCounts[playerID] > 0 {
			standing.AverageGameScore = float64(gameTotals[playerID]) / float64(gameCounts[playerID])
		}
		standings = append(standings, *standing)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].TotalPoints > standings[j].TotalPoints
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
