package scoring

import (
	"sort"

	"github.com/strikezone/league-system/models"
)

// QualificationScore is a player's qualification total with the handicap
// applied per required game. The handicap scales with the game count the
// tournament demands, not with how many games the player actually bowled.
func QualificationScore(result *models.ParticipationResult, gameCount int) int64 {
	var total int64
	for _, score := range result.QualificationScores {
		total += score
	}
	if result.Handicap != nil {
		total += int64(*result.Handicap) * int64(gameCount)
	}
	return total
}

// FinalsScore is the raw two-game finals total. No handicap in the finals,
// per league rule.
func FinalsScore(result *models.ParticipationResult) int64 {
	var total int64
	for _, score := range result.FinalsScores {
		total += score
	}
	return total
}

// ResolvePlacements orders a completed tournament's results and assigns
// 1-based final positions. Called exactly once per tournament, when it
// transitions to completed; the caller owns that idempotency guard.
//
// If any result carries finals scores the tournament used a cut format:
// finalists are ranked first among themselves by finals total, everyone
// else follows ranked by qualification total. A finalist always places
// ahead of a non-finalist regardless of raw scores. Without finals the
// whole field is ranked by qualification total. Ties keep fetch order.
//
// An empty result set returns an empty slice; completing a tournament
// nobody bowled in is a no-op, not an error.
func ResolvePlacements(results []models.ParticipationResult, gameCount int) []models.ParticipationResult {
	if len(results) == 0 {
		return []models.ParticipationResult{}
	}

	ordered := make([]models.ParticipationResult, len(results))
	copy(ordered, results)

	hasFinals := false
	for i := range ordered {
		if ordered[i].IsFinalist() {
			hasFinals = true
			break
		}
	}

	if hasFinals {
		finalists := make([]models.ParticipationResult, 0, len(ordered))
		others := make([]models.ParticipationResult, 0, len(ordered))
		for _, result := range ordered {
			if result.IsFinalist() {
				finalists = append(finalists, result)
			} else {
				others = append(others, result)
			}
		}
		sort.SliceStable(finalists, func(i, j int) bool {
			return FinalsScore(&finalists[i]) > FinalsScore(&finalists[j])
		})
		sort.SliceStable(others, func(i, j int) bool {
			return QualificationScore(&others[i], gameCount) > QualificationScore(&others[j], gameCount)
		})
		ordered = append(finalists, others...)
	} else {
		sort.SliceStable(ordered, func(i, j int) bool {
			return QualificationScore(&ordered[i], gameCount) > QualificationScore(&ordered[j], gameCount)
		})
	}

	for i := range ordered {
		position := i + 1
		ordered[i].FinalPosition = &position
	}
	return ordered
}
