// Package scoring holds the tournament scoring and rating engine: the
// qualification game-count policy, handicap calculation, placement
// resolution and season rating aggregation. It is persistence-agnostic and
// depends only on narrow ports supplied by the repository layer.
package scoring

// GameCount returns the number of qualification games a tournament uses for
// the given field size. League rule, fixed thresholds:
//
//	up to 8 players  -> 6 games
//	9 to 12 players  -> 7 games
//	13 and more      -> 8 games
func GameCount(participantCount int) int {
	switch {
	case participantCount <= 8:
		return 6
	case participantCount <= 12:
		return 7
	default:
		return 8
	}
}
