package models

// LeaderboardEntry is a derived, per-season aggregate for one player.
// Never persisted; built on demand from completed tournament results.
type LeaderboardEntry struct {
	Player            Player  `json:"player"`
	TotalPoints       int     `json:"total_points"`
	TournamentsPlayed int     `json:"tournaments_played"`
	AveragePoints     float64 `json:"average_points"`
	AverageGameScore  float64 `json:"average_game_score"`
	Rank              int     `json:"rank"`
}

type LeaderboardResponse struct {
	Season       Season             `json:"season"`
	Entries      []LeaderboardEntry `json:"entries"`
	TotalPlayers int                `json:"total_players"`
}
