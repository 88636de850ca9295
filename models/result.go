package models

import "time"

// ParticipationResult is one player's record in one tournament. Handicap is
// written once at admission and never recomputed; FinalPosition and
// RatingPoints are written together, once, when the tournament completes.
type ParticipationResult struct {
	ID           int `json:"id" db:"id"`
	TournamentID int `json:"tournament_id" db:"tournament_id"`
	PlayerID     int `json:"player_id" db:"player_id"`

	Handicap *int `json:"handicap,omitempty" db:"handicap"`

	// Qualification game scores in played order. A zero entry means the game
	// was not played. Length never exceeds the game count for the field size
	// at admission time.
	QualificationScores []int64 `json:"qualification_scores" db:"qualification_scores"`

	// Finals scores: empty for non-finalists, exactly two games otherwise.
	FinalsScores []int64 `json:"finals_scores" db:"finals_scores"`

	FinalPosition *int `json:"final_position,omitempty" db:"final_position"`
	RatingPoints  *int `json:"rating_points,omitempty" db:"rating_points"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Player     *Player     `json:"player,omitempty" db:"-"`
	Tournament *Tournament `json:"-" db:"-"`
}

// IsFinalist reports whether the player reached the finals round.
func (r *ParticipationResult) IsFinalist() bool {
	return len(r.FinalsScores) > 0
}
