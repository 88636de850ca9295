package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "upcoming"
	StatusOngoing   TournamentStatus = "ongoing"
	StatusCompleted TournamentStatus = "completed"
)

// Tournament представляет один турнир сезона.
type Tournament struct {
	ID        int              `json:"id" db:"id"`
	SeasonID  int              `json:"season_id" db:"season_id"`
	Name      string           `json:"name" db:"name"`
	Date      time.Time        `json:"date" db:"date"`
	Status    TournamentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	// Derived on read from the result set, never stored.
	ParticipantCount int `json:"participant_count" db:"-"`
	// Required qualification games for the current field size.
	GameCount int `json:"game_count,omitempty" db:"-"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Season  *Season               `json:"season,omitempty" db:"-"`
	Results []ParticipationResult `json:"results,omitempty" db:"-"`
}
