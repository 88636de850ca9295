package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Season представляет сезон лиги.
type Season struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Raw JSON string from DB, e.g. {"1":100,"2":80,"3":60}
	PointsJSON *string `json:"-" db:"points_json"`

	// Parsed distribution, not stored in DB, populated by service if needed
	PointsDistribution map[int]int `json:"points_distribution,omitempty" db:"-"`
}

// ParsePointsDistribution decodes the raw points_json column into a
// placement -> points mapping. Placements absent from the table are worth
// zero points; that is handled by the consumer, not here.
func (s *Season) ParsePointsDistribution() (map[int]int, error) {
	if s.PointsJSON == nil || *s.PointsJSON == "" {
		return map[int]int{}, nil
	}
	var raw map[string]int
	if err := json.Unmarshal([]byte(*s.PointsJSON), &raw); err != nil {
		return nil, fmt.Errorf("invalid points distribution json: %w", err)
	}
	dist := make(map[int]int, len(raw))
	for key, points := range raw {
		placement, err := strconv.Atoi(key)
		if err != nil || placement < 1 {
			return nil, fmt.Errorf("invalid placement key %q in points distribution", key)
		}
		if points < 0 {
			return nil, fmt.Errorf("negative points for placement %d", placement)
		}
		dist[placement] = points
	}
	return dist, nil
}
