package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/strikezone/league-system/models"
	"github.com/strikezone/league-system/repositories"
)

type SeasonInput struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	// Placement -> points, e.g. {"1": 100, "2": 80}. Optional; an absent
	// table means every placement is worth zero points.
	PointsDistribution map[int]int `json:"points_distribution"`
}

type SeasonService struct {
	repo repositories.SeasonRepository
}

func NewSeasonService(repo repositories.SeasonRepository) *SeasonService {
	return &SeasonService{repo: repo}
}

func (s *SeasonService) CreateSeason(ctx context.Context, input SeasonInput) (*models.Season, error) {
	season, err := seasonFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, season); err != nil {
		return nil, mapRepoError(err)
	}
	season.PointsDistribution, _ = season.ParsePointsDistribution()
	return season, nil
}

func (s *SeasonService) GetSeasonByID(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	dist, err := season.ParsePointsDistribution()
	if err != nil {
		return nil, fmt.Errorf("season %d: %w", id, err)
	}
	season.PointsDistribution = dist
	return season, nil
}

func (s *SeasonService) ListSeasons(ctx context.Context, limit, offset int) ([]models.Season, error) {
	seasons, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range seasons {
		seasons[i].PointsDistribution, _ = seasons[i].ParsePointsDistribution()
	}
	return seasons, nil
}

// UpdateSeason is the explicit admin path for changing a season, including
// its points distribution.
func (s *SeasonService) UpdateSeason(ctx context.Context, id int, input SeasonInput) (*models.Season, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, mapRepoError(err)
	}

	season, err := seasonFromInput(input)
	if err != nil {
		return nil, err
	}
	season.ID = id

	if err := s.repo.Update(ctx, season); err != nil {
		return nil, mapRepoError(err)
	}
	return s.GetSeasonByID(ctx, id)
}

func (s *SeasonService) DeleteSeason(ctx context.Context, id int) error {
	return mapRepoError(s.repo.Delete(ctx, id))
}

func seasonFromInput(input SeasonInput) (*models.Season, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrSeasonNameRequired
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() || !input.StartDate.Before(input.EndDate) {
		return nil, ErrSeasonInvalidDateRange
	}

	season := &models.Season{
		Name:      input.Name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}

	if len(input.PointsDistribution) > 0 {
		raw := make(map[string]int, len(input.PointsDistribution))
		for placement, points := range input.PointsDistribution {
			if placement < 1 || points < 0 {
				return nil, ErrInvalidPointsTable
			}
			raw[fmt.Sprintf("%d", placement)] = points
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to encode points distribution: %w", err)
		}
		pointsJSON := string(encoded)
		season.PointsJSON = &pointsJSON
	}

	return season, nil
}
