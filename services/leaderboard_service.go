package services

import (
	"context"
	"fmt"

	"github.com/strikezone/league-system/models"
	"github.com/strikezone/league-system/repositories"
	"github.com/strikezone/league-system/scoring"
	"github.com/strikezone/league-system/storage"
	"golang.org/x/sync/errgroup"
)

// LeaderboardService строит сезонную таблицу лидеров по уже начисленным
// рейтинговым очкам завершённых турниров.
type LeaderboardService struct {
	seasonRepo repositories.SeasonRepository
	resultRepo repositories.ResultRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewLeaderboardService(
	seasonRepo repositories.SeasonRepository,
	resultRepo repositories.ResultRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
) *LeaderboardService {
	return &LeaderboardService{
		seasonRepo: seasonRepo,
		resultRepo: resultRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
	}
}

// BuildLeaderboard агрегирует очки сезона в ранжированный список игроков.
// Сезон без завершённых турниров даёт пустую таблицу, а не ошибку.
func (s *LeaderboardService) BuildLeaderboard(ctx context.Context, seasonID int) (*models.LeaderboardResponse, error) {
	var (
		season  *models.Season
		results []models.ParticipationResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		season, err = s.seasonRepo.GetByID(gctx, seasonID)
		return mapRepoError(err)
	})
	g.Go(func() error {
		var err error
		results, err = s.resultRepo.ListScoredBySeason(gctx, seasonID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	standings := scoring.BuildStandings(results)

	playerIDs := make([]int, 0, len(standings))
	for i := range standings {
		playerIDs = append(playerIDs, standings[i].PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(standings))
	for _, standing := range standings {
		player, ok := players[standing.PlayerID]
		if !ok {
			return nil, fmt.Errorf("player %d referenced by results but not found", standing.PlayerID)
		}
		populatePlayerAvatarURLFunc(&player, s.uploader)
		entries = append(entries, models.LeaderboardEntry{
			Player:            player,
			TotalPoints:       standing.TotalPoints,
			TournamentsPlayed: standing.TournamentsPlayed,
			AveragePoints:     standing.AveragePoints,
			AverageGameScore:  standing.AverageGameScore,
			Rank:              standing.Rank,
		})
	}

	return &models.LeaderboardResponse{
		Season:       *season,
		Entries:      entries,
		TotalPlayers: len(entries),
	}, nil
}
