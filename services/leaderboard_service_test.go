package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strikezone/league-system/models"
)

func intPtr(v int) *int { return &v }

func scoredResult(tournamentID, playerID, points int, scores ...int64) *models.ParticipationResult {
	return &models.ParticipationResult{
		TournamentID:        tournamentID,
		PlayerID:            playerID,
		QualificationScores: scores,
		FinalsScores:        []int64{},
		RatingPoints:        intPtr(points),
	}
}

func TestBuildLeaderboard(t *testing.T) {
	ctx := context.Background()
	seasons := newFakeSeasonRepo()
	results := newFakeResultRepo()
	players := newFakePlayerRepo(
		models.Player{ID: 1, FirstName: "Anna", LastName: "Larsen", Active: true},
		models.Player{ID: 2, FirstName: "Jonas", LastName: "Vik", Active: true},
	)
	season := newTestSeason(t, seasons, `{"1":100,"2":80}`)
	svc := NewLeaderboardService(seasons, results, players, nil)

	// Два завершённых турнира: Anna берёт 100+80, Jonas 80.
	require.NoError(t, results.Create(ctx, scoredResult(1, 1, 100, 200, 210)))
	require.NoError(t, results.Create(ctx, scoredResult(1, 2, 80, 180, 170)))
	require.NoError(t, results.Create(ctx, scoredResult(2, 1, 80, 190, 0)))

	leaderboard, err := svc.BuildLeaderboard(ctx, season.ID)
	require.NoError(t, err)

	assert.Equal(t, season.ID, leaderboard.Season.ID)
	assert.Equal(t, 2, leaderboard.TotalPlayers)
	require.Len(t, leaderboard.Entries, 2)

	first := leaderboard.Entries[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, 1, first.Player.ID)
	assert.Equal(t, 180, first.TotalPoints)
	assert.Equal(t, 2, first.TournamentsPlayed)
	assert.InDelta(t, 90.0, first.AveragePoints, 0.001)
	// Нулевой счёт — несыгранная игра, в среднее не входит.
	assert.InDelta(t, 200.0, first.AverageGameScore, 0.001)

	second := leaderboard.Entries[1]
	assert.Equal(t, 2, second.Rank)
	assert.Equal(t, 2, second.Player.ID)
	assert.Equal(t, 80, second.TotalPoints)
}

func TestBuildLeaderboardEmptySeason(t *testing.T) {
	ctx := context.Background()
	seasons := newFakeSeasonRepo()
	season := newTestSeason(t, seasons, "")
	svc := NewLeaderboardService(seasons, newFakeResultRepo(), newFakePlayerRepo(), nil)

	leaderboard, err := svc.BuildLeaderboard(ctx, season.ID)
	require.NoError(t, err)
	assert.Empty(t, leaderboard.Entries)
	assert.Zero(t, leaderboard.TotalPlayers)
}

func TestBuildLeaderboardUnknownSeason(t *testing.T) {
	svc := NewLeaderboardService(newFakeSeasonRepo(), newFakeResultRepo(), newFakePlayerRepo(), nil)
	_, err := svc.BuildLeaderboard(context.Background(), 404)
	assert.ErrorIs(t, err, ErrSeasonNotFound)
}
