package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strikezone/league-system/models"
)

func strPtr(s string) *string { return &s }

func newTestSeason(t *testing.T, seasons *fakeSeasonRepo, pointsJSON string) *models.Season {
	t.Helper()
	season := &models.Season{
		Name:      "2026 Spring",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	if pointsJSON != "" {
		season.PointsJSON = strPtr(pointsJSON)
	}
	require.NoError(t, seasons.Create(context.Background(), season))
	return season
}

func newTestTournamentService(tournaments *fakeTournamentRepo, seasons *fakeSeasonRepo, results *fakeResultRepo, players *fakePlayerRepo) *TournamentService {
	return NewTournamentService(nil, tournaments, seasons, results, players, nil, nil, nil)
}

func TestCreateTournament(t *testing.T) {
	ctx := context.Background()
	tournaments := newFakeTournamentRepo()
	seasons := newFakeSeasonRepo()
	season := newTestSeason(t, seasons, "")
	svc := newTestTournamentService(tournaments, seasons, newFakeResultRepo(), newFakePlayerRepo())

	t.Run("requires a name", func(t *testing.T) {
		_, err := svc.CreateTournament(ctx, TournamentInput{
			SeasonID: season.ID,
			Name:     "   ",
			Date:     season.StartDate.AddDate(0, 1, 0),
		})
		assert.ErrorIs(t, err, ErrTournamentNameRequired)
	})

	t.Run("rejects a date outside the season", func(t *testing.T) {
		_, err := svc.CreateTournament(ctx, TournamentInput{
			SeasonID: season.ID,
			Name:     "Week 1",
			Date:     season.EndDate.AddDate(0, 0, 1),
		})
		assert.ErrorIs(t, err, ErrTournamentInvalidDate)
	})

	t.Run("rejects an unknown season", func(t *testing.T) {
		_, err := svc.CreateTournament(ctx, TournamentInput{
			SeasonID: 999,
			Name:     "Week 1",
			Date:     season.StartDate,
		})
		assert.ErrorIs(t, err, ErrSeasonNotFound)
	})

	t.Run("creates an upcoming tournament", func(t *testing.T) {
		tournament, err := svc.CreateTournament(ctx, TournamentInput{
			SeasonID: season.ID,
			Name:     "  Week 1  ",
			Date:     season.StartDate.AddDate(0, 1, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, "Week 1", tournament.Name)
		assert.Equal(t, models.StatusUpcoming, tournament.Status)
		assert.Equal(t, 6, tournament.GameCount)
	})
}

func TestGetTournamentByIDComputesParticipantCount(t *testing.T) {
	ctx := context.Background()
	tournaments := newFakeTournamentRepo()
	seasons := newFakeSeasonRepo()
	results := newFakeResultRepo()
	season := newTestSeason(t, seasons, "")
	svc := newTestTournamentService(tournaments, seasons, results, newFakePlayerRepo())

	tournament := &models.Tournament{SeasonID: season.ID, Name: "Week 1", Date: season.StartDate, Status: models.StatusOngoing}
	require.NoError(t, tournaments.Create(ctx, tournament))

	for playerID := 1; playerID <= 9; playerID++ {
		require.NoError(t, results.Create(ctx, &models.ParticipationResult{
			TournamentID: tournament.ID,
			PlayerID:     playerID,
		}))
	}

	got, err := svc.GetTournamentByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.ParticipantCount)
	// Поле из 9 участников играет 7 квалификационных игр.
	assert.Equal(t, 7, got.GameCount)
}

func TestUpdateTournamentStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, status models.TournamentStatus) (*TournamentService, *models.Tournament) {
		tournaments := newFakeTournamentRepo()
		seasons := newFakeSeasonRepo()
		season := newTestSeason(t, seasons, "")
		svc := newTestTournamentService(tournaments, seasons, newFakeResultRepo(), newFakePlayerRepo())

		tournament := &models.Tournament{SeasonID: season.ID, Name: "Week 1", Date: season.StartDate, Status: status}
		require.NoError(t, tournaments.Create(ctx, tournament))
		return svc, tournament
	}

	t.Run("upcoming moves to ongoing", func(t *testing.T) {
		svc, tournament := setup(t, models.StatusUpcoming)
		got, err := svc.UpdateTournamentStatus(ctx, tournament.ID, models.StatusOngoing)
		require.NoError(t, err)
		assert.Equal(t, models.StatusOngoing, got.Status)
	})

	t.Run("ongoing cannot go back to upcoming", func(t *testing.T) {
		svc, tournament := setup(t, models.StatusOngoing)
		_, err := svc.UpdateTournamentStatus(ctx, tournament.ID, models.StatusUpcoming)
		assert.ErrorIs(t, err, ErrTournamentInvalidStatusTransition)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc, tournament := setup(t, models.StatusUpcoming)
		_, err := svc.UpdateTournamentStatus(ctx, tournament.ID, models.TournamentStatus("archived"))
		assert.ErrorIs(t, err, ErrTournamentInvalidStatus)
	})
}

func TestCompletePlacements(t *testing.T) {
	ctx := context.Background()
	tournaments := newFakeTournamentRepo()
	seasons := newFakeSeasonRepo()
	results := newFakeResultRepo()
	season := newTestSeason(t, seasons, `{"1":100,"2":80,"3":60}`)
	svc := newTestTournamentService(tournaments, seasons, results, newFakePlayerRepo())

	tournament := &models.Tournament{SeasonID: season.ID, Name: "Finals Night", Date: season.StartDate, Status: models.StatusOngoing}
	require.NoError(t, tournaments.Create(ctx, tournament))

	// Игрок 2 проходит в финал с меньшей квалификацией и всё равно
	// занимает первое место: финалисты всегда выше нефиналистов.
	require.NoError(t, results.Create(ctx, &models.ParticipationResult{
		TournamentID:        tournament.ID,
		PlayerID:            1,
		QualificationScores: []int64{200, 180, 190, 170, 160, 150},
	}))
	require.NoError(t, results.Create(ctx, &models.ParticipationResult{
		TournamentID:        tournament.ID,
		PlayerID:            2,
		QualificationScores: []int64{150, 140, 130, 120, 110, 100},
		FinalsScores:        []int64{180, 190},
	}))
	require.NoError(t, results.Create(ctx, &models.ParticipationResult{
		TournamentID:        tournament.ID,
		PlayerID:            3,
		QualificationScores: []int64{100, 100, 100, 100, 100, 100},
	}))

	require.NoError(t, svc.completePlacements(ctx, nil, tournament.ID))

	stored, err := tournaments.GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)

	byPlayer := make(map[int]models.ParticipationResult)
	list, err := results.ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	for _, res := range list {
		byPlayer[res.PlayerID] = res
	}

	require.NotNil(t, byPlayer[2].FinalPosition)
	assert.Equal(t, 1, *byPlayer[2].FinalPosition)
	assert.Equal(t, 100, *byPlayer[2].RatingPoints)

	assert.Equal(t, 2, *byPlayer[1].FinalPosition)
	assert.Equal(t, 80, *byPlayer[1].RatingPoints)

	assert.Equal(t, 3, *byPlayer[3].FinalPosition)
	assert.Equal(t, 60, *byPlayer[3].RatingPoints)
}

func TestCompletePlacementsRunsOnce(t *testing.T) {
	ctx := context.Background()
	tournaments := newFakeTournamentRepo()
	seasons := newFakeSeasonRepo()
	results := newFakeResultRepo()
	season := newTestSeason(t, seasons, `{"1":100}`)
	svc := newTestTournamentService(tournaments, seasons, results, newFakePlayerRepo())

	tournament := &models.Tournament{SeasonID: season.ID, Name: "Week 3", Date: season.StartDate, Status: models.StatusOngoing}
	require.NoError(t, tournaments.Create(ctx, tournament))
	require.NoError(t, results.Create(ctx, &models.ParticipationResult{
		TournamentID:        tournament.ID,
		PlayerID:            1,
		QualificationScores: []int64{200},
	}))

	require.NoError(t, svc.completePlacements(ctx, nil, tournament.ID))

	// Повторное завершение отсекается условным обновлением статуса.
	err := svc.completePlacements(ctx, nil, tournament.ID)
	assert.ErrorIs(t, err, ErrTournamentInvalidStatusTransition)
}

func TestCompletePlacementsRequiresOngoing(t *testing.T) {
	ctx := context.Background()
	tournaments := newFakeTournamentRepo()
	seasons := newFakeSeasonRepo()
	season := newTestSeason(t, seasons, "")
	svc := newTestTournamentService(tournaments, seasons, newFakeResultRepo(), newFakePlayerRepo())

	tournament := &models.Tournament{SeasonID: season.ID, Name: "Week 4", Date: season.StartDate, Status: models.StatusUpcoming}
	require.NoError(t, tournaments.Create(ctx, tournament))

	err := svc.completePlacements(ctx, nil, tournament.ID)
	assert.ErrorIs(t, err, ErrTournamentInvalidStatusTransition)
}

func TestCompletePlacementsEmptyTournament(t *testing.T) {
	ctx := context.Background()
	tournaments := newFakeTournamentRepo()
	seasons := newFakeSeasonRepo()
	season := newTestSeason(t, seasons, "")
	svc := newTestTournamentService(tournaments, seasons, newFakeResultRepo(), newFakePlayerRepo())

	tournament := &models.Tournament{SeasonID: season.ID, Name: "Empty", Date: season.StartDate, Status: models.StatusOngoing}
	require.NoError(t, tournaments.Create(ctx, tournament))

	require.NoError(t, svc.completePlacements(ctx, nil, tournament.ID))

	stored, err := tournaments.GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestAutoUpdateTournamentStatusesByDates(t *testing.T) {
	ctx := context.Background()
	tournaments := newFakeTournamentRepo()
	seasons := newFakeSeasonRepo()
	season := newTestSeason(t, seasons, "")
	svc := newTestTournamentService(tournaments, seasons, newFakeResultRepo(), newFakePlayerRepo())

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)

	due := &models.Tournament{SeasonID: season.ID, Name: "Started", Date: past, Status: models.StatusUpcoming}
	notDue := &models.Tournament{SeasonID: season.ID, Name: "Later", Date: future, Status: models.StatusUpcoming}
	running := &models.Tournament{SeasonID: season.ID, Name: "Running", Date: past, Status: models.StatusOngoing}
	require.NoError(t, tournaments.Create(ctx, due))
	require.NoError(t, tournaments.Create(ctx, notDue))
	require.NoError(t, tournaments.Create(ctx, running))

	require.NoError(t, svc.AutoUpdateTournamentStatusesByDates(ctx))

	got, _ := tournaments.GetByID(ctx, due.ID)
	assert.Equal(t, models.StatusOngoing, got.Status)

	got, _ = tournaments.GetByID(ctx, notDue.ID)
	assert.Equal(t, models.StatusUpcoming, got.Status)

	// Завершение по дате не выполняется: ongoing остаётся ongoing.
	got, _ = tournaments.GetByID(ctx, running.ID)
	assert.Equal(t, models.StatusOngoing, got.Status)
}
