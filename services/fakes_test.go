package services

import (
	"context"
	"sort"
	"time"

	"github.com/strikezone/league-system/models"
	"github.com/strikezone/league-system/repositories"
)

// In-memory репозитории для тестов сервисного слоя.

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	nextID      int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament), nextID: 1}
}

func (f *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	t.ID = f.nextID
	f.nextID++
	t.CreatedAt = time.Now()
	copied := *t
	f.tournaments[t.ID] = &copied
	return nil
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTournamentRepo) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	var out []models.Tournament
	for _, t := range f.tournaments {
		if filter.SeasonID != nil && t.SeasonID != *filter.SeasonID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	if _, ok := f.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	copied := *t
	f.tournaments[t.ID] = &copied
	return nil
}

func (f *fakeTournamentRepo) UpdateStatusIf(_ context.Context, _ repositories.SQLExecutor, id int, expected, next models.TournamentStatus) error {
	t, ok := f.tournaments[id]
	if !ok || t.Status != expected {
		return repositories.ErrTournamentStatusConflict
	}
	t.Status = next
	return nil
}

func (f *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(f.tournaments, id)
	return nil
}

func (f *fakeTournamentRepo) ListDueForStatusUpdate(_ context.Context, now time.Time) ([]models.Tournament, error) {
	var out []models.Tournament
	for _, t := range f.tournaments {
		if t.Status != models.StatusCompleted && !t.Date.After(now) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeSeasonRepo struct {
	seasons map[int]*models.Season
}

func newFakeSeasonRepo() *fakeSeasonRepo {
	return &fakeSeasonRepo{seasons: make(map[int]*models.Season)}
}

func (f *fakeSeasonRepo) Create(_ context.Context, s *models.Season) error {
	s.ID = len(f.seasons) + 1
	copied := *s
	f.seasons[s.ID] = &copied
	return nil
}

func (f *fakeSeasonRepo) GetByID(_ context.Context, id int) (*models.Season, error) {
	s, ok := f.seasons[id]
	if !ok {
		return nil, repositories.ErrSeasonNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSeasonRepo) List(_ context.Context, _, _ int) ([]models.Season, error) {
	var out []models.Season
	for _, s := range f.seasons {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSeasonRepo) Update(_ context.Context, s *models.Season) error {
	if _, ok := f.seasons[s.ID]; !ok {
		return repositories.ErrSeasonNotFound
	}
	copied := *s
	f.seasons[s.ID] = &copied
	return nil
}

func (f *fakeSeasonRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.seasons[id]; !ok {
		return repositories.ErrSeasonNotFound
	}
	delete(f.seasons, id)
	return nil
}

type fakeResultRepo struct {
	results []*models.ParticipationResult
	nextID  int

	// history подменяет RecentCompletedResults: ключ — playerID.
	history map[int][]models.ParticipationResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{nextID: 1, history: make(map[int][]models.ParticipationResult)}
}

func (f *fakeResultRepo) Create(_ context.Context, res *models.ParticipationResult) error {
	for _, existing := range f.results {
		if existing.TournamentID == res.TournamentID && existing.PlayerID == res.PlayerID {
			return repositories.ErrResultConflict
		}
	}
	res.ID = f.nextID
	f.nextID++
	res.CreatedAt = time.Now()
	copied := *res
	f.results = append(f.results, &copied)
	return nil
}

func (f *fakeResultRepo) GetByTournamentAndPlayer(_ context.Context, tournamentID, playerID int) (*models.ParticipationResult, error) {
	for _, res := range f.results {
		if res.TournamentID == tournamentID && res.PlayerID == playerID {
			copied := *res
			return &copied, nil
		}
	}
	return nil, repositories.ErrResultNotFound
}

func (f *fakeResultRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.ParticipationResult, error) {
	var out []models.ParticipationResult
	for _, res := range f.results {
		if res.TournamentID == tournamentID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) CountByTournament(_ context.Context, tournamentID int) (int, error) {
	count := 0
	for _, res := range f.results {
		if res.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeResultRepo) UpdateScores(_ context.Context, res *models.ParticipationResult) error {
	for _, existing := range f.results {
		if existing.ID == res.ID {
			existing.QualificationScores = res.QualificationScores
			existing.FinalsScores = res.FinalsScores
			return nil
		}
	}
	return repositories.ErrResultNotFound
}

func (f *fakeResultRepo) UpdatePlacement(_ context.Context, _ repositories.SQLExecutor, resultID, finalPosition, ratingPoints int) error {
	for _, existing := range f.results {
		if existing.ID == resultID {
			pos, pts := finalPosition, ratingPoints
			existing.FinalPosition = &pos
			existing.RatingPoints = &pts
			return nil
		}
	}
	return repositories.ErrResultNotFound
}

func (f *fakeResultRepo) ListScoredBySeason(_ context.Context, _ int) ([]models.ParticipationResult, error) {
	var out []models.ParticipationResult
	for _, res := range f.results {
		if res.RatingPoints != nil {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) RecentCompletedResults(_ context.Context, playerID, _ int, limit int) ([]models.ParticipationResult, error) {
	history := f.history[playerID]
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

type fakePlayerRepo struct {
	players map[int]models.Player
}

func newFakePlayerRepo(players ...models.Player) *fakePlayerRepo {
	repo := &fakePlayerRepo{players: make(map[int]models.Player)}
	for _, p := range players {
		repo.players[p.ID] = p
	}
	return repo
}

func (f *fakePlayerRepo) Create(_ context.Context, p *models.Player) error {
	p.ID = len(f.players) + 1
	f.players[p.ID] = *p
	return nil
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (f *fakePlayerRepo) GetByIDs(_ context.Context, ids []int) (map[int]models.Player, error) {
	out := make(map[int]models.Player, len(ids))
	for _, id := range ids {
		if p, ok := f.players[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakePlayerRepo) List(_ context.Context, _ repositories.ListPlayersFilter) ([]models.Player, error) {
	var out []models.Player
	for _, p := range f.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePlayerRepo) Update(_ context.Context, p *models.Player) error {
	if _, ok := f.players[p.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	f.players[p.ID] = *p
	return nil
}

func (f *fakePlayerRepo) UpdateAvatarKey(_ context.Context, playerID int, avatarKey *string) error {
	p, ok := f.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.AvatarKey = avatarKey
	f.players[playerID] = p
	return nil
}

func (f *fakePlayerRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(f.players, id)
	return nil
}

type fakeApplicationRepo struct {
	applications map[int]*models.TournamentApplication
	nextID       int
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{applications: make(map[int]*models.TournamentApplication), nextID: 1}
}

func (f *fakeApplicationRepo) Create(_ context.Context, a *models.TournamentApplication) error {
	for _, existing := range f.applications {
		if existing.TournamentID == a.TournamentID && existing.PlayerID == a.PlayerID {
			return repositories.ErrApplicationConflict
		}
	}
	a.ID = f.nextID
	f.nextID++
	a.CreatedAt = time.Now()
	copied := *a
	f.applications[a.ID] = &copied
	return nil
}

func (f *fakeApplicationRepo) GetByID(_ context.Context, id int) (*models.TournamentApplication, error) {
	a, ok := f.applications[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeApplicationRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.TournamentApplication, error) {
	var out []models.TournamentApplication
	for _, a := range f.applications {
		if a.TournamentID == tournamentID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeApplicationRepo) UpdateStatus(_ context.Context, id int, status models.ApplicationStatus) error {
	a, ok := f.applications[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	a.Status = status
	return nil
}
