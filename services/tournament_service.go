package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/strikezone/league-system/live"
	"github.com/strikezone/league-system/models"
	"github.com/strikezone/league-system/repositories"
	"github.com/strikezone/league-system/scoring"
)

type TournamentInput struct {
	SeasonID int       `json:"season_id"`
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
}

type TournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	seasonRepo     repositories.SeasonRepository
	resultRepo     repositories.ResultRepository
	playerRepo     repositories.PlayerRepository
	hub            *live.Hub
	emails         *EmailService
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	seasonRepo repositories.SeasonRepository,
	resultRepo repositories.ResultRepository,
	playerRepo repositories.PlayerRepository,
	hub *live.Hub,
	emails *EmailService,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		seasonRepo:     seasonRepo,
		resultRepo:     resultRepo,
		playerRepo:     playerRepo,
		hub:            hub,
		emails:         emails,
		logger:         logger,
	}
}

func (s *TournamentService) CreateTournament(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}

	season, err := s.seasonRepo.GetByID(ctx, input.SeasonID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if input.Date.Before(season.StartDate) || input.Date.After(season.EndDate) {
		return nil, ErrTournamentInvalidDate
	}

	tournament := &models.Tournament{
		SeasonID: input.SeasonID,
		Name:     input.Name,
		Date:     input.Date,
		Status:   models.StatusUpcoming,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, mapRepoError(err)
	}
	tournament.GameCount = scoring.GameCount(0)
	return tournament, nil
}

// GetTournamentByID возвращает турнир с актуальным числом участников и
// требуемым количеством игр. Счётчик всегда вычисляется по результатам,
// а не хранится на турнире.
func (s *TournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	count, err := s.resultRepo.CountByTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	tournament.ParticipantCount = count
	tournament.GameCount = scoring.GameCount(count)

	season, err := s.seasonRepo.GetByID(ctx, tournament.SeasonID)
	if err == nil {
		tournament.Season = season
	}
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		count, countErr := s.resultRepo.CountByTournament(ctx, tournaments[i].ID)
		if countErr != nil {
			return nil, countErr
		}
		tournaments[i].ParticipantCount = count
		tournaments[i].GameCount = scoring.GameCount(count)
	}
	return tournaments, nil
}

func (s *TournamentService) UpdateTournament(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if tournament.Status == models.StatusCompleted {
		return nil, ErrTournamentInvalidStatusTransition
	}

	if input.Name != "" {
		tournament.Name = strings.TrimSpace(input.Name)
	}
	if !input.Date.IsZero() {
		tournament.Date = input.Date
	}
	if input.SeasonID != 0 {
		tournament.SeasonID = input.SeasonID
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, mapRepoError(err)
	}
	return s.GetTournamentByID(ctx, id)
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id int) error {
	return mapRepoError(s.tournamentRepo.Delete(ctx, id))
}

// UpdateTournamentStatus выполняет переход статуса. Переход в completed
// всегда идёт через CompleteTournament, чтобы расстановка мест не могла
// выполниться дважды.
func (s *TournamentService) UpdateTournamentStatus(ctx context.Context, id int, next models.TournamentStatus) (*models.Tournament, error) {
	if !isKnownStatus(next) {
		return nil, ErrTournamentInvalidStatus
	}
	if next == models.StatusCompleted {
		if err := s.CompleteTournament(ctx, id); err != nil {
			return nil, err
		}
		return s.GetTournamentByID(ctx, id)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !isValidStatusTransition(tournament.Status, next) {
		return nil, ErrTournamentInvalidStatusTransition
	}
	if tournament.Status != next {
		if err := s.tournamentRepo.UpdateStatusIf(ctx, nil, id, tournament.Status, next); err != nil {
			return nil, mapRepoError(err)
		}
	}
	return s.GetTournamentByID(ctx, id)
}

// CompleteTournament переводит турнир в completed и единственный раз
// выполняет расстановку мест и начисление рейтинговых очков. Весь переход
// атомарен: условный UPDATE статуса служит compare-and-set-защитой от
// конкурирующих запросов, позиции и очки пишутся в той же транзакции.
func (s *TournamentService) CompleteTournament(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin completion transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.completePlacements(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit completion transaction: %w", err)
	}

	s.notifyCompleted(ctx, id)
	return nil
}

// completePlacements is the guarded completion body. The status CAS runs
// first so a concurrent completion fails before any placement is written.
func (s *TournamentService) completePlacements(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if err := s.tournamentRepo.UpdateStatusIf(ctx, exec, id, models.StatusOngoing, models.StatusCompleted); err != nil {
		return mapRepoError(err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}

	results, err := s.resultRepo.ListByTournament(ctx, id)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		// Завершение пустого турнира допустимо и ничего не записывает.
		return nil
	}

	season, err := s.seasonRepo.GetByID(ctx, tournament.SeasonID)
	if err != nil {
		return mapRepoError(err)
	}
	distribution, err := season.ParsePointsDistribution()
	if err != nil {
		return fmt.Errorf("season %d: %w", season.ID, err)
	}

	gameCount := scoring.GameCount(len(results))
	ordered := scoring.ResolvePlacements(results, gameCount)
	scoring.AssignRatingPoints(ordered, distribution)

	for i := range ordered {
		if err := s.resultRepo.UpdatePlacement(ctx, exec, ordered[i].ID, *ordered[i].FinalPosition, *ordered[i].RatingPoints); err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("tournament completed",
			slog.Int("tournament_id", id),
			slog.Int("participants", len(ordered)),
			slog.Int("game_count", gameCount),
		)
	}
	return nil
}

// notifyCompleted рассылает событие в live-хаб и письма участникам.
// Ошибки здесь не влияют на результат завершения.
func (s *TournamentService) notifyCompleted(ctx context.Context, id int) {
	tournament, err := s.GetTournamentByID(ctx, id)
	if err != nil {
		return
	}
	results, err := s.resultRepo.ListByTournament(ctx, id)
	if err != nil {
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(tournamentRoom(id), live.Event{
			Type:    live.EventTournamentCompleted,
			Payload: results,
		})
	}

	if s.emails == nil {
		return
	}
	playerIDs := make([]int, 0, len(results))
	for i := range results {
		playerIDs = append(playerIDs, results[i].PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return
	}
	for _, player := range players {
		if player.Email == nil || *player.Email == "" {
			continue
		}
		if err := s.emails.SendTournamentCompletedEmail(*player.Email, tournament.Name); err != nil && s.logger != nil {
			s.logger.Warn("failed to send completion email",
				slog.String("email", *player.Email), slog.Any("error", err))
		}
	}
}

// AutoUpdateTournamentStatusesByDates продвигает статусы по датам:
// upcoming-турниры, чья дата наступила, становятся ongoing. Завершение
// остаётся ручной операцией персонала, потому что только он знает, когда
// все счёты внесены.
func (s *TournamentService) AutoUpdateTournamentStatusesByDates(ctx context.Context) error {
	due, err := s.tournamentRepo.ListDueForStatusUpdate(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to list tournaments for status update: %w", err)
	}

	for i := range due {
		if due[i].Status != models.StatusUpcoming {
			continue
		}
		err := s.tournamentRepo.UpdateStatusIf(ctx, nil, due[i].ID, models.StatusUpcoming, models.StatusOngoing)
		if err != nil && s.logger != nil {
			s.logger.Error("scheduler: failed to start tournament",
				slog.Int("tournament_id", due[i].ID), slog.Any("error", err))
		}
	}
	return nil
}

func tournamentRoom(id int) string {
	return live.TournamentRoom(id)
}
