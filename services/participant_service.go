package services

import (
	"context"
	"log/slog"

	"github.com/strikezone/league-system/live"
	"github.com/strikezone/league-system/models"
	"github.com/strikezone/league-system/repositories"
	"github.com/strikezone/league-system/scoring"
)

type ScoresInput struct {
	QualificationScores []int64 `json:"qualification_scores"`
	FinalsScores        []int64 `json:"finals_scores"`
}

// ParticipantService управляет составом турнира: прямым добавлением,
// заявками и вводом результатов.
type ParticipantService struct {
	resultRepo      repositories.ResultRepository
	applicationRepo repositories.ApplicationRepository
	tournamentRepo  repositories.TournamentRepository
	playerRepo      repositories.PlayerRepository
	handicaps       *scoring.HandicapCalculator
	hub             *live.Hub
	logger          *slog.Logger
}

func NewParticipantService(
	resultRepo repositories.ResultRepository,
	applicationRepo repositories.ApplicationRepository,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	handicaps *scoring.HandicapCalculator,
	hub *live.Hub,
	logger *slog.Logger,
) *ParticipantService {
	return &ParticipantService{
		resultRepo:      resultRepo,
		applicationRepo: applicationRepo,
		tournamentRepo:  tournamentRepo,
		playerRepo:      playerRepo,
		handicaps:       handicaps,
		hub:             hub,
		logger:          logger,
	}
}

// AdmitPlayer напрямую добавляет игрока в турнир (действие персонала).
// Гандикап вычисляется здесь, один раз, по текущей истории сезона, и
// больше никогда не пересчитывается.
func (s *ParticipantService) AdmitPlayer(ctx context.Context, tournamentID, playerID int) (*models.ParticipationResult, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if tournament.Status == models.StatusCompleted {
		return nil, ErrAdmissionClosed
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, mapRepoError(err)
	}

	handicap, err := s.handicaps.ComputeHandicap(ctx, playerID, tournament.SeasonID)
	if err != nil {
		return nil, err
	}

	result := &models.ParticipationResult{
		TournamentID:        tournamentID,
		PlayerID:            playerID,
		Handicap:            handicap,
		QualificationScores: []int64{},
		FinalsScores:        []int64{},
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, mapRepoError(err)
	}

	if s.logger != nil {
		s.logger.Info("player admitted",
			slog.Int("tournament_id", tournamentID),
			slog.Int("player_id", playerID),
			slog.Any("handicap", handicap),
		)
	}
	return result, nil
}

// Apply подаёт заявку игрока на участие в турнире.
func (s *ParticipantService) Apply(ctx context.Context, tournamentID, playerID int) (*models.TournamentApplication, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if tournament.Status == models.StatusCompleted {
		return nil, ErrAdmissionClosed
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, mapRepoError(err)
	}

	application := &models.TournamentApplication{
		TournamentID: tournamentID,
		PlayerID:     playerID,
		Status:       models.ApplicationPending,
	}
	if err := s.applicationRepo.Create(ctx, application); err != nil {
		return nil, mapRepoError(err)
	}
	return application, nil
}

// ResolveApplication одобряет или отклоняет заявку. Одобрение допускает
// игрока в турнир тем же путём, что и прямое добавление.
func (s *ParticipantService) ResolveApplication(ctx context.Context, applicationID int, approve bool) (*models.TournamentApplication, error) {
	application, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if application.Status != models.ApplicationPending {
		return nil, ErrApplicationResolved
	}

	next := models.ApplicationRejected
	if approve {
		next = models.ApplicationApproved
	}

	if approve {
		if _, err := s.AdmitPlayer(ctx, application.TournamentID, application.PlayerID); err != nil {
			return nil, err
		}
	}
	if err := s.applicationRepo.UpdateStatus(ctx, applicationID, next); err != nil {
		return nil, mapRepoError(err)
	}

	application.Status = next
	return application, nil
}

func (s *ParticipantService) ListApplications(ctx context.Context, tournamentID int) ([]models.TournamentApplication, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapRepoError(err)
	}
	return s.applicationRepo.ListByTournament(ctx, tournamentID)
}

// GetTournamentResults возвращает результаты турнира с данными игроков.
func (s *ParticipantService) GetTournamentResults(ctx context.Context, tournamentID int) ([]models.ParticipationResult, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapRepoError(err)
	}
	results, err := s.resultRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	playerIDs := make([]int, 0, len(results))
	for i := range results {
		playerIDs = append(playerIDs, results[i].PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if player, ok := players[results[i].PlayerID]; ok {
			p := player
			results[i].Player = &p
		}
	}
	return results, nil
}

// UpdateScores записывает квалификационные и финальные счета игрока.
// Количество квалификационных игр ограничено политикой game count для
// текущего размера поля; финалы состоят ровно из двух игр либо пусты.
func (s *ParticipantService) UpdateScores(ctx context.Context, tournamentID, playerID int, input ScoresInput) (*models.ParticipationResult, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if tournament.Status == models.StatusCompleted {
		return nil, ErrScoresLocked
	}

	result, err := s.resultRepo.GetByTournamentAndPlayer(ctx, tournamentID, playerID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	count, err := s.resultRepo.CountByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	gameCount := scoring.GameCount(count)

	if err := validateScores(input, gameCount); err != nil {
		return nil, err
	}

	result.QualificationScores = input.QualificationScores
	result.FinalsScores = input.FinalsScores
	if result.QualificationScores == nil {
		result.QualificationScores = []int64{}
	}
	if result.FinalsScores == nil {
		result.FinalsScores = []int64{}
	}

	if err := s.resultRepo.UpdateScores(ctx, result); err != nil {
		return nil, mapRepoError(err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(tournamentRoom(tournamentID), live.Event{
			Type:    live.EventScoresUpdated,
			Payload: result,
		})
	}
	return result, nil
}

func validateScores(input ScoresInput, gameCount int) error {
	if len(input.QualificationScores) > gameCount {
		return ErrTooManyQualGames
	}
	if n := len(input.FinalsScores); n != 0 && n != 2 {
		return ErrInvalidFinalsGames
	}
	for _, score := range input.QualificationScores {
		if score < 0 {
			return ErrInvalidScores
		}
	}
	for _, score := range input.FinalsScores {
		if score < 0 {
			return ErrInvalidScores
		}
	}
	return nil
}
