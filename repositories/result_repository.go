package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/strikezone/league-system/models"
)

var (
	ErrResultNotFound = errors.New("participation result not found")
	// Unique (tournament_id, player_id) violated: the player has already
	// been admitted into this tournament.
	ErrResultConflict      = errors.New("player is already admitted to this tournament")
	ErrResultInvalidPlayer = errors.New("invalid player reference")
)

type ResultRepository interface {
	Create(ctx context.Context, result *models.ParticipationResult) error
	GetByTournamentAndPlayer(ctx context.Context, tournamentID, playerID int) (*models.ParticipationResult, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.ParticipationResult, error)
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
	UpdateScores(ctx context.Context, result *models.ParticipationResult) error
	// UpdatePlacement writes final position and rating points together, as
	// one statement; placement resolution runs it inside a transaction.
	UpdatePlacement(ctx context.Context, exec SQLExecutor, resultID, finalPosition, ratingPoints int) error
	// ListScoredBySeason returns results of completed tournaments in the
	// season that already carry rating points, for the leaderboard.
	ListScoredBySeason(ctx context.Context, seasonID int) ([]models.ParticipationResult, error)
	// RecentCompletedResults is the scoring.ResultHistory port: a player's
	// results in completed tournaments of the season, most recent first.
	RecentCompletedResults(ctx context.Context, playerID, seasonID, limit int) ([]models.ParticipationResult, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) Create(ctx context.Context, res *models.ParticipationResult) error {
	query := `
		INSERT INTO participation_results (tournament_id, player_id, handicap, qualification_scores, finals_scores)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		res.TournamentID, res.PlayerID, res.Handicap,
		pq.Array(res.QualificationScores), pq.Array(res.FinalsScores),
	).Scan(&res.ID, &res.CreatedAt)

	return r.handleResultError(err)
}

func (r *postgresResultRepository) GetByTournamentAndPlayer(ctx context.Context, tournamentID, playerID int) (*models.ParticipationResult, error) {
	query := selectResultColumns + `
		FROM participation_results
		WHERE tournament_id = $1 AND player_id = $2`

	res := &models.ParticipationResult{}
	err := r.db.QueryRowContext(ctx, query, tournamentID, playerID).Scan(
		&res.ID, &res.TournamentID, &res.PlayerID, &res.Handicap,
		pq.Array(&res.QualificationScores), pq.Array(&res.FinalsScores),
		&res.FinalPosition, &res.RatingPoints, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return res, nil
}

// Fetch order is the tie-break order for placement resolution, so the
// ordering here must stay deterministic.
func (r *postgresResultRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.ParticipationResult, error) {
	query := selectResultColumns + `
		FROM participation_results
		WHERE tournament_id = $1
		ORDER BY id`

	return r.queryResults(ctx, query, tournamentID)
}

func (r *postgresResultRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participation_results WHERE tournament_id = $1`,
		tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tournament results: %w", err)
	}
	return count, nil
}

func (r *postgresResultRepository) UpdateScores(ctx context.Context, res *models.ParticipationResult) error {
	query := `
		UPDATE participation_results SET
			qualification_scores = $1,
			finals_scores = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query,
		pq.Array(res.QualificationScores), pq.Array(res.FinalsScores), res.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrResultNotFound)
}

func (r *postgresResultRepository) UpdatePlacement(ctx context.Context, exec SQLExecutor, resultID, finalPosition, ratingPoints int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE participation_results SET
			final_position = $1,
			rating_points = $2
		WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, finalPosition, ratingPoints, resultID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrResultNotFound)
}

func (r *postgresResultRepository) ListScoredBySeason(ctx context.Context, seasonID int) ([]models.ParticipationResult, error) {
	query := `
		SELECT r.id, r.tournament_id, r.player_id, r.handicap,
		       r.qualification_scores, r.finals_scores,
		       r.final_position, r.rating_points, r.created_at
		FROM participation_results r
		JOIN tournaments t ON t.id = r.tournament_id
		WHERE t.season_id = $1
		  AND t.status = $2
		  AND r.rating_points IS NOT NULL
		ORDER BY t.date, r.id`

	return r.queryResults(ctx, query, seasonID, models.StatusCompleted)
}

func (r *postgresResultRepository) RecentCompletedResults(ctx context.Context, playerID, seasonID, limit int) ([]models.ParticipationResult, error) {
	query := `
		SELECT r.id, r.tournament_id, r.player_id, r.handicap,
		       r.qualification_scores, r.finals_scores,
		       r.final_position, r.rating_points, r.created_at
		FROM participation_results r
		JOIN tournaments t ON t.id = r.tournament_id
		WHERE r.player_id = $1
		  AND t.season_id = $2
		  AND t.status = $3
		ORDER BY t.date DESC
		LIMIT $4`

	return r.queryResults(ctx, query, playerID, seasonID, models.StatusCompleted, limit)
}

const selectResultColumns = `
		SELECT id, tournament_id, player_id, handicap,
		       qualification_scores, finals_scores,
		       final_position, rating_points, created_at`

func (r *postgresResultRepository) queryResults(ctx context.Context, query string, args ...interface{}) ([]models.ParticipationResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.ParticipationResult, 0)
	for rows.Next() {
		var res models.ParticipationResult
		if scanErr := rows.Scan(
			&res.ID, &res.TournamentID, &res.PlayerID, &res.Handicap,
			pq.Array(&res.QualificationScores), pq.Array(&res.FinalsScores),
			&res.FinalPosition, &res.RatingPoints, &res.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *postgresResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresResultRepository) handleResultError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "participation_results_tournament_id_player_id_key" {
				return ErrResultConflict
			}
		case "23503":
			switch pqErr.Constraint {
			case "participation_results_player_id_fkey":
				return ErrResultInvalidPlayer
			case "participation_results_tournament_id_fkey":
				return ErrTournamentNotFound
			}
		}
	}
	return err
}
