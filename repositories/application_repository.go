package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/strikezone/league-system/models"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationConflict = errors.New("player has already applied to this tournament")
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *models.TournamentApplication) error
	GetByID(ctx context.Context, id int) (*models.TournamentApplication, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentApplication, error)
	UpdateStatus(ctx context.Context, id int, status models.ApplicationStatus) error
}

type postgresApplicationRepository struct {
	db *sql.DB
}

func NewPostgresApplicationRepository(db *sql.DB) ApplicationRepository {
	return &postgresApplicationRepository{db: db}
}

func (r *postgresApplicationRepository) Create(ctx context.Context, a *models.TournamentApplication) error {
	query := `
		INSERT INTO tournament_applications (tournament_id, player_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, a.TournamentID, a.PlayerID, a.Status).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrApplicationConflict
		}
		return err
	}
	return nil
}

func (r *postgresApplicationRepository) GetByID(ctx context.Context, id int) (*models.TournamentApplication, error) {
	query := `
		SELECT id, tournament_id, player_id, status, created_at
		FROM tournament_applications
		WHERE id = $1`

	a := &models.TournamentApplication{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.TournamentID, &a.PlayerID, &a.Status, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *postgresApplicationRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentApplication, error) {
	query := `
		SELECT id, tournament_id, player_id, status, created_at
		FROM tournament_applications
		WHERE tournament_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := make([]models.TournamentApplication, 0)
	for rows.Next() {
		var a models.TournamentApplication
		if scanErr := rows.Scan(&a.ID, &a.TournamentID, &a.PlayerID, &a.Status, &a.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		applications = append(applications, a)
	}
	return applications, rows.Err()
}

func (r *postgresApplicationRepository) UpdateStatus(ctx context.Context, id int, status models.ApplicationStatus) error {
	query := `UPDATE tournament_applications SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrApplicationNotFound)
}
