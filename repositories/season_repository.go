package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/strikezone/league-system/models"
)

var (
	ErrSeasonNotFound     = errors.New("season not found")
	ErrSeasonNameConflict = errors.New("season name conflict")
	ErrSeasonInUse        = errors.New("season has tournaments and cannot be deleted")
)

type SeasonRepository interface {
	Create(ctx context.Context, season *models.Season) error
	GetByID(ctx context.Context, id int) (*models.Season, error)
	List(ctx context.Context, limit, offset int) ([]models.Season, error)
	Update(ctx context.Context, season *models.Season) error
	Delete(ctx context.Context, id int) error
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func (r *postgresSeasonRepository) Create(ctx context.Context, s *models.Season) error {
	query := `
		INSERT INTO seasons (name, start_date, end_date, points_json)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, s.Name, s.StartDate, s.EndDate, s.PointsJSON).
		Scan(&s.ID, &s.CreatedAt)
	return r.handleSeasonError(err)
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	query := `
		SELECT id, name, start_date, end_date, points_json, created_at
		FROM seasons
		WHERE id = $1`

	s := &models.Season{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.PointsJSON, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresSeasonRepository) List(ctx context.Context, limit, offset int) ([]models.Season, error) {
	query := `
		SELECT id, name, start_date, end_date, points_json, created_at
		FROM seasons
		ORDER BY start_date DESC
		LIMIT $1 OFFSET $2`

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seasons := make([]models.Season, 0)
	for rows.Next() {
		var s models.Season
		if scanErr := rows.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.PointsJSON, &s.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

func (r *postgresSeasonRepository) Update(ctx context.Context, s *models.Season) error {
	query := `
		UPDATE seasons SET
			name = $1,
			start_date = $2,
			end_date = $3,
			points_json = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.StartDate, s.EndDate, s.PointsJSON, s.ID)
	if err != nil {
		return r.handleSeasonError(err)
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM seasons WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleSeasonError(err)
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) handleSeasonError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "seasons_name_key" {
				return ErrSeasonNameConflict
			}
		case "23503":
			if pqErr.Constraint == "tournaments_season_id_fkey" {
				return ErrSeasonInUse
			}
		}
	}
	return err
}
