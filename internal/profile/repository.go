// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	Upsert(ctx context.Context, p *TravelProfile) error
	GetByUserID(ctx context.Context, userID int64) (*TravelProfile, error)
	ListDiscoverable(ctx context.Context, excludingUserID int64) ([]*TravelProfile, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Upsert(ctx context.Context, p *TravelProfile) error {
	query := `
        INSERT INTO travel_profiles (
            user_id, destination, start_date, end_date,
            budget_min, budget_max, interests, travel_style, discoverable
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (user_id)
        DO UPDATE SET
            destination = $2, start_date = $3, end_date = $4,
            budget_min = $5, budget_max = $6, interests = $7,
            travel_style = $8, discoverable = $9,
            updated_at = CURRENT_TIMESTAMP
        RETURNING created_at, updated_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		p.UserID, p.Destination, p.StartDate, p.EndDate,
		p.BudgetMin, p.BudgetMax, pq.Array(p.Interests),
		p.TravelStyle, p.Discoverable,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID int64) (*TravelProfile, error) {
	query := `
        SELECT user_id, destination, start_date, end_date,
               budget_min, budget_max, interests, travel_style,
               discoverable, created_at, updated_at
        FROM travel_profiles
        WHERE user_id = $1
    `

	p, err := scanProfile(r.db.QueryRowxContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	return p, err
}

func (r *postgresRepository) ListDiscoverable(ctx context.Context, excludingUserID int64) ([]*TravelProfile, error) {
	query := `
        SELECT user_id, destination, start_date, end_date,
               budget_min, budget_max, interests, travel_style,
               discoverable, created_at, updated_at
        FROM travel_profiles
        WHERE discoverable = TRUE AND user_id != $1
        ORDER BY user_id
    `

	rows, err := r.db.QueryxContext(ctx, query, excludingUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*TravelProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*TravelProfile, error) {
	var p TravelProfile
	err := row.Scan(
		&p.UserID, &p.Destination, &p.StartDate, &p.EndDate,
		&p.BudgetMin, &p.BudgetMax, pq.Array(&p.Interests),
		&p.TravelStyle, &p.Discoverable, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
