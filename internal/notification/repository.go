// internal/notification/repository.go

package notification

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetContact(ctx context.Context, userID int64) (*Contact, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetContact(ctx context.Context, userID int64) (*Contact, error) {
	var contact Contact
	query := `SELECT id, email, display_name, phone FROM users WHERE id = $1`

	err := r.db.QueryRowxContext(ctx, query, userID).StructScan(&contact)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}
