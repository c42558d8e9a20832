// internal/matching/repository.go

package matching

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	// CreateIfAbsent inserts the match unless a row for the canonical
	// pair already exists. Returns true when a new row was created.
	CreateIfAbsent(ctx context.Context, match *Match) (bool, error)
	FindByPair(ctx context.Context, userAID, userBID int64) (*Match, error)
	// UpdateStatusFrom is a compare-and-swap on the status column.
	// Returns false when the row was no longer in the expected state.
	UpdateStatusFrom(ctx context.Context, matchID int64, from, to string) (bool, error)
	ListForUser(ctx context.Context, userID int64, statuses []string) ([]*Match, error)
	// ResolvedCounterparts returns ids of users whose match with userID
	// is already accepted or rejected.
	ResolvedCounterparts(ctx context.Context, userID int64) ([]int64, error)
	// AcceptedCounterparts returns ids of users with an accepted match.
	AcceptedCounterparts(ctx context.Context, userID int64) ([]int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateIfAbsent(ctx context.Context, match *Match) (bool, error) {
	// The unique index on (user_a_id, user_b_id) serializes concurrent
	// proposals for the same pair.
	query := `
        INSERT INTO matches (
            user_a_id, user_b_id, status, compatibility_score, proposed_by
        ) VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_a_id, user_b_id) DO NOTHING
        RETURNING id, created_at, updated_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		match.UserAID, match.UserBID, match.Status,
		match.CompatibilityScore, match.ProposedBy,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *postgresRepository) FindByPair(ctx context.Context, userAID, userBID int64) (*Match, error) {
	var match Match
	query := `
        SELECT id, user_a_id, user_b_id, status, compatibility_score,
               proposed_by, created_at, updated_at
        FROM matches
        WHERE user_a_id = $1 AND user_b_id = $2
    `

	err := r.db.QueryRowxContext(ctx, query, userAID, userBID).StructScan(&match)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *postgresRepository) UpdateStatusFrom(ctx context.Context, matchID int64, from, to string) (bool, error) {
	query := `
        UPDATE matches
        SET status = $3, updated_at = CURRENT_TIMESTAMP
        WHERE id = $1 AND status = $2
    `

	result, err := r.db.ExecContext(ctx, query, matchID, from, to)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *postgresRepository) ListForUser(ctx context.Context, userID int64, statuses []string) ([]*Match, error) {
	query := `
        SELECT m.id, m.user_a_id, m.user_b_id, m.status,
               m.compatibility_score, m.proposed_by, m.created_at, m.updated_at,
               CASE WHEN m.user_a_id = $1 THEN u2.id ELSE u1.id END as "counterpart.id",
               CASE WHEN m.user_a_id = $1 THEN u2.username ELSE u1.username END as "counterpart.username",
               CASE WHEN m.user_a_id = $1 THEN u2.display_name ELSE u1.display_name END as "counterpart.display_name"
        FROM matches m
        JOIN users u1 ON m.user_a_id = u1.id
        JOIN users u2 ON m.user_b_id = u2.id
        WHERE (m.user_a_id = $1 OR m.user_b_id = $1)
              AND m.status = ANY($2)
        ORDER BY m.created_at DESC
    `

	rows, err := r.db.QueryxContext(ctx, query, userID, statusArray(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		var match Match
		var counterpart UserInfo

		err := rows.Scan(
			&match.ID, &match.UserAID, &match.UserBID, &match.Status,
			&match.CompatibilityScore, &match.ProposedBy,
			&match.CreatedAt, &match.UpdatedAt,
			&counterpart.ID, &counterpart.Username, &counterpart.DisplayName,
		)
		if err != nil {
			return nil, err
		}

		match.Counterpart = &counterpart
		matches = append(matches, &match)
	}

	return matches, rows.Err()
}

func (r *postgresRepository) ResolvedCounterparts(ctx context.Context, userID int64) ([]int64, error) {
	return r.counterpartsByStatus(ctx, userID, []string{StatusAccepted, StatusRejected})
}

func (r *postgresRepository) AcceptedCounterparts(ctx context.Context, userID int64) ([]int64, error) {
	return r.counterpartsByStatus(ctx, userID, []string{StatusAccepted})
}

func (r *postgresRepository) counterpartsByStatus(ctx context.Context, userID int64, statuses []string) ([]int64, error) {
	query := `
        SELECT CASE WHEN user_a_id = $1 THEN user_b_id ELSE user_a_id END
        FROM matches
        WHERE (user_a_id = $1 OR user_b_id = $1)
              AND status = ANY($2)
        ORDER BY 1
    `

	rows, err := r.db.QueryxContext(ctx, query, userID, statusArray(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func statusArray(statuses []string) interface{} {
	return pq.Array(statuses)
}
