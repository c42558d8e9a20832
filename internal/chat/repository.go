// internal/chat/repository.go

package chat

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Append(ctx context.Context, message *Message) error
	ListByPair(ctx context.Context, userID, counterpartID int64, limit, offset int) ([]*Message, error)
	LastMessageBetween(ctx context.Context, userID, counterpartID int64) (*Message, error)
	GetUserInfo(ctx context.Context, userID int64) (*UserInfo, error)
}

// UserInfo is the minimal user record joined into conversation lists.
type UserInfo struct {
	ID          int64  `json:"id" db:"id"`
	Username    string `json:"username" db:"username"`
	DisplayName string `json:"display_name" db:"display_name"`
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Append(ctx context.Context, message *Message) error {
	// created_at and id are store-assigned, which keeps per-conversation
	// ordering consistent under concurrent senders.
	query := `
        INSERT INTO messages (sender_id, receiver_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		message.SenderID, message.ReceiverID, message.Content,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *postgresRepository) ListByPair(ctx context.Context, userID, counterpartID int64, limit, offset int) ([]*Message, error) {
	query := `
        SELECT id, sender_id, receiver_id, content, created_at
        FROM messages
        WHERE (sender_id = $1 AND receiver_id = $2)
           OR (sender_id = $2 AND receiver_id = $1)
        ORDER BY created_at ASC, id ASC
        LIMIT $3 OFFSET $4
    `

	rows, err := r.db.QueryxContext(ctx, query, userID, counterpartID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var msg Message
		if err := rows.StructScan(&msg); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

func (r *postgresRepository) LastMessageBetween(ctx context.Context, userID, counterpartID int64) (*Message, error) {
	var msg Message
	query := `
        SELECT id, sender_id, receiver_id, content, created_at
        FROM messages
        WHERE (sender_id = $1 AND receiver_id = $2)
           OR (sender_id = $2 AND receiver_id = $1)
        ORDER BY created_at DESC, id DESC
        LIMIT 1
    `

	err := r.db.QueryRowxContext(ctx, query, userID, counterpartID).StructScan(&msg)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *postgresRepository) GetUserInfo(ctx context.Context, userID int64) (*UserInfo, error) {
	var info UserInfo
	query := `SELECT id, username, display_name FROM users WHERE id = $1`

	err := r.db.QueryRowxContext(ctx, query, userID).StructScan(&info)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}
