package contact

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"smartband-store/internal/db"
	"smartband-store/internal/domain"
)

type postgresRepo struct {
	db     db.Querier
	logger *slog.Logger
}

func NewPostgres(q db.Querier, logger *slog.Logger) Repository {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &postgresRepo{db: q, logger: logger.With("repo", "contact")}
}

func (r *postgresRepo) Create(ctx context.Context, msg domain.ContactMessage) (*domain.ContactMessage, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	const q = `
INSERT INTO contact_messages (id, name, email, phone, subject, message)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
RETURNING created_at
`
	if err := r.db.QueryRow(ctx, q, msg.ID, msg.Name, msg.Email, msg.Phone, msg.Subject, msg.Message).Scan(&msg.CreatedAt); err != nil {
		r.logger.Error("create failed", "err", err)
		return nil, err
	}
	r.logger.Info("stored contact message", "id", msg.ID, "subject", msg.Subject)
	return &msg, nil
}

func (r *postgresRepo) List(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id::text, name, email, COALESCE(phone, ''), subject, message, created_at
FROM contact_messages
ORDER BY created_at DESC
LIMIT $1
`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ContactMessage{}
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
