package contact

import (
	"context"

	"smartband-store/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, msg domain.ContactMessage) (*domain.ContactMessage, error)
	List(ctx context.Context, limit int) ([]domain.ContactMessage, error)
}
