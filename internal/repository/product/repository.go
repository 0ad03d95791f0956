package product

import (
	"context"

	"smartband-store/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Writer is implemented by backends that can be seeded and imported into.
type Writer interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
