package seed

import (
	"context"
	"fmt"
	"log/slog"

	"smartband-store/internal/domain"
	productrepo "smartband-store/internal/repository/product"
)

// Apply upserts the built-in catalog. It is idempotent via ON CONFLICT in the
// writer.
func Apply(ctx context.Context, w productrepo.Writer, logger *slog.Logger) (int, error) {
	return Products(ctx, w, productrepo.DefaultCatalog(), logger)
}

func Products(ctx context.Context, w productrepo.Writer, products []domain.Product, logger *slog.Logger) (int, error) {
	for i, p := range products {
		if _, err := w.Upsert(ctx, p); err != nil {
			return i, fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
		if logger != nil {
			logger.Info("seeded product", "id", p.ID, "category", p.Category)
		}
	}
	return len(products), nil
}
