package product

import (
	"context"
	"fmt"
	"strings"

	"smartband-store/internal/domain"
	productrepo "smartband-store/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the catalog, optionally narrowed to one category. An empty
// category means all products.
func (s *Service) List(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	if category != "" && !domain.Category(category).Valid() {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return all, nil
	}
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if p.Category == domain.Category(category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}
