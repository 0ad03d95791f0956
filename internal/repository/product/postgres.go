package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"smartband-store/internal/db"
	"smartband-store/internal/domain"
)

type postgresRepo struct {
	db     db.Querier
	logger *slog.Logger
}

// PostgresRepository is both readable and writable.
type PostgresRepository interface {
	Repository
	Writer
}

func NewPostgres(q db.Querier, logger *slog.Logger) PostgresRepository {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &postgresRepo{db: q, logger: logger.With("repo", "product")}
}

const selectColumns = `id, name, price, COALESCE(original_price, 0), description, features, image, category, COALESCE(badge, ''), created_at`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p        domain.Product
		orig     int64
		features []byte
		category string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &orig, &p.Description, &features, &p.Image, &category, &p.Badge, &p.CreatedAt); err != nil {
		return domain.Product{}, err
	}
	if orig > 0 {
		p.OriginalPrice = &orig
	}
	p.Category = domain.Category(category)
	p.Features = []string{}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &p.Features); err != nil {
			return domain.Product{}, fmt.Errorf("decode features of %s: %w", p.ID, err)
		}
	}
	return p, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + selectColumns + ` FROM products ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		r.logger.Error("list failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list rows failed", "err", err)
		return nil, err
	}
	r.logger.Debug("listed products", "count", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + selectColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get failed", "id", id, "err", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		return nil, errors.New("product id required")
	}
	if !p.Category.Valid() {
		return nil, fmt.Errorf("product %s: invalid category %q", p.ID, p.Category)
	}
	features := p.Features
	if features == nil {
		features = []string{}
	}
	rawFeatures, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO products (id, name, price, original_price, description, features, image, category, badge)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    original_price = EXCLUDED.original_price,
    description = EXCLUDED.description,
    features = EXCLUDED.features,
    image = EXCLUDED.image,
    category = EXCLUDED.category,
    badge = EXCLUDED.badge
`
	if _, err := r.db.Exec(ctx, q,
		p.ID,
		p.Name,
		p.Price,
		p.OriginalPrice,
		p.Description,
		rawFeatures,
		p.Image,
		string(p.Category),
		p.Badge,
	); err != nil {
		r.logger.Error("upsert failed", "id", p.ID, "err", err)
		return nil, err
	}
	r.logger.Info("upserted product", "id", p.ID)
	out := p.Clone()
	out.Features = features
	return &out, nil
}
