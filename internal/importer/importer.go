package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"smartband-store/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV files and inserts/updates products.
//
// Expected headers: id, name, price, original_price, description, features,
// image, category, badge. Features are separated by "|". A row with an empty
// id continues the previous product and only contributes features.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts one product per id.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["id"]; !ok {
		return 0, errors.New("read headers: id column missing")
	}

	var (
		current  *domain.Product
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if row == nil {
			continue
		}

		if row.ID != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		if current != nil {
			current.Features = append(current.Features, row.Features...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, p *domain.Product) error {
	if p.Name == "" || p.Price <= 0 {
		return fmt.Errorf("invalid product row (missing name or price) for id %q", p.ID)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("invalid category for id %q: %q", p.ID, p.Category)
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < p.Price {
		return fmt.Errorf("original price below price for id %q", p.ID)
	}

	if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
		return fmt.Errorf("upsert product %q: %w", p.ID, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	id := pick(record, index, "id")
	features := splitFeatures(pick(record, index, "features"))

	if id == "" && len(features) == 0 {
		return nil, nil
	}
	if id == "" {
		return &domain.Product{Features: features}, nil
	}

	price, err := parsePrice(pick(record, index, "price"))
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	p := &domain.Product{
		ID:          id,
		Name:        pick(record, index, "name"),
		Price:       price,
		Description: pick(record, index, "description"),
		Features:    features,
		Image:       pick(record, index, "image"),
		Category:    domain.Category(pick(record, index, "category")),
		Badge:       pick(record, index, "badge"),
	}
	if raw := pick(record, index, "original_price"); raw != "" {
		orig, err := parsePrice(raw)
		if err != nil {
			return nil, fmt.Errorf("original_price: %w", err)
		}
		p.OriginalPrice = &orig
	}
	return p, nil
}

// parsePrice accepts whole Toman amounts with optional "," grouping.
func parsePrice(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func splitFeatures(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, "|") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
