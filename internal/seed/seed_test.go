package seed

import (
	"context"
	"errors"
	"testing"

	"smartband-store/internal/domain"
)

type stubWriter struct {
	ids []string
	err error
}

func (s *stubWriter) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.ids = append(s.ids, p.ID)
	return &p, nil
}

func TestApply(t *testing.T) {
	w := &stubWriter{}
	n, err := Apply(context.Background(), w, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if n != 2 || w.ids[0] != "new-user-package" || w.ids[1] != "existing-user-package" {
		t.Fatalf("unexpected seed: %d %v", n, w.ids)
	}
}

func TestApply_WriterError(t *testing.T) {
	w := &stubWriter{err: errors.New("db down")}
	n, err := Apply(context.Background(), w, nil)
	if err == nil || n != 0 {
		t.Fatalf("expected failure on first product, got n=%d err=%v", n, err)
	}
}
