package contact

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartband-store/internal/domain"
)

type memoryRepo struct {
	mu       sync.Mutex
	messages []domain.ContactMessage
	now      func() time.Time
}

// NewMemory keeps messages in process, newest last.
func NewMemory() Repository {
	return &memoryRepo{now: time.Now}
}

func (r *memoryRepo) Create(_ context.Context, msg domain.ContactMessage) (*domain.ContactMessage, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = r.now().UTC()
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
	return &msg, nil
}

func (r *memoryRepo) List(_ context.Context, limit int) ([]domain.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.messages) {
		limit = len(r.messages)
	}
	out := make([]domain.ContactMessage, 0, limit)
	for i := len(r.messages) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.messages[i])
	}
	return out, nil
}
