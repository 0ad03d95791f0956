package cart

import (
	"io"
	"log/slog"
	"sync"

	"smartband-store/internal/domain"
	"smartband-store/internal/metrics"
)

// Store holds one session's cart. Every Dispatch is a single atomic
// transition; readers always see a consistent items/total/itemCount triple.
type Store struct {
	mu     sync.RWMutex
	state  domain.CartState
	logger *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{state: domain.EmptyCart(), logger: logger}
}

func (s *Store) Dispatch(action Action) domain.CartState {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := Clone(s.state)
	s.mu.Unlock()

	metrics.CartActions.WithLabelValues(action.actionName()).Inc()
	s.logger.Debug("cart action", "action", action.actionName(), "items", len(next.Items), "total", next.Total)
	return next
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Clone(s.state)
}

func (s *Store) AddToCart(p domain.Product) domain.CartState {
	return s.Dispatch(AddToCart{Product: p})
}

func (s *Store) RemoveFromCart(productID string) domain.CartState {
	return s.Dispatch(RemoveFromCart{ProductID: productID})
}

func (s *Store) UpdateQuantity(productID string, quantity int) domain.CartState {
	return s.Dispatch(UpdateQuantity{ProductID: productID, Quantity: quantity})
}

func (s *Store) ClearCart() domain.CartState {
	return s.Dispatch(ClearCart{})
}
