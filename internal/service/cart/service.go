package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartband-store/internal/domain"
)

// InputError reports a malformed update action. It never wraps storage
// failures.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func invalid(msg string) error { return &InputError{Msg: msg} }

// MaxRequestQuantity bounds quantities accepted from clients so line totals
// cannot overflow int64. The reducer itself has no upper bound.
const MaxRequestQuantity = 1000000

var ErrUnsupportedAction error = &InputError{Msg: "unsupported action"}

// Service turns named update actions from the API into typed cart actions.
type Service struct {
	products productLookup
}

type productLookup interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// Dispatcher is the part of Store the service drives.
type Dispatcher interface {
	Dispatch(action Action) domain.CartState
	Snapshot() domain.CartState
}

func New(products productLookup) *Service {
	return &Service{products: products}
}

type UpdateInput struct {
	Actions []UpdateAction `json:"actions"`
}

type UpdateAction struct {
	Action    string `json:"action"`
	ProductID string `json:"productId,omitempty"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// Apply resolves every action first and only then dispatches them in order, so
// a bad action in the batch leaves the cart untouched.
func (s *Service) Apply(ctx context.Context, store Dispatcher, in UpdateInput) (domain.CartState, error) {
	if len(in.Actions) == 0 {
		return domain.CartState{}, invalid("actions required")
	}
	resolved := make([]Action, 0, len(in.Actions))
	for _, ua := range in.Actions {
		a, err := s.resolve(ctx, ua)
		if err != nil {
			return domain.CartState{}, err
		}
		resolved = append(resolved, a)
	}
	var state domain.CartState
	for _, a := range resolved {
		state = store.Dispatch(a)
	}
	return state, nil
}

// Add looks the product up in the catalog and adds one unit of it.
func (s *Service) Add(ctx context.Context, store Dispatcher, productID string) (domain.CartState, error) {
	return s.Apply(ctx, store, UpdateInput{Actions: []UpdateAction{{Action: "addToCart", ProductID: productID}}})
}

func (s *Service) resolve(ctx context.Context, ua UpdateAction) (Action, error) {
	productID := strings.TrimSpace(ua.ProductID)
	switch strings.ToLower(strings.TrimSpace(ua.Action)) {
	case "addtocart":
		if productID == "" {
			return nil, invalid("productId required")
		}
		if s.products == nil {
			return nil, errors.New("product catalog unavailable")
		}
		p, err := s.products.Get(ctx, productID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, invalid("product not found")
			}
			return nil, fmt.Errorf("lookup product %s: %w", productID, err)
		}
		return AddToCart{Product: *p}, nil
	case "removefromcart":
		if productID == "" {
			return nil, invalid("productId required")
		}
		return RemoveFromCart{ProductID: productID}, nil
	case "updatequantity":
		if productID == "" {
			return nil, invalid("productId required")
		}
		if ua.Quantity == nil {
			return nil, invalid("quantity required")
		}
		if *ua.Quantity > MaxRequestQuantity {
			return nil, invalid("quantity too large")
		}
		return UpdateQuantity{ProductID: productID, Quantity: *ua.Quantity}, nil
	case "clearcart":
		return ClearCart{}, nil
	default:
		return nil, ErrUnsupportedAction
	}
}
