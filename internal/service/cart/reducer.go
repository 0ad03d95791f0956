package cart

import "smartband-store/internal/domain"

// Action is a cart transition. The set of actions is closed: only the types in
// this package implement it.
type Action interface {
	actionName() string
}

type AddToCart struct {
	Product domain.Product
}

type RemoveFromCart struct {
	ProductID string
}

// UpdateQuantity sets an item's quantity. Values below one remove the item.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

type ClearCart struct{}

func (AddToCart) actionName() string      { return "addToCart" }
func (RemoveFromCart) actionName() string { return "removeFromCart" }
func (UpdateQuantity) actionName() string { return "updateQuantity" }
func (ClearCart) actionName() string      { return "clearCart" }

// Reduce applies action to state and returns the resulting state. The input is
// never modified.
func Reduce(state domain.CartState, action Action) domain.CartState {
	var items []domain.CartItem
	switch a := action.(type) {
	case AddToCart:
		items = cloneItems(state.Items)
		found := false
		for i := range items {
			if items[i].ID == a.Product.ID {
				items[i].Quantity++
				found = true
				break
			}
		}
		if !found {
			items = append(items, domain.CartItem{Product: a.Product.Clone(), Quantity: 1})
		}
	case RemoveFromCart:
		items = make([]domain.CartItem, 0, len(state.Items))
		for _, it := range state.Items {
			if it.ID != a.ProductID {
				items = append(items, cloneItem(it))
			}
		}
	case UpdateQuantity:
		qty := max(0, a.Quantity)
		items = make([]domain.CartItem, 0, len(state.Items))
		for _, it := range state.Items {
			it = cloneItem(it)
			if it.ID == a.ProductID {
				it.Quantity = qty
			}
			if it.Quantity > 0 {
				items = append(items, it)
			}
		}
	case ClearCart:
		return domain.EmptyCart()
	default:
		return Clone(state)
	}
	return withTotals(items)
}

func withTotals(items []domain.CartItem) domain.CartState {
	if items == nil {
		items = []domain.CartItem{}
	}
	state := domain.CartState{Items: items}
	for _, it := range items {
		state.Total += it.LineTotal()
		state.ItemCount += it.Quantity
	}
	return state
}

// Clone deep-copies a cart state.
func Clone(state domain.CartState) domain.CartState {
	out := state
	out.Items = cloneItems(state.Items)
	return out
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	for i, it := range items {
		out[i] = cloneItem(it)
	}
	return out
}

func cloneItem(it domain.CartItem) domain.CartItem {
	it.Product = it.Product.Clone()
	return it
}
