package domain

// CartItem is a product line in the cart. Quantity is always positive while the
// item is held in a CartState.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// CartState is the whole cart. Total and ItemCount are derived from Items and
// never set independently.
type CartState struct {
	Items     []CartItem `json:"items"`
	Total     int64      `json:"total"`
	ItemCount int        `json:"itemCount"`
}

func EmptyCart() CartState {
	return CartState{Items: []CartItem{}}
}

func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}
