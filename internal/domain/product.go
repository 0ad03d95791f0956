package domain

import (
	"math"
	"time"
)

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         int64     `json:"price"`
	OriginalPrice *int64    `json:"originalPrice,omitempty"`
	Description   string    `json:"description"`
	Features      []string  `json:"features"`
	Image         string    `json:"image"`
	Category      Category  `json:"category"`
	Badge         string    `json:"badge,omitempty"`
	CreatedAt     time.Time `json:"-"`
}

// DiscountPercent returns the rounded discount against the original price, or 0
// when the product is not discounted.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price || *p.OriginalPrice == 0 {
		return 0
	}
	orig := float64(*p.OriginalPrice)
	return int(math.Round((orig - float64(p.Price)) / orig * 100))
}

// Clone returns a copy that shares no slices or pointers with p.
func (p Product) Clone() Product {
	out := p
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		out.OriginalPrice = &v
	}
	if p.Features != nil {
		out.Features = append([]string(nil), p.Features...)
	}
	return out
}
