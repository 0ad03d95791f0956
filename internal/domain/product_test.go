package domain

import "testing"

func TestDiscountPercent(t *testing.T) {
	orig := int64(3000000)
	p := Product{Price: 2400000, OriginalPrice: &orig}
	if got := p.DiscountPercent(); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}

	orig = 1200000
	p = Product{Price: 1000000, OriginalPrice: &orig}
	if got := p.DiscountPercent(); got != 17 {
		t.Fatalf("expected 17, got %d", got)
	}

	if got := (Product{Price: 10}).DiscountPercent(); got != 0 {
		t.Fatalf("expected 0 without original price, got %d", got)
	}
}

func TestCloneDetachesSlices(t *testing.T) {
	orig := int64(5)
	p := Product{ID: "a", Features: []string{"x"}, OriginalPrice: &orig}
	c := p.Clone()
	c.Features[0] = "y"
	*c.OriginalPrice = 9
	if p.Features[0] != "x" || *p.OriginalPrice != 5 {
		t.Fatalf("clone shares memory with source")
	}
}
