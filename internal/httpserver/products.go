package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smartband-store/internal/domain"
	"smartband-store/internal/money"
)

type productResponse struct {
	domain.Product
	DiscountPercent      int    `json:"discountPercent,omitempty"`
	PriceDisplay         string `json:"priceDisplay"`
	OriginalPriceDisplay string `json:"originalPriceDisplay,omitempty"`
}

type pagedResponse[T any] struct {
	Limit   int `json:"limit"`
	Offset  int `json:"offset"`
	Count   int `json:"count"`
	Total   int `json:"total"`
	Results []T `json:"results"`
}

func toProductResponse(p domain.Product) productResponse {
	out := productResponse{
		Product:         p,
		DiscountPercent: p.DiscountPercent(),
		PriceDisplay:    money.FormatToman(p.Price),
	}
	if p.OriginalPrice != nil {
		out.OriginalPriceDisplay = money.FormatToman(*p.OriginalPrice)
	}
	return out
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 500
)

func paginate[T any](items []T, limit, offset int) pagedResponse[T] {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	sliced := []T{}
	if offset < len(items) {
		end := len(items)
		if limit < end-offset {
			end = offset + limit
		}
		sliced = items[offset:end]
	}
	return pagedResponse[T]{
		Limit:   limit,
		Offset:  offset,
		Count:   len(sliced),
		Total:   len(items),
		Results: sliced,
	}
}

func (h *handlers) listProducts(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !domain.Category(category).Valid() {
		writeError(c, http.StatusBadRequest, "unknown category")
		return
	}
	products, err := h.deps.ProductSvc.List(c.Request.Context(), category)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, paginate(out, limit, offset))
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}
