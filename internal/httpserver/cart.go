package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartband-store/internal/domain"
	"smartband-store/internal/money"
	cartsvc "smartband-store/internal/service/cart"
	"smartband-store/internal/service/checkout"
)

type cartLineResponse struct {
	domain.CartItem
	LineTotal        int64  `json:"lineTotal"`
	LineTotalDisplay string `json:"lineTotalDisplay"`
}

type cartResponse struct {
	Items        []cartLineResponse `json:"items"`
	Total        int64              `json:"total"`
	TotalDisplay string             `json:"totalDisplay"`
	ItemCount    int                `json:"itemCount"`
	FreeShipping bool               `json:"freeShipping"`
}

func toCartResponse(s domain.CartState) cartResponse {
	lines := make([]cartLineResponse, 0, len(s.Items))
	for _, it := range s.Items {
		lines = append(lines, cartLineResponse{
			CartItem:         it,
			LineTotal:        it.LineTotal(),
			LineTotalDisplay: money.FormatToman(it.LineTotal()),
		})
	}
	return cartResponse{
		Items:        lines,
		Total:        s.Total,
		TotalDisplay: money.FormatToman(s.Total),
		ItemCount:    s.ItemCount,
		FreeShipping: s.Total > checkout.FreeShippingThreshold,
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *handlers) writeCartError(c *gin.Context, err error) {
	var ie *cartsvc.InputError
	if errors.As(err, &ie) {
		writeError(c, http.StatusBadRequest, ie.Msg)
		return
	}
	h.writeServiceError(c, err)
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(currentSession(c).Cart.Snapshot()))
}

func (h *handlers) applyCartActions(c *gin.Context) {
	var in cartsvc.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	state, err := h.deps.CartSvc.Apply(c.Request.Context(), currentSession(c).Cart, in)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "productId required")
		return
	}
	state, err := h.deps.CartSvc.Add(c.Request.Context(), currentSession(c).Cart, req.ProductID)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "quantity required")
		return
	}
	if *req.Quantity > cartsvc.MaxRequestQuantity {
		writeError(c, http.StatusBadRequest, "quantity too large")
		return
	}
	state := currentSession(c).Cart.UpdateQuantity(c.Param("productId"), *req.Quantity)
	c.JSON(http.StatusOK, toCartResponse(state))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	state := currentSession(c).Cart.RemoveFromCart(c.Param("productId"))
	c.JSON(http.StatusOK, toCartResponse(state))
}

func (h *handlers) clearCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(currentSession(c).Cart.ClearCart()))
}
