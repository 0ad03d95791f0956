package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartband-store/internal/domain"
	"smartband-store/internal/service/checkout"
)

type paymentMethodRequest struct {
	Method domain.PaymentMethod `json:"method" binding:"required"`
}

// writeCheckoutError maps flow errors; the current view goes along so the
// client can re-render without another round trip.
func (h *handlers) writeCheckoutError(c *gin.Context, flow *checkout.Flow, err error) {
	var ve *checkout.ValidationError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": checkout.EmptyCartNotice, "view": flow.View()})
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "step incomplete", "missing": ve.Fields, "view": flow.View()})
	case errors.Is(err, checkout.ErrNotAtConfirmation):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "view": flow.View()})
	case errors.Is(err, checkout.ErrInvalidPayment):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		h.writeServiceError(c, err)
	}
}

func (h *handlers) getCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Checkout.View())
}

func (h *handlers) updateCustomerInfo(c *gin.Context) {
	var patch checkout.CustomerInfoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	flow := currentSession(c).Checkout
	flow.UpdateCustomerInfo(patch)
	c.JSON(http.StatusOK, flow.View())
}

func (h *handlers) selectPaymentMethod(c *gin.Context) {
	var req paymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "method required")
		return
	}
	flow := currentSession(c).Checkout
	if err := flow.SelectPaymentMethod(req.Method); err != nil {
		h.writeCheckoutError(c, flow, err)
		return
	}
	c.JSON(http.StatusOK, flow.View())
}

func (h *handlers) checkoutNext(c *gin.Context) {
	flow := currentSession(c).Checkout
	if _, err := flow.Next(); err != nil {
		h.writeCheckoutError(c, flow, err)
		return
	}
	c.JSON(http.StatusOK, flow.View())
}

func (h *handlers) checkoutBack(c *gin.Context) {
	flow := currentSession(c).Checkout
	flow.Back()
	c.JSON(http.StatusOK, flow.View())
}

func (h *handlers) checkoutSubmit(c *gin.Context) {
	flow := currentSession(c).Checkout
	res, err := flow.FinalSubmit(c.Request.Context())
	if err != nil {
		h.writeCheckoutError(c, flow, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
