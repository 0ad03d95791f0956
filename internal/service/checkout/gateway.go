package checkout

import (
	"context"
	"time"

	"smartband-store/internal/domain"
)

// RedirectNotice is shown while the customer is handed to the payment gateway.
const RedirectNotice = "در حال انتقال به درگاه پرداخت..."

type Order struct {
	Cart     domain.CartState
	Customer domain.CustomerInfo
	Method   domain.PaymentMethod
}

// PaymentGateway hands a confirmed order over for payment and returns the
// notice to show the customer.
type PaymentGateway interface {
	Redirect(ctx context.Context, order Order) (string, error)
}

// MockGateway stands in for a real gateway. It waits Delay and always succeeds.
type MockGateway struct {
	Delay time.Duration
}

func (g MockGateway) Redirect(ctx context.Context, _ Order) (string, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return RedirectNotice, nil
}
