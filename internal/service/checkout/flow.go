package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"smartband-store/internal/domain"
	"smartband-store/internal/metrics"
	"smartband-store/internal/service/cart"
)

// SuccessPath is where the client goes after a submitted order.
const SuccessPath = "/checkout/success"

// EmptyCartNotice is shown instead of the wizard when there is nothing to buy.
const EmptyCartNotice = "سبد خرید شما خالی است"

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNotAtConfirmation = errors.New("final submit is only allowed from the confirmation step")
	ErrInvalidPayment    = errors.New("invalid payment method")
)

// ValidationError lists the required fields that block leaving Step.
type ValidationError struct {
	Step   Step
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("step %s is incomplete", e.Step)
	}
	return fmt.Sprintf("step %s is incomplete: missing %s", e.Step, strings.Join(e.Fields, ", "))
}

// CartAccess is what the flow needs from the cart store.
type CartAccess interface {
	Snapshot() domain.CartState
	Dispatch(action cart.Action) domain.CartState
}

// Flow is one session's checkout wizard.
type Flow struct {
	mu      sync.Mutex
	cart    CartAccess
	gateway PaymentGateway
	logger  *slog.Logger

	step   Step
	method domain.PaymentMethod
	info   domain.CustomerInfo
}

func NewFlow(c CartAccess, gateway PaymentGateway, logger *slog.Logger) *Flow {
	if gateway == nil {
		gateway = MockGateway{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Flow{cart: c, gateway: gateway, logger: logger, method: domain.PaymentOnline}
}

// CustomerInfoPatch carries only the fields the client changed.
type CustomerInfoPatch struct {
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
}

func (f *Flow) UpdateCustomerInfo(p CustomerInfoPatch) domain.CustomerInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&f.info.FirstName, p.FirstName)
	set(&f.info.LastName, p.LastName)
	set(&f.info.Phone, p.Phone)
	set(&f.info.Email, p.Email)
	set(&f.info.Address, p.Address)
	set(&f.info.City, p.City)
	set(&f.info.PostalCode, p.PostalCode)
	return f.info
}

func (f *Flow) SelectPaymentMethod(m domain.PaymentMethod) error {
	if !m.Valid() {
		return ErrInvalidPayment
	}
	f.mu.Lock()
	f.method = m
	f.mu.Unlock()
	return nil
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) IsStepValid(step Step) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.missing(step)) == 0
}

// missing returns the empty required fields of step. Caller holds f.mu.
func (f *Flow) missing(step Step) []string {
	var out []string
	need := func(name, v string) {
		if v == "" {
			out = append(out, name)
		}
	}
	switch step {
	case StepPersonalInfo:
		need("firstName", f.info.FirstName)
		need("lastName", f.info.LastName)
		need("phone", f.info.Phone)
	case StepDeliveryAddress:
		need("address", f.info.Address)
		need("city", f.info.City)
		need("postalCode", f.info.PostalCode)
	case StepPaymentMethod:
		if !f.method.Valid() {
			out = append(out, "paymentMethod")
		}
	}
	return out
}

// Next advances one step when the current step is complete. At the last step
// it is a no-op.
func (f *Flow) Next() (Step, error) {
	if f.cart.Snapshot().IsEmpty() {
		return f.Step(), ErrEmptyCart
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if fields := f.missing(f.step); len(fields) > 0 {
		return f.step, &ValidationError{Step: f.step, Fields: fields}
	}
	if f.step < StepFinalConfirmation {
		f.step++
	}
	return f.step, nil
}

// Back goes one step back without re-validating.
func (f *Flow) Back() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step > StepPersonalInfo {
		f.step--
	}
	return f.step
}

// Reset discards the draft and returns to the first step.
func (f *Flow) Reset() {
	f.mu.Lock()
	f.reset()
	f.mu.Unlock()
}

func (f *Flow) reset() {
	f.step = StepPersonalInfo
	f.method = domain.PaymentOnline
	f.info = domain.CustomerInfo{}
}

type Result struct {
	Redirect string `json:"redirect"`
	Notice   string `json:"notice"`
}

// FinalSubmit hands the order to the gateway, then clears the cart and resets
// the flow. Nothing is persisted and a failed gateway call leaves both intact.
func (f *Flow) FinalSubmit(ctx context.Context) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepFinalConfirmation {
		return Result{}, ErrNotAtConfirmation
	}
	snapshot := f.cart.Snapshot()
	if snapshot.IsEmpty() {
		return Result{}, ErrEmptyCart
	}

	order := Order{Cart: snapshot, Customer: f.info, Method: f.method}
	notice, err := f.gateway.Redirect(ctx, order)
	if err != nil {
		metrics.CheckoutSubmits.WithLabelValues(string(f.method), "error").Inc()
		f.logger.Warn("payment redirect failed", "method", f.method, "err", err)
		return Result{}, fmt.Errorf("payment redirect: %w", err)
	}

	f.cart.Dispatch(cart.ClearCart{})
	method := f.method
	f.reset()

	metrics.CheckoutSubmits.WithLabelValues(string(method), "ok").Inc()
	f.logger.Info("checkout submitted", "method", method, "total", snapshot.Total, "items", snapshot.ItemCount)
	return Result{Redirect: SuccessPath, Notice: notice}, nil
}
