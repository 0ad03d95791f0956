package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartband-store/internal/domain"
	"smartband-store/internal/service/cart"
)

type recordingGateway struct {
	orders []Order
	err    error
}

func (g *recordingGateway) Redirect(_ context.Context, o Order) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.orders = append(g.orders, o)
	return RedirectNotice, nil
}

func str(v string) *string { return &v }

func filledCart() *cart.Store {
	s := cart.NewStore(nil)
	s.AddToCart(domain.Product{ID: "new-user-package", Name: "pkg", Price: 2400000})
	return s
}

func walkToConfirmation(t *testing.T, f *Flow) {
	t.Helper()
	f.UpdateCustomerInfo(CustomerInfoPatch{FirstName: str("علی"), LastName: str("رضایی"), Phone: str("09120000000")})
	_, err := f.Next()
	require.NoError(t, err)
	f.UpdateCustomerInfo(CustomerInfoPatch{Address: str("خیابان آزادی"), City: str("تهران"), PostalCode: str("1234567890")})
	_, err = f.Next()
	require.NoError(t, err)
	step, err := f.Next()
	require.NoError(t, err)
	require.Equal(t, StepFinalConfirmation, step)
}

func TestNextBlockedUntilStepComplete(t *testing.T) {
	f := NewFlow(filledCart(), &recordingGateway{}, nil)

	step, err := f.Next()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepPersonalInfo, step)
	assert.Equal(t, []string{"firstName", "lastName", "phone"}, verr.Fields)

	f.UpdateCustomerInfo(CustomerInfoPatch{FirstName: str("a"), LastName: str("b")})
	_, err = f.Next()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"phone"}, verr.Fields)

	f.UpdateCustomerInfo(CustomerInfoPatch{Phone: str("09120000000")})
	step, err = f.Next()
	require.NoError(t, err)
	assert.Equal(t, StepDeliveryAddress, step)
}

func TestEmailIsOptional(t *testing.T) {
	f := NewFlow(filledCart(), nil, nil)
	f.UpdateCustomerInfo(CustomerInfoPatch{FirstName: str("a"), LastName: str("b"), Phone: str("0912")})
	assert.True(t, f.IsStepValid(StepPersonalInfo))
}

func TestAnyNonEmptyValueSatisfiesRequiredField(t *testing.T) {
	f := NewFlow(filledCart(), nil, nil)
	f.UpdateCustomerInfo(CustomerInfoPatch{FirstName: str(" "), LastName: str(" "), Phone: str(" ")})
	assert.True(t, f.IsStepValid(StepPersonalInfo))

	step, err := f.Next()
	require.NoError(t, err)
	assert.Equal(t, StepDeliveryAddress, step)
}

func TestBackNeverRevalidates(t *testing.T) {
	f := NewFlow(filledCart(), nil, nil)
	walkToConfirmation(t, f)

	f.UpdateCustomerInfo(CustomerInfoPatch{City: str("")})
	assert.Equal(t, StepPaymentMethod, f.Back())
	assert.Equal(t, StepDeliveryAddress, f.Back())
	assert.Equal(t, StepPersonalInfo, f.Back())
	assert.Equal(t, StepPersonalInfo, f.Back())
}

func TestNextAtLastStepIsNoOp(t *testing.T) {
	f := NewFlow(filledCart(), nil, nil)
	walkToConfirmation(t, f)

	step, err := f.Next()
	require.NoError(t, err)
	assert.Equal(t, StepFinalConfirmation, step)
	assert.True(t, f.IsStepValid(StepFinalConfirmation))
}

func TestDefaultPaymentMethod(t *testing.T) {
	f := NewFlow(filledCart(), nil, nil)
	v := f.View()
	assert.Equal(t, domain.PaymentOnline, v.PaymentMethod)
	assert.Equal(t, "پرداخت آنلاین", v.PaymentLabel)

	require.NoError(t, f.SelectPaymentMethod(domain.PaymentTransfer))
	assert.ErrorIs(t, f.SelectPaymentMethod("cash"), ErrInvalidPayment)
	assert.Equal(t, domain.PaymentTransfer, f.View().PaymentMethod)
}

func TestFinalSubmitClearsCartAndResets(t *testing.T) {
	c := filledCart()
	gw := &recordingGateway{}
	f := NewFlow(c, gw, nil)
	walkToConfirmation(t, f)

	res, err := f.FinalSubmit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SuccessPath, res.Redirect)
	assert.Equal(t, RedirectNotice, res.Notice)

	require.Len(t, gw.orders, 1)
	assert.Equal(t, int64(2400000), gw.orders[0].Cart.Total)
	assert.Equal(t, "تهران", gw.orders[0].Customer.City)

	state := c.Snapshot()
	assert.True(t, state.IsEmpty())
	assert.Equal(t, int64(0), state.Total)
	assert.Equal(t, 0, state.ItemCount)

	assert.Equal(t, StepPersonalInfo, f.Step())
	assert.False(t, f.IsStepValid(StepPersonalInfo))
}

func TestFinalSubmitOnlyFromConfirmation(t *testing.T) {
	c := filledCart()
	f := NewFlow(c, &recordingGateway{}, nil)

	_, err := f.FinalSubmit(context.Background())
	assert.ErrorIs(t, err, ErrNotAtConfirmation)
	assert.False(t, c.Snapshot().IsEmpty())
}

func TestFinalSubmitGatewayFailureKeepsCart(t *testing.T) {
	c := filledCart()
	f := NewFlow(c, &recordingGateway{err: errors.New("down")}, nil)
	walkToConfirmation(t, f)

	_, err := f.FinalSubmit(context.Background())
	require.Error(t, err)
	assert.False(t, c.Snapshot().IsEmpty())
	assert.Equal(t, StepFinalConfirmation, f.Step())
}

func TestEmptyCartShortCircuits(t *testing.T) {
	c := cart.NewStore(nil)
	f := NewFlow(c, nil, nil)

	v := f.View()
	assert.True(t, v.EmptyCart)
	assert.Equal(t, EmptyCartNotice, v.Notice)
	assert.Nil(t, v.Summary)

	_, err := f.Next()
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestMockGatewayHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MockGateway{Delay: time.Hour}.Redirect(ctx, Order{})
	assert.ErrorIs(t, err, context.Canceled)

	notice, err := MockGateway{Delay: time.Millisecond}.Redirect(context.Background(), Order{})
	require.NoError(t, err)
	assert.Equal(t, RedirectNotice, notice)
}

func TestViewSummary(t *testing.T) {
	c := filledCart()
	c.AddToCart(domain.Product{ID: "existing-user-package", Name: "renew", Price: 1000000})
	f := NewFlow(c, nil, nil)

	v := f.View()
	require.NotNil(t, v.Summary)
	assert.Equal(t, int64(3400000), v.Summary.Total)
	assert.Equal(t, 2, v.Summary.ItemCount)
	assert.True(t, v.Summary.FreeShipping)
	assert.Len(t, v.Steps, 4)
	assert.Equal(t, "اطلاعات شخصی", v.StepLabel)
}
