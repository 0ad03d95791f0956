package checkout

import (
	"smartband-store/internal/domain"
	"smartband-store/internal/money"
)

// FreeShippingThreshold is the order total above which shipping is free.
const FreeShippingThreshold int64 = 1000000

type SummaryLine struct {
	ProductID        string `json:"productId"`
	Name             string `json:"name"`
	Quantity         int    `json:"quantity"`
	UnitPrice        int64  `json:"unitPrice"`
	LineTotal        int64  `json:"lineTotal"`
	LineTotalDisplay string `json:"lineTotalDisplay"`
}

type Summary struct {
	Lines        []SummaryLine `json:"lines"`
	Total        int64         `json:"total"`
	TotalDisplay string        `json:"totalDisplay"`
	ItemCount    int           `json:"itemCount"`
	FreeShipping bool          `json:"freeShipping"`
}

// View is what the client renders for the checkout page.
type View struct {
	EmptyCart     bool                 `json:"emptyCart"`
	Notice        string               `json:"notice,omitempty"`
	Step          int                  `json:"step"`
	StepLabel     string               `json:"stepLabel,omitempty"`
	Steps         []string             `json:"steps,omitempty"`
	StepValid     bool                 `json:"stepValid"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentLabel  string               `json:"paymentLabel,omitempty"`
	CustomerInfo  *domain.CustomerInfo `json:"customerInfo,omitempty"`
	Summary       *Summary             `json:"summary,omitempty"`
}

func NewSummary(state domain.CartState) Summary {
	s := Summary{
		Lines:        make([]SummaryLine, 0, len(state.Items)),
		Total:        state.Total,
		TotalDisplay: money.FormatToman(state.Total),
		ItemCount:    state.ItemCount,
		FreeShipping: state.Total > FreeShippingThreshold,
	}
	for _, it := range state.Items {
		s.Lines = append(s.Lines, SummaryLine{
			ProductID:        it.ID,
			Name:             it.Name,
			Quantity:         it.Quantity,
			UnitPrice:        it.Price,
			LineTotal:        it.LineTotal(),
			LineTotalDisplay: money.FormatToman(it.LineTotal()),
		})
	}
	return s
}

// View renders the flow. An empty cart short-circuits to the empty notice.
func (f *Flow) View() View {
	state := f.cart.Snapshot()
	if state.IsEmpty() {
		return View{EmptyCart: true, Notice: EmptyCartNotice}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	info := f.info
	summary := NewSummary(state)
	return View{
		Step:          int(f.step),
		StepLabel:     f.step.Label(),
		Steps:         Labels(),
		StepValid:     len(f.missing(f.step)) == 0,
		PaymentMethod: f.method,
		PaymentLabel:  f.method.Label(),
		CustomerInfo:  &info,
		Summary:       &summary,
	}
}
