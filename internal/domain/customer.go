package domain

// CustomerInfo is the checkout form draft. Email is optional.
type CustomerInfo struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

type PaymentMethod string

const (
	PaymentOnline   PaymentMethod = "online"
	PaymentTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentOnline || m == PaymentTransfer
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentOnline:
		return "پرداخت آنلاین"
	case PaymentTransfer:
		return "واریز به حساب"
	}
	return ""
}
