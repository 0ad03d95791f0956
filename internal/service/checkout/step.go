package checkout

// Step is a position in the checkout wizard.
type Step int

const (
	StepPersonalInfo Step = iota
	StepDeliveryAddress
	StepPaymentMethod
	StepFinalConfirmation
)

var stepLabels = [...]string{
	StepPersonalInfo:      "اطلاعات شخصی",
	StepDeliveryAddress:   "آدرس تحویل",
	StepPaymentMethod:     "روش پرداخت",
	StepFinalConfirmation: "تأیید نهایی",
}

func (s Step) Label() string {
	if s < 0 || int(s) >= len(stepLabels) {
		return ""
	}
	return stepLabels[s]
}

func (s Step) String() string {
	switch s {
	case StepPersonalInfo:
		return "personal-info"
	case StepDeliveryAddress:
		return "delivery-address"
	case StepPaymentMethod:
		return "payment-method"
	case StepFinalConfirmation:
		return "final-confirmation"
	}
	return "unknown"
}

// Labels lists every step label in order.
func Labels() []string {
	return append([]string(nil), stepLabels[:]...)
}
