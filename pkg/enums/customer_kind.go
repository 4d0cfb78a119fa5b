package enums

import "fmt"

// CustomerKind distinguishes how a customer record entered the system.
type CustomerKind string

const (
	CustomerKindReservation CustomerKind = "reservation"
	CustomerKindTradeIn     CustomerKind = "trade_in"
	CustomerKindNewsletter  CustomerKind = "newsletter"
)

var validCustomerKinds = []CustomerKind{
	CustomerKindReservation,
	CustomerKindTradeIn,
	CustomerKindNewsletter,
}

func (k CustomerKind) IsValid() bool {
	for _, candidate := range validCustomerKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseCustomerKind converts the raw string to CustomerKind.
func ParseCustomerKind(value string) (CustomerKind, error) {
	for _, candidate := range validCustomerKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer kind %q", value)
}

func (k CustomerKind) String() string { return string(k) }
