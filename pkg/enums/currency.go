package enums

import "fmt"

// Currency is the ISO 4217 code a price is denominated in.
type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

var validCurrencies = []Currency{
	CurrencyGBP,
	CurrencyEUR,
	CurrencyUSD,
}

func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts the raw string to Currency.
func ParseCurrency(value string) (Currency, error) {
	for _, candidate := range validCurrencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}

func (c Currency) String() string { return string(c) }
