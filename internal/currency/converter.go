package currency

import (
	"fmt"
	"strings"

	"github.com/danhewitt/motorline-backend/pkg/config"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	pkgerrors "github.com/danhewitt/motorline-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Converter applies static display rates to integer minor-unit prices.
// Rates are relative to the base currency (base = 1). Stored prices stay
// in their original currency; conversion only affects what is shown.
type Converter struct {
	base  enums.Currency
	rates map[enums.Currency]decimal.Decimal
}

// NewConverter parses the configured rate list ("EUR=1.17,USD=1.27").
func NewConverter(cfg config.CurrencyConfig) (*Converter, error) {
	base, err := enums.ParseCurrency(cfg.Base)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base currency")
	}

	rates := map[enums.Currency]decimal.Decimal{
		base: decimal.NewFromInt(1),
	}
	for _, pair := range strings.Split(cfg.Rates, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("malformed rate entry %q", pair))
		}
		code, err := enums.ParseCurrency(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rate currency")
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid rate for %s", code))
		}
		if rate.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rate for %s must be positive", code))
		}
		rates[code] = rate
	}

	return &Converter{base: base, rates: rates}, nil
}

// Base returns the base currency.
func (c *Converter) Base() enums.Currency {
	return c.base
}

// Supports reports whether a rate is configured for the currency.
func (c *Converter) Supports(code enums.Currency) bool {
	_, ok := c.rates[code]
	return ok
}

// Convert re-expresses a minor-unit amount from one currency in another,
// rounding half away from zero to the nearest minor unit.
func (c *Converter) Convert(amountMinor int64, from, to enums.Currency) (int64, error) {
	if from == to {
		return amountMinor, nil
	}
	fromRate, ok := c.rates[from]
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("no rate for currency %s", from))
	}
	toRate, ok := c.rates[to]
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("no rate for currency %s", to))
	}

	amount := decimal.NewFromInt(amountMinor)
	converted := amount.Div(fromRate).Mul(toRate).Round(0)
	return converted.IntPart(), nil
}
