package reporting

import "github.com/shopspring/decimal"

// Tariff holds the property rates; a single record exists per property.
type Tariff struct {
	HourRate   decimal.Decimal
	NightRate  decimal.Decimal
	TaxPercent decimal.Decimal
}

// DefaultTariff is applied when no tariff has been stored.
func DefaultTariff() Tariff {
	return Tariff{
		HourRate:   decimal.NewFromInt(50),
		NightRate:  decimal.NewFromInt(100),
		TaxPercent: decimal.Zero,
	}
}

// TaxIncluded returns the tax share contained in a tax-inclusive amount.
func (t Tariff) TaxIncluded(amount decimal.Decimal) decimal.Decimal {
	if !t.TaxPercent.IsPositive() {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return amount.Mul(t.TaxPercent).Div(hundred.Add(t.TaxPercent)).Round(0)
}
