// Package pricing computes document totals. Amounts are Tunisian Dinar,
// carried as decimals and rounded to 3 places (millimes) wherever a
// value is presented or persisted.
package pricing

import (
	"github.com/shopspring/decimal"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
)

var (
	hundred        = decimal.NewFromInt(100)
	DefaultVATRate = decimal.NewFromInt(19)
)

// Params are the tax and discount inputs snapshotted on each document.
type Params struct {
	UseVAT          bool
	VATRate         decimal.Decimal
	DiscountPercent decimal.Decimal
	StampDuty       decimal.Decimal
}

func DefaultParams() Params {
	return Params{
		UseVAT:  true,
		VATRate: DefaultVATRate,
	}
}

// Breakdown holds every derived amount. Discount applies to the subtotal
// before VAT; stamp duty is added after VAT.
type Breakdown struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableBase    decimal.Decimal
	VATAmount      decimal.Decimal
	StampDuty      decimal.Decimal
	Total          decimal.Decimal
}

// Compute derives the full breakdown for a set of lines. It is a pure
// function: same lines and params always give the same breakdown.
func Compute(items []domain.DocumentItem, p Params) (Breakdown, error) {
	if err := validate(items, p); err != nil {
		return Breakdown{}, err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	subtotal = subtotal.Round(3)

	discount := subtotal.Mul(p.DiscountPercent).Div(hundred).Round(3)
	taxable := subtotal.Sub(discount)

	vat := decimal.Zero
	if p.UseVAT {
		vat = taxable.Mul(p.VATRate).Div(hundred).Round(3)
	}

	stamp := p.StampDuty.Round(3)

	return Breakdown{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableBase:    taxable,
		VATAmount:      vat,
		StampDuty:      stamp,
		Total:          taxable.Add(vat).Add(stamp).Round(3),
	}, nil
}

func validate(items []domain.DocumentItem, p Params) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if p.VATRate.IsNegative() {
		return apperrors.NewValidationError("invalid VAT rate",
			apperrors.ValidationDetail{Field: "vatRate", Message: "VAT rate must be non-negative"})
	}
	if p.DiscountPercent.IsNegative() || p.DiscountPercent.GreaterThan(hundred) {
		return apperrors.NewValidationError("invalid discount",
			apperrors.ValidationDetail{Field: "discountPercent", Message: "discount must be between 0 and 100"})
	}
	if p.StampDuty.IsNegative() {
		return apperrors.NewValidationError("invalid stamp duty",
			apperrors.ValidationDetail{Field: "stampDuty", Message: "stamp duty must be non-negative"})
	}
	return nil
}

// Tolerance is the maximum accepted distance between a client-supplied
// total and the recomputed one: one millime.
var Tolerance = decimal.New(1, -3)

// TotalMatches reports whether a claimed total agrees with the breakdown
// within Tolerance.
func (b Breakdown) TotalMatches(claimed decimal.Decimal) bool {
	return b.Total.Sub(claimed).Abs().LessThanOrEqual(Tolerance)
}
