package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
)

func productLine(id int, price string, qty int) domain.DocumentItem {
	return domain.DocumentItem{
		Ref:      domain.ProductRef(id),
		Name:     "product",
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
	}
}

func serviceLine(id int, price string, qty int) domain.DocumentItem {
	return domain.DocumentItem{
		Ref:      domain.ServiceRef(id),
		Name:     "service",
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
	}
}

func TestCompute_VATAndStampDuty(t *testing.T) {
	items := []domain.DocumentItem{productLine(1, "100.000", 3)}
	params := Params{
		UseVAT:    true,
		VATRate:   decimal.NewFromInt(19),
		StampDuty: decimal.RequireFromString("1.000"),
	}

	b, err := Compute(items, params)
	require.NoError(t, err)

	assert.True(t, b.Subtotal.Equal(decimal.RequireFromString("300.000")), "subtotal %s", b.Subtotal)
	assert.True(t, b.DiscountAmount.IsZero())
	assert.True(t, b.VATAmount.Equal(decimal.RequireFromString("57.000")), "vat %s", b.VATAmount)
	assert.True(t, b.Total.Equal(decimal.RequireFromString("358.000")), "total %s", b.Total)
}

func TestCompute_DiscountBeforeVAT(t *testing.T) {
	items := []domain.DocumentItem{
		productLine(1, "50.000", 2),
		serviceLine(2, "30.000", 1),
	}
	params := Params{
		UseVAT:          true,
		VATRate:         decimal.NewFromInt(19),
		DiscountPercent: decimal.NewFromInt(10),
	}

	b, err := Compute(items, params)
	require.NoError(t, err)

	assert.True(t, b.Subtotal.Equal(decimal.RequireFromString("130.000")))
	assert.True(t, b.DiscountAmount.Equal(decimal.RequireFromString("13.000")))
	assert.True(t, b.TaxableBase.Equal(decimal.RequireFromString("117.000")))
	assert.True(t, b.VATAmount.Equal(decimal.RequireFromString("22.230")), "vat %s", b.VATAmount)
	assert.True(t, b.Total.Equal(decimal.RequireFromString("139.230")), "total %s", b.Total)
}

func TestCompute_VATDisabled(t *testing.T) {
	items := []domain.DocumentItem{productLine(1, "10.500", 4)}
	params := Params{UseVAT: false, VATRate: DefaultVATRate}

	b, err := Compute(items, params)
	require.NoError(t, err)

	assert.True(t, b.VATAmount.IsZero())
	assert.True(t, b.Total.Equal(decimal.RequireFromString("42.000")))
}

func TestCompute_EmptyLines(t *testing.T) {
	b, err := Compute(nil, DefaultParams())
	require.NoError(t, err)
	assert.True(t, b.Subtotal.IsZero())
	assert.True(t, b.Total.IsZero())
}

func TestCompute_Idempotent(t *testing.T) {
	items := []domain.DocumentItem{
		productLine(1, "19.990", 7),
		serviceLine(9, "120.450", 2),
	}
	params := Params{
		UseVAT:          true,
		VATRate:         decimal.NewFromInt(19),
		DiscountPercent: decimal.NewFromInt(5),
		StampDuty:       decimal.RequireFromString("0.600"),
	}

	first, err := Compute(items, params)
	require.NoError(t, err)
	second, err := Compute(items, params)
	require.NoError(t, err)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.VATAmount.Equal(second.VATAmount))
}

func TestCompute_NoDriftOverManyLines(t *testing.T) {
	// 0.1-style values that misbehave under binary floating point.
	var items []domain.DocumentItem
	for i := 0; i < 1000; i++ {
		items = append(items, productLine(i+1, "0.100", 1))
	}

	b, err := Compute(items, Params{UseVAT: false})
	require.NoError(t, err)
	assert.True(t, b.Subtotal.Equal(decimal.RequireFromString("100.000")), "subtotal %s", b.Subtotal)
}

func TestCompute_RejectsInvalidInputs(t *testing.T) {
	valid := []domain.DocumentItem{productLine(1, "10.000", 1)}

	cases := []struct {
		name   string
		items  []domain.DocumentItem
		params Params
	}{
		{"zero quantity", []domain.DocumentItem{productLine(1, "10.000", 0)}, DefaultParams()},
		{"negative price", []domain.DocumentItem{productLine(1, "-1.000", 1)}, DefaultParams()},
		{"no ref", []domain.DocumentItem{{Quantity: 1, Price: decimal.NewFromInt(1)}}, DefaultParams()},
		{"discount above 100", valid, Params{DiscountPercent: decimal.NewFromInt(101)}},
		{"negative discount", valid, Params{DiscountPercent: decimal.NewFromInt(-1)}},
		{"negative vat rate", valid, Params{UseVAT: true, VATRate: decimal.NewFromInt(-19)}},
		{"negative stamp", valid, Params{StampDuty: decimal.NewFromInt(-1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.items, tc.params)
			require.Error(t, err)
			_, ok := apperrors.IsValidationError(err)
			assert.True(t, ok, "expected ValidationError, got %T", err)
		})
	}
}

func TestTotalMatches(t *testing.T) {
	b, err := Compute([]domain.DocumentItem{productLine(1, "100.000", 1)}, Params{UseVAT: false})
	require.NoError(t, err)

	assert.True(t, b.TotalMatches(decimal.RequireFromString("100.000")))
	assert.True(t, b.TotalMatches(decimal.RequireFromString("100.001")))
	assert.False(t, b.TotalMatches(decimal.RequireFromString("100.002")))
	assert.False(t, b.TotalMatches(decimal.RequireFromString("99.000")))
}
