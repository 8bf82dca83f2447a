package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDocType_Valid(t *testing.T) {
	assert.True(t, DocTypeInvoice.Valid())
	assert.True(t, DocTypeQuote.Valid())
	assert.True(t, DocTypeCreditNote.Valid())
	assert.True(t, DocTypeDeliveryNote.Valid())
	assert.False(t, DocType("receipt").Valid())
}

func TestDocType_StockEffect(t *testing.T) {
	assert.Equal(t, StockConsume, DocTypeInvoice.StockEffect())
	assert.Equal(t, StockRestore, DocTypeCreditNote.StockEffect())
	assert.Equal(t, StockNone, DocTypeQuote.StockEffect())
	assert.Equal(t, StockNone, DocTypeDeliveryNote.StockEffect())
}

func TestDocType_ValidStatus(t *testing.T) {
	assert.True(t, DocTypeInvoice.ValidStatus(StatusPaid))
	assert.False(t, DocTypeInvoice.ValidStatus(StatusDelivered))

	assert.True(t, DocTypeQuote.ValidStatus(StatusAccepted))
	assert.False(t, DocTypeQuote.ValidStatus(StatusPaid))

	assert.True(t, DocTypeCreditNote.ValidStatus(StatusRefunded))
	assert.True(t, DocTypeDeliveryNote.ValidStatus(StatusDelivered))

	assert.True(t, DocTypeInvoice.ValidStatus(StatusPending))
	assert.False(t, DocTypeInvoice.ValidStatus("archived"))
}

func TestPaymentType_Valid(t *testing.T) {
	assert.True(t, PaymentVirement.Valid())
	assert.True(t, PaymentEspece.Valid())
	assert.True(t, PaymentCheque.Valid())
	assert.True(t, PaymentTraite.Valid())
	assert.False(t, PaymentType("bitcoin").Valid())
}

func TestLineRef_Constructors(t *testing.T) {
	p := ProductRef(4)
	assert.Equal(t, LineProduct, p.Kind)
	assert.Equal(t, 4, p.ID)
	assert.True(t, p.Valid())

	s := ServiceRef(2)
	assert.Equal(t, LineService, s.Kind)
	assert.Equal(t, 2, s.ID)
	assert.True(t, s.Valid())
}

func TestLineRef_Invalid(t *testing.T) {
	assert.False(t, LineRef{}.Valid())
	assert.False(t, LineRef{Kind: LineProduct, ID: 0}.Valid())
	assert.False(t, LineRef{Kind: LineKind("bundle"), ID: 3}.Valid())
}

func TestDocumentItem_Validate(t *testing.T) {
	valid := DocumentItem{
		Ref:      ProductRef(1),
		Quantity: 2,
		Price:    decimal.RequireFromString("10.500"),
	}
	assert.NoError(t, valid.Validate())

	zeroQty := valid
	zeroQty.Quantity = 0
	assert.Error(t, zeroQty.Validate())

	negativePrice := valid
	negativePrice.Price = decimal.RequireFromString("-1")
	assert.Error(t, negativePrice.Validate())

	badRef := valid
	badRef.Ref = LineRef{}
	assert.Error(t, badRef.Validate())
}

func TestDocumentItem_LineTotal(t *testing.T) {
	item := DocumentItem{
		Ref:      ProductRef(1),
		Quantity: 3,
		Price:    decimal.RequireFromString("100.000"),
	}
	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("300.000")))
}

func TestCustomerCategory_Valid(t *testing.T) {
	for _, category := range []CustomerCategory{
		CategoryEntreprise, CategoryInstallateur, CategoryParticulier,
		CategoryAssociation, CategoryIndustrie, CategoryAgricole, CategoryEtatique,
	} {
		assert.True(t, category.Valid(), string(category))
	}
	assert.False(t, CustomerCategory("ong").Valid())
}

func TestProduct_CanFulfil(t *testing.T) {
	p := Product{Stock: 5}
	assert.True(t, p.CanFulfil(5))
	assert.True(t, p.CanFulfil(1))
	assert.False(t, p.CanFulfil(6))
}
