package domain

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "comptoir/internal/errors"
)

type DocType string

const (
	DocTypeInvoice      DocType = "invoice"
	DocTypeQuote        DocType = "quote"
	DocTypeCreditNote   DocType = "credit_note"
	DocTypeDeliveryNote DocType = "delivery_note"
)

func (t DocType) Valid() bool {
	switch t {
	case DocTypeInvoice, DocTypeQuote, DocTypeCreditNote, DocTypeDeliveryNote:
		return true
	}
	return false
}

// StockEffect describes what creating a document of this type does to
// product stock. Invoices consume, credit notes return, quotes and
// delivery notes leave stock alone.
type StockEffect int

const (
	StockNone StockEffect = iota
	StockConsume
	StockRestore
)

func (t DocType) StockEffect() StockEffect {
	switch t {
	case DocTypeInvoice:
		return StockConsume
	case DocTypeCreditNote:
		return StockRestore
	}
	return StockNone
}

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusRefunded  = "refunded"
	StatusDelivered = "delivered"
)

var statusesByType = map[DocType][]string{
	DocTypeInvoice:      {StatusPending, StatusPaid, StatusCancelled},
	DocTypeQuote:        {StatusPending, StatusAccepted, StatusRejected},
	DocTypeCreditNote:   {StatusPending, StatusRefunded, StatusCancelled},
	DocTypeDeliveryNote: {StatusPending, StatusDelivered, StatusCancelled},
}

func (t DocType) ValidStatus(status string) bool {
	for _, s := range statusesByType[t] {
		if s == status {
			return true
		}
	}
	return false
}

type PaymentType string

const (
	PaymentVirement PaymentType = "virement"
	PaymentEspece   PaymentType = "espece"
	PaymentCheque   PaymentType = "cheque"
	PaymentTraite   PaymentType = "traite"
)

func (p PaymentType) Valid() bool {
	switch p {
	case PaymentVirement, PaymentEspece, PaymentCheque, PaymentTraite:
		return true
	}
	return false
}

type LineKind string

const (
	LineProduct LineKind = "product"
	LineService LineKind = "service"
)

// LineRef identifies the catalog entry behind a line: exactly one kind,
// exactly one id. Constructed only through ProductRef and ServiceRef so
// the product-or-service choice cannot be left ambiguous.
type LineRef struct {
	Kind LineKind
	ID   int
}

func ProductRef(id int) LineRef {
	return LineRef{Kind: LineProduct, ID: id}
}

func ServiceRef(id int) LineRef {
	return LineRef{Kind: LineService, ID: id}
}

func (r LineRef) Valid() bool {
	return (r.Kind == LineProduct || r.Kind == LineService) && r.ID > 0
}

// Document is the header shared by invoices, quotes, credit notes and
// delivery notes. Tax and discount parameters are snapshotted per
// document at creation time.
type Document struct {
	ID              int
	Type            DocType
	CustomerID      int
	Date            time.Time
	Status          string
	PaymentType     PaymentType
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	UseVAT          bool
	VATRate         decimal.Decimal
	VATAmount       decimal.Decimal
	StampDuty       decimal.Decimal
	Total           decimal.Decimal
	CreatedAt       time.Time
}

type DocumentItem struct {
	ID         int
	DocumentID int
	Ref        LineRef
	Name       string
	Quantity   int
	Price      decimal.Decimal
}

func (i DocumentItem) Validate() error {
	if !i.Ref.Valid() {
		return apperrors.NewValidationError("line must reference exactly one product or service",
			apperrors.ValidationDetail{Field: "ref", Message: "a positive productId or serviceId is required"})
	}
	if i.Quantity < 1 {
		return apperrors.NewValidationError("invalid quantity",
			apperrors.ValidationDetail{Field: "quantity", Message: "quantity must be at least 1"})
	}
	if i.Price.IsNegative() {
		return apperrors.NewValidationError("invalid price",
			apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"})
	}
	return nil
}

// LineTotal is price times quantity, rounded to the millime.
func (i DocumentItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(3)
}
