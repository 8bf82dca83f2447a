package controller

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/pricing"
)

// CreateDocumentRequest is the wire shape for document creation. The
// header may arrive under "invoice" (the historical key) or the generic
// "document" key.
type CreateDocumentRequest struct {
	Invoice  *DocumentPayload `json:"invoice,omitempty"`
	Document *DocumentPayload `json:"document,omitempty"`
	Items    []ItemPayload    `json:"items"`
}

func (r CreateDocumentRequest) header() *DocumentPayload {
	if r.Invoice != nil {
		return r.Invoice
	}
	return r.Document
}

type DocumentPayload struct {
	CustomerID      int              `json:"customerId"`
	Date            time.Time        `json:"date"`
	Status          string           `json:"status"`
	PaymentType     string           `json:"paymentType"`
	Total           decimal.Decimal  `json:"total"`
	UseVAT          *bool            `json:"useVat,omitempty"`
	VATRate         *decimal.Decimal `json:"vatRate,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discountPercent"`
	StampDuty       decimal.Decimal  `json:"stampDuty"`
}

type ItemPayload struct {
	ProductID *int            `json:"productId,omitempty"`
	ServiceID *int            `json:"serviceId,omitempty"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// toDomain maps an item payload to the tagged domain representation,
// rejecting payloads that set both or neither of productId/serviceId.
func (p ItemPayload) toDomain(idx int) (domain.DocumentItem, error) {
	field := func(name, msg string) apperrors.ValidationDetail {
		return apperrors.ValidationDetail{Field: name, Message: msg}
	}

	var ref domain.LineRef
	switch {
	case p.ProductID != nil && p.ServiceID != nil:
		return domain.DocumentItem{}, apperrors.NewValidationError("invalid item",
			field(itemField(idx), "productId and serviceId are mutually exclusive"))
	case p.ProductID != nil:
		ref = domain.ProductRef(*p.ProductID)
	case p.ServiceID != nil:
		ref = domain.ServiceRef(*p.ServiceID)
	default:
		return domain.DocumentItem{}, apperrors.NewValidationError("invalid item",
			field(itemField(idx), "one of productId or serviceId is required"))
	}

	return domain.DocumentItem{
		Ref:      ref,
		Name:     p.Name,
		Quantity: p.Quantity,
		Price:    p.Price,
	}, nil
}

func itemField(idx int) string {
	return "items[" + strconv.Itoa(idx) + "]"
}

func (p DocumentPayload) toDomain(docType domain.DocType) domain.Document {
	useVAT := true
	if p.UseVAT != nil {
		useVAT = *p.UseVAT
	}
	vatRate := pricing.DefaultVATRate
	if p.VATRate != nil {
		vatRate = *p.VATRate
	}
	status := p.Status
	if status == "" {
		status = domain.StatusPending
	}
	return domain.Document{
		Type:            docType,
		CustomerID:      p.CustomerID,
		Date:            p.Date,
		Status:          status,
		PaymentType:     domain.PaymentType(p.PaymentType),
		DiscountPercent: p.DiscountPercent,
		UseVAT:          useVAT,
		VATRate:         vatRate,
		StampDuty:       p.StampDuty,
		Total:           p.Total,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type DocumentResponse struct {
	ID              int             `json:"id"`
	Type            string          `json:"type"`
	CustomerID      int             `json:"customerId"`
	Date            time.Time       `json:"date"`
	Status          string          `json:"status"`
	PaymentType     string          `json:"paymentType,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	UseVAT          bool            `json:"useVat"`
	VATRate         decimal.Decimal `json:"vatRate"`
	VATAmount       decimal.Decimal `json:"vatAmount"`
	StampDuty       decimal.Decimal `json:"stampDuty"`
	Total           decimal.Decimal `json:"total"`
	Items           []ItemResponse  `json:"items,omitempty"`
}

type ItemResponse struct {
	ID        int             `json:"id"`
	ProductID *int            `json:"productId,omitempty"`
	ServiceID *int            `json:"serviceId,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func documentResponse(doc domain.Document, items []domain.DocumentItem) DocumentResponse {
	resp := DocumentResponse{
		ID:              doc.ID,
		Type:            string(doc.Type),
		CustomerID:      doc.CustomerID,
		Date:            doc.Date,
		Status:          doc.Status,
		PaymentType:     string(doc.PaymentType),
		Subtotal:        doc.Subtotal,
		DiscountPercent: doc.DiscountPercent,
		DiscountAmount:  doc.DiscountAmount,
		UseVAT:          doc.UseVAT,
		VATRate:         doc.VATRate,
		VATAmount:       doc.VATAmount,
		StampDuty:       doc.StampDuty,
		Total:           doc.Total,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, itemResponse(item))
	}
	return resp
}

func itemResponse(item domain.DocumentItem) ItemResponse {
	resp := ItemResponse{
		ID:       item.ID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Price:    item.Price,
	}
	id := item.Ref.ID
	switch item.Ref.Kind {
	case domain.LineProduct:
		resp.ProductID = &id
	case domain.LineService:
		resp.ServiceID = &id
	}
	return resp
}
