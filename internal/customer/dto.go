package customer

import (
	"time"

	"comptoir/internal/domain"
)

type CustomerRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	FiscalNumber string `json:"fiscalNumber"`
}

func (r CustomerRequest) toDomain() domain.Customer {
	return domain.Customer{
		Name:         r.Name,
		Category:     domain.CustomerCategory(r.Category),
		Email:        r.Email,
		Phone:        r.Phone,
		Address:      r.Address,
		FiscalNumber: r.FiscalNumber,
	}
}

type AttachmentResponse struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	StoredName string    `json:"storedName"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type CustomerResponse struct {
	ID           int                  `json:"id"`
	Name         string               `json:"name"`
	Category     string               `json:"category"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	Address      string               `json:"address"`
	FiscalNumber string               `json:"fiscalNumber,omitempty"`
	Attachments  []AttachmentResponse `json:"attachments,omitempty"`
}

func customerResponse(c domain.Customer) CustomerResponse {
	out := CustomerResponse{
		ID:           c.ID,
		Name:         c.Name,
		Category:     string(c.Category),
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		FiscalNumber: c.FiscalNumber,
	}
	for _, ref := range c.Attachments {
		out.Attachments = append(out.Attachments, attachmentResponse(ref))
	}
	return out
}

func attachmentResponse(ref domain.FileRef) AttachmentResponse {
	return AttachmentResponse{
		ID:         ref.ID,
		Name:       ref.Name,
		StoredName: ref.StoredName,
		UploadedAt: ref.UploadedAt,
	}
}
