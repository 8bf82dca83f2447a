package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomerCategory string

const (
	CategoryEntreprise   CustomerCategory = "entreprise"
	CategoryInstallateur CustomerCategory = "installateur"
	CategoryParticulier  CustomerCategory = "particulier"
	CategoryAssociation  CustomerCategory = "association"
	CategoryIndustrie    CustomerCategory = "industrie"
	CategoryAgricole     CustomerCategory = "agricole"
	CategoryEtatique     CustomerCategory = "etatique"
)

func (c CustomerCategory) Valid() bool {
	switch c {
	case CategoryEntreprise, CategoryInstallateur, CategoryParticulier,
		CategoryAssociation, CategoryIndustrie, CategoryAgricole, CategoryEtatique:
		return true
	}
	return false
}

// FileRef points at an uploaded attachment on disk.
type FileRef struct {
	ID         int
	Name       string
	StoredName string
	UploadedAt time.Time
}

type Customer struct {
	ID           int
	Name         string
	Category     CustomerCategory
	Email        string
	Phone        string
	Address      string
	FiscalNumber string
	Attachments  []FileRef
}

type Supplier struct {
	ID           int
	Name         string
	Email        string
	Phone        string
	Address      string
	FiscalNumber string
}

type Employee struct {
	ID      int
	Name    string
	Role    string
	Email   string
	Phone   string
	Salary  decimal.Decimal
	HiredAt time.Time
}
