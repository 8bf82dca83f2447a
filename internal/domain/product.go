package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

// CanFulfil reports whether the product has enough stock left for the
// requested quantity.
func (p Product) CanFulfil(quantity int) bool {
	return quantity >= 1 && p.Stock >= quantity
}

// Service is a catalog entry without stock: selling one does not deplete
// anything.
type Service struct {
	ID          int
	Name        string
	Description string
	Price       decimal.Decimal
}
