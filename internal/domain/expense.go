package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Attachment  *FileRef
}
