package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale captures one sales transaction for a production unit.
type Sale struct {
	ID        string
	CropID    string
	Quantity  int
	UnitPrice decimal.Decimal
	Date      time.Time
}

// Total is always Quantity × UnitPrice, recomputed on demand. A stored total
// is never trusted; it drifts.
func (s Sale) Total() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}
