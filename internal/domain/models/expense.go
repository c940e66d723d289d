package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies an operating expense.
type ExpenseCategory string

const (
	CategorySeeds          ExpenseCategory = "SEEDS"
	CategoryFertilizer     ExpenseCategory = "FERTILIZER"
	CategoryLabor          ExpenseCategory = "LABOR"
	CategoryEquipment      ExpenseCategory = "EQUIPMENT"
	CategoryFuel           ExpenseCategory = "FUEL"
	CategoryIrrigation     ExpenseCategory = "IRRIGATION"
	CategoryTransportation ExpenseCategory = "TRANSPORTATION"
	CategoryOther          ExpenseCategory = "OTHER"
)

// Expense captures one operating expense against a production unit.
// A normalized expense always references exactly one unit and carries a
// strictly positive amount; records violating that are rejected at the
// ingestion boundary, never aggregated.
type Expense struct {
	ID       string
	CropID   string
	Category ExpenseCategory
	Amount   decimal.Decimal
	Date     time.Time
	Notes    string
}
