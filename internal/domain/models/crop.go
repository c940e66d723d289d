package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CropStatus is the lifecycle state of a production unit.
type CropStatus string

const (
	StatusPlanned         CropStatus = "PLANNED"
	StatusPlanted         CropStatus = "PLANTED"
	StatusGrowing         CropStatus = "GROWING"
	StatusReadyForHarvest CropStatus = "READY_FOR_HARVEST"
	StatusHarvested       CropStatus = "HARVESTED"
	StatusStocked         CropStatus = "STOCKED"
	StatusSold            CropStatus = "SOLD"
	StatusFailed          CropStatus = "FAILED"
)

// KnownStatuses lists every valid lifecycle state in progression order.
var KnownStatuses = []CropStatus{
	StatusPlanned,
	StatusPlanted,
	StatusGrowing,
	StatusReadyForHarvest,
	StatusHarvested,
	StatusStocked,
	StatusSold,
	StatusFailed,
}

// Valid reports whether the status is one of the known lifecycle states.
func (s CropStatus) Valid() bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Crop represents one production unit (a planting or a livestock group)
// tracked through its status lifecycle. The engine treats it as an immutable
// snapshot for the duration of one aggregation pass.
type Crop struct {
	ID                  string
	Name                string
	Type                string
	Status              CropStatus
	PlantingDate        time.Time
	ExpectedHarvestDate *time.Time
	ActualHarvestDate   *time.Time
	Area                float64
	AreaUnit            string
	ExpectedYield       float64
	ActualYield         float64
	YieldUnit           string
	MarketPrice         decimal.Decimal
}

// RevenueEligible reports whether the unit contributes realized revenue.
// Only SOLD units do; anything earlier in the lifecycle is unrealized.
func (c Crop) RevenueEligible() bool {
	return c.Status == StatusSold
}

// IsTerminal reports whether the unit has left the active lifecycle.
func (c Crop) IsTerminal() bool {
	return c.Status == StatusSold || c.Status == StatusFailed
}

// IsActive reports whether the unit is still being worked.
func (c Crop) IsActive() bool {
	return !c.IsTerminal()
}

// EffectiveYield returns the actual yield when recorded, otherwise the
// expected yield.
func (c Crop) EffectiveYield() float64 {
	if c.ActualYield > 0 {
		return c.ActualYield
	}
	return c.ExpectedYield
}

// HarvestDate returns the actual harvest date when recorded, otherwise the
// expected one, otherwise nil.
func (c Crop) HarvestDate() *time.Time {
	if c.ActualHarvestDate != nil {
		return c.ActualHarvestDate
	}
	return c.ExpectedHarvestDate
}
