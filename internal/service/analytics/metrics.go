package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cropbook/internal/domain/models"
)

// This file holds the single authoritative definition of every per-unit
// financial formula. All report paths compute through these functions; no
// caller re-implements ROI or profit on its own.

// Revenue returns realized revenue for a production unit: market price times
// the effective yield, and only once the unit is SOLD. Anything earlier in
// the lifecycle contributes zero.
func Revenue(crop models.Crop) decimal.Decimal {
	if !crop.RevenueEligible() {
		return decimal.Zero
	}
	yield := crop.EffectiveYield()
	if !finite(yield) || yield <= 0 {
		return decimal.Zero
	}
	return crop.MarketPrice.Mul(decimal.NewFromFloat(yield))
}

// ProjectedRevenue returns the hypothetical revenue of an unsold unit if its
// effective yield sold at the current market price. SOLD and FAILED units
// project nothing.
func ProjectedRevenue(crop models.Crop) decimal.Decimal {
	if crop.IsTerminal() {
		return decimal.Zero
	}
	yield := crop.EffectiveYield()
	if !finite(yield) || yield <= 0 {
		return decimal.Zero
	}
	return crop.MarketPrice.Mul(decimal.NewFromFloat(yield))
}

// TotalExpenses sums the amounts of the given expense list. An empty list is
// a valid input and sums to zero.
func TotalExpenses(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(exp.Amount)
	}
	return total
}

// Profit is revenue minus total expenses. It may be negative.
func Profit(revenue, totalExpenses decimal.Decimal) decimal.Decimal {
	return revenue.Sub(totalExpenses)
}

// ROI returns (profit / totalExpenses) × 100 rounded to two decimals.
// When no expenses were recorded the percentage return has no meaning, so
// the result is defined as exactly 0 rather than infinite.
func ROI(profit, totalExpenses decimal.Decimal) float64 {
	if totalExpenses.Sign() <= 0 {
		return 0
	}
	return profit.Div(totalExpenses).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// CostPerYieldUnit divides total expenses by the yield quantity. The result
// is nil when there is no yield yet; "no yield" must stay distinguishable
// from "zero cost per unit".
func CostPerYieldUnit(totalExpenses decimal.Decimal, yieldQty float64) *decimal.Decimal {
	if !finite(yieldQty) || yieldQty <= 0 {
		return nil
	}
	v := totalExpenses.Div(decimal.NewFromFloat(yieldQty)).Round(2)
	return &v
}

// YieldPerArea divides the yield quantity by the cultivated area, nil when
// the area is unknown or zero.
func YieldPerArea(yieldQty, area float64) *float64 {
	if !finite(yieldQty) || !finite(area) || area <= 0 {
		return nil
	}
	v := round2(yieldQty / area)
	return &v
}

// DaysToHarvest returns the whole-day span between planting and harvest,
// nil when the unit has no harvest date yet.
func DaysToHarvest(planting time.Time, harvest *time.Time) *int {
	if harvest == nil || planting.IsZero() || harvest.IsZero() {
		return nil
	}
	days := daysBetween(planting, *harvest)
	return &days
}

// UnitMetrics bundles every derived figure for one production unit and its
// expense list.
func UnitMetrics(crop models.Crop, expenses []models.Expense) models.EntityMetrics {
	revenue := Revenue(crop)
	totalExpenses := TotalExpenses(expenses)
	profit := Profit(revenue, totalExpenses)

	return models.EntityMetrics{
		CropID:           crop.ID,
		Name:             crop.Name,
		Revenue:          revenue,
		TotalExpenses:    totalExpenses,
		Profit:           profit,
		ROIPercent:       ROI(profit, totalExpenses),
		CostPerYieldUnit: CostPerYieldUnit(totalExpenses, crop.EffectiveYield()),
		YieldPerArea:     YieldPerArea(crop.EffectiveYield(), crop.Area),
		DaysToHarvest:    DaysToHarvest(crop.PlantingDate, crop.HarvestDate()),
	}
}

// daysBetween counts whole calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
