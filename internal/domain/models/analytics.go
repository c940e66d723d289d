package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Granularity selects the calendar bucket size for trend aggregation.
type Granularity string

const (
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// Valid reports whether the granularity is supported.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityWeek, GranularityMonth, GranularityQuarter, GranularityYear:
		return true
	}
	return false
}

// ReportFilters narrows the record set before any metric computation.
// Filtering happens exactly once, up front, so every report section is
// derived from the same filtered set.
type ReportFilters struct {
	Statuses    []CropStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Granularity Granularity
	TopN        int
	DenseTrend  bool
	PerUnit     bool
}

// EntityMetrics carries the derived financial and yield figures for one
// production unit. Pointer fields are nil when the underlying data does not
// exist yet ("no data" is not "zero").
type EntityMetrics struct {
	CropID           string           `json:"crop_id"`
	Name             string           `json:"name"`
	Revenue          decimal.Decimal  `json:"revenue"`
	TotalExpenses    decimal.Decimal  `json:"total_expenses"`
	Profit           decimal.Decimal  `json:"profit"`
	ROIPercent       float64          `json:"roi_percent"`
	CostPerYieldUnit *decimal.Decimal `json:"cost_per_yield_unit,omitempty"`
	YieldPerArea     *float64         `json:"yield_per_area,omitempty"`
	DaysToHarvest    *int             `json:"days_to_harvest,omitempty"`
}

// GrowthStageAllocation is the expense sum attributed to one lifecycle phase.
type GrowthStageAllocation struct {
	Stage        string          `json:"stage"`
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	DurationDays int             `json:"duration_days"`
	Total        decimal.Decimal `json:"total"`
}

// StageBreakdown is the full phase attribution for one production unit.
// Expenses dated before planting, or past the allocation horizon, land in
// Unallocated rather than disappearing.
type StageBreakdown struct {
	CropID      string                  `json:"crop_id"`
	Stages      []GrowthStageAllocation `json:"stages"`
	Unallocated decimal.Decimal         `json:"unallocated"`
}

// PeriodAggregate is one calendar bucket of the trend series.
type PeriodAggregate struct {
	Period     string          `json:"period"`
	Start      time.Time       `json:"start"`
	UnitCount  int             `json:"unit_count"`
	Revenue    decimal.Decimal `json:"revenue"`
	Expenses   decimal.Decimal `json:"expenses"`
	AvgROI     float64         `json:"avg_roi"`
	AvgProfit  float64         `json:"avg_profit"`
	SaleCount  int             `json:"sale_count"`
	CostEvents int             `json:"cost_events"`
}

// ComparativeDelta is one row of a current-vs-previous comparison.
// Sign is -1, 0 or +1 so presentation can colour rows without re-deriving it.
type ComparativeDelta struct {
	Metric        string  `json:"metric"`
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	PercentChange float64 `json:"percent_change"`
	Sign          int     `json:"sign"`
}

// ReportSummary is the headline block of an analytics report.
type ReportSummary struct {
	TotalUnits       int             `json:"total_units"`
	ActiveUnits      int             `json:"active_units"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	ProjectedRevenue decimal.Decimal `json:"projected_revenue"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	AverageROI       float64         `json:"average_roi"`
}

// TypeCount is one row of the by-type distribution.
type TypeCount struct {
	Type      string  `json:"type"`
	Count     int     `json:"count"`
	TotalArea float64 `json:"total_area"`
}

// StatusCount is one row of the by-status distribution.
type StatusCount struct {
	Status        CropStatus      `json:"status"`
	Count         int             `json:"count"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

// ExpenseRank is one row of the top-N-by-expense ranking.
type ExpenseRank struct {
	CropID        string          `json:"crop_id"`
	Name          string          `json:"name"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

// ReportDistribution groups the distribution sections.
type ReportDistribution struct {
	ByType   []TypeCount   `json:"by_type"`
	ByStatus []StatusCount `json:"by_status"`
}

// AnalyticsReport is the complete payload handed to the presentation layer.
// It is rebuilt from scratch on every call and has no identity of its own.
type AnalyticsReport struct {
	GeneratedAt  time.Time          `json:"generated_at"`
	Summary      ReportSummary      `json:"summary"`
	Distribution ReportDistribution `json:"distribution"`
	Trend        []PeriodAggregate  `json:"trend"`
	TopByExpense []ExpenseRank      `json:"top_by_expense"`
	PerUnit      []EntityMetrics    `json:"per_unit,omitempty"`
	Stages       []StageBreakdown   `json:"stages,omitempty"`
	Comparison   []ComparativeDelta `json:"comparison,omitempty"`
}
