package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cropbook/internal/domain/models"
)

func TestCompareKeepsInputOrder(t *testing.T) {
	pairs := []MetricPair{
		{Metric: "revenue", Current: 120, Previous: 100},
		{Metric: "expenses", Current: 80, Previous: 100},
		{Metric: "unit_count", Current: 4, Previous: 4},
	}

	deltas := Compare(pairs)
	require.Len(t, deltas, 3)

	assert.Equal(t, "revenue", deltas[0].Metric)
	assert.Equal(t, 20.0, deltas[0].PercentChange)
	assert.Equal(t, 1, deltas[0].Sign)

	assert.Equal(t, "expenses", deltas[1].Metric)
	assert.Equal(t, -20.0, deltas[1].PercentChange)
	assert.Equal(t, -1, deltas[1].Sign)

	assert.Equal(t, "unit_count", deltas[2].Metric)
	assert.Equal(t, 0.0, deltas[2].PercentChange)
	assert.Equal(t, 0, deltas[2].Sign)
}

func TestCompareZeroPreviousGuard(t *testing.T) {
	deltas := Compare([]MetricPair{
		{Metric: "revenue", Current: 500, Previous: 0},
		{Metric: "expenses", Current: 10, Previous: -5},
	})

	require.Len(t, deltas, 2)
	assert.Equal(t, 0.0, deltas[0].PercentChange, "growth from zero has no meaningful percentage")
	assert.Equal(t, 1, deltas[0].Sign)
	assert.Equal(t, 0.0, deltas[1].PercentChange)
}

func TestPeriodComparisonUsesRealBuckets(t *testing.T) {
	previous := models.PeriodAggregate{
		Period:    "2026-01",
		Revenue:   decimal.RequireFromString("100"),
		Expenses:  decimal.RequireFromString("60"),
		UnitCount: 2,
		AvgROI:    15,
		AvgProfit: 20,
	}
	current := models.PeriodAggregate{
		Period:    "2026-02",
		Revenue:   decimal.RequireFromString("150"),
		Expenses:  decimal.RequireFromString("60"),
		UnitCount: 3,
		AvgROI:    18,
		AvgProfit: 30,
	}

	deltas := PeriodComparison(current, previous)
	require.Len(t, deltas, 5)

	assert.Equal(t, "revenue", deltas[0].Metric)
	assert.Equal(t, 150.0, deltas[0].Current)
	assert.Equal(t, 100.0, deltas[0].Previous)
	assert.Equal(t, 50.0, deltas[0].PercentChange)

	assert.Equal(t, "expenses", deltas[1].Metric)
	assert.Equal(t, 0, deltas[1].Sign)

	assert.Equal(t, "unit_count", deltas[2].Metric)
	assert.Equal(t, 50.0, deltas[2].PercentChange)

	assert.Equal(t, "avg_roi", deltas[3].Metric)
	assert.Equal(t, 20.0, deltas[3].PercentChange)

	assert.Equal(t, "avg_profit", deltas[4].Metric)
	assert.Equal(t, 50.0, deltas[4].PercentChange)
}
