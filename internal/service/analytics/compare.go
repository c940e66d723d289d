package analytics

import (
	"github.com/mamadbah2/cropbook/internal/domain/models"
)

// MetricPair is one already-materialized current/previous value pair. How
// "previous" was obtained (prior month, prior year) is the caller's policy;
// the comparer only measures the two snapshots it is handed.
type MetricPair struct {
	Metric   string
	Current  float64
	Previous float64
}

// Compare computes the percentage delta for each metric pair. Output order
// matches input order so presentation can align rows without re-sorting.
// The percent change is 0 when the previous value is not positive, for the
// same reason ROI is 0 on zero expenses.
func Compare(pairs []MetricPair) []models.ComparativeDelta {
	deltas := make([]models.ComparativeDelta, 0, len(pairs))
	for _, pair := range pairs {
		current, previous := pair.Current, pair.Previous
		if !finite(current) {
			current = 0
		}
		if !finite(previous) {
			previous = 0
		}

		diff := current - previous
		var percent float64
		if previous > 0 {
			percent = round2(diff / previous * 100)
		}

		deltas = append(deltas, models.ComparativeDelta{
			Metric:        pair.Metric,
			Current:       current,
			Previous:      previous,
			PercentChange: percent,
			Sign:          sign(diff),
		})
	}
	return deltas
}

// PeriodComparison compares two trend buckets metric by metric. The previous
// bucket comes from real records of the prior period, never from a synthetic
// estimate of the current one.
func PeriodComparison(current, previous models.PeriodAggregate) []models.ComparativeDelta {
	return Compare([]MetricPair{
		{Metric: "revenue", Current: current.Revenue.InexactFloat64(), Previous: previous.Revenue.InexactFloat64()},
		{Metric: "expenses", Current: current.Expenses.InexactFloat64(), Previous: previous.Expenses.InexactFloat64()},
		{Metric: "unit_count", Current: float64(current.UnitCount), Previous: float64(previous.UnitCount)},
		{Metric: "avg_roi", Current: current.AvgROI, Previous: previous.AvgROI},
		{Metric: "avg_profit", Current: current.AvgProfit, Previous: previous.AvgProfit},
	})
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
