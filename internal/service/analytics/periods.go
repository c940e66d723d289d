package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cropbook/internal/domain/models"
)

// periodKey derives the bucket label and bucket start for a record date at
// the given granularity. Swapping granularity changes only this derivation;
// the aggregation below is granularity-agnostic.
func periodKey(t time.Time, g models.Granularity) (string, time.Time) {
	switch g {
	case models.GranularityWeek:
		year, week := t.ISOWeek()
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		start = start.AddDate(0, 0, -((int(start.Weekday()) + 6) % 7)) // back to Monday
		return fmt.Sprintf("%d-W%02d", year, week), start
	case models.GranularityQuarter:
		quarter := (int(t.Month())-1)/3 + 1
		start := time.Date(t.Year(), time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%d-Q%d", t.Year(), quarter), start
	case models.GranularityYear:
		return t.Format("2006"), time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return t.Format("2006-01"), time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// nextPeriodStart advances one bucket at the given granularity, used for
// dense zero-filling.
func nextPeriodStart(start time.Time, g models.Granularity) time.Time {
	switch g {
	case models.GranularityWeek:
		return start.AddDate(0, 0, 7)
	case models.GranularityQuarter:
		return start.AddDate(0, 3, 0)
	case models.GranularityYear:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}

type periodAccumulator struct {
	start      time.Time
	revenue    decimal.Decimal
	expenses   decimal.Decimal
	saleCount  int
	costEvents int
	units      map[string]struct{}
}

// BucketPeriods groups expenses and sales into calendar buckets and computes
// one PeriodAggregate per bucket, sorted ascending by bucket start. Sale
// totals are recomputed from quantity × unit price. Average ROI and profit
// per bucket cover the units active in that bucket, looked up in the
// supplied per-unit metrics.
//
// Buckets without records are omitted unless dense is set, in which case
// every bucket between the first and last active one is emitted zero-filled
// for charting continuity.
func BucketPeriods(expenses []models.Expense, sales []models.Sale, metrics map[string]models.EntityMetrics, g models.Granularity, dense bool) []models.PeriodAggregate {
	if !g.Valid() {
		g = models.GranularityMonth
	}

	buckets := make(map[string]*periodAccumulator)
	acc := func(t time.Time) *periodAccumulator {
		label, start := periodKey(t, g)
		b, ok := buckets[label]
		if !ok {
			b = &periodAccumulator{
				start:    start,
				revenue:  decimal.Zero,
				expenses: decimal.Zero,
				units:    make(map[string]struct{}),
			}
			buckets[label] = b
		}
		return b
	}

	for _, exp := range expenses {
		if exp.Date.IsZero() {
			continue
		}
		b := acc(exp.Date)
		b.expenses = b.expenses.Add(exp.Amount)
		b.costEvents++
		if exp.CropID != "" {
			b.units[exp.CropID] = struct{}{}
		}
	}

	for _, sale := range sales {
		if sale.Date.IsZero() {
			continue
		}
		b := acc(sale.Date)
		b.revenue = b.revenue.Add(sale.Total())
		b.saleCount++
		if sale.CropID != "" {
			b.units[sale.CropID] = struct{}{}
		}
	}

	out := make([]models.PeriodAggregate, 0, len(buckets))
	for label, b := range buckets {
		agg := models.PeriodAggregate{
			Period:     label,
			Start:      b.start,
			UnitCount:  len(b.units),
			Revenue:    b.revenue,
			Expenses:   b.expenses,
			SaleCount:  b.saleCount,
			CostEvents: b.costEvents,
		}
		agg.AvgROI, agg.AvgProfit = averageUnitFigures(b.units, metrics)
		out = append(out, agg)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })

	if dense && len(out) > 1 {
		out = fillDense(out, g)
	}

	return out
}

// averageUnitFigures computes the mean ROI and mean net profit across the
// units active in one bucket, using their overall metrics.
func averageUnitFigures(units map[string]struct{}, metrics map[string]models.EntityMetrics) (float64, float64) {
	if len(units) == 0 {
		return 0, 0
	}

	var roiSum, profitSum float64
	var counted int
	for id := range units {
		m, ok := metrics[id]
		if !ok {
			continue
		}
		roiSum += m.ROIPercent
		profitSum += m.Profit.InexactFloat64()
		counted++
	}
	if counted == 0 {
		return 0, 0
	}
	return round2(roiSum / float64(counted)), round2(profitSum / float64(counted))
}

// fillDense inserts zero-valued buckets for every period between the first
// and last populated ones.
func fillDense(sparse []models.PeriodAggregate, g models.Granularity) []models.PeriodAggregate {
	existing := make(map[string]models.PeriodAggregate, len(sparse))
	for _, agg := range sparse {
		existing[agg.Period] = agg
	}

	var out []models.PeriodAggregate
	last := sparse[len(sparse)-1].Start
	for cursor := sparse[0].Start; !cursor.After(last); cursor = nextPeriodStart(cursor, g) {
		label, start := periodKey(cursor, g)
		if agg, ok := existing[label]; ok {
			out = append(out, agg)
			continue
		}
		out = append(out, models.PeriodAggregate{
			Period:   label,
			Start:    start,
			Revenue:  decimal.Zero,
			Expenses: decimal.Zero,
		})
	}
	return out
}
