package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cropbook/internal/domain/models"
)

// defaultTopN bounds the top-by-expense ranking when the caller does not ask
// for a specific depth.
const defaultTopN = 5

// Snapshot is one immutable view of the record set handed to the engine by
// the storage collaborator. The engine never mutates it and always recomputes
// the full report from it rather than updating anything incrementally.
type Snapshot struct {
	Crops    []models.Crop
	Expenses []models.Expense
	Sales    []models.Sale
}

// Assemble produces the complete analytics payload for one snapshot.
//
// Filters are applied exactly once, before any metric computation, so the
// summary, distributions, trend and rankings all describe the same filtered
// set. A nil top-level slice is a malformed input and fails fast naming the
// missing field; empty (non-nil) slices are valid and produce an
// empty-but-well-formed report. Given the same snapshot, filters and clock
// value, the output is identical across calls.
func Assemble(snap Snapshot, filters models.ReportFilters, now time.Time) (models.AnalyticsReport, error) {
	if err := validateSnapshot(snap); err != nil {
		return models.AnalyticsReport{}, err
	}

	if !filters.Granularity.Valid() {
		filters.Granularity = models.GranularityMonth
	}
	if filters.TopN <= 0 {
		filters.TopN = defaultTopN
	}

	crops, expenses, sales := applyFilters(snap, filters)

	expensesByCrop := make(map[string][]models.Expense, len(crops))
	for _, exp := range expenses {
		expensesByCrop[exp.CropID] = append(expensesByCrop[exp.CropID], exp)
	}

	metricsByCrop := make(map[string]models.EntityMetrics, len(crops))
	perUnit := make([]models.EntityMetrics, 0, len(crops))
	for _, crop := range crops {
		m := UnitMetrics(crop, expensesByCrop[crop.ID])
		metricsByCrop[crop.ID] = m
		perUnit = append(perUnit, m)
	}

	report := models.AnalyticsReport{
		GeneratedAt:  now,
		Summary:      buildSummary(crops, metricsByCrop),
		Distribution: buildDistribution(crops, metricsByCrop),
		Trend:        BucketPeriods(expenses, sales, metricsByCrop, filters.Granularity, filters.DenseTrend),
		TopByExpense: rankByExpense(perUnit, filters.TopN),
	}

	if len(report.Trend) >= 2 {
		report.Comparison = PeriodComparison(report.Trend[len(report.Trend)-1], report.Trend[len(report.Trend)-2])
	}

	if filters.PerUnit {
		sort.Slice(perUnit, func(i, j int) bool {
			if perUnit[i].ROIPercent != perUnit[j].ROIPercent {
				return perUnit[i].ROIPercent > perUnit[j].ROIPercent
			}
			return perUnit[i].CropID < perUnit[j].CropID
		})
		report.PerUnit = perUnit
		report.Stages = buildStageBreakdowns(crops, expensesByCrop)
	}

	return report, nil
}

// validateSnapshot fails fast on a malformed input shape. Missing arrays are
// a caller bug and must surface as a report-generation failure, not as a
// silently empty report.
func validateSnapshot(snap Snapshot) error {
	switch {
	case snap.Crops == nil:
		return fmt.Errorf("snapshot missing required field: crops")
	case snap.Expenses == nil:
		return fmt.Errorf("snapshot missing required field: expenses")
	case snap.Sales == nil:
		return fmt.Errorf("snapshot missing required field: sales")
	}
	return nil
}

// applyFilters narrows the snapshot once, up front. The status subset keeps
// matching units; the date range keeps expenses and sales dated inside it.
// Expenses and sales of filtered-out units are excluded with them so no
// downstream section re-filters on its own.
func applyFilters(snap Snapshot, filters models.ReportFilters) ([]models.Crop, []models.Expense, []models.Sale) {
	statusSet := make(map[models.CropStatus]struct{}, len(filters.Statuses))
	for _, status := range filters.Statuses {
		statusSet[status] = struct{}{}
	}

	crops := make([]models.Crop, 0, len(snap.Crops))
	kept := make(map[string]struct{}, len(snap.Crops))
	for _, crop := range snap.Crops {
		if len(statusSet) > 0 {
			if _, ok := statusSet[crop.Status]; !ok {
				continue
			}
		}
		crops = append(crops, crop)
		kept[crop.ID] = struct{}{}
	}

	inRange := func(t time.Time) bool {
		if filters.StartDate != nil && t.Before(*filters.StartDate) {
			return false
		}
		if filters.EndDate != nil && t.After(*filters.EndDate) {
			return false
		}
		return true
	}

	expenses := make([]models.Expense, 0, len(snap.Expenses))
	for _, exp := range snap.Expenses {
		if _, ok := kept[exp.CropID]; !ok {
			continue
		}
		if !inRange(exp.Date) {
			continue
		}
		expenses = append(expenses, exp)
	}

	sales := make([]models.Sale, 0, len(snap.Sales))
	for _, sale := range snap.Sales {
		if _, ok := kept[sale.CropID]; !ok {
			continue
		}
		if !inRange(sale.Date) {
			continue
		}
		sales = append(sales, sale)
	}

	return crops, expenses, sales
}

func buildSummary(crops []models.Crop, metrics map[string]models.EntityMetrics) models.ReportSummary {
	summary := models.ReportSummary{
		TotalUnits:       len(crops),
		TotalExpenses:    decimal.Zero,
		TotalRevenue:     decimal.Zero,
		ProjectedRevenue: decimal.Zero,
		NetProfit:        decimal.Zero,
	}

	var roiSum float64
	for _, crop := range crops {
		if crop.IsActive() {
			summary.ActiveUnits++
		}
		summary.ProjectedRevenue = summary.ProjectedRevenue.Add(ProjectedRevenue(crop))

		m := metrics[crop.ID]
		summary.TotalExpenses = summary.TotalExpenses.Add(m.TotalExpenses)
		summary.TotalRevenue = summary.TotalRevenue.Add(m.Revenue)
		roiSum += m.ROIPercent
	}

	summary.NetProfit = summary.TotalRevenue.Sub(summary.TotalExpenses)
	if len(crops) > 0 {
		summary.AverageROI = round2(roiSum / float64(len(crops)))
	}
	return summary
}

func buildDistribution(crops []models.Crop, metrics map[string]models.EntityMetrics) models.ReportDistribution {
	byType := make(map[string]*models.TypeCount)
	byStatus := make(map[models.CropStatus]*models.StatusCount)

	for _, crop := range crops {
		tc, ok := byType[crop.Type]
		if !ok {
			tc = &models.TypeCount{Type: crop.Type}
			byType[crop.Type] = tc
		}
		tc.Count++
		if finite(crop.Area) && crop.Area > 0 {
			tc.TotalArea = round2(tc.TotalArea + crop.Area)
		}

		sc, ok := byStatus[crop.Status]
		if !ok {
			sc = &models.StatusCount{Status: crop.Status, TotalExpenses: decimal.Zero}
			byStatus[crop.Status] = sc
		}
		sc.Count++
		sc.TotalExpenses = sc.TotalExpenses.Add(metrics[crop.ID].TotalExpenses)
	}

	dist := models.ReportDistribution{
		ByType:   make([]models.TypeCount, 0, len(byType)),
		ByStatus: make([]models.StatusCount, 0, len(byStatus)),
	}
	for _, tc := range byType {
		dist.ByType = append(dist.ByType, *tc)
	}
	sort.Slice(dist.ByType, func(i, j int) bool { return dist.ByType[i].Type < dist.ByType[j].Type })

	// Lifecycle order, not alphabetical, so dashboards read naturally.
	for _, status := range models.KnownStatuses {
		if sc, ok := byStatus[status]; ok {
			dist.ByStatus = append(dist.ByStatus, *sc)
		}
	}
	return dist
}

func rankByExpense(perUnit []models.EntityMetrics, topN int) []models.ExpenseRank {
	ranked := make([]models.EntityMetrics, len(perUnit))
	copy(ranked, perUnit)
	sort.Slice(ranked, func(i, j int) bool {
		cmp := ranked[i].TotalExpenses.Cmp(ranked[j].TotalExpenses)
		if cmp != 0 {
			return cmp > 0
		}
		return ranked[i].CropID < ranked[j].CropID
	})

	if topN > len(ranked) {
		topN = len(ranked)
	}
	out := make([]models.ExpenseRank, 0, topN)
	for _, m := range ranked[:topN] {
		out = append(out, models.ExpenseRank{
			CropID:        m.CropID,
			Name:          m.Name,
			TotalExpenses: m.TotalExpenses,
		})
	}
	return out
}

func buildStageBreakdowns(crops []models.Crop, expensesByCrop map[string][]models.Expense) []models.StageBreakdown {
	breakdowns := make([]models.StageBreakdown, 0, len(crops))
	for _, crop := range crops {
		breakdowns = append(breakdowns, AllocateStages(crop, expensesByCrop[crop.ID]))
	}
	return breakdowns
}
