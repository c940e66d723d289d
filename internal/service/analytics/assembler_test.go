package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cropbook/internal/domain/models"
)

func testSnapshot() Snapshot {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	return Snapshot{
		Crops: []models.Crop{
			{
				ID: "c1", Name: "Maize north", Type: "maize", Status: models.StatusSold,
				PlantingDate: jan, Area: 2, ActualYield: 10,
				MarketPrice: decimal.RequireFromString("20"),
			},
			{
				ID: "c2", Name: "Beans east", Type: "beans", Status: models.StatusGrowing,
				PlantingDate: jan.AddDate(0, 1, 0), Area: 1, ExpectedYield: 5,
				MarketPrice: decimal.RequireFromString("4"),
			},
			{
				ID: "c3", Name: "Maize south", Type: "maize", Status: models.StatusFailed,
				PlantingDate: jan.AddDate(0, 0, 14), Area: 3,
			},
		},
		Expenses: []models.Expense{
			{ID: "e1", CropID: "c1", Category: models.CategorySeeds, Amount: decimal.RequireFromString("100"), Date: day(2026, 1, 10)},
			{ID: "e2", CropID: "c1", Category: models.CategoryLabor, Amount: decimal.RequireFromString("50"), Date: day(2026, 1, 20)},
			{ID: "e3", CropID: "c2", Category: models.CategorySeeds, Amount: decimal.RequireFromString("30"), Date: day(2026, 2, 10)},
			{ID: "e4", CropID: "c3", Category: models.CategoryFuel, Amount: decimal.RequireFromString("20"), Date: day(2026, 3, 5)},
		},
		Sales: []models.Sale{
			{ID: "s1", CropID: "c1", Quantity: 10, UnitPrice: decimal.RequireFromString("20"), Date: day(2026, 2, 20)},
		},
	}
}

var testNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func TestAssembleNilFieldFailsFast(t *testing.T) {
	cases := []struct {
		name string
		snap Snapshot
	}{
		{"crops", Snapshot{Expenses: []models.Expense{}, Sales: []models.Sale{}}},
		{"expenses", Snapshot{Crops: []models.Crop{}, Sales: []models.Sale{}}},
		{"sales", Snapshot{Crops: []models.Crop{}, Expenses: []models.Expense{}}},
	}

	for _, tc := range cases {
		_, err := Assemble(tc.snap, models.ReportFilters{}, testNow)
		require.Error(t, err, tc.name)
		assert.Contains(t, err.Error(), tc.name, "error must name the missing field")
	}
}

func TestAssembleEmptyInputIsWellFormed(t *testing.T) {
	snap := Snapshot{Crops: []models.Crop{}, Expenses: []models.Expense{}, Sales: []models.Sale{}}

	report, err := Assemble(snap, models.ReportFilters{}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Summary.TotalUnits)
	assert.True(t, report.Summary.TotalExpenses.IsZero())
	assert.True(t, report.Summary.NetProfit.IsZero())
	assert.Equal(t, 0.0, report.Summary.AverageROI)
	assert.Empty(t, report.Trend)
	assert.Empty(t, report.TopByExpense)
	assert.Empty(t, report.Distribution.ByType)
}

func TestAssembleIsIdempotent(t *testing.T) {
	filters := models.ReportFilters{PerUnit: true, DenseTrend: true}

	first, err := Assemble(testSnapshot(), filters, testNow)
	require.NoError(t, err)
	second, err := Assemble(testSnapshot(), filters, testNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssembleSummary(t *testing.T) {
	report, err := Assemble(testSnapshot(), models.ReportFilters{}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Summary.TotalUnits)
	assert.Equal(t, 1, report.Summary.ActiveUnits, "only the growing unit is still active")
	assert.True(t, report.Summary.TotalExpenses.Equal(decimal.RequireFromString("200")))
	assert.True(t, report.Summary.TotalRevenue.Equal(decimal.RequireFromString("200")), "only the SOLD unit realizes revenue")
	assert.True(t, report.Summary.ProjectedRevenue.Equal(decimal.RequireFromString("20")))
	assert.True(t, report.Summary.NetProfit.IsZero())
	assert.Equal(t, -55.56, report.Summary.AverageROI) // (33.33 - 100 - 100) / 3
}

func TestAssembleConservationAcrossStatusPartition(t *testing.T) {
	report, err := Assemble(testSnapshot(), models.ReportFilters{}, testNow)
	require.NoError(t, err)

	partitioned := decimal.Zero
	for _, sc := range report.Distribution.ByStatus {
		partitioned = partitioned.Add(sc.TotalExpenses)
	}
	assert.True(t, partitioned.Equal(report.Summary.TotalExpenses),
		"per-status expense totals must reconcile with the summary")

	trended := decimal.Zero
	for _, bucket := range report.Trend {
		trended = trended.Add(bucket.Expenses)
	}
	assert.True(t, trended.Equal(report.Summary.TotalExpenses),
		"trend buckets must reconcile with the summary")
}

func TestAssembleDistribution(t *testing.T) {
	report, err := Assemble(testSnapshot(), models.ReportFilters{}, testNow)
	require.NoError(t, err)

	require.Len(t, report.Distribution.ByType, 2)
	assert.Equal(t, "beans", report.Distribution.ByType[0].Type)
	assert.Equal(t, 1, report.Distribution.ByType[0].Count)
	assert.Equal(t, "maize", report.Distribution.ByType[1].Type)
	assert.Equal(t, 2, report.Distribution.ByType[1].Count)
	assert.Equal(t, 5.0, report.Distribution.ByType[1].TotalArea)

	require.Len(t, report.Distribution.ByStatus, 3)
	assert.Equal(t, models.StatusGrowing, report.Distribution.ByStatus[0].Status, "statuses follow lifecycle order")
	assert.Equal(t, models.StatusSold, report.Distribution.ByStatus[1].Status)
	assert.Equal(t, models.StatusFailed, report.Distribution.ByStatus[2].Status)
}

func TestAssembleStatusFilterAppliedOnce(t *testing.T) {
	filters := models.ReportFilters{Statuses: []models.CropStatus{models.StatusSold}}

	report, err := Assemble(testSnapshot(), filters, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Summary.TotalUnits)
	assert.True(t, report.Summary.TotalExpenses.Equal(decimal.RequireFromString("150")),
		"expenses of filtered-out units leave every section")

	for _, bucket := range report.Trend {
		assert.LessOrEqual(t, bucket.UnitCount, 1)
	}
	require.Len(t, report.Distribution.ByStatus, 1)
	assert.Equal(t, models.StatusSold, report.Distribution.ByStatus[0].Status)
}

func TestAssembleDateRangeFilter(t *testing.T) {
	start := day(2026, 2, 1)
	filters := models.ReportFilters{StartDate: &start}

	report, err := Assemble(testSnapshot(), filters, testNow)
	require.NoError(t, err)

	// January expenses fall outside the range; units themselves remain.
	assert.Equal(t, 3, report.Summary.TotalUnits)
	assert.True(t, report.Summary.TotalExpenses.Equal(decimal.RequireFromString("50")))
	for _, bucket := range report.Trend {
		assert.True(t, bucket.Start.Compare(day(2026, 2, 1)) >= 0)
	}
}

func TestAssembleTopByExpense(t *testing.T) {
	report, err := Assemble(testSnapshot(), models.ReportFilters{}, testNow)
	require.NoError(t, err)

	require.Len(t, report.TopByExpense, 3)
	assert.Equal(t, "c1", report.TopByExpense[0].CropID)
	assert.Equal(t, "c2", report.TopByExpense[1].CropID)
	assert.Equal(t, "c3", report.TopByExpense[2].CropID)

	truncated, err := Assemble(testSnapshot(), models.ReportFilters{TopN: 2}, testNow)
	require.NoError(t, err)
	require.Len(t, truncated.TopByExpense, 2)
	assert.Equal(t, "c1", truncated.TopByExpense[0].CropID)
}

func TestAssemblePerUnitRankingAndStages(t *testing.T) {
	report, err := Assemble(testSnapshot(), models.ReportFilters{PerUnit: true}, testNow)
	require.NoError(t, err)

	require.Len(t, report.PerUnit, 3)
	assert.Equal(t, "c1", report.PerUnit[0].CropID, "best ROI first")
	assert.Equal(t, "c2", report.PerUnit[1].CropID, "ties broken by id")
	assert.Equal(t, "c3", report.PerUnit[2].CropID)

	require.Len(t, report.Stages, 3)

	withoutPerUnit, err := Assemble(testSnapshot(), models.ReportFilters{}, testNow)
	require.NoError(t, err)
	assert.Nil(t, withoutPerUnit.PerUnit)
	assert.Nil(t, withoutPerUnit.Stages)
}

func TestAssembleComparisonFromRealTrendBuckets(t *testing.T) {
	report, err := Assemble(testSnapshot(), models.ReportFilters{}, testNow)
	require.NoError(t, err)

	require.Len(t, report.Trend, 3)
	require.NotEmpty(t, report.Comparison)

	revenue := report.Comparison[0]
	assert.Equal(t, "revenue", revenue.Metric)
	assert.Equal(t, 0.0, revenue.Current, "march had no sales")
	assert.Equal(t, 200.0, revenue.Previous, "february revenue comes from records, not a synthetic multiplier")
	assert.Equal(t, -100.0, revenue.PercentChange)
	assert.Equal(t, -1, revenue.Sign)
}
