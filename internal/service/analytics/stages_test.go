package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cropbook/internal/domain/models"
)

func TestAllocateStagesScenario(t *testing.T) {
	crop := testCrop(models.StatusGrowing)
	planting := crop.PlantingDate

	expenses := []models.Expense{
		testExpense("e1", "100", planting.AddDate(0, 0, 10)),
		testExpense("e2", "40", planting.AddDate(0, 0, 95)),
	}

	breakdown := AllocateStages(crop, expenses)

	require.Len(t, breakdown.Stages, 3, "no harvest date, so no maturation window")
	assert.Equal(t, StageSeedling, breakdown.Stages[0].Stage)
	assert.Equal(t, StageVegetative, breakdown.Stages[1].Stage)
	assert.Equal(t, StageFlowering, breakdown.Stages[2].Stage)

	assert.True(t, breakdown.Stages[0].Total.Equal(decimal.RequireFromString("100")))
	assert.True(t, breakdown.Stages[1].Total.IsZero())
	assert.True(t, breakdown.Stages[2].Total.Equal(decimal.RequireFromString("40")))
	assert.True(t, breakdown.Unallocated.IsZero())
}

func TestAllocateStagesWindowsAreContiguous(t *testing.T) {
	crop := testCrop(models.StatusHarvested)
	harvest := crop.PlantingDate.AddDate(0, 0, 180)
	crop.ActualHarvestDate = &harvest

	breakdown := AllocateStages(crop, nil)
	require.Len(t, breakdown.Stages, 4)

	for i := 0; i < len(breakdown.Stages)-1; i++ {
		next := breakdown.Stages[i].End.AddDate(0, 0, 1)
		assert.True(t, next.Equal(breakdown.Stages[i+1].Start),
			"stage %s must end the day before %s starts", breakdown.Stages[i].Stage, breakdown.Stages[i+1].Stage)
	}

	assert.True(t, breakdown.Stages[0].Start.Equal(crop.PlantingDate))
	assert.True(t, breakdown.Stages[3].End.Equal(harvest))
	assert.Equal(t, 31, breakdown.Stages[0].DurationDays)
	assert.Equal(t, 60, breakdown.Stages[1].DurationDays)
	assert.Equal(t, 60, breakdown.Stages[2].DurationDays)
	assert.Equal(t, 30, breakdown.Stages[3].DurationDays)
}

func TestAllocateStagesEveryOffsetLandsInOneStage(t *testing.T) {
	crop := testCrop(models.StatusHarvested)
	harvest := crop.PlantingDate.AddDate(0, 0, 200)
	crop.ActualHarvestDate = &harvest

	for offset := 0; offset <= 200; offset++ {
		exp := testExpense("e", "1", crop.PlantingDate.AddDate(0, 0, offset))
		breakdown := AllocateStages(crop, []models.Expense{exp})

		allocated := decimal.Zero
		hits := 0
		for _, stage := range breakdown.Stages {
			if !stage.Total.IsZero() {
				hits++
				allocated = allocated.Add(stage.Total)
			}
		}
		require.Equal(t, 1, hits, "offset %d must land in exactly one stage", offset)
		require.True(t, allocated.Equal(decimal.RequireFromString("1")))
		require.True(t, breakdown.Unallocated.IsZero(), "offset %d", offset)
	}
}

func TestAllocateStagesUnallocatedExpenses(t *testing.T) {
	crop := testCrop(models.StatusGrowing) // no harvest date
	planting := crop.PlantingDate

	expenses := []models.Expense{
		testExpense("before", "10", planting.AddDate(0, 0, -3)),
		testExpense("in", "20", planting.AddDate(0, 0, 40)),
		testExpense("past-horizon", "30", planting.AddDate(0, 0, 160)),
	}

	breakdown := AllocateStages(crop, expenses)

	assert.True(t, breakdown.Unallocated.Equal(decimal.RequireFromString("40")),
		"pre-planting and past-150-without-harvest expenses are surfaced, not dropped")
	assert.True(t, breakdown.Stages[1].Total.Equal(decimal.RequireFromString("20")))
}

func TestAllocateStagesMaturationRequiresLateHarvest(t *testing.T) {
	crop := testCrop(models.StatusHarvested)
	early := crop.PlantingDate.AddDate(0, 0, 120)
	crop.ActualHarvestDate = &early

	breakdown := AllocateStages(crop, nil)
	require.Len(t, breakdown.Stages, 3, "harvest before day 151 leaves no maturation window")
}

func TestAllocateStagesNoPlantingDate(t *testing.T) {
	crop := testCrop(models.StatusGrowing)
	crop.PlantingDate = time.Time{}

	expenses := []models.Expense{testExpense("e1", "25", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))}
	breakdown := AllocateStages(crop, expenses)

	assert.Empty(t, breakdown.Stages)
	assert.True(t, breakdown.Unallocated.Equal(decimal.RequireFromString("25")))
}
