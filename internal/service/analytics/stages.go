package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cropbook/internal/domain/models"
)

// Growth-stage windows as whole-day offsets from the planting date. The
// windows are contiguous and non-overlapping by construction, so any expense
// dated on or after planting lands in at most one stage.
const (
	StageSeedling   = "Seedling"
	StageVegetative = "Vegetative"
	StageFlowering  = "Flowering"
	StageMaturation = "Maturation"

	seedlingEndDay     = 30
	vegetativeEndDay   = 90
	floweringEndDay    = 150
	maturationStartDay = 151
)

// AllocateStages partitions a production unit's expenses into lifecycle
// phases by date. The three fixed windows are always reported, even for a
// still-active unit with no harvest date (open-ended estimate). Maturation
// is reported only when a harvest date exists at 151 days or later.
//
// Expenses dated before planting, past 150 days with no recorded harvest, or
// past the harvest date itself, go to the breakdown's Unallocated total so
// the caller can surface them instead of losing them.
func AllocateStages(crop models.Crop, expenses []models.Expense) models.StageBreakdown {
	planting := crop.PlantingDate

	breakdown := models.StageBreakdown{
		CropID:      crop.ID,
		Unallocated: decimal.Zero,
	}
	if planting.IsZero() {
		// No timeline to attribute against; everything is unallocated.
		for _, exp := range expenses {
			breakdown.Unallocated = breakdown.Unallocated.Add(exp.Amount)
		}
		return breakdown
	}

	harvestOffset := -1
	if harvest := crop.HarvestDate(); harvest != nil && !harvest.IsZero() {
		harvestOffset = daysBetween(planting, *harvest)
	}

	stages := []models.GrowthStageAllocation{
		stageWindow(StageSeedling, planting, 0, seedlingEndDay),
		stageWindow(StageVegetative, planting, seedlingEndDay+1, vegetativeEndDay),
		stageWindow(StageFlowering, planting, vegetativeEndDay+1, floweringEndDay),
	}
	if harvestOffset >= maturationStartDay {
		stages = append(stages, stageWindow(StageMaturation, planting, maturationStartDay, harvestOffset))
	}

	for _, exp := range expenses {
		offset := daysBetween(planting, exp.Date)
		idx := stageIndex(offset, harvestOffset, len(stages))
		if idx < 0 {
			breakdown.Unallocated = breakdown.Unallocated.Add(exp.Amount)
			continue
		}
		stages[idx].Total = stages[idx].Total.Add(exp.Amount)
	}

	breakdown.Stages = stages
	return breakdown
}

func stageWindow(name string, planting time.Time, startDay, endDay int) models.GrowthStageAllocation {
	return models.GrowthStageAllocation{
		Stage:        name,
		Start:        planting.AddDate(0, 0, startDay),
		End:          planting.AddDate(0, 0, endDay),
		DurationDays: endDay - startDay + 1,
		Total:        decimal.Zero,
	}
}

// stageIndex maps a day offset to its stage slot, or -1 when the expense
// falls outside every window.
func stageIndex(offset, harvestOffset, stageCount int) int {
	switch {
	case offset < 0:
		return -1
	case offset <= seedlingEndDay:
		return 0
	case offset <= vegetativeEndDay:
		return 1
	case offset <= floweringEndDay:
		return 2
	case stageCount > 3 && offset <= harvestOffset:
		return 3
	default:
		return -1
	}
}
