package analytics

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/cropbook/internal/domain/models"
	"github.com/mamadbah2/cropbook/internal/repository/mongodb"
)

// The storage layer hands back loosely-typed records: money as strings,
// statuses in whatever case they were written, optional numerics possibly
// malformed. Everything is normalized into the strict domain models here,
// before any metric computation, so the engine itself never branches on
// representation variance. Invalid records are skipped with a debug log,
// never silently aggregated.

// NormalizeCrops converts raw crop records, dropping records with no usable
// identity, planting date or lifecycle status. Malformed numeric fields are
// treated as missing, not zeroed into the math.
func NormalizeCrops(records []mongodb.CropRecord, logger *zap.Logger) []models.Crop {
	if logger == nil {
		logger = zap.NewNop()
	}

	crops := make([]models.Crop, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			logger.Debug("skip crop record without id", zap.String("name", rec.Name))
			continue
		}

		status := models.CropStatus(strings.ToUpper(strings.TrimSpace(rec.Status)))
		if !status.Valid() {
			logger.Debug("skip crop record with unknown status", zap.String("id", rec.ID), zap.String("status", rec.Status))
			continue
		}
		if rec.PlantingDate.IsZero() {
			logger.Debug("skip crop record without planting date", zap.String("id", rec.ID))
			continue
		}

		price := decimal.Zero
		if rec.MarketPrice != "" {
			parsed, err := decimal.NewFromString(strings.TrimSpace(rec.MarketPrice))
			if err != nil || parsed.IsNegative() {
				logger.Debug("treat malformed market price as missing", zap.String("id", rec.ID), zap.String("value", rec.MarketPrice))
			} else {
				price = parsed
			}
		}

		crops = append(crops, models.Crop{
			ID:                  rec.ID,
			Name:                rec.Name,
			Type:                rec.Type,
			Status:              status,
			PlantingDate:        rec.PlantingDate,
			ExpectedHarvestDate: rec.ExpectedHarvestDate,
			ActualHarvestDate:   rec.ActualHarvestDate,
			Area:                nonNegative(rec.Area),
			AreaUnit:            rec.AreaUnit,
			ExpectedYield:       nonNegative(rec.ExpectedYield),
			ActualYield:         nonNegative(rec.ActualYield),
			YieldUnit:           rec.YieldUnit,
			MarketPrice:         price,
		})
	}
	return crops
}

// NormalizeExpenses converts raw expense records. An expense must reference
// exactly one production unit and carry a strictly positive amount; anything
// else is rejected here, at the boundary.
func NormalizeExpenses(records []mongodb.ExpenseRecord, logger *zap.Logger) []models.Expense {
	if logger == nil {
		logger = zap.NewNop()
	}

	expenses := make([]models.Expense, 0, len(records))
	for _, rec := range records {
		if rec.CropID == "" {
			logger.Debug("skip expense without production unit reference", zap.String("id", rec.ID))
			continue
		}
		if rec.Date.IsZero() {
			logger.Debug("skip expense without date", zap.String("id", rec.ID))
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(rec.Amount))
		if err != nil {
			logger.Debug("skip expense with malformed amount", zap.String("id", rec.ID), zap.String("value", rec.Amount))
			continue
		}
		if amount.Sign() <= 0 {
			logger.Debug("skip expense with non-positive amount", zap.String("id", rec.ID), zap.String("value", rec.Amount))
			continue
		}

		category := models.ExpenseCategory(strings.ToUpper(strings.TrimSpace(rec.Category)))
		if category == "" {
			category = models.CategoryOther
		}

		expenses = append(expenses, models.Expense{
			ID:       rec.ID,
			CropID:   rec.CropID,
			Category: category,
			Amount:   amount,
			Date:     rec.Date,
			Notes:    rec.Notes,
		})
	}
	return expenses
}

// NormalizeSales converts raw sale records. The persisted total is ignored
// on purpose; Sale.Total() recomputes quantity × unit price everywhere.
func NormalizeSales(records []mongodb.SaleRecord, logger *zap.Logger) []models.Sale {
	if logger == nil {
		logger = zap.NewNop()
	}

	sales := make([]models.Sale, 0, len(records))
	for _, rec := range records {
		if rec.CropID == "" {
			logger.Debug("skip sale without production unit reference", zap.String("id", rec.ID))
			continue
		}
		if rec.Quantity <= 0 {
			logger.Debug("skip sale with non-positive quantity", zap.String("id", rec.ID), zap.Int("quantity", rec.Quantity))
			continue
		}
		if rec.Date.IsZero() {
			logger.Debug("skip sale without date", zap.String("id", rec.ID))
			continue
		}

		unitPrice, err := decimal.NewFromString(strings.TrimSpace(rec.UnitPrice))
		if err != nil || unitPrice.IsNegative() {
			logger.Debug("skip sale with malformed unit price", zap.String("id", rec.ID), zap.String("value", rec.UnitPrice))
			continue
		}

		sales = append(sales, models.Sale{
			ID:        rec.ID,
			CropID:    rec.CropID,
			Quantity:  rec.Quantity,
			UnitPrice: unitPrice,
			Date:      rec.Date,
		})
	}
	return sales
}

func nonNegative(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}
