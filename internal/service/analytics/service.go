package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/cropbook/internal/domain/models"
	"github.com/mamadbah2/cropbook/internal/repository/mongodb"
	"github.com/mamadbah2/cropbook/internal/repository/sheets"
	"github.com/mamadbah2/cropbook/pkg/clients/market"
)

// Service loads a record snapshot from storage, normalizes it and assembles
// the analytics report. It never mutates stored records and recomputes every
// figure from source on each call; there is no incremental cache to drift.
type Service struct {
	repo     mongodb.Repository
	exporter sheets.Exporter
	market   market.Client
	defaults models.ReportFilters
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new analytics service instance. The exporter and market
// client are optional; nil disables the corresponding integration.
func NewService(repo mongodb.Repository, exporter sheets.Exporter, marketClient market.Client, defaults models.ReportFilters, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !defaults.Granularity.Valid() {
		defaults.Granularity = models.GranularityMonth
	}
	if defaults.TopN <= 0 {
		defaults.TopN = defaultTopN
	}

	return &Service{
		repo:     repo,
		exporter: exporter,
		market:   marketClient,
		defaults: defaults,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateReport produces the complete analytics payload for the current
// record set, honoring the supplied filters.
func (s *Service) GenerateReport(ctx context.Context, filters models.ReportFilters) (models.AnalyticsReport, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return models.AnalyticsReport{}, err
	}

	if !filters.Granularity.Valid() {
		filters.Granularity = s.defaults.Granularity
	}
	if filters.TopN <= 0 {
		filters.TopN = s.defaults.TopN
	}

	report, err := Assemble(snap, filters, s.now().UTC())
	if err != nil {
		return models.AnalyticsReport{}, fmt.Errorf("assemble report: %w", err)
	}

	s.logger.Info("report assembled",
		zap.Int("units", report.Summary.TotalUnits),
		zap.Int("trend_buckets", len(report.Trend)),
		zap.String("granularity", string(filters.Granularity)))

	return report, nil
}

// GenerateSnapshot assembles a report with the configured defaults, persists
// its headline figures and, when export is configured, appends a summary row
// to the spreadsheet. Used by the scheduler and the on-demand endpoint.
func (s *Service) GenerateSnapshot(ctx context.Context) (models.ReportSnapshot, error) {
	report, err := s.GenerateReport(ctx, s.defaults)
	if err != nil {
		return models.ReportSnapshot{}, err
	}

	snapshot := models.ReportSnapshot{
		OperationID:      uuid.NewString(),
		GeneratedAt:      report.GeneratedAt,
		TotalUnits:       report.Summary.TotalUnits,
		ActiveUnits:      report.Summary.ActiveUnits,
		TotalExpenses:    report.Summary.TotalExpenses.String(),
		TotalRevenue:     report.Summary.TotalRevenue.String(),
		ProjectedRevenue: report.Summary.ProjectedRevenue.String(),
		NetProfit:        report.Summary.NetProfit.String(),
		AverageROI:       report.Summary.AverageROI,
		CreatedAt:        s.now().UTC(),
	}

	if err := s.repo.SaveReportSnapshot(ctx, snapshot); err != nil {
		return models.ReportSnapshot{}, fmt.Errorf("save report snapshot: %w", err)
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSnapshot(ctx, snapshot); err != nil {
			// Export is best effort; the snapshot itself is already durable.
			s.logger.Error("failed to export snapshot row", zap.Error(err))
		}
	}

	s.logger.Info("report snapshot saved", zap.String("operation_id", snapshot.OperationID))
	return snapshot, nil
}

// loadSnapshot reads all record collections and normalizes them into the
// strict domain models the engine computes over.
func (s *Service) loadSnapshot(ctx context.Context) (Snapshot, error) {
	cropRecords, err := s.repo.ListCrops(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load crops: %w", err)
	}
	expenseRecords, err := s.repo.ListExpenses(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load expenses: %w", err)
	}
	saleRecords, err := s.repo.ListSales(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load sales: %w", err)
	}

	snap := Snapshot{
		Crops:    NormalizeCrops(cropRecords, s.logger),
		Expenses: NormalizeExpenses(expenseRecords, s.logger),
		Sales:    NormalizeSales(saleRecords, s.logger),
	}

	s.fillMarketPrices(ctx, snap.Crops)
	return snap, nil
}

// fillMarketPrices asks the market client for a quote wherever an active unit
// has no recorded market price, so projected revenue has something to work
// with. Quote failures leave the price missing; they never fail the report.
func (s *Service) fillMarketPrices(ctx context.Context, crops []models.Crop) {
	if s.market == nil {
		return
	}

	quotes := make(map[string]*quoteResult)
	for i := range crops {
		if !crops[i].MarketPrice.IsZero() || crops[i].Type == "" || crops[i].IsTerminal() {
			continue
		}

		cached, ok := quotes[crops[i].Type]
		if !ok {
			price, err := s.market.QuotePrice(ctx, crops[i].Type)
			cached = &quoteResult{price: price, ok: err == nil}
			quotes[crops[i].Type] = cached
			if err != nil {
				s.logger.Debug("market quote unavailable", zap.String("type", crops[i].Type), zap.Error(err))
			}
		}
		if cached.ok {
			crops[i].MarketPrice = cached.price
		}
	}
}

type quoteResult struct {
	price decimal.Decimal
	ok    bool
}
