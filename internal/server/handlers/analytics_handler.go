package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cropbook/internal/domain/models"
	"github.com/mamadbah2/cropbook/internal/service/analytics"
)

const queryDateLayout = "2006-01-02"

// AnalyticsHandler exposes the analytics report over HTTP.
type AnalyticsHandler struct {
	svc    *analytics.Service
	logger *zap.Logger
}

// NewAnalyticsHandler wires a new handler instance.
func NewAnalyticsHandler(svc *analytics.Service, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{svc: svc, logger: logger}
}

// GetReport handles GET /reports/analytics. Query parameters: statuses
// (comma-separated), start and end (YYYY-MM-DD), granularity, top, dense,
// per_unit.
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.svc.GenerateReport(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("report generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// CreateSnapshot handles POST /reports/snapshot, triggering an on-demand
// persisted snapshot run.
func (h *AnalyticsHandler) CreateSnapshot(c *gin.Context) {
	snapshot, err := h.svc.GenerateSnapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("snapshot generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "snapshot generation failed"})
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

func parseFilters(c *gin.Context) (models.ReportFilters, error) {
	var filters models.ReportFilters

	if raw := c.Query("statuses"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := models.CropStatus(strings.ToUpper(strings.TrimSpace(part)))
			if !status.Valid() {
				return filters, fmt.Errorf("unknown status %q", part)
			}
			filters.Statuses = append(filters.Statuses, status)
		}
	}

	var err error
	if filters.StartDate, err = parseQueryDate(c.Query("start")); err != nil {
		return filters, fmt.Errorf("invalid start date: %w", err)
	}
	if filters.EndDate, err = parseQueryDate(c.Query("end")); err != nil {
		return filters, fmt.Errorf("invalid end date: %w", err)
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return filters, fmt.Errorf("end date precedes start date")
	}

	if raw := c.Query("granularity"); raw != "" {
		granularity := models.Granularity(strings.ToLower(strings.TrimSpace(raw)))
		if !granularity.Valid() {
			return filters, fmt.Errorf("unknown granularity %q", raw)
		}
		filters.Granularity = granularity
	}

	if raw := c.Query("top"); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil || top <= 0 {
			return filters, fmt.Errorf("top must be a positive integer")
		}
		filters.TopN = top
	}

	filters.DenseTrend = c.Query("dense") == "true"
	filters.PerUnit = c.Query("per_unit") == "true"

	return filters, nil
}

func parseQueryDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
