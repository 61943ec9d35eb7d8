package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/davuth/shopledger/internal/domain/models"
	"github.com/davuth/shopledger/internal/service/reports"
)

const defaultActivityLimit = 10

// ActivityStore reads the recent activity feed.
type ActivityStore interface {
	RecentActivities(ctx context.Context, limit int64) ([]models.RecentActivity, error)
}

// ReportHandler serves the dashboard and reporting endpoints.
type ReportHandler struct {
	reportsSvc *reports.Service
	activities ActivityStore
	logger     *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(reportsSvc *reports.Service, activities ActivityStore, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reportsSvc: reportsSvc, activities: activities, logger: logger}
}

type dashboardResponse struct {
	reports.Dashboard
	Activities []models.RecentActivity `json:"recentActivities"`
}

// Dashboard returns the headline aggregates plus the latest feed entries.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	dashboard, err := h.reportsSvc.BuildDashboard(ctx)
	if err != nil {
		h.logger.Error("failed building dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}

	activities, err := h.activities.RecentActivities(ctx, defaultActivityLimit)
	if err != nil {
		h.logger.Error("failed loading activities", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, dashboardResponse{Dashboard: dashboard, Activities: activities})
}

// ProfitLoss returns the P&L rollup plus the per-product sold breakdown.
func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	snap, err := h.reportsSvc.Load(c.Request.Context(), time.Time{}, time.Time{})
	if err != nil {
		h.logger.Error("failed loading ledger for report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profitLoss": reports.ComputeProfitLoss(snap.Sales, snap.Expenses, snap.Products),
		"soldItems":  reports.SoldItems(snap.Sales),
	})
}

// Activities returns the newest feed entries, capped by the limit query.
func (h *ReportHandler) Activities(c *gin.Context) {
	limit := int64(defaultActivityLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	activities, err := h.activities.RecentActivities(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed loading activities", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list activities"})
		return
	}

	c.JSON(http.StatusOK, activities)
}
