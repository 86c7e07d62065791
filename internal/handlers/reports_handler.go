package handlers

import (
	"net/http"

	"storefront/internal/reports"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportsHandler struct {
	reports *reports.Service
	log     *zap.Logger
}

func NewReportsHandler(svc *reports.Service, log *zap.Logger) *ReportsHandler {
	return &ReportsHandler{reports: svc, log: log}
}

// Dashboard отдаёт все отчёты одним ответом, агрегации выполняются параллельно.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.Dashboard(c.Request.Context()))
}

func (h *ReportsHandler) MonthlySales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"salesData": h.reports.MonthlySales(c.Request.Context())})
}

func (h *ReportsHandler) ProductPerformance(c *gin.Context) {
	limit := atoiQuery(c, "limit", reports.DefaultTopProductLimit)
	c.JSON(http.StatusOK, gin.H{"productPerformanceData": h.reports.ProductPerformance(c.Request.Context(), limit)})
}

func (h *ReportsHandler) CategoryDistribution(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categoryData": h.reports.CategoryDistribution(c.Request.Context())})
}

func (h *ReportsHandler) CustomerAcquisition(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"customerData": h.reports.CustomerAcquisition(c.Request.Context())})
}

func (h *ReportsHandler) SalesSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.SalesSummaryReport(c.Request.Context()))
}

func (h *ReportsHandler) CustomerInsights(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.CustomerInsightsReport(c.Request.Context()))
}

func (h *ReportsHandler) CustomerSegments(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.CustomerSegmentsReport(c.Request.Context()))
}
