package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/service/reporting"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportingService is the reporting behaviour the HTTP layer needs.
type ReportingService interface {
	DailyReport(ctx context.Context, q reporting.Query) models.SalesReport
	Dashboard(ctx context.Context) models.Dashboard
	ExportXLSX(ctx context.Context, q reporting.Query, w io.Writer) error
}

// DayCloser closes a business day and delivers it to the configured sinks.
type DayCloser interface {
	CloseDay(ctx context.Context, date string) error
}

// ReportHandler exposes reports over HTTP.
type ReportHandler struct {
	svc    ReportingService
	closer DayCloser
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter. closer may be nil.
func NewReportHandler(svc ReportingService, closer DayCloser, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, closer: closer, logger: logger}
}

func parseQuery(c *gin.Context) (reporting.Query, error) {
	return reporting.ParseQuery(c.Query("range"), c.Query("sortBy"), c.Query("order"))
}

// Daily returns per-day rollups for ?range=&sortBy=&order=.
func (h *ReportHandler) Daily(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.DailyReport(c.Request.Context(), q))
}

// Export streams the daily report as an XLSX workbook.
func (h *ReportHandler) Export(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="daily-sales-%s.xlsx"`, q.Window))
	c.Header("Content-Type", xlsxContentType)
	if err := h.svc.ExportXLSX(c.Request.Context(), q, c.Writer); err != nil {
		h.logger.Error("failed to export report", zap.Error(err))
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Disposition")
			c.Writer.Header().Del("Content-Type")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		}
	}
}

// Dashboard returns the at-a-glance summary.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Dashboard(c.Request.Context()))
}

// Close runs the daily close for ?date= (default today) immediately.
func (h *ReportHandler) Close(c *gin.Context) {
	if h.closer == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "daily close is not configured"})
		return
	}
	if err := h.closer.CloseDay(c.Request.Context(), c.Query("date")); err != nil {
		h.logger.Error("manual daily close failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusAccepted)
}
