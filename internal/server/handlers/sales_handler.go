package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

// SalesService is the sales behaviour the HTTP layer needs.
type SalesService interface {
	Record(ctx context.Context, itemID string, quantity string) (models.Sale, error)
	ListByDate(ctx context.Context, date string) (models.DaySales, error)
	Reset(ctx context.Context) error
}

// SalesHandler exposes sale recording and the ledger over HTTP.
type SalesHandler struct {
	svc    SalesService
	logger *zap.Logger
}

// NewSalesHandler constructs the HTTP handler adapter.
func NewSalesHandler(svc SalesService, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{svc: svc, logger: logger}
}

// saleRequest accepts the quantity either as a JSON number or a string.
type saleRequest struct {
	ItemID   string          `json:"itemId" binding:"required"`
	Quantity json.RawMessage `json:"quantity"`
}

// Record sells an item.
func (h *SalesHandler) Record(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sale payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	quantity := strings.Trim(strings.TrimSpace(string(req.Quantity)), `"`)
	sale, err := h.svc.Record(c.Request.Context(), req.ItemID, quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// ListByDate returns the sales for ?date= (default today).
func (h *SalesHandler) ListByDate(c *gin.Context) {
	day, err := h.svc.ListByDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, day)
}

// Reset wipes the catalog and the ledger. The caller must pass ?confirm=true.
func (h *SalesHandler) Reset(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "reset requires confirm=true"})
		return
	}

	if err := h.svc.Reset(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Warn("store reset via api", zap.String("client_ip", c.ClientIP()))
	c.Status(http.StatusNoContent)
}
