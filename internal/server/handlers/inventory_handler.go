package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

// CatalogService is the catalog behaviour the HTTP layer needs.
type CatalogService interface {
	List(ctx context.Context, filter models.ItemFilter) []models.Item
	Sellable(ctx context.Context) []models.Item
	Get(ctx context.Context, id string) (models.Item, error)
	Create(ctx context.Context, input models.ItemInput) (models.Item, error)
	Update(ctx context.Context, id string, input models.ItemInput) (models.Item, error)
	Delete(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, stock int) (models.Item, error)
}

// InventoryHandler exposes catalog maintenance over HTTP.
type InventoryHandler struct {
	svc    CatalogService
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc CatalogService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// List returns the catalog, filtered by ?search= and ?category=.
func (h *InventoryHandler) List(c *gin.Context) {
	filter := models.ItemFilter{Search: c.Query("search"), Category: c.Query("category")}
	c.JSON(http.StatusOK, h.svc.List(c.Request.Context(), filter))
}

// Sellable returns the items that can currently be sold.
func (h *InventoryHandler) Sellable(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Sellable(c.Request.Context()))
}

// Get returns one item.
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create adds an item.
func (h *InventoryHandler) Create(c *gin.Context) {
	var input models.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid item payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update replaces the editable fields of an item.
func (h *InventoryHandler) Update(c *gin.Context) {
	var input models.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid item payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes an item.
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type stockRequest struct {
	Stock *int `json:"stock"`
}

// AdjustStock overwrites the stock on hand.
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Stock == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidStock.Error()})
		return
	}

	item, err := h.svc.AdjustStock(c.Request.Context(), c.Param("id"), *req.Stock)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
