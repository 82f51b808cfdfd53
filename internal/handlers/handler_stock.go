package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// stockHandler handles HTTP requests related to stock items and movements.
type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

func newStockHandler(ss portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{stockService: ss}
}

// RegisterStockRoutes registers routes related to stock.
func RegisterStockRoutes(rg *gin.RouterGroup, stockService portssvc.StockSvcFacade) {
	h := newStockHandler(stockService)

	items := rg.Group("/stock-items")
	{
		items.POST("", h.createStockItem)
		items.GET("", h.listStockItems)
		items.GET("/export", h.exportStockRegister)
		items.GET("/:id", h.getStockItem)
		items.PUT("/:id", h.updateStockItem)
		items.DELETE("/:id", h.deactivateStockItem)
		items.GET("/:id/transactions", h.listStockTransactions)
		items.GET("/:id/reconcile", h.reconcileStockItem)
	}
	rg.POST("/stock-transactions", h.applyStockTransaction)
}

// createStockItem godoc
// @Summary Create a stock item
// @Description Creates an item; a positive openingQty records its opening transaction
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   item body dto.CreateStockItemRequest true "Item details"
// @Success 201 {object} dto.StockItemResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "SKU already in use"
// @Security BearerAuth
// @Router /stock-items [post]
func (h *stockHandler) createStockItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.stockService.CreateStockItem(c.Request.Context(), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "create stock item")
		return
	}

	logger.Info("Stock item created successfully", slog.String("item_id", item.ItemID), slog.String("sku", item.SKU))
	c.JSON(http.StatusCreated, dto.ToStockItemResponse(item))
}

// listStockItems godoc
// @Summary List stock items
// @Tags stock
// @Produce  json
// @Param   category query string false "Category"
// @Param   search query string false "Matches name, SKU, barcode or OEM part number"
// @Param   lowStock query bool false "Only items at or below their reorder level"
// @Param   includeInactive query bool false "Include deactivated items"
// @Success 200 {object} dto.ListStockItemsResponse
// @Security BearerAuth
// @Router /stock-items [get]
func (h *stockHandler) listStockItems(c *gin.Context) {
	var params dto.ListStockItemsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	items, err := h.stockService.ListStockItems(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "list stock items")
		return
	}
	c.JSON(http.StatusOK, dto.ToListStockItemsResponse(items))
}

// getStockItem godoc
// @Summary Get a stock item by ID
// @Tags stock
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 200 {object} dto.StockItemResponse
// @Failure 404 {object} dto.ErrorResponse "Item not found"
// @Security BearerAuth
// @Router /stock-items/{id} [get]
func (h *stockHandler) getStockItem(c *gin.Context) {
	item, err := h.stockService.GetStockItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve stock item")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockItemResponse(item))
}

// updateStockItem godoc
// @Summary Update a stock item
// @Description Changes master data. Quantity and cost only move through stock transactions.
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   item body dto.UpdateStockItemRequest true "Fields to update"
// @Success 200 {object} dto.StockItemResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Item not found"
// @Security BearerAuth
// @Router /stock-items/{id} [put]
func (h *stockHandler) updateStockItem(c *gin.Context) {
	var req dto.UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.stockService.UpdateStockItem(c.Request.Context(), c.Param("id"), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "update stock item")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockItemResponse(item))
}

// deactivateStockItem godoc
// @Summary Deactivate a stock item
// @Tags stock
// @Param   id path string true "Item ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Item not found"
// @Security BearerAuth
// @Router /stock-items/{id} [delete]
func (h *stockHandler) deactivateStockItem(c *gin.Context) {
	if err := h.stockService.DeactivateStockItem(c.Request.Context(), c.Param("id"), middleware.OperatorOrSystem(c)); err != nil {
		respondError(c, err, "deactivate stock item")
		return
	}
	c.Status(http.StatusNoContent)
}

// listStockTransactions godoc
// @Summary List an item's stock movements
// @Tags stock
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 200 {object} dto.ListStockTransactionsResponse
// @Failure 404 {object} dto.ErrorResponse "Item not found"
// @Security BearerAuth
// @Router /stock-items/{id}/transactions [get]
func (h *stockHandler) listStockTransactions(c *gin.Context) {
	txns, err := h.stockService.ListStockTransactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "list stock transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListStockTransactionsResponse(txns))
}

// reconcileStockItem godoc
// @Summary Reconcile a stock item
// @Description Compares the stored quantity with the sum of the item's movements
// @Tags stock
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 200 {object} domain.StockReconciliation
// @Failure 404 {object} dto.ErrorResponse "Item not found"
// @Security BearerAuth
// @Router /stock-items/{id}/reconcile [get]
func (h *stockHandler) reconcileStockItem(c *gin.Context) {
	rec, err := h.stockService.ReconcileStockItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "reconcile stock item")
		return
	}
	if !rec.Consistent {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Stock quantity does not match its transactions",
			slog.String("item_id", rec.ItemID),
			slog.String("current_qty", rec.CurrentQty.String()),
			slog.String("replayed_qty", rec.ReplayedQty.String()))
	}
	c.JSON(http.StatusOK, rec)
}

// exportStockRegister godoc
// @Summary Export the stock register
// @Description Downloads every active item as an Excel workbook
// @Tags stock
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} dto.ErrorResponse "Failed to export stock register"
// @Security BearerAuth
// @Router /stock-items/export [get]
func (h *stockHandler) exportStockRegister(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.stockService.ExportStockRegister(c.Request.Context(), &buf); err != nil {
		respondError(c, err, "export stock register")
		return
	}

	filename := fmt.Sprintf("stock_register_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// applyStockTransaction godoc
// @Summary Record a stock movement
// @Description Applies a purchase, sale, adjustment or opening movement to one item
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   transaction body dto.ApplyStockTransactionRequest true "Movement details"
// @Success 201 {object} dto.StockTransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Item not found"
// @Failure 409 {object} dto.ErrorResponse "Insufficient stock"
// @Security BearerAuth
// @Router /stock-transactions [post]
func (h *stockHandler) applyStockTransaction(c *gin.Context) {
	var req dto.ApplyStockTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	txn, err := h.stockService.ApplyStockTransaction(c.Request.Context(), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "apply stock transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToStockTransactionResponse(txn))
}
