package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests related to ledgers.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers routes related to ledgers.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledgers := rg.Group("/ledgers")
	{
		ledgers.POST("", h.createLedger)
		ledgers.GET("", h.listLedgers)
		ledgers.GET("/:id", h.getLedger)
		ledgers.PUT("/:id", h.updateLedger)
		ledgers.DELETE("/:id", h.deactivateLedger)
		ledgers.GET("/:id/reconcile", h.reconcileLedger)
	}
}

// createLedger godoc
// @Summary Create a ledger
// @Description Creates a ledger with an optional opening balance
// @Tags ledgers
// @Accept  json
// @Produce  json
// @Param   ledger body dto.CreateLedgerRequest true "Ledger details"
// @Success 201 {object} dto.LedgerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "Ledger name already in use"
// @Failure 500 {object} dto.ErrorResponse "Failed to create ledger"
// @Security BearerAuth
// @Router /ledgers [post]
func (h *ledgerHandler) createLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ledger, err := h.ledgerService.CreateLedger(c.Request.Context(), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "create ledger")
		return
	}

	logger.Info("Ledger created successfully", slog.String("ledger_id", ledger.LedgerID))
	c.JSON(http.StatusCreated, dto.ToLedgerResponse(ledger))
}

// listLedgers godoc
// @Summary List ledgers
// @Tags ledgers
// @Produce  json
// @Param   type query string false "Ledger type"
// @Param   search query string false "Name contains"
// @Param   includeInactive query bool false "Include deactivated ledgers"
// @Success 200 {object} dto.ListLedgersResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Security BearerAuth
// @Router /ledgers [get]
func (h *ledgerHandler) listLedgers(c *gin.Context) {
	var params dto.ListLedgersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	ledgers, err := h.ledgerService.ListLedgers(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "list ledgers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLedgersResponse(ledgers))
}

// getLedger godoc
// @Summary Get a ledger by ID
// @Tags ledgers
// @Produce  json
// @Param   id path string true "Ledger ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 404 {object} dto.ErrorResponse "Ledger not found"
// @Security BearerAuth
// @Router /ledgers/{id} [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	ledger, err := h.ledgerService.GetLedgerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerResponse(ledger))
}

// updateLedger godoc
// @Summary Update a ledger
// @Description Renames a ledger or changes its group. Type and balances are fixed.
// @Tags ledgers
// @Accept  json
// @Produce  json
// @Param   id path string true "Ledger ID"
// @Param   ledger body dto.UpdateLedgerRequest true "Fields to update"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Ledger not found"
// @Failure 409 {object} dto.ErrorResponse "Ledger name already in use"
// @Security BearerAuth
// @Router /ledgers/{id} [put]
func (h *ledgerHandler) updateLedger(c *gin.Context) {
	var req dto.UpdateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ledger, err := h.ledgerService.UpdateLedger(c.Request.Context(), c.Param("id"), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "update ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerResponse(ledger))
}

// deactivateLedger godoc
// @Summary Deactivate a ledger
// @Description Deactivated ledgers keep their history but accept no new vouchers
// @Tags ledgers
// @Param   id path string true "Ledger ID"
// @Success 204 "No Content"
// @Failure 409 {object} dto.ErrorResponse "System ledgers cannot be deactivated"
// @Failure 404 {object} dto.ErrorResponse "Ledger not found"
// @Security BearerAuth
// @Router /ledgers/{id} [delete]
func (h *ledgerHandler) deactivateLedger(c *gin.Context) {
	if err := h.ledgerService.DeactivateLedger(c.Request.Context(), c.Param("id"), middleware.OperatorOrSystem(c)); err != nil {
		respondError(c, err, "deactivate ledger")
		return
	}
	c.Status(http.StatusNoContent)
}

// reconcileLedger godoc
// @Summary Reconcile a ledger
// @Description Replays the ledger's vouchers and compares the result with the stored balance
// @Tags ledgers
// @Produce  json
// @Param   id path string true "Ledger ID"
// @Success 200 {object} domain.LedgerReconciliation
// @Failure 404 {object} dto.ErrorResponse "Ledger not found"
// @Security BearerAuth
// @Router /ledgers/{id}/reconcile [get]
func (h *ledgerHandler) reconcileLedger(c *gin.Context) {
	rec, err := h.ledgerService.ReconcileLedger(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "reconcile ledger")
		return
	}
	if !rec.Consistent {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Ledger balance does not match its vouchers",
			slog.String("ledger_id", rec.LedgerID),
			slog.String("balance", rec.Balance.String()),
			slog.String("replayed", rec.ReplayedBalance.String()))
	}
	c.JSON(http.StatusOK, rec)
}
