package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/partsledger/internal/core/domain"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// partyHandler serves one party kind; customers and suppliers share it.
type partyHandler struct {
	kind         domain.PartyKind
	partyService portssvc.PartySvcFacade
}

// RegisterPartyRoutes registers the /customers and /suppliers routes.
func RegisterPartyRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvcFacade) {
	for path, kind := range map[string]domain.PartyKind{
		"/customers": domain.CustomerParty,
		"/suppliers": domain.SupplierParty,
	} {
		h := &partyHandler{kind: kind, partyService: partyService}
		parties := rg.Group(path)
		parties.POST("", h.createParty)
		parties.GET("", h.listParties)
		parties.GET("/:id", h.getParty)
		parties.PUT("/:id", h.updateParty)
		parties.DELETE("/:id", h.deactivateParty)
		parties.GET("/:id/statement", h.getStatement)
	}
}

// createParty godoc
// @Summary Create a customer or supplier
// @Description Creates the party together with its own ledger
// @Tags customers, suppliers
// @Accept  json
// @Produce  json
// @Param   party body dto.CreatePartyRequest true "Party details"
// @Success 201 {object} dto.PartyResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "Ledger name already in use"
// @Security BearerAuth
// @Router /customers [post]
// @Router /suppliers [post]
func (h *partyHandler) createParty(c *gin.Context) {
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	party, err := h.partyService.CreateParty(c.Request.Context(), h.kind, req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "create "+partyNoun(h.kind))
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Party created",
		slog.String("kind", string(h.kind)), slog.String("party_id", party.PartyID), slog.String("ledger_id", party.LedgerID))
	c.JSON(http.StatusCreated, dto.ToPartyResponse(party))
}

// listParties godoc
// @Summary List customers or suppliers
// @Tags customers, suppliers
// @Produce  json
// @Param   search query string false "Name or phone contains"
// @Param   includeInactive query bool false "Include deactivated parties"
// @Success 200 {object} dto.ListPartiesResponse
// @Security BearerAuth
// @Router /customers [get]
// @Router /suppliers [get]
func (h *partyHandler) listParties(c *gin.Context) {
	var params dto.ListPartiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	parties, err := h.partyService.ListParties(c.Request.Context(), h.kind, params)
	if err != nil {
		respondError(c, err, "list "+partyNoun(h.kind)+"s")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPartiesResponse(parties))
}

// getParty godoc
// @Summary Get a customer or supplier by ID
// @Tags customers, suppliers
// @Produce  json
// @Param   id path string true "Party ID"
// @Success 200 {object} dto.PartyResponse
// @Failure 404 {object} dto.ErrorResponse "Party not found"
// @Security BearerAuth
// @Router /customers/{id} [get]
// @Router /suppliers/{id} [get]
func (h *partyHandler) getParty(c *gin.Context) {
	party, err := h.partyService.GetParty(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve "+partyNoun(h.kind))
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// updateParty godoc
// @Summary Update a customer or supplier
// @Tags customers, suppliers
// @Accept  json
// @Produce  json
// @Param   id path string true "Party ID"
// @Param   party body dto.UpdatePartyRequest true "Fields to update"
// @Success 200 {object} dto.PartyResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Party not found"
// @Security BearerAuth
// @Router /customers/{id} [put]
// @Router /suppliers/{id} [put]
func (h *partyHandler) updateParty(c *gin.Context) {
	var req dto.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	party, err := h.partyService.UpdateParty(c.Request.Context(), h.kind, c.Param("id"), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "update "+partyNoun(h.kind))
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// deactivateParty godoc
// @Summary Deactivate a customer or supplier
// @Tags customers, suppliers
// @Param   id path string true "Party ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Party not found"
// @Security BearerAuth
// @Router /customers/{id} [delete]
// @Router /suppliers/{id} [delete]
func (h *partyHandler) deactivateParty(c *gin.Context) {
	if err := h.partyService.DeactivateParty(c.Request.Context(), h.kind, c.Param("id"), middleware.OperatorOrSystem(c)); err != nil {
		respondError(c, err, "deactivate "+partyNoun(h.kind))
		return
	}
	c.Status(http.StatusNoContent)
}

// getStatement godoc
// @Summary Party statement
// @Description Returns the party with every voucher posted to its ledger, newest first
// @Tags customers, suppliers
// @Produce  json
// @Param   id path string true "Party ID"
// @Success 200 {object} dto.PartyStatementResponse
// @Failure 404 {object} dto.ErrorResponse "Party not found"
// @Security BearerAuth
// @Router /customers/{id}/statement [get]
// @Router /suppliers/{id}/statement [get]
func (h *partyHandler) getStatement(c *gin.Context) {
	statement, err := h.partyService.GetStatement(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		respondError(c, err, "build "+partyNoun(h.kind)+" statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyStatementResponse(statement))
}

func partyNoun(kind domain.PartyKind) string {
	if kind == domain.SupplierParty {
		return "supplier"
	}
	return "customer"
}
