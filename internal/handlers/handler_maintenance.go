package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maintenanceHandler exposes the posting gate and the audit trail.
type maintenanceHandler struct {
	maintenance portssvc.MaintenanceSvc
	audit       portssvc.AuditSvc
}

// RegisterMaintenanceRoutes registers the quiesce/resume and audit routes.
func RegisterMaintenanceRoutes(rg *gin.RouterGroup, maintenance portssvc.MaintenanceSvc, audit portssvc.AuditSvc) {
	h := &maintenanceHandler{maintenance: maintenance, audit: audit}

	m := rg.Group("/maintenance")
	{
		m.GET("/status", h.status)
		m.POST("/quiesce", h.quiesce)
		m.POST("/resume", h.resume)
	}
	rg.GET("/audit-logs", h.listAuditLogs)
}

// quiesce godoc
// @Summary Suspend postings
// @Description Waits for in-flight postings and rejects new ones until resume or the auto-resume deadline
// @Tags maintenance
// @Produce  json
// @Success 200 {object} dto.QuiesceResponse
// @Failure 503 {object} dto.ErrorResponse "Timed out waiting for in-flight postings"
// @Security BearerAuth
// @Router /maintenance/quiesce [post]
func (h *maintenanceHandler) quiesce(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.maintenance.Quiesce(c.Request.Context()); err != nil {
		respondError(c, err, "quiesce postings")
		return
	}
	logger.Info("Postings quiesced", slog.String("operator", middleware.OperatorOrSystem(c)))
	c.JSON(http.StatusOK, dto.QuiesceResponse{Quiesced: true})
}

// resume godoc
// @Summary Resume postings
// @Tags maintenance
// @Produce  json
// @Success 200 {object} dto.QuiesceResponse
// @Security BearerAuth
// @Router /maintenance/resume [post]
func (h *maintenanceHandler) resume(c *gin.Context) {
	if err := h.maintenance.Resume(c.Request.Context()); err != nil {
		respondError(c, err, "resume postings")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Postings resumed", slog.String("operator", middleware.OperatorOrSystem(c)))
	c.JSON(http.StatusOK, dto.QuiesceResponse{Quiesced: false})
}

// status godoc
// @Summary Posting gate state
// @Tags maintenance
// @Produce  json
// @Success 200 {object} dto.QuiesceResponse
// @Security BearerAuth
// @Router /maintenance/status [get]
func (h *maintenanceHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.QuiesceResponse{Quiesced: h.maintenance.Quiesced()})
}

// listAuditLogs godoc
// @Summary Audit trail
// @Description Lists audit entries newest first, optionally for one table or record
// @Tags audit
// @Produce  json
// @Param   table query string false "Table name, e.g. vouchers"
// @Param   recordID query string false "Record ID"
// @Param   limit query int false "Maximum entries" default(100)
// @Success 200 {object} dto.ListAuditLogsResponse
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *maintenanceHandler) listAuditLogs(c *gin.Context) {
	var params dto.ListAuditLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	entries, err := h.audit.ListAuditLogs(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "list audit logs")
		return
	}
	c.JSON(http.StatusOK, dto.ListAuditLogsResponse{Entries: entries})
}
