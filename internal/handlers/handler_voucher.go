package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// voucherHandler handles HTTP requests related to vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

func newVoucherHandler(vs portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{voucherService: vs}
}

// RegisterVoucherRoutes registers routes related to vouchers.
func RegisterVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := newVoucherHandler(voucherService)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.postVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:id", h.getVoucher)
		vouchers.POST("/:id/cancel", h.cancelVoucher)
	}
}

// postVoucher godoc
// @Summary Post a voucher
// @Description Debits one ledger and credits another by the same amount
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucher body dto.PostVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Ledger not found"
// @Failure 503 {object} dto.ErrorResponse "Postings suspended"
// @Security BearerAuth
// @Router /vouchers [post]
func (h *voucherHandler) postVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	voucher, err := h.voucherService.PostVoucher(c.Request.Context(), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "post voucher")
		return
	}

	logger.Info("Voucher posted successfully", slog.String("voucher_id", voucher.VoucherID), slog.String("voucher_no", voucher.VoucherNo))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Lists vouchers newest first. Pass nextToken from a previous page to continue.
// @Tags vouchers
// @Produce  json
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Param   type query string false "Voucher type"
// @Param   ledgerID query string false "Only vouchers touching this ledger"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Security BearerAuth
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.voucherService.ListVouchers(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "list vouchers")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getVoucher godoc
// @Summary Get a voucher by ID
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} dto.ErrorResponse "Voucher not found"
// @Security BearerAuth
// @Router /vouchers/{id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// cancelVoucher godoc
// @Summary Cancel a voucher
// @Description Reverses the voucher's effect on both ledgers and marks it CANCELLED
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 409 {object} dto.ErrorResponse "Voucher belongs to a sale or purchase"
// @Failure 404 {object} dto.ErrorResponse "Voucher not found"
// @Failure 409 {object} dto.ErrorResponse "Voucher already cancelled"
// @Security BearerAuth
// @Router /vouchers/{id}/cancel [post]
func (h *voucherHandler) cancelVoucher(c *gin.Context) {
	voucher, err := h.voucherService.CancelVoucher(c.Request.Context(), c.Param("id"), middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "cancel voucher")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Voucher cancelled", slog.String("voucher_no", voucher.VoucherNo))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}
