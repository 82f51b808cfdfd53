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

// documentHandler serves one document kind; sales and purchases share it.
type documentHandler struct {
	kind            domain.DocumentKind
	documentService portssvc.DocumentSvcFacade
}

// RegisterDocumentRoutes registers the /sales and /purchases routes.
func RegisterDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	sales := &documentHandler{kind: domain.SaleDocument, documentService: documentService}
	purchases := &documentHandler{kind: domain.PurchaseDocument, documentService: documentService}

	salesGroup := rg.Group("/sales")
	{
		salesGroup.POST("", sales.composeSale)
		salesGroup.GET("", sales.listDocuments)
		salesGroup.GET("/:id", sales.getDocument)
		salesGroup.POST("/:id/cancel", sales.cancelDocument)
	}

	purchaseGroup := rg.Group("/purchases")
	{
		purchaseGroup.POST("", purchases.composePurchase)
		purchaseGroup.GET("", purchases.listDocuments)
		purchaseGroup.GET("/:id", purchases.getDocument)
		purchaseGroup.POST("/:id/cancel", purchases.cancelDocument)
	}
}

// composeSale godoc
// @Summary Record a sale
// @Description Posts the invoice, its stock movements and its vouchers in one step
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   sale body dto.CreateSaleRequest true "Sale details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or credit limit exceeded"
// @Failure 404 {object} dto.ErrorResponse "Customer or item not found"
// @Failure 409 {object} dto.ErrorResponse "Insufficient stock"
// @Failure 503 {object} dto.ErrorResponse "Postings suspended"
// @Security BearerAuth
// @Router /sales [post]
func (h *documentHandler) composeSale(c *gin.Context) {
	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	doc, err := h.documentService.ComposeSale(c.Request.Context(), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "record sale")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Sale recorded",
		slog.String("document_id", doc.DocumentID), slog.String("invoice_no", doc.Number), slog.String("total", doc.Total.String()))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// composePurchase godoc
// @Summary Record a purchase
// @Description Posts the purchase, its stock movements and its vouchers in one step
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   purchase body dto.CreatePurchaseRequest true "Purchase details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Supplier or item not found"
// @Failure 503 {object} dto.ErrorResponse "Postings suspended"
// @Security BearerAuth
// @Router /purchases [post]
func (h *documentHandler) composePurchase(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	doc, err := h.documentService.ComposePurchase(c.Request.Context(), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "record purchase")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Purchase recorded",
		slog.String("document_id", doc.DocumentID), slog.String("purchase_no", doc.Number), slog.String("total", doc.Total.String()))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List sales or purchases
// @Tags sales, purchases
// @Produce  json
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Param   counterpartyID query string false "Customer or supplier ID"
// @Param   status query string false "POSTED or CANCELLED"
// @Success 200 {object} dto.ListDocumentsResponse
// @Security BearerAuth
// @Router /sales [get]
// @Router /purchases [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	docs, err := h.documentService.ListDocuments(c.Request.Context(), h.kind, params)
	if err != nil {
		respondError(c, err, "list documents")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDocumentsResponse(docs))
}

// getDocument godoc
// @Summary Get a sale or purchase by ID
// @Tags sales, purchases
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Security BearerAuth
// @Router /sales/{id} [get]
// @Router /purchases/{id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	doc, err := h.documentService.GetDocument(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// cancelDocument godoc
// @Summary Cancel a sale or purchase
// @Description Reverses the document's stock movements and cancels its vouchers
// @Tags sales, purchases
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Failure 409 {object} dto.ErrorResponse "Already cancelled or stock already consumed"
// @Security BearerAuth
// @Router /sales/{id}/cancel [post]
// @Router /purchases/{id}/cancel [post]
func (h *documentHandler) cancelDocument(c *gin.Context) {
	doc, err := h.documentService.CancelDocument(c.Request.Context(), h.kind, c.Param("id"), middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "cancel document")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Document cancelled", slog.String("kind", string(h.kind)), slog.String("number", doc.Number))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}
