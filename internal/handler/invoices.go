package handler

import (
	"net/http"

	"adetta/internal/dto"
	"adetta/internal/service"

	"github.com/gin-gonic/gin"
)

type InvoicesHandler struct {
	invoices  service.InvoiceService
	status    service.StatusEngine
	payments  service.PaymentLedger
	documents service.DocumentService
}

func NewInvoicesHandler(
	invoices service.InvoiceService,
	status service.StatusEngine,
	payments service.PaymentLedger,
	documents service.DocumentService,
) *InvoicesHandler {
	return &InvoicesHandler{invoices: invoices, status: status, payments: payments, documents: documents}
}

// List godoc
// @Summary      List invoices with paid and open amounts
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query int    false "Customer"
// @Param        status      query string false "open | partial | paid"
// @Param        period      query string false "30 | 90 | 365 | all"
// @Success      200  {array} dto.InvoiceResponse
// @Router       /v1/invoices [get]
func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvoicesHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Status godoc
// @Summary      Compare stored and derived invoice status
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Invoice ID"
// @Success      200  {object} dto.InvoiceStatusResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/invoices/{id}/status [get]
func (h *InvoicesHandler) Status(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.status.Verify(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecomputeAll godoc
// @Summary      Re-derive the status of every invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.RecomputeResponse
// @Router       /v1/invoices/recompute [post]
func (h *InvoicesHandler) RecomputeAll(c *gin.Context) {
	resp, err := h.status.RecomputeAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordPayment godoc
// @Summary      Record a payment against an invoice
// @Description  Rejected when the amount exceeds the open balance.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int                      true "Invoice ID"
// @Param        body body dto.RecordPaymentRequest true "Payment"
// @Success      201  {object} dto.RecordPaymentResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "overpayment"
// @Router       /v1/invoices/{id}/payments [post]
func (h *InvoicesHandler) RecordPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.payments.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InvoicesHandler) ListPayments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.payments.ListPayments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF godoc
// @Summary      Download the invoice as PDF
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path int true "Invoice ID"
// @Success      200
// @Failure      404  {object} apierror.APIError
// @Router       /v1/invoices/{id}/pdf [get]
func (h *InvoicesHandler) PDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.documents.RenderInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Send godoc
// @Summary      Mail the invoice PDF
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int                    true "Invoice ID"
// @Param        body body dto.SendInvoiceRequest true "Recipient"
// @Success      200  {object} dto.SendInvoiceResponse
// @Failure      502  {object} apierror.APIError
// @Router       /v1/invoices/{id}/send [post]
func (h *InvoicesHandler) Send(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SendInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.documents.SendInvoice(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
