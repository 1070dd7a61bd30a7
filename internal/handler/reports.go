package handler

import (
	"net/http"

	"adetta/internal/dto"
	"adetta/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// LowStock godoc
// @Summary      Products at or below their minimum stock
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.ProductResponse
// @Router       /v1/reports/low-stock [get]
func (h *ReportsHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Revenue godoc
// @Summary      Invoiced revenue since the start of a period
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        period query string false "30 | 90 | 365 | all"
// @Success      200  {object} dto.RevenueResponse
// @Router       /v1/reports/revenue [get]
func (h *ReportsHandler) Revenue(c *gin.Context) {
	var q dto.PeriodQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Revenue(c.Request.Context(), q.Period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) RevenueByCustomer(c *gin.Context) {
	var q dto.PeriodQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.RevenueByCustomer(c.Request.Context(), q.Period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
