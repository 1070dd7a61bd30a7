package handler

import (
	"net/http"
	"strconv"

	"adetta/internal/dto"
	"adetta/internal/service"

	"github.com/gin-gonic/gin"
)

type DeliveriesHandler struct{ svc service.StockLedger }

func NewDeliveriesHandler(svc service.StockLedger) *DeliveriesHandler {
	return &DeliveriesHandler{svc: svc}
}

// Book godoc
// @Summary      Book a delivery
// @Description  Decrements stock and issues the delivery's invoice in one transaction.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.BookDeliveryRequest true "Delivery line"
// @Success      201  {object} dto.DeliveryResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "insufficient stock or missing price"
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/deliveries [post]
func (h *DeliveriesHandler) Book(c *gin.Context) {
	var req dto.BookDeliveryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.BookDelivery(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// BookBatch godoc
// @Summary      Book several delivery lines for one customer
// @Description  All lines commit together or not at all. Each line gets its own invoice.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.BookDeliveriesRequest true "Delivery lines"
// @Success      201  {object} dto.DeliveryBatchResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/deliveries/batch [post]
func (h *DeliveriesHandler) BookBatch(c *gin.Context) {
	var req dto.BookDeliveriesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.BookDeliveries(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Delete godoc
// @Summary      Delete a delivery
// @Description  Restores stock and removes the delivery's payments and invoice.
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Delivery ID"
// @Success      200  {object} dto.DeleteDeliveryResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/deliveries/{id} [delete]
func (h *DeliveriesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.DeleteDelivery(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DeliveriesHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
