package handler

import (
	"net/http"

	"adetta/internal/dto"
	"adetta/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpensesHandler struct{ svc service.ExpenseService }

func NewExpensesHandler(svc service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{svc: svc}
}

// Create godoc
// @Summary      Record an expense
// @Description  customer_id is only accepted for site-fee expenses.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateExpenseRequest true "Expense"
// @Success      201  {object} dto.ExpenseResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/expenses [post]
func (h *ExpensesHandler) Create(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ExpensesHandler) List(c *gin.Context) {
	var filter dto.ExpenseFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Summary godoc
// @Summary      Expense totals per category
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        period query string false "30 | 90 | 365 | all"
// @Success      200  {object} dto.ExpenseSummaryResponse
// @Router       /v1/expenses/summary [get]
func (h *ExpensesHandler) Summary(c *gin.Context) {
	var q dto.PeriodQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), q.Period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
