package handlers

import (
	"fintrack/internal/dto"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// listParams reads the shared list/export query string.
func listParams(c *fiber.Ctx) service.ListParams {
	return service.ListParams{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		Search:    c.Query("search"),
		SortField: c.Query("sortField"),
		SortOrder: c.Query("sortOrder"),
		Status:    c.Query("status"),
		Category:  c.Query("category"),
	}
}

// Summary godoc
// @Summary Balance, expense and revenue totals
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.DataResponse{data=dto.Summary}
// @Failure 401 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Router /api/transactions/summary [get]
func (h *TransactionHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.txService.Summary(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.DataResponse{Message: "Summary fetched", Data: summary})
}

// Status godoc
// @Summary Transaction counts by status
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.DataResponse{data=dto.StatusCounts}
// @Router /api/transactions/status [get]
func (h *TransactionHandler) Status(c *fiber.Ctx) error {
	counts, err := h.txService.StatusCounts(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.DataResponse{Message: "Status fetched", Data: counts})
}

// StatusCategory godoc
// @Summary Amount totals by status and category
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.DataResponse{data=dto.StatusCategoryAmounts}
// @Router /api/transactions/status-category [get]
func (h *TransactionHandler) StatusCategory(c *fiber.Ctx) error {
	amounts, err := h.txService.StatusCategoryAmounts(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.DataResponse{Message: "Status-Category totals", Data: amounts})
}

// DailyTrend godoc
// @Summary Paid income and expense per day
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.DataResponse{data=[]dto.DailyTrend}
// @Router /api/transactions/trends/daily [get]
func (h *TransactionHandler) DailyTrend(c *fiber.Ctx) error {
	trend, err := h.txService.DailyTrend(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.DataResponse{Message: "Daily trend fetched", Data: trend})
}

// WeeklyTrend godoc
// @Summary Paid income and expense per day-of-month week band
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.DataResponse{data=[]dto.WeeklyTrend}
// @Router /api/transactions/trends/weekly [get]
func (h *TransactionHandler) WeeklyTrend(c *fiber.Ctx) error {
	trend, err := h.txService.WeeklyTrend(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.DataResponse{Message: "Weekly trend fetched", Data: trend})
}

// MonthlyTrend godoc
// @Summary Paid income and expense per month name
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.DataResponse{data=[]dto.MonthlyTrend}
// @Router /api/transactions/trends/monthly [get]
func (h *TransactionHandler) MonthlyTrend(c *fiber.Ctx) error {
	trend, err := h.txService.MonthlyTrend(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.DataResponse{Message: "Monthly trend fetched", Data: trend})
}

// Recent godoc
// @Summary The five newest transactions
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.DataResponse{data=[]dto.TransactionResponse}
// @Router /api/transactions/recent [get]
func (h *TransactionHandler) Recent(c *fiber.Ctx) error {
	recent, err := h.txService.Recent(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dto.DataResponse{Message: "Recent fetched", Data: recent})
}

// List godoc
// @Summary Paginated, filtered and sorted transactions
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param search query string false "Substring of name or user id"
// @Param sortField query string false "date, amount, category, status, user_id, name, created_at"
// @Param sortOrder query string false "asc or desc"
// @Param status query string false "Paid or Pending"
// @Param category query string false "Revenue or Expense"
// @Success 200 {object} dto.PaginatedTransactions
// @Router /api/transactions/list [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	page, err := h.txService.List(c.Context(), service.NewListQuery(listParams(c)))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(page)
}
