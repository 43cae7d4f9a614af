package handlers

import (
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type ExportHandler struct {
	exportService *service.ExportService
	logger        *zap.Logger
}

func NewExportHandler(exportService *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// CSV godoc
// @Summary Export the filtered transactions as CSV
// @Tags export
// @Produce text/csv
// @Security Bearer
// @Param search query string false "Substring of name or user id"
// @Param sortField query string false "Sort field"
// @Param sortOrder query string false "asc or desc"
// @Param status query string false "Paid or Pending"
// @Param category query string false "Revenue or Expense"
// @Success 200 {file} file
// @Failure 404 {object} dto.MessageResponse
// @Router /api/transactions/export/csv [get]
func (h *ExportHandler) CSV(c *fiber.Ctx) error {
	q := service.NewListQuery(listParams(c))
	out, err := h.exportService.CSV(c.Context(), q.Filter, q.Sort)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return sendAttachment(c, contentTypeCSV, "transactions.csv", out)
}

// Excel godoc
// @Summary Export the financial report workbook
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security Bearer
// @Param search query string false "Substring of name or user id"
// @Param sortField query string false "Sort field"
// @Param sortOrder query string false "asc or desc"
// @Param status query string false "Paid or Pending"
// @Param category query string false "Revenue or Expense"
// @Success 200 {file} file
// @Router /api/transactions/export/excel [get]
func (h *ExportHandler) Excel(c *fiber.Ctx) error {
	q := service.NewListQuery(listParams(c))
	out, err := h.exportService.Excel(c.Context(), q.Filter, q.Sort)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return sendAttachment(c, contentTypeXLSX, "financial_report.xlsx", out)
}

// PDF godoc
// @Summary Export a PDF transaction statement
// @Tags export
// @Produce application/pdf
// @Security Bearer
// @Param search query string false "Substring of name or user id"
// @Param sortField query string false "Sort field"
// @Param sortOrder query string false "asc or desc"
// @Param status query string false "Paid or Pending"
// @Param category query string false "Revenue or Expense"
// @Success 200 {file} file
// @Failure 404 {object} dto.MessageResponse
// @Router /api/transactions/export/pdf [get]
func (h *ExportHandler) PDF(c *fiber.Ctx) error {
	q := service.NewListQuery(listParams(c))
	out, err := h.exportService.PDF(c.Context(), q.Filter, q.Sort)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return sendAttachment(c, contentTypePDF, "transactions.pdf", out)
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Status(fiber.StatusOK).Send(body)
}
