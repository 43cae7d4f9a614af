package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"fintrack/internal/models"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	SheetSummary      = "Financial Summary"
	SheetMonthly      = "Monthly Trends"
	SheetTransactions = "Transactions"

	headerFill = "#D9EAD3"
	// at most this many rows are rendered into a PDF statement
	pdfMaxRows = 500
)

// CSVColumns is the fixed column set of the CSV export.
var CSVColumns = []string{"user_id", "name", "date", "amount", "status"}

// ExportService renders query results into downloadable files.
type ExportService struct {
	store  TransactionStore
	trends *TrendBuilder
	now    func() time.Time
	logger *zap.Logger
}

func NewExportService(store TransactionStore, trends *TrendBuilder, logger *zap.Logger) *ExportService {
	return &ExportService{
		store:  store,
		trends: trends,
		now:    time.Now,
		logger: logger,
	}
}

// CSV serializes every matching transaction. An empty selection is
// ErrNoTransactionsToExport.
func (s *ExportService) CSV(ctx context.Context, filter models.TransactionFilter, sort models.TransactionSort) ([]byte, error) {
	txs, err := s.store.List(ctx, filter, sort, models.Page{})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txs) == 0 {
		return nil, ErrNoTransactionsToExport
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVColumns); err != nil {
		return nil, err
	}
	for _, tx := range txs {
		record := []string{
			tx.UserID,
			tx.Name,
			tx.Date.UTC().Format(time.RFC3339),
			strconv.FormatFloat(tx.Amount, 'f', -1, 64),
			string(tx.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}

	return buf.Bytes(), nil
}

// Excel builds the three-sheet financial report. Summary and monthly sheets
// cover paid transactions only; the transactions sheet lists the selection.
func (s *ExportService) Excel(ctx context.Context, filter models.TransactionFilter, sort models.TransactionSort) ([]byte, error) {
	paid, listing, err := s.load(ctx, filter, sort)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	summary := ReportSummary(paid)
	summaryRows := [][]any{
		{"Current Balance", summary.Balance},
		{"Total Revenue", summary.Revenue},
		{"Total Expenses", summary.Expenses},
		{"Net Profit", summary.NetProfit},
	}

	var monthlyRows [][]any
	for _, m := range s.trends.MonthlyReport(paid) {
		monthlyRows = append(monthlyRows, []any{m.Month, m.Revenue, m.Expenses, m.Profit})
	}

	var txRows [][]any
	for _, tx := range listing {
		txRows = append(txRows, []any{
			tx.Date.In(s.trends.loc).Format("02 Jan 2006"),
			tx.UserID,
			tx.Name,
			tx.Description,
			tx.Amount,
			string(tx.Category),
			string(tx.Status),
		})
	}

	sheets := []struct {
		name    string
		columns []string
		widths  []float64
		rows    [][]any
	}{
		{SheetSummary, []string{"Metric", "Amount"}, []float64{25, 20}, summaryRows},
		{SheetMonthly, []string{"Month", "Revenue", "Expenses", "Profit"}, []float64{15, 15, 15, 15}, monthlyRows},
		{SheetTransactions, []string{"Date", "User ID", "Name", "Description", "Amount", "Category", "Status"},
			[]float64{15, 20, 25, 30, 15, 15, 15}, txRows},
	}

	for i, sh := range sheets {
		if i == 0 {
			err = f.SetSheetName("Sheet1", sh.name)
		} else {
			_, err = f.NewSheet(sh.name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", sh.name, err)
		}
		if err := writeSheet(f, sh.name, header, sh.columns, sh.widths, sh.rows); err != nil {
			return nil, fmt.Errorf("failed to write sheet %q: %w", sh.name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, columns []string, widths []float64, rows [][]any) error {
	headerRow := make([]any, len(columns))
	for i, c := range columns {
		headerRow[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// PDF renders a statement with the paid-only summary and the selection.
func (s *ExportService) PDF(ctx context.Context, filter models.TransactionFilter, sort models.TransactionSort) ([]byte, error) {
	paid, listing, err := s.load(ctx, filter, sort)
	if err != nil {
		return nil, err
	}
	if len(listing) == 0 {
		return nil, ErrNoTransactionsToExport
	}

	summary := ReportSummary(paid)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetTitle("Transaction Statement", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Transaction Statement")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Generated "+s.now().In(s.trends.loc).Format("02 Jan 2006 15:04 MST"))
	pdf.Ln(10)

	pdf.SetTextColor(20, 20, 20)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(217, 234, 211)
	pdf.SetFont("Helvetica", "B", 10)
	sumW := 45.5
	for i, label := range []string{"Balance", "Revenue", "Expenses", "Net Profit"} {
		ln := 0
		if i == 3 {
			ln = 1
		}
		pdf.CellFormat(sumW, 8, label, "1", ln, "C", true, 0, "")
	}
	pdf.SetFont("Helvetica", "", 10)
	for i, v := range []float64{summary.Balance, summary.Revenue, summary.Expenses, summary.NetProfit} {
		ln := 0
		if i == 3 {
			ln = 1
		}
		pdf.CellFormat(sumW, 8, formatAmount(v), "1", ln, "C", false, 0, "")
	}
	pdf.Ln(6)

	colW := []float64{24, 34, 50, 28, 24, 22}
	headers := []string{"DATE", "USER ID", "NAME", "AMOUNT", "CATEGORY", "STATUS"}
	tableHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(217, 234, 211)
		for i, h := range headers {
			ln := 0
			if i == len(headers)-1 {
				ln = 1
			}
			pdf.CellFormat(colW[i], 8, h, "1", ln, "C", true, 0, "")
		}
		pdf.SetFont("Helvetica", "", 9)
	}
	tableHeader()

	for i, tx := range listing {
		if i >= pdfMaxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, fmt.Sprintf("%d more transactions not shown", len(listing)-pdfMaxRows), "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			tableHeader()
		}
		pdf.CellFormat(colW[0], 7, tx.Date.In(s.trends.loc).Format("02 Jan 2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 7, tr(truncate(tx.UserID, 18)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 7, tr(truncate(tx.Name, 28)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 7, formatAmount(tx.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 7, string(tx.Category), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[5], 7, string(tx.Status), "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) load(ctx context.Context, filter models.TransactionFilter, sort models.TransactionSort) (paid, listing []*models.Transaction, err error) {
	paid, err = s.store.List(ctx, models.TransactionFilter{Status: models.StatusPaid}, models.TransactionSort{Field: models.SortByDate}, models.Page{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load paid transactions: %w", err)
	}
	listing, err = s.store.List(ctx, filter, sort, models.Page{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return paid, listing, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
