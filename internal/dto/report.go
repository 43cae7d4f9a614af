package dto

// ReportSummary covers paid transactions only.
type ReportSummary struct {
	Balance   float64
	Revenue   float64
	Expenses  float64 // absolute value
	NetProfit float64
}

// MonthlyReportRow is one year-month bucket of the report.
type MonthlyReportRow struct {
	Month    string // YYYY-MM
	Revenue  float64
	Expenses float64 // absolute value
	Profit   float64
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
