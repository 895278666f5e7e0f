package reporting

import "github.com/shopspring/decimal"

// TrendPoint is one (period, amount) pair of a trend series.
type TrendPoint struct {
	Period string          `json:"period"`
	Amount decimal.Decimal `json:"amount"`
}

// CategoryBreakdownRow compares one category's spending in the reference
// month against the month before.
type CategoryBreakdownRow struct {
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	PreviousAmount decimal.Decimal `json:"previous_amount"`
	Percentage     float64         `json:"percentage"`
	Growth         float64         `json:"growth"`
}

// CategoryTrend is the trailing monthly series of a single category.
type CategoryTrend struct {
	Name string       `json:"name"`
	Data []TrendPoint `json:"data"`
}

// MonthAmount names the highest-spending month of a year. Month is nil when
// the year has no expenses.
type MonthAmount struct {
	Month  *string         `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// CategoryAmount names the highest-spending category of a year. Name is nil
// when the year has no expenses.
type CategoryAmount struct {
	Name   *string         `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// YearToDateStats summarizes one calendar year.
type YearToDateStats struct {
	Total          decimal.Decimal `json:"total"`
	AverageMonthly decimal.Decimal `json:"average_monthly"`
	HighestMonth   MonthAmount     `json:"highest_month"`
	TopCategory    CategoryAmount  `json:"top_category"`
}
