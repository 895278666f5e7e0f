package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"spendbook/internal/models"
	"spendbook/internal/pagination"
	"spendbook/internal/reporting"
)

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string) (*models.Category, error)
	GetCategories() ([]models.Category, error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	UpdateCategory(categoryID, name string) (*models.Category, error)
	DeleteCategory(categoryID string) error
	FirstOrCreateCategory(name string) (*models.Category, bool, error)
}

// ExpenseInput carries the writable fields of an expense.
type ExpenseInput struct {
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	CategoryID  string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(input ExpenseInput) (*models.Expense, error)
	GetExpenses(page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(expenseID string) (*models.Expense, error)
	UpdateExpense(expenseID string, input ExpenseInput) (*models.Expense, error)
	DeleteExpense(expenseID string) error
}

// Aggregator is the set of reporting queries the report composer needs.
// *reporting.Engine implements it.
type Aggregator interface {
	PeriodSum(ctx context.Context, year int, month time.Month) (decimal.Decimal, error)
	Trend(ctx context.Context, ref time.Time, view reporting.View) ([]reporting.TrendPoint, error)
	CategoryBreakdown(ctx context.Context, ref time.Time) ([]reporting.CategoryBreakdownRow, error)
	CategoryTrends(ctx context.Context, ref time.Time) ([]reporting.CategoryTrend, error)
	YearToDate(ctx context.Context, year int, now time.Time) (reporting.YearToDateStats, error)
}

// ReportRequest selects the report period. Zero values take the clock's
// current month and year and the monthly view.
type ReportRequest struct {
	Month int
	Year  int
	View  reporting.View
}

// Growth is month-over-month change in percent.
type Growth struct {
	Amount float64 `json:"amount"`
}

// YearComparison compares a month with the same month a year earlier.
type YearComparison struct {
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// Report is the full reporting page payload. Every field is always present.
type Report struct {
	Month                  int                              `json:"month"`
	Year                   int                              `json:"year"`
	View                   reporting.View                   `json:"view"`
	MonthlyTotal           decimal.Decimal                  `json:"monthly_total"`
	Growth                 Growth                           `json:"growth"`
	PreviousYearComparison YearComparison                   `json:"previous_year_comparison"`
	DailyAverage           decimal.Decimal                  `json:"daily_average"`
	YearToDate             reporting.YearToDateStats        `json:"year_to_date"`
	MonthlyTrend           []reporting.TrendPoint           `json:"monthly_trend"`
	CategoryDetails        []reporting.CategoryBreakdownRow `json:"category_details"`
	CategoryTrends         []reporting.CategoryTrend        `json:"category_trends"`
}

// ReportServicer composes reports from aggregation results.
type ReportServicer interface {
	BuildReport(ctx context.Context, req ReportRequest) (*Report, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]any)
}

// AuthServicer checks the owner's login password.
type AuthServicer interface {
	VerifyOwnerPassword(password string) error
}
