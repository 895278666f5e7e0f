// Package reporting computes spending aggregates over the expense table:
// period sums, trend series, category breakdowns and year-to-date stats.
//
// Every operation returns a complete, renderable value on empty data. Errors
// are only returned when the database itself fails.
package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendbook/internal/models"
)

// Engine runs aggregation queries against the expense store.
type Engine struct {
	db       *gorm.DB
	dialect  dialect
	fillGaps bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithFillGaps makes trend series emit a zero point for every period of the
// window instead of omitting periods that have no expenses.
func WithFillGaps(fill bool) Option {
	return func(e *Engine) { e.fillGaps = fill }
}

// NewEngine creates an Engine over db.
func NewEngine(db *gorm.DB, opts ...Option) *Engine {
	e := &Engine{db: db, dialect: dialectOf(db)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// cents normalizes a scanned aggregate to two fractional digits. SQLite
// stores numeric columns as REAL, so its sums carry binary noise.
func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

type sumRow struct {
	Total decimal.Decimal
}

type bucketRow struct {
	BucketYear int
	BucketSub  int
	Amount     decimal.Decimal
}

// rangeSum totals expenses dated within [start, end).
func (e *Engine) rangeSum(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var row sumRow
	err := e.db.WithContext(ctx).Model(&models.Expense{}).
		Select("COALESCE(SUM(expenses.amount), 0) AS total").
		Where("expenses.date >= ? AND expenses.date < ?", start, end).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return cents(row.Total), nil
}

// PeriodSum totals all expenses dated in the given calendar month.
func (e *Engine) PeriodSum(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	start := MonthStart(year, month)
	return e.rangeSum(ctx, start, start.AddDate(0, 1, 0))
}

// Trend returns the trailing series for view ending at the period that
// contains ref, oldest first.
func (e *Engine) Trend(ctx context.Context, ref time.Time, view View) ([]TrendPoint, error) {
	w := trendWindow(ref, view)

	group := "bucket_year, bucket_sub"
	if view == ViewYearly {
		group = "bucket_year"
	}

	var rows []bucketRow
	err := e.db.WithContext(ctx).Model(&models.Expense{}).
		Select(fmt.Sprintf("%s AS bucket_year, %s AS bucket_sub, COALESCE(SUM(expenses.amount), 0) AS amount",
			e.dialect.year("expenses.date"), e.dialect.sub(view, "expenses.date"))).
		Where("expenses.date >= ? AND expenses.date < ?", w.start, w.end).
		Group(group).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("trend %s: %w", view, err)
	}

	sums := make(map[bucket]decimal.Decimal, len(rows))
	for _, r := range rows {
		sums[bucket{year: r.BucketYear, sub: r.BucketSub}] = cents(r.Amount)
	}
	return e.series(w, sums), nil
}

// series lays sums out over the window's buckets, oldest first.
func (e *Engine) series(w window, sums map[bucket]decimal.Decimal) []TrendPoint {
	points := make([]TrendPoint, 0, len(w.buckets))
	for _, b := range w.buckets {
		amount, ok := sums[b]
		if !ok && !e.fillGaps {
			continue
		}
		points = append(points, TrendPoint{Period: w.label(b), Amount: amount})
	}
	return points
}

type breakdownRow struct {
	Name           string
	CurrentAmount  decimal.Decimal
	PreviousAmount decimal.Decimal
}

// CategoryBreakdown compares every category's spending in ref's month with
// the month before. Categories without expenses in either month appear as
// zero rows. Rows are sorted by current amount, largest first.
func (e *Engine) CategoryBreakdown(ctx context.Context, ref time.Time) ([]CategoryBreakdownRow, error) {
	current := MonthStart(ref.Year(), ref.Month())
	previous := current.AddDate(0, -1, 0)
	next := current.AddDate(0, 1, 0)

	// The date window sits in the join so categories whose expenses all fall
	// outside it still produce a row.
	var rows []breakdownRow
	err := e.db.WithContext(ctx).Table("categories").
		Select(`categories.name AS name,
			COALESCE(SUM(CASE WHEN expenses.date >= ? THEN expenses.amount ELSE 0 END), 0) AS current_amount,
			COALESCE(SUM(CASE WHEN expenses.date < ? THEN expenses.amount ELSE 0 END), 0) AS previous_amount`,
			current, current).
		Joins("LEFT JOIN expenses ON expenses.category_id = categories.id AND expenses.date >= ? AND expenses.date < ?",
			previous, next).
		Group("categories.id, categories.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}

	total := decimal.Zero
	for i := range rows {
		rows[i].CurrentAmount = cents(rows[i].CurrentAmount)
		rows[i].PreviousAmount = cents(rows[i].PreviousAmount)
		total = total.Add(rows[i].CurrentAmount)
	}

	out := make([]CategoryBreakdownRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryBreakdownRow{
			Name:           r.Name,
			Amount:         r.CurrentAmount,
			PreviousAmount: r.PreviousAmount,
			Percentage:     Share(r.CurrentAmount, total),
			Growth:         RoundTo(GrowthRate(r.CurrentAmount, r.PreviousAmount), 1),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type categoryRef struct {
	ID   string
	Name string
}

type categoryBucketRow struct {
	CategoryID string
	BucketYear int
	BucketSub  int
	Amount     decimal.Decimal
}

// CategoryTrends returns the trailing 12-month series of every category that
// has at least one expense, ordered by category name. Categories that never
// had an expense are left out.
func (e *Engine) CategoryTrends(ctx context.Context, ref time.Time) ([]CategoryTrend, error) {
	db := e.db.WithContext(ctx)

	var cats []categoryRef
	err := db.Table("categories").
		Select("categories.id, categories.name").
		Where("EXISTS (SELECT 1 FROM expenses WHERE expenses.category_id = categories.id)").
		Order("categories.name").
		Scan(&cats).Error
	if err != nil {
		return nil, fmt.Errorf("list categories with expenses: %w", err)
	}
	if len(cats) == 0 {
		return []CategoryTrend{}, nil
	}

	w := monthlyWindow(ref)
	var rows []categoryBucketRow
	err = db.Model(&models.Expense{}).
		Select(fmt.Sprintf("expenses.category_id, %s AS bucket_year, %s AS bucket_sub, COALESCE(SUM(expenses.amount), 0) AS amount",
			e.dialect.year("expenses.date"), e.dialect.month("expenses.date"))).
		Where("expenses.date >= ? AND expenses.date < ?", w.start, w.end).
		Group("expenses.category_id, bucket_year, bucket_sub").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("category trends: %w", err)
	}

	byCategory := make(map[string]map[bucket]decimal.Decimal)
	for _, r := range rows {
		sums, ok := byCategory[r.CategoryID]
		if !ok {
			sums = make(map[bucket]decimal.Decimal)
			byCategory[r.CategoryID] = sums
		}
		sums[bucket{year: r.BucketYear, sub: r.BucketSub}] = cents(r.Amount)
	}

	out := make([]CategoryTrend, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryTrend{Name: c.Name, Data: e.series(w, byCategory[c.ID])})
	}
	return out, nil
}

type monthTotalRow struct {
	BucketSub int
	Total     decimal.Decimal
}

type categoryTotalRow struct {
	Name  string
	Total decimal.Decimal
}

// YearToDate summarizes year. The monthly average divides by the months
// elapsed so far when year is now's year, and by 12 otherwise.
func (e *Engine) YearToDate(ctx context.Context, year int, now time.Time) (YearToDateStats, error) {
	stats := YearToDateStats{
		Total:          decimal.Zero,
		AverageMonthly: decimal.Zero,
		HighestMonth:   MonthAmount{Amount: decimal.Zero},
		TopCategory:    CategoryAmount{Amount: decimal.Zero},
	}

	start := MonthStart(year, time.January)
	end := MonthStart(year+1, time.January)

	total, err := e.rangeSum(ctx, start, end)
	if err != nil {
		return stats, err
	}
	stats.Total = total

	months := 12
	if now.Year() == year {
		months = int(now.Month())
	}
	stats.AverageMonthly = total.Div(decimal.NewFromInt(int64(months))).Round(2)

	db := e.db.WithContext(ctx)

	var monthRows []monthTotalRow
	err = db.Model(&models.Expense{}).
		Select(fmt.Sprintf("%s AS bucket_sub, SUM(expenses.amount) AS total", e.dialect.month("expenses.date"))).
		Where("expenses.date >= ? AND expenses.date < ?", start, end).
		Group("bucket_sub").
		Order("total DESC, bucket_sub ASC").
		Limit(1).
		Scan(&monthRows).Error
	if err != nil {
		return stats, fmt.Errorf("highest month: %w", err)
	}
	if len(monthRows) > 0 {
		name := time.Month(monthRows[0].BucketSub).String()
		stats.HighestMonth = MonthAmount{Month: &name, Amount: cents(monthRows[0].Total)}
	}

	var catRows []categoryTotalRow
	err = db.Model(&models.Expense{}).
		Select("categories.name AS name, SUM(expenses.amount) AS total").
		Joins("JOIN categories ON categories.id = expenses.category_id").
		Where("expenses.date >= ? AND expenses.date < ?", start, end).
		Group("categories.id, categories.name").
		Order("total DESC, categories.name ASC").
		Limit(1).
		Scan(&catRows).Error
	if err != nil {
		return stats, fmt.Errorf("top category: %w", err)
	}
	if len(catRows) > 0 {
		name := catRows[0].Name
		stats.TopCategory = CategoryAmount{Name: &name, Amount: cents(catRows[0].Total)}
	}

	return stats, nil
}

// DailyAverage spreads total evenly over the days of the given month,
// rounded to cents.
func DailyAverage(total decimal.Decimal, year int, month time.Month) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(DaysIn(year, month)))).Round(2)
}
