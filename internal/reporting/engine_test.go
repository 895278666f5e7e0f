package reporting

import (
	"context"
	"math"
	"testing"
	"time"

	"gorm.io/gorm"

	"spendbook/internal/testutil"
)

var ref = MonthStart(2024, time.June)

// seedScenario stores 100 and 200 in June 2024 and 50 in May 2024, all
// under "Food", plus an unused "Travel" category.
func seedScenario(t *testing.T, db *gorm.DB) {
	t.Helper()
	food := testutil.CreateTestCategoryNamed(t, db, "Food")
	testutil.CreateTestCategoryNamed(t, db, "Travel")
	testutil.CreateTestExpense(t, db, food.ID, "100", testutil.Date(2024, time.June, 3))
	testutil.CreateTestExpense(t, db, food.ID, "200", testutil.Date(2024, time.June, 15))
	testutil.CreateTestExpense(t, db, food.ID, "50", testutil.Date(2024, time.May, 20))
}

func TestPeriodSum(t *testing.T) {
	ctx := context.Background()

	t.Run("sums the calendar month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		seedScenario(t, db)
		e := NewEngine(db)

		june, err := e.PeriodSum(ctx, 2024, time.June)
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, "june", june, "300")

		may, err := e.PeriodSum(ctx, 2024, time.May)
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, "may", may, "50")

		if got := GrowthRate(june, may); got != 500 {
			t.Errorf("expected growth 500, got %v", got)
		}
	})

	t.Run("includes month boundaries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cat := testutil.CreateTestCategory(t, db)
		testutil.CreateTestExpense(t, db, cat.ID, "1.25", testutil.Date(2024, time.March, 1))
		testutil.CreateTestExpense(t, db, cat.ID, "2.50", testutil.Date(2024, time.March, 31))
		testutil.CreateTestExpense(t, db, cat.ID, "99", testutil.Date(2024, time.April, 1))
		testutil.CreateTestExpense(t, db, cat.ID, "99", testutil.Date(2024, time.February, 29))

		got, err := NewEngine(db).PeriodSum(ctx, 2024, time.March)
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, "march", got, "3.75")
	})

	t.Run("zero on empty month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		e := NewEngine(db)

		got, err := e.PeriodSum(ctx, 2030, time.January)
		testutil.AssertNoError(t, err)
		if !got.IsZero() {
			t.Errorf("expected zero, got %s", got)
		}
		prev, err := e.PeriodSum(ctx, 2029, time.December)
		testutil.AssertNoError(t, err)
		if g := GrowthRate(got, prev); g != 0 {
			t.Errorf("expected zero growth, got %v", g)
		}
	})
}

func TestTrend(t *testing.T) {
	ctx := context.Background()

	t.Run("monthly omits empty months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		seedScenario(t, db)
		cat := testutil.CreateTestCategory(t, db)
		testutil.CreateTestExpense(t, db, cat.ID, "10", testutil.Date(2023, time.July, 1))
		testutil.CreateTestExpense(t, db, cat.ID, "999", testutil.Date(2023, time.June, 30))

		points, err := NewEngine(db).Trend(ctx, ref, ViewMonthly)
		testutil.AssertNoError(t, err)

		if len(points) != 3 {
			t.Fatalf("expected 3 points, got %d: %+v", len(points), points)
		}
		wantPeriods := []string{"Jul 2023", "May 2024", "Jun 2024"}
		wantAmounts := []string{"10", "50", "300"}
		for i, p := range points {
			if p.Period != wantPeriods[i] {
				t.Errorf("point %d: expected period %s, got %s", i, wantPeriods[i], p.Period)
			}
			testutil.AssertAmount(t, p.Period, p.Amount, wantAmounts[i])
		}
	})

	t.Run("fill gaps emits every month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		seedScenario(t, db)

		points, err := NewEngine(db, WithFillGaps(true)).Trend(ctx, ref, ViewMonthly)
		testutil.AssertNoError(t, err)

		if len(points) != 12 {
			t.Fatalf("expected 12 points, got %d", len(points))
		}
		if points[0].Period != "Jul 2023" || !points[0].Amount.IsZero() {
			t.Errorf("expected zero Jul 2023 first, got %+v", points[0])
		}
		testutil.AssertAmount(t, "Jun 2024", points[11].Amount, "300")
	})

	t.Run("quarterly", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		seedScenario(t, db)
		cat := testutil.CreateTestCategory(t, db)
		testutil.CreateTestExpense(t, db, cat.ID, "20", testutil.Date(2023, time.April, 2))
		testutil.CreateTestExpense(t, db, cat.ID, "5", testutil.Date(2024, time.January, 10))
		testutil.CreateTestExpense(t, db, cat.ID, "7", testutil.Date(2024, time.March, 31))

		points, err := NewEngine(db).Trend(ctx, ref, ViewQuarterly)
		testutil.AssertNoError(t, err)

		if len(points) != 3 {
			t.Fatalf("expected 3 points, got %+v", points)
		}
		wantPeriods := []string{"Q2 2023", "Q1 2024", "Q2 2024"}
		wantAmounts := []string{"20", "12", "350"}
		for i, p := range points {
			if p.Period != wantPeriods[i] {
				t.Errorf("point %d: expected %s, got %s", i, wantPeriods[i], p.Period)
			}
			testutil.AssertAmount(t, p.Period, p.Amount, wantAmounts[i])
		}
	})

	t.Run("yearly", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		seedScenario(t, db)
		cat := testutil.CreateTestCategory(t, db)
		testutil.CreateTestExpense(t, db, cat.ID, "40", testutil.Date(2019, time.December, 31))
		testutil.CreateTestExpense(t, db, cat.ID, "1000", testutil.Date(2018, time.December, 31))

		points, err := NewEngine(db).Trend(ctx, ref, ViewYearly)
		testutil.AssertNoError(t, err)

		if len(points) != 2 {
			t.Fatalf("expected 2 points, got %+v", points)
		}
		if points[0].Period != "2019" || points[1].Period != "2024" {
			t.Errorf("unexpected periods %s, %s", points[0].Period, points[1].Period)
		}
		testutil.AssertAmount(t, "2024", points[1].Amount, "350")
	})

	t.Run("labels strictly ordered", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cat := testutil.CreateTestCategory(t, db)
		for m := time.January; m <= time.December; m++ {
			testutil.CreateTestExpense(t, db, cat.ID, "1", testutil.Date(2024, m, 5))
		}

		points, err := NewEngine(db).Trend(ctx, MonthStart(2024, time.December), ViewMonthly)
		testutil.AssertNoError(t, err)

		var last time.Time
		for _, p := range points {
			at, err := time.Parse("Jan 2006", p.Period)
			if err != nil {
				t.Fatalf("unparseable label %q: %v", p.Period, err)
			}
			if !at.After(last) {
				t.Fatalf("labels out of order at %s", p.Period)
			}
			last = at
		}
	})
}

func TestCategoryBreakdown(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		seedScenario(t, db)

		rows, err := NewEngine(db).CategoryBreakdown(ctx, ref)
		testutil.AssertNoError(t, err)

		if len(rows) != 2 {
			t.Fatalf("expected a row per category, got %+v", rows)
		}
		food := rows[0]
		if food.Name != "Food" {
			t.Fatalf("expected Food first, got %s", food.Name)
		}
		testutil.AssertAmount(t, "current", food.Amount, "300")
		testutil.AssertAmount(t, "previous", food.PreviousAmount, "50")
		if food.Growth != 500.0 {
			t.Errorf("expected growth 500.0, got %v", food.Growth)
		}
		if food.Percentage != 100 {
			t.Errorf("expected 100%%, got %v", food.Percentage)
		}

		travel := rows[1]
		if travel.Name != "Travel" || !travel.Amount.IsZero() || !travel.PreviousAmount.IsZero() {
			t.Errorf("expected zero Travel row, got %+v", travel)
		}
		if travel.Growth != 0 || travel.Percentage != 0 {
			t.Errorf("expected zero growth and share for Travel, got %+v", travel)
		}
	})

	t.Run("keeps categories whose expenses fall outside the window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		old := testutil.CreateTestCategoryNamed(t, db, "Old")
		testutil.CreateTestExpense(t, db, old.ID, "75", testutil.Date(2022, time.January, 1))

		rows, err := NewEngine(db).CategoryBreakdown(ctx, ref)
		testutil.AssertNoError(t, err)

		if len(rows) != 1 || rows[0].Name != "Old" {
			t.Fatalf("expected the Old row, got %+v", rows)
		}
		if !rows[0].Amount.IsZero() || !rows[0].PreviousAmount.IsZero() {
			t.Errorf("expected zero amounts, got %+v", rows[0])
		}
	})

	t.Run("percentages sum to 100 and rows sort by amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		a := testutil.CreateTestCategoryNamed(t, db, "A")
		b := testutil.CreateTestCategoryNamed(t, db, "B")
		c := testutil.CreateTestCategoryNamed(t, db, "C")
		testutil.CreateTestExpense(t, db, a.ID, "10", testutil.Date(2024, time.June, 1))
		testutil.CreateTestExpense(t, db, b.ID, "20", testutil.Date(2024, time.June, 2))
		testutil.CreateTestExpense(t, db, c.ID, "3.33", testutil.Date(2024, time.June, 30))
		testutil.CreateTestExpense(t, db, c.ID, "0", testutil.Date(2024, time.May, 30))

		rows, err := NewEngine(db).CategoryBreakdown(ctx, ref)
		testutil.AssertNoError(t, err)

		var sum float64
		for i, r := range rows {
			sum += r.Percentage
			if i > 0 && rows[i-1].Amount.LessThan(r.Amount) {
				t.Errorf("rows not sorted descending at %d", i)
			}
		}
		if math.Abs(sum-100) > 0.01 {
			t.Errorf("expected percentages to sum to ~100, got %v", sum)
		}
		if rows[0].Name != "B" || rows[2].Name != "C" {
			t.Errorf("unexpected order %s, %s, %s", rows[0].Name, rows[1].Name, rows[2].Name)
		}
		if rows[2].Growth != GrowthFromZero {
			t.Errorf("expected growth-from-zero for C, got %v", rows[2].Growth)
		}
	})

	t.Run("all zero when month is empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		seedScenario(t, db)

		rows, err := NewEngine(db).CategoryBreakdown(ctx, MonthStart(2030, time.January))
		testutil.AssertNoError(t, err)

		for _, r := range rows {
			if r.Percentage != 0 || r.Growth != 0 || !r.Amount.IsZero() {
				t.Errorf("expected zero row, got %+v", r)
			}
		}
	})

	t.Run("previous month crosses year boundary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cat := testutil.CreateTestCategoryNamed(t, db, "Gifts")
		testutil.CreateTestExpense(t, db, cat.ID, "200", testutil.Date(2023, time.December, 24))
		testutil.CreateTestExpense(t, db, cat.ID, "50", testutil.Date(2024, time.January, 2))

		rows, err := NewEngine(db).CategoryBreakdown(ctx, MonthStart(2024, time.January))
		testutil.AssertNoError(t, err)

		testutil.AssertAmount(t, "previous", rows[0].PreviousAmount, "200")
		if rows[0].Growth != -75 {
			t.Errorf("expected -75, got %v", rows[0].Growth)
		}
	})
}

func TestCategoryTrends(t *testing.T) {
	ctx := context.Background()

	t.Run("skips categories that never had expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		seedScenario(t, db)

		trends, err := NewEngine(db).CategoryTrends(ctx, ref)
		testutil.AssertNoError(t, err)

		if len(trends) != 1 || trends[0].Name != "Food" {
			t.Fatalf("expected only Food, got %+v", trends)
		}
		data := trends[0].Data
		if len(data) != 2 || data[0].Period != "May 2024" || data[1].Period != "Jun 2024" {
			t.Fatalf("unexpected series %+v", data)
		}
		testutil.AssertAmount(t, "May", data[0].Amount, "50")
		testutil.AssertAmount(t, "Jun", data[1].Amount, "300")
	})

	t.Run("old-only category has an empty series", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		old := testutil.CreateTestCategoryNamed(t, db, "Archive")
		testutil.CreateTestExpense(t, db, old.ID, "5", testutil.Date(2020, time.May, 5))

		trends, err := NewEngine(db).CategoryTrends(ctx, ref)
		testutil.AssertNoError(t, err)

		if len(trends) != 1 {
			t.Fatalf("expected one trend, got %+v", trends)
		}
		if trends[0].Data == nil || len(trends[0].Data) != 0 {
			t.Errorf("expected empty non-nil series, got %+v", trends[0].Data)
		}
	})

	t.Run("empty store", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		trends, err := NewEngine(db).CategoryTrends(ctx, ref)
		testutil.AssertNoError(t, err)
		if trends == nil || len(trends) != 0 {
			t.Errorf("expected empty slice, got %+v", trends)
		}
	})
}

func TestYearToDate(t *testing.T) {
	ctx := context.Background()

	t.Run("past year averages over 12 months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		seedScenario(t, db)

		stats, err := NewEngine(db).YearToDate(ctx, 2024, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)

		testutil.AssertAmount(t, "total", stats.Total, "350")
		testutil.AssertAmount(t, "average", stats.AverageMonthly, "29.17")
		if stats.HighestMonth.Month == nil || *stats.HighestMonth.Month != "June" {
			t.Errorf("expected June, got %v", stats.HighestMonth.Month)
		}
		testutil.AssertAmount(t, "highest", stats.HighestMonth.Amount, "300")
		if stats.TopCategory.Name == nil || *stats.TopCategory.Name != "Food" {
			t.Errorf("expected Food, got %v", stats.TopCategory.Name)
		}
		testutil.AssertAmount(t, "top", stats.TopCategory.Amount, "350")
	})

	t.Run("current year averages over elapsed months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		seedScenario(t, db)

		stats, err := NewEngine(db).YearToDate(ctx, 2024, time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)

		testutil.AssertAmount(t, "average", stats.AverageMonthly, "58.33")
	})

	t.Run("empty year yields placeholders", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		seedScenario(t, db)

		stats, err := NewEngine(db).YearToDate(ctx, 2010, time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)

		if !stats.Total.IsZero() || !stats.AverageMonthly.IsZero() {
			t.Errorf("expected zero totals, got %+v", stats)
		}
		if stats.HighestMonth.Month != nil || stats.TopCategory.Name != nil {
			t.Errorf("expected null names, got %+v", stats)
		}
	})
}

func TestDailyAverage(t *testing.T) {
	got := DailyAverage(d("300"), 2024, time.June)
	testutil.AssertAmount(t, "daily", got, "10")

	got = DailyAverage(d("100"), 2024, time.February)
	testutil.AssertAmount(t, "daily", got, "3.45")
}

func TestAggregatesKeepCents(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// None of these amounts is exact in binary floating point.
	dining := testutil.CreateTestCategoryNamed(t, db, "Dining")
	for _, amount := range []string{"100.10", "200.20", "0.10", "0.20"} {
		testutil.CreateTestExpense(t, db, dining.ID, amount, testutil.Date(2024, time.June, 10))
	}
	e := NewEngine(db)

	sum, err := e.PeriodSum(ctx, 2024, time.June)
	testutil.AssertNoError(t, err)
	if sum.String() != "300.6" {
		t.Errorf("period sum: expected 300.6, got %s", sum)
	}

	points, err := e.Trend(ctx, ref, ViewMonthly)
	testutil.AssertNoError(t, err)
	if len(points) != 1 || points[0].Amount.String() != "300.6" {
		t.Errorf("trend: expected a single 300.6 point, got %+v", points)
	}

	rows, err := e.CategoryBreakdown(ctx, ref)
	testutil.AssertNoError(t, err)
	if len(rows) != 1 || rows[0].Amount.String() != "300.6" || !rows[0].PreviousAmount.IsZero() {
		t.Errorf("breakdown: expected Dining at 300.6, got %+v", rows)
	}

	trends, err := e.CategoryTrends(ctx, ref)
	testutil.AssertNoError(t, err)
	if len(trends) != 1 || len(trends[0].Data) != 1 || trends[0].Data[0].Amount.String() != "300.6" {
		t.Errorf("category trends: expected a single 300.6 point, got %+v", trends)
	}

	stats, err := e.YearToDate(ctx, 2024, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	testutil.AssertNoError(t, err)
	for label, got := range map[string]string{
		"total":        stats.Total.String(),
		"highest":      stats.HighestMonth.Amount.String(),
		"top category": stats.TopCategory.Amount.String(),
	} {
		if got != "300.6" {
			t.Errorf("%s: expected 300.6, got %s", label, got)
		}
	}
	testutil.AssertAmount(t, "average", stats.AverageMonthly, "25.05")
}
