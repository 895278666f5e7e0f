package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/logger"
	"spendbook/internal/metrics"
	"spendbook/internal/reporting"
)

// reportService assembles reports from independent aggregations.
type reportService struct {
	agg     Aggregator
	metrics *metrics.Metrics
	now     func() time.Time
}

// ReportOption configures the report service.
type ReportOption func(*reportService)

// WithClock replaces time.Now as the source of default periods.
func WithClock(now func() time.Time) ReportOption {
	return func(s *reportService) { s.now = now }
}

// NewReportService creates a new ReportServicer. m may be nil.
func NewReportService(agg Aggregator, m *metrics.Metrics, opts ...ReportOption) ReportServicer {
	s := &reportService{agg: agg, metrics: m, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolve fills request defaults from the clock and validates the result.
func (s *reportService) resolve(req ReportRequest, now time.Time) (ReportRequest, error) {
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if req.Year == 0 {
		req.Year = now.Year()
	}
	if req.Month < 1 || req.Month > 12 {
		return req, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if req.Year < 1 || req.Year > 9999 {
		return req, apperrors.WithMessage(apperrors.ErrInvalidInput, "year is out of range")
	}
	view, ok := reporting.ParseView(string(req.View))
	if !ok {
		return req, apperrors.WithMessage(apperrors.ErrInvalidInput, "view must be one of monthly, quarterly, yearly")
	}
	req.View = view
	return req, nil
}

// BuildReport computes every section of the report for the requested month.
// Aggregations run concurrently; the first failure cancels the rest.
func (s *reportService) BuildReport(ctx context.Context, req ReportRequest) (*Report, error) {
	start := time.Now()
	now := s.now().UTC()

	req, err := s.resolve(req, now)
	if err != nil {
		return nil, err
	}

	report, err := s.build(ctx, req, now)
	s.metrics.ObserveReportBuild(string(req.View), time.Since(start), err)
	if err != nil {
		logger.Named("reports").Errorw("failed to build report",
			"error", err, "month", req.Month, "year", req.Year, "view", req.View)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return report, nil
}

func (s *reportService) build(ctx context.Context, req ReportRequest, now time.Time) (*Report, error) {
	month := time.Month(req.Month)
	ref := reporting.MonthStart(req.Year, month)
	prev := ref.AddDate(0, -1, 0)

	var (
		current, previous, lastYear decimal.Decimal
		trend                       []reporting.TrendPoint
		breakdown                   []reporting.CategoryBreakdownRow
		categoryTrends              []reporting.CategoryTrend
		ytd                         reporting.YearToDateStats
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		current, err = s.agg.PeriodSum(ctx, req.Year, month)
		return err
	})
	g.Go(func() (err error) {
		previous, err = s.agg.PeriodSum(ctx, prev.Year(), prev.Month())
		return err
	})
	g.Go(func() (err error) {
		lastYear, err = s.agg.PeriodSum(ctx, req.Year-1, month)
		return err
	})
	g.Go(func() (err error) {
		trend, err = s.agg.Trend(ctx, ref, req.View)
		return err
	})
	g.Go(func() (err error) {
		breakdown, err = s.agg.CategoryBreakdown(ctx, ref)
		return err
	})
	g.Go(func() (err error) {
		categoryTrends, err = s.agg.CategoryTrends(ctx, ref)
		return err
	})
	g.Go(func() (err error) {
		ytd, err = s.agg.YearToDate(ctx, req.Year, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Report{
		Month:        req.Month,
		Year:         req.Year,
		View:         req.View,
		MonthlyTotal: current,
		Growth:       Growth{Amount: reporting.GrowthRate(current, previous)},
		PreviousYearComparison: YearComparison{
			Amount:     lastYear,
			Percentage: reporting.GrowthRate(current, lastYear),
		},
		DailyAverage:    reporting.DailyAverage(current, req.Year, month),
		YearToDate:      ytd,
		MonthlyTrend:    nonNil(trend),
		CategoryDetails: nonNil(breakdown),
		CategoryTrends:  nonNil(categoryTrends),
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
