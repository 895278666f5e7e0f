package reporting

import (
	"fmt"
	"strconv"
	"time"
)

// View selects the bucket granularity of the main trend series.
type View string

const (
	ViewMonthly   View = "monthly"
	ViewQuarterly View = "quarterly"
	ViewYearly    View = "yearly"
)

// ParseView maps a query value onto a View. An empty value is monthly.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case "", ViewMonthly:
		return ViewMonthly, true
	case ViewQuarterly:
		return ViewQuarterly, true
	case ViewYearly:
		return ViewYearly, true
	}
	return "", false
}

// bucket identifies one period of a series. sub is the month (1-12) for
// monthly views, the quarter (1-4) for quarterly views and 0 for yearly.
type bucket struct {
	year int
	sub  int
}

// window is the half-open date range [start, end) covered by a series
// together with its buckets, oldest first.
type window struct {
	view    View
	start   time.Time
	end     time.Time
	buckets []bucket
}

// MonthStart returns midnight UTC on the first day of the given month.
// Months outside 1-12 roll over the way time.Date normalizes them.
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}

func quarterStart(t time.Time) time.Time {
	first := time.Month((quarterOf(t.Month())-1)*3 + 1)
	return MonthStart(t.Year(), first)
}

// trendWindow returns the trailing window for view ending with the period
// that contains ref:
//
//	monthly   ref-11 months .. ref month (12 buckets)
//	quarterly quarter of ref-1 year .. quarter of ref (5 buckets)
//	yearly    ref year-5 .. ref year (6 buckets)
func trendWindow(ref time.Time, view View) window {
	switch view {
	case ViewYearly:
		w := window{
			view:  view,
			start: MonthStart(ref.Year()-5, time.January),
			end:   MonthStart(ref.Year()+1, time.January),
		}
		for y := ref.Year() - 5; y <= ref.Year(); y++ {
			w.buckets = append(w.buckets, bucket{year: y})
		}
		return w
	case ViewQuarterly:
		w := window{
			view:  view,
			start: quarterStart(ref.AddDate(-1, 0, 0)),
			end:   quarterStart(ref).AddDate(0, 3, 0),
		}
		for t := w.start; t.Before(w.end); t = t.AddDate(0, 3, 0) {
			w.buckets = append(w.buckets, bucket{year: t.Year(), sub: quarterOf(t.Month())})
		}
		return w
	default:
		return monthlyWindow(ref)
	}
}

func monthlyWindow(ref time.Time) window {
	current := MonthStart(ref.Year(), ref.Month())
	w := window{
		view:  ViewMonthly,
		start: current.AddDate(0, -11, 0),
		end:   current.AddDate(0, 1, 0),
	}
	for t := w.start; t.Before(w.end); t = t.AddDate(0, 1, 0) {
		w.buckets = append(w.buckets, bucket{year: t.Year(), sub: int(t.Month())})
	}
	return w
}

// label renders a bucket the way the reports UI prints it: "Mar 2024",
// "Q1 2024" or "2024".
func (w window) label(b bucket) string {
	switch w.view {
	case ViewYearly:
		return strconv.Itoa(b.year)
	case ViewQuarterly:
		return fmt.Sprintf("Q%d %d", b.sub, b.year)
	default:
		return MonthStart(b.year, time.Month(b.sub)).Format("Jan 2006")
	}
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return MonthStart(year, month).AddDate(0, 1, -1).Day()
}
