package services

import (
	"sort"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"salesdesk/collections"
)

// TimeRange selects the reporting window for sales analytics.
type TimeRange string

const (
	RangeDay      TimeRange = "day"
	RangeWeek     TimeRange = "week"
	RangeMonth    TimeRange = "month"
	RangeSemester TimeRange = "semester"
	RangeYear     TimeRange = "year"
)

// ParseTimeRange accepts the range names above. Empty means month.
func ParseTimeRange(s string) (TimeRange, error) {
	switch r := TimeRange(s); r {
	case "":
		return RangeMonth, nil
	case RangeDay, RangeWeek, RangeMonth, RangeSemester, RangeYear:
		return r, nil
	}
	return "", &InvalidInputError{Field: "range", Reason: "unknown time range " + s}
}

// Bounds returns the [start, end) window containing now, in now's location.
// Weeks start on Monday; semesters are January-June and July-December.
func (r TimeRange) Bounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch r {
	case RangeDay:
		return day, day.AddDate(0, 0, 1)
	case RangeWeek:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case RangeSemester:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		if m > time.June {
			start = time.Date(y, time.July, 1, 0, 0, 0, 0, loc)
		}
		return start, start.AddDate(0, 6, 0)
	case RangeYear:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	}
	start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// SalesSummary aggregates the sales created inside a window.
type SalesSummary struct {
	Range   TimeRange
	Start   time.Time
	End     time.Time
	Total   decimal.Decimal
	Count   int
	Average decimal.Decimal
	Sales   []*Document
}

// SummarizeSales keeps the sales created in r's window around now and totals
// them. Every status counts.
func SummarizeSales(sales []*Document, r TimeRange, now time.Time) SalesSummary {
	start, end := r.Bounds(now)
	sum := SalesSummary{Range: r, Start: start, End: end, Total: decimal.Zero, Average: decimal.Zero}

	for _, s := range sales {
		if s.Created.Before(start) || !s.Created.Before(end) {
			continue
		}
		sum.Sales = append(sum.Sales, s)
		sum.Total = sum.Total.Add(s.Total)
	}
	sum.Count = len(sum.Sales)
	if sum.Count > 0 {
		sum.Average = sum.Total.Div(decimal.NewFromInt(int64(sum.Count))).Round(2)
	}
	return sum
}

// LoadSalesSummary summarizes owner's sales for r.
func LoadSalesSummary(app core.App, owner string, r TimeRange, now time.Time) (SalesSummary, error) {
	sales, err := ListDocuments(app, KindSale, owner, "")
	if err != nil {
		return SalesSummary{}, err
	}
	return SummarizeSales(sales, r, now), nil
}

// Order is a sale as shown on the orders board.
type Order struct {
	*Document
	Urgent bool
}

// ListOrders returns owner's sales sorted by nearest delivery date, with
// undated orders last. An empty status lists all of them.
func ListOrders(app core.App, owner string, status Status, now time.Time) ([]Order, error) {
	sales, err := ListDocuments(app, KindSale, owner, status)
	if err != nil {
		return nil, err
	}
	return sortOrders(sales, now), nil
}

func sortOrders(sales []*Document, now time.Time) []Order {
	orders := make([]Order, len(sales))
	for i, s := range sales {
		orders[i] = Order{Document: s, Urgent: s.IsUrgent(now)}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i].DeliveryDate, orders[j].DeliveryDate
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		}
		return a.Before(b)
	})
	return orders
}

// DashboardStats are the home screen counters.
type DashboardStats struct {
	Clients       int
	Products      int
	Quotes        int
	PendingQuotes int
	Sales         int
	Revenue       decimal.Decimal
}

// LoadDashboardStats counts owner's records. Revenue excludes cancelled sales.
func LoadDashboardStats(app core.App, owner string) (DashboardStats, error) {
	var stats DashboardStats
	byOwner := dbx.HashExp{"owner": owner}

	counts := []struct {
		collection string
		exprs      []dbx.Expression
		dst        *int
	}{
		{collections.Clients, []dbx.Expression{byOwner}, &stats.Clients},
		{collections.Products, []dbx.Expression{byOwner}, &stats.Products},
		{collections.Quotes, []dbx.Expression{byOwner}, &stats.Quotes},
		{collections.Quotes, []dbx.Expression{byOwner, dbx.HashExp{"status": string(StatusPending)}}, &stats.PendingQuotes},
	}
	for _, c := range counts {
		n, err := app.CountRecords(c.collection, c.exprs...)
		if err != nil {
			return stats, &PersistenceError{Op: "count " + c.collection, Err: err}
		}
		*c.dst = int(n)
	}

	sales, err := ListDocuments(app, KindSale, owner, "")
	if err != nil {
		return stats, err
	}
	stats.Sales = len(sales)
	stats.Revenue = decimal.Zero
	for _, s := range sales {
		if s.Status != StatusCancelled {
			stats.Revenue = stats.Revenue.Add(s.Total)
		}
	}
	return stats, nil
}
