package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"salesdesk/services"
	"salesdesk/templates"
)

type analyticsView struct {
	Range   services.TimeRange `json:"range"`
	Start   string             `json:"start"`
	End     string             `json:"end"`
	Total   string             `json:"total"`
	Count   int                `json:"count"`
	Average string             `json:"average"`
	Display struct {
		Total   string `json:"total"`
		Average string `json:"average"`
	} `json:"display"`
	Sales []documentView `json:"sales"`
}

func loadSummary(app core.App, e *core.RequestEvent) (services.SalesSummary, error) {
	owner, err := ownerID(e)
	if err != nil {
		return services.SalesSummary{}, err
	}
	r, err := services.ParseTimeRange(e.Request.URL.Query().Get("range"))
	if err != nil {
		return services.SalesSummary{}, err
	}
	return services.LoadSalesSummary(app, owner, r, now())
}

// HandleAnalytics returns totals, count and average for ?range=.
func HandleAnalytics(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sum, err := loadSummary(app, e)
		if err != nil {
			return respondError(e, "analytics", err)
		}

		currency := GetSettings(e.Request).Currency
		v := analyticsView{
			Range:   sum.Range,
			Start:   sum.Start.Format("2006-01-02"),
			End:     sum.End.Format("2006-01-02"),
			Total:   sum.Total.StringFixed(2),
			Count:   sum.Count,
			Average: sum.Average.StringFixed(2),
			Sales:   viewDocuments(sum.Sales, now()),
		}
		v.Display.Total = services.FormatMoney(sum.Total, currency)
		v.Display.Average = services.FormatMoney(sum.Average, currency)
		return e.JSON(http.StatusOK, v)
	}
}

// HandleAnalyticsExport downloads the range's sales as xlsx.
func HandleAnalyticsExport(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sum, err := loadSummary(app, e)
		if err != nil {
			return respondError(e, "analytics", err)
		}
		data, err := services.GenerateSalesExcel(sum)
		if err != nil {
			return respondError(e, "analytics", err)
		}
		return attachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			services.SalesExportFileName(sum.Range, now()), data)
	}
}

// HandleDashboard renders the home counters and the next open deliveries.
func HandleDashboard(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		stats, err := services.LoadDashboardStats(app, owner)
		if err != nil {
			return respondError(e, "dashboard", err)
		}
		at := now()
		orders, err := services.ListOrders(app, owner, services.StatusPending, at)
		if err != nil {
			return respondError(e, "dashboard", err)
		}

		data := templates.DashboardData{
			Clients:       stats.Clients,
			Products:      stats.Products,
			Quotes:        stats.Quotes,
			PendingQuotes: stats.PendingQuotes,
			Sales:         stats.Sales,
			Revenue:       services.FormatMoney(stats.Revenue, GetSettings(e.Request).Currency),
		}
		for i, o := range orders {
			if i == 5 {
				break
			}
			data.Orders = append(data.Orders, templates.OrderRow{
				ID:          o.ID,
				OrderNumber: o.OrderNumber,
				Client:      o.Client.Name,
				Delivery:    services.FormatDate(o.DeliveryDate),
				Status:      o.Status.Label(),
				Urgent:      o.Urgent,
			})
		}

		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return templates.Dashboard(data).Render(e.Request.Context(), e.Response)
	}
}
