package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// OrderRow is one line of the upcoming deliveries list.
type OrderRow struct {
	ID          string
	OrderNumber string
	Client      string
	Delivery    string
	Status      string
	Urgent      bool
}

// DashboardData holds the home counters, money already formatted.
type DashboardData struct {
	Clients       int
	Products      int
	Quotes        int
	PendingQuotes int
	Sales         int
	Revenue       string
	Orders        []OrderRow
}

type stat struct {
	label string
	value string
}

// Dashboard renders the home summary fragment.
func Dashboard(d DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		stats := []stat{
			{"Clientes", fmt.Sprint(d.Clients)},
			{"Productos", fmt.Sprint(d.Products)},
			{"Cotizaciones", fmt.Sprint(d.Quotes)},
			{"Cotizaciones pendientes", fmt.Sprint(d.PendingQuotes)},
			{"Ventas", fmt.Sprint(d.Sales)},
			{"Ingresos", d.Revenue},
		}

		if _, err := io.WriteString(w, `<section class="dashboard"><h1>Bienvenido</h1><div class="stats">`); err != nil {
			return err
		}
		for _, s := range stats {
			if _, err := fmt.Fprintf(w, `<div class="stat"><span class="stat-label">%s</span><span class="stat-value">%s</span></div>`,
				templ.EscapeString(s.label), templ.EscapeString(s.value)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</div>`); err != nil {
			return err
		}

		if len(d.Orders) > 0 {
			if _, err := io.WriteString(w, `<h2>Próximas entregas</h2><ul class="orders">`); err != nil {
				return err
			}
			for _, o := range d.Orders {
				class := "order"
				if o.Urgent {
					class += " urgent"
				}
				if _, err := fmt.Fprintf(w, `<li class="%s" id="order-%s"><strong>%s</strong> %s <span>%s</span> <em>%s</em></li>`,
					class, templ.EscapeString(o.ID), templ.EscapeString(o.OrderNumber), templ.EscapeString(o.Client),
					templ.EscapeString(o.Delivery), templ.EscapeString(o.Status)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</section>`)
		return err
	})
}
