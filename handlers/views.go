package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"salesdesk/services"
)

type paymentView struct {
	Method      services.PaymentMethod `json:"method"`
	MethodLabel string                 `json:"methodLabel"`
	AmountPaid  decimal.Decimal        `json:"amountPaid"`
	Change      decimal.Decimal        `json:"change"`
	Advance     decimal.Decimal        `json:"advance"`
	Balance     decimal.Decimal        `json:"balance"`
	Bank        services.BankAccount   `json:"bank"`
}

type documentView struct {
	ID              string                   `json:"id"`
	Kind            services.Kind            `json:"kind"`
	ShortID         string                   `json:"shortId"`
	OrderNumber     string                   `json:"orderNumber,omitempty"`
	ClientID        string                   `json:"clientId"`
	Client          services.ClientSnapshot  `json:"client"`
	Items           []services.LineItem      `json:"items"`
	IncludeTax      bool                     `json:"includeTax"`
	DiscountPercent decimal.Decimal          `json:"discountPercent"`
	Totals          services.TotalsBreakdown `json:"totals"`
	Total           decimal.Decimal          `json:"total"`
	Payment         *paymentView             `json:"payment,omitempty"`
	DeliveryDate    *time.Time               `json:"deliveryDate,omitempty"`
	Urgent          bool                     `json:"urgent,omitempty"`
	Status          services.Status          `json:"status"`
	StatusLabel     string                   `json:"statusLabel"`
	QuoteID         string                   `json:"quoteId,omitempty"`
	ConvertedAt     *time.Time               `json:"convertedAt,omitempty"`
	Created         time.Time                `json:"created"`
	Updated         time.Time                `json:"updated"`
}

func viewDocument(d *services.Document, at time.Time) documentView {
	v := documentView{
		ID:              d.ID,
		Kind:            d.Kind,
		ShortID:         d.ShortID(),
		OrderNumber:     d.OrderNumber,
		ClientID:        d.ClientID,
		Client:          d.Client,
		Items:           d.Items,
		IncludeTax:      d.IncludeTax,
		DiscountPercent: d.DiscountPercent,
		Totals:          services.Breakdown(d.Total, d.DiscountPercent, d.IncludeTax),
		Total:           d.Total,
		Urgent:          d.IsUrgent(at),
		Status:          d.Status,
		StatusLabel:     d.Status.Label(),
		QuoteID:         d.QuoteID,
		Created:         d.Created,
		Updated:         d.Updated,
	}
	if v.Items == nil {
		v.Items = []services.LineItem{}
	}
	if !d.DeliveryDate.IsZero() {
		t := d.DeliveryDate
		v.DeliveryDate = &t
	}
	if !d.ConvertedAt.IsZero() {
		t := d.ConvertedAt
		v.ConvertedAt = &t
	}
	if p := d.Payment; p != nil {
		v.Payment = &paymentView{
			Method:      p.Method,
			MethodLabel: p.Method.Label(),
			AmountPaid:  p.AmountPaid,
			Change:      p.Change,
			Advance:     p.Advance,
			Bank:        p.Bank,
		}
		if p.Method == services.PaymentCredit {
			v.Payment.Balance, _ = services.CreditBalance(d.Total, p.Advance)
		}
	}
	return v
}

func viewDocuments(docs []*services.Document, at time.Time) []documentView {
	out := make([]documentView, len(docs))
	for i, d := range docs {
		out[i] = viewDocument(d, at)
	}
	return out
}
