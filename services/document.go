package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnitType decides how a line item's dimensions feed its total.
type UnitType string

const (
	UnitArea   UnitType = "area"
	UnitLinear UnitType = "linear"
)

// Label is the unit abbreviation printed on documents.
func (u UnitType) Label() string {
	if u == UnitArea {
		return "m²"
	}
	return "ml"
}

// ParseUnitType accepts the stored names and the m2/ml codes used in
// spreadsheets. Empty means area.
func ParseUnitType(s string) (UnitType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "area", "m2", "m²", "metro cuadrado":
		return UnitArea, true
	case "linear", "lineal", "ml", "metro lineal":
		return UnitLinear, true
	}
	return "", false
}

// Kind distinguishes quotes from sales.
type Kind string

const (
	KindQuote Kind = "quote"
	KindSale  Kind = "sale"
)

// Status is the lifecycle state of a document.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSent       Status = "sent"
	StatusConverted  Status = "converted"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var (
	QuoteStatuses = []Status{StatusPending, StatusSent, StatusConverted}
	SaleStatuses  = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
)

var statusLabels = map[Status]string{
	StatusPending:    "Pendiente",
	StatusSent:       "Enviada",
	StatusConverted:  "Convertida",
	StatusInProgress: "En Progreso",
	StatusCompleted:  "Completado",
	StatusCancelled:  "Cancelado",
}

// Label is the Spanish display name of s.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// PaymentMethod is how a sale is settled.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCredit   PaymentMethod = "credit"
	PaymentTransfer PaymentMethod = "transfer"
)

// Label returns the Spanish name used on tickets and exports.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCash:
		return "Efectivo"
	case PaymentCredit:
		return "Fiado"
	case PaymentTransfer:
		return "Transferencia"
	}
	return string(p)
}

// Product is a catalog entry.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	UnitType    UnitType
	UnitPrice   decimal.Decimal
}

// Client is a customer.
type Client struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
}

// ClientSnapshot is the client data copied into a document at save time.
type ClientSnapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Snapshot copies the printable fields of c.
func (c Client) Snapshot() ClientSnapshot {
	return ClientSnapshot{Name: c.Name, Email: c.Email, Phone: c.Phone, Address: c.Address}
}

// LineItem is one priced row of a document. Product fields are snapshotted
// when the item is added so later catalog edits do not alter saved documents.
type LineItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	UnitType     UnitType        `json:"unitType"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Length       decimal.Decimal `json:"length"`
	Width        decimal.Decimal `json:"width"`
	Quantity     decimal.Decimal `json:"quantity"`
	Observations string          `json:"observations,omitempty"`
}

// NewLineItem snapshots p with unit dimensions and quantity.
func NewLineItem(p Product) LineItem {
	return LineItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitType:    p.UnitType,
		UnitPrice:   p.UnitPrice,
		Length:      decimal.NewFromInt(1),
		Width:       decimal.NewFromInt(1),
		Quantity:    decimal.NewFromInt(1),
	}
}

// BankAccount holds transfer details.
type BankAccount struct {
	Bank          string `json:"bank"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
}

// IsZero reports whether no bank field is set.
func (b BankAccount) IsZero() bool {
	return b.Bank == "" && b.AccountNumber == "" && b.AccountHolder == ""
}

// Payment describes how a sale is paid. Change applies to cash and Advance to
// credit; Bank optionally overrides the company account for transfers.
type Payment struct {
	Method     PaymentMethod
	AmountPaid decimal.Decimal
	Change     decimal.Decimal
	Advance    decimal.Decimal
	Bank       BankAccount
}

// Document is a quote or a sale. Total is fixed by the pricing engine when the
// document is saved and is never recomputed from Items afterwards.
type Document struct {
	ID              string
	Kind            Kind
	Owner           string
	ClientID        string
	Client          ClientSnapshot
	Items           []LineItem
	IncludeTax      bool
	DiscountPercent decimal.Decimal
	Total           decimal.Decimal
	Payment         *Payment
	DeliveryDate    time.Time
	Status          Status
	OrderNumber     string
	QuoteID         string
	ConvertedAt     time.Time
	Created         time.Time
	Updated         time.Time
}

// ShortID is the first eight characters of the id, upper-cased.
func (d *Document) ShortID() string {
	id := d.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// Title is the heading printed on the document.
func (d *Document) Title() string {
	if d.Kind == KindSale {
		return "TICKET DE VENTA"
	}
	return "COTIZACIÓN"
}

// FileName is the download name for the rendered PDF.
func (d *Document) FileName() string {
	if d.Kind == KindSale {
		ref := d.OrderNumber
		if ref == "" {
			ref = d.ShortID()
		}
		return fmt.Sprintf("venta_%s.pdf", ref)
	}
	return fmt.Sprintf("cotizacion_%s.pdf", d.ShortID())
}

// ValidStatus reports whether s belongs to kind's lifecycle.
func ValidStatus(kind Kind, s Status) bool {
	list := SaleStatuses
	if kind == KindQuote {
		list = QuoteStatuses
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CheckTransition returns nil when a document of kind may move from one status
// to another. Cancelled sales and converted quotes are final.
func CheckTransition(kind Kind, from, to Status) error {
	if !ValidStatus(kind, to) {
		return fmt.Errorf("%w: unknown %s status %q", ErrInvalidTransition, kind, to)
	}
	if from == to {
		return nil
	}
	switch kind {
	case KindSale:
		if from == StatusCancelled {
			return fmt.Errorf("%w: sale is cancelled", ErrInvalidTransition)
		}
		return nil
	case KindQuote:
		if from == StatusConverted {
			return ErrQuoteAlreadyConverted
		}
		if to == StatusPending {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransition, kind)
}

// CheckDelete returns nil when the document may be removed. Sales must be
// cancelled first; converted quotes stay as the record of the sale's origin.
func CheckDelete(d *Document) error {
	switch d.Kind {
	case KindSale:
		if d.Status != StatusCancelled {
			return fmt.Errorf("%w: only cancelled sales can be deleted", ErrInvalidTransition)
		}
	case KindQuote:
		if d.Status == StatusConverted {
			return fmt.Errorf("%w: converted quotes cannot be deleted", ErrInvalidTransition)
		}
	}
	return nil
}

// IsUrgent reports whether an open sale is due within a day of now.
func (d *Document) IsUrgent(now time.Time) bool {
	if d.Kind != KindSale || d.DeliveryDate.IsZero() {
		return false
	}
	if d.Status == StatusCompleted || d.Status == StatusCancelled {
		return false
	}
	return d.DeliveryDate.Sub(now) <= 24*time.Hour
}
