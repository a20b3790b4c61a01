package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// ItemInput is one line item as submitted by the editor.
type ItemInput struct {
	ProductID    string  `json:"productId" validate:"required"`
	Length       float64 `json:"length" validate:"gte=0"`
	Width        float64 `json:"width" validate:"gte=0"`
	Quantity     float64 `json:"quantity" validate:"gte=0"`
	Observations string  `json:"observations" validate:"max=500"`
}

// DocumentInput is the submitted quote or sale form. Zero dimensions and
// quantities mean "unset" and default to 1.
type DocumentInput struct {
	ClientID        string      `json:"clientId"`
	Items           []ItemInput `json:"items" validate:"dive"`
	IncludeTax      *bool       `json:"includeTax"`
	DiscountPercent float64     `json:"discountPercent" validate:"gte=0,lte=100"`
	PaymentMethod   string      `json:"paymentMethod"`
	AmountPaid      float64     `json:"amountPaid" validate:"gte=0"`
	Advance         float64     `json:"advance" validate:"gte=0"`
	Bank            BankAccount `json:"bank"`
	DeliveryDate    string      `json:"deliveryDate" validate:"omitempty,datetime=2006-01-02"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs struct-tag validation and converts failures into a
// ValidationError keyed by JSON field path.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		out.Add(ns, fieldMessage(fe))
	}
	return out.OrNil()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "gt", "gte":
		return "debe ser mayor o igual a " + fe.Param()
	case "lte", "max":
		return "no puede exceder " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "datetime":
		return "fecha inválida"
	case "email":
		return "email inválido"
	}
	return "valor inválido"
}

// DocumentForm holds an in-progress quote or sale.
type DocumentForm struct {
	Kind            Kind
	Client          *Client
	Items           []LineItem
	IncludeTax      bool
	DiscountPercent decimal.Decimal
	Payment         Payment
	DeliveryDate    time.Time
}

// NewDocumentForm starts an empty form. Tax is included by default and sales
// default to cash.
func NewDocumentForm(kind Kind) *DocumentForm {
	f := &DocumentForm{Kind: kind, IncludeTax: true}
	if kind == KindSale {
		f.Payment.Method = PaymentCash
	}
	return f
}

// SelectClient sets the document's client.
func (f *DocumentForm) SelectClient(c Client) {
	f.Client = &c
}

// AddItem appends p with unit dimensions and returns its index.
func (f *DocumentForm) AddItem(p Product) int {
	f.Items = append(f.Items, NewLineItem(p))
	return len(f.Items) - 1
}

// UpdateItem replaces the editable fields of item i. Zero values mean unset
// and default to 1.
func (f *DocumentForm) UpdateItem(i int, length, width, quantity decimal.Decimal, observations string) error {
	if i < 0 || i >= len(f.Items) {
		return fmt.Errorf("item %d out of range", i)
	}
	it := &f.Items[i]
	it.Length = orOne(length)
	it.Width = orOne(width)
	it.Quantity = orOne(quantity)
	it.Observations = strings.TrimSpace(observations)
	return nil
}

// RemoveItem deletes item i.
func (f *DocumentForm) RemoveItem(i int) error {
	if i < 0 || i >= len(f.Items) {
		return fmt.Errorf("item %d out of range", i)
	}
	f.Items = append(f.Items[:i], f.Items[i+1:]...)
	return nil
}

// Total is the engine total for the current state.
func (f *DocumentForm) Total() (decimal.Decimal, error) {
	return DocumentTotal(f.Items, f.DiscountPercent, f.IncludeTax)
}

// Validate reports every user-correctable problem. Nothing is written when
// it fails.
func (f *DocumentForm) Validate() error {
	verr := &ValidationError{}
	if f.Client == nil {
		verr.Add("clientId", "Selecciona un cliente")
	}
	if len(f.Items) == 0 {
		verr.Add("items", "Agrega al menos un producto")
	}
	for i, it := range f.Items {
		for _, c := range []struct {
			name string
			v    decimal.Decimal
		}{{"length", it.Length}, {"width", it.Width}, {"quantity", it.Quantity}} {
			if !c.v.IsPositive() {
				verr.Add(fmt.Sprintf("items[%d].%s", i, c.name), "debe ser mayor a 0")
			}
		}
	}
	if f.DiscountPercent.IsNegative() || f.DiscountPercent.GreaterThan(hundred) {
		verr.Add("discountPercent", "debe estar entre 0 y 100")
	}
	if len(verr.Fields) > 0 {
		return verr
	}

	total, err := f.Total()
	if err != nil {
		var inv *InvalidInputError
		if errors.As(err, &inv) {
			verr.Add(inv.Field, inv.Reason)
			return verr
		}
		return err
	}

	if f.Kind == KindSale {
		p := f.Payment
		switch p.Method {
		case PaymentCash:
			if p.AmountPaid.LessThan(total) {
				verr.Add("amountPaid", "El monto pagado no cubre el total")
			}
		case PaymentCredit:
			if p.Advance.GreaterThan(total) {
				verr.Add("advance", "El anticipo no puede exceder el total")
			}
			if p.Advance.IsZero() && total.IsPositive() {
				verr.Add("advance", "Ingresa un anticipo")
			}
		case PaymentTransfer:
		default:
			verr.Add("paymentMethod", "Método de pago inválido")
		}
	}
	return verr.OrNil()
}

// Build validates the form and produces the document to save for owner,
// with the engine-computed total and the client snapshot.
func (f *DocumentForm) Build(owner string) (*Document, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	total, err := f.Total()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Kind:            f.Kind,
		Owner:           owner,
		ClientID:        f.Client.ID,
		Client:          f.Client.Snapshot(),
		Items:           append([]LineItem(nil), f.Items...),
		IncludeTax:      f.IncludeTax,
		DiscountPercent: f.DiscountPercent,
		Total:           total,
	}

	if f.Kind == KindSale {
		p := f.Payment
		switch p.Method {
		case PaymentCash:
			p.Change, _ = CashChange(total, p.AmountPaid)
			p.Advance = decimal.Zero
		case PaymentCredit:
			p.AmountPaid = decimal.Zero
			p.Change = decimal.Zero
		case PaymentTransfer:
			p.AmountPaid = total
			p.Change = decimal.Zero
			p.Advance = decimal.Zero
		}
		doc.Payment = &p
		doc.DeliveryDate = f.DeliveryDate
	}
	return doc, nil
}

// FormFromInput resolves in against owner's catalog. Items whose product was
// deleted keep the snapshot from existing, when editing.
func FormFromInput(app core.App, owner string, kind Kind, in DocumentInput, existing *Document) (*DocumentForm, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	f := NewDocumentForm(kind)
	verr := &ValidationError{}

	if in.ClientID != "" {
		c, err := FindClient(app, owner, in.ClientID)
		if err != nil {
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				return nil, err
			}
			verr.Add("clientId", "Cliente no encontrado")
		} else {
			f.SelectClient(c)
		}
	}

	for i, ii := range in.Items {
		p, err := FindProduct(app, owner, ii.ProductID)
		var it LineItem
		switch {
		case err == nil:
			it = NewLineItem(p)
		case snapshotFor(existing, ii.ProductID) != nil:
			it = *snapshotFor(existing, ii.ProductID)
		default:
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				return nil, err
			}
			verr.Add(fmt.Sprintf("items[%d].productId", i), "Producto no encontrado")
			continue
		}
		f.Items = append(f.Items, it)
		if err := f.UpdateItem(len(f.Items)-1,
			decimal.NewFromFloat(ii.Length), decimal.NewFromFloat(ii.Width),
			decimal.NewFromFloat(ii.Quantity), ii.Observations); err != nil {
			return nil, err
		}
	}

	if in.IncludeTax != nil {
		f.IncludeTax = *in.IncludeTax
	}
	f.DiscountPercent = decimal.NewFromFloat(in.DiscountPercent)

	if kind == KindSale {
		if in.PaymentMethod != "" {
			f.Payment.Method = PaymentMethod(in.PaymentMethod)
		}
		f.Payment.AmountPaid = decimal.NewFromFloat(in.AmountPaid)
		f.Payment.Advance = decimal.NewFromFloat(in.Advance)
		f.Payment.Bank = in.Bank
		if in.DeliveryDate != "" {
			t, err := time.Parse("2006-01-02", in.DeliveryDate)
			if err != nil {
				verr.Add("deliveryDate", "fecha inválida")
			} else {
				f.DeliveryDate = t
			}
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return f, nil
}

func snapshotFor(existing *Document, productID string) *LineItem {
	if existing == nil || productID == "" {
		return nil
	}
	for i := range existing.Items {
		if existing.Items[i].ProductID == productID {
			it := existing.Items[i]
			return &it
		}
	}
	return nil
}

func orOne(v decimal.Decimal) decimal.Decimal {
	if v.IsZero() {
		return decimal.NewFromInt(1)
	}
	return v
}
