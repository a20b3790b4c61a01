package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"salesdesk/collections"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func collectionFor(kind Kind) string {
	if kind == KindSale {
		return collections.Sales
	}
	return collections.Quotes
}

func entityName(kind Kind) string {
	if kind == KindSale {
		return "sale"
	}
	return "quote"
}

func money(r *core.Record, field string) decimal.Decimal {
	return decimal.NewFromFloat(r.GetFloat(field))
}

// ClientFromRecord maps a clients record.
func ClientFromRecord(r *core.Record) Client {
	return Client{
		ID:      r.Id,
		Name:    r.GetString("name"),
		Email:   r.GetString("email"),
		Phone:   r.GetString("phone"),
		Address: r.GetString("address"),
	}
}

// ProductFromRecord maps a products record.
func ProductFromRecord(r *core.Record) Product {
	return Product{
		ID:          r.Id,
		Name:        r.GetString("name"),
		Description: r.GetString("description"),
		Category:    r.GetString("category"),
		UnitType:    UnitType(r.GetString("unit_type")),
		UnitPrice:   money(r, "unit_price"),
	}
}

// findOwned loads a record and hides records that belong to someone else.
func findOwned(app core.App, collection, entity, owner, id string) (*core.Record, error) {
	rec, err := app.FindRecordById(collection, id)
	if err != nil {
		if isNoRows(err) {
			return nil, &NotFoundError{Entity: entity, ID: id}
		}
		return nil, &PersistenceError{Op: "load " + entity, Err: err}
	}
	if rec.GetString("owner") != owner {
		return nil, &NotFoundError{Entity: entity, ID: id}
	}
	return rec, nil
}

// FindClient returns owner's client by id.
func FindClient(app core.App, owner, id string) (Client, error) {
	rec, err := findOwned(app, collections.Clients, "client", owner, id)
	if err != nil {
		return Client{}, err
	}
	return ClientFromRecord(rec), nil
}

// FindProduct returns owner's product by id.
func FindProduct(app core.App, owner, id string) (Product, error) {
	rec, err := findOwned(app, collections.Products, "product", owner, id)
	if err != nil {
		return Product{}, err
	}
	return ProductFromRecord(rec), nil
}

// DocumentFromRecord maps a quotes or sales record.
func DocumentFromRecord(kind Kind, r *core.Record) (*Document, error) {
	doc := &Document{
		ID:       r.Id,
		Kind:     kind,
		Owner:    r.GetString("owner"),
		ClientID: r.GetString("client"),
		Client: ClientSnapshot{
			Name:    r.GetString("client_name"),
			Email:   r.GetString("client_email"),
			Phone:   r.GetString("client_phone"),
			Address: r.GetString("client_address"),
		},
		IncludeTax:      r.GetBool("include_tax"),
		DiscountPercent: money(r, "discount_percent"),
		Total:           money(r, "total").Round(2),
		Status:          Status(r.GetString("status")),
		Created:         r.GetDateTime("created").Time(),
		Updated:         r.GetDateTime("updated").Time(),
	}

	if err := r.UnmarshalJSONField("items", &doc.Items); err != nil {
		return nil, fmt.Errorf("decode items of %s %s: %w", kind, r.Id, err)
	}

	switch kind {
	case KindQuote:
		doc.ConvertedAt = r.GetDateTime("converted_at").Time()
	case KindSale:
		doc.OrderNumber = r.GetString("order_number")
		doc.QuoteID = r.GetString("quote")
		doc.DeliveryDate = r.GetDateTime("delivery_date").Time()
		if method := r.GetString("payment_method"); method != "" {
			doc.Payment = &Payment{
				Method:     PaymentMethod(method),
				AmountPaid: money(r, "amount_paid"),
				Change:     money(r, "change"),
				Advance:    money(r, "advance"),
				Bank: BankAccount{
					Bank:          r.GetString("bank_name"),
					AccountNumber: r.GetString("bank_account_number"),
					AccountHolder: r.GetString("bank_account_holder"),
				},
			}
		}
	}
	return doc, nil
}

func applyDocument(rec *core.Record, doc *Document) {
	rec.Set("owner", doc.Owner)
	rec.Set("client", doc.ClientID)
	rec.Set("client_name", doc.Client.Name)
	rec.Set("client_email", doc.Client.Email)
	rec.Set("client_phone", doc.Client.Phone)
	rec.Set("client_address", doc.Client.Address)
	rec.Set("items", doc.Items)
	rec.Set("include_tax", doc.IncludeTax)
	rec.Set("discount_percent", doc.DiscountPercent.InexactFloat64())
	rec.Set("total", doc.Total.InexactFloat64())
	rec.Set("status", string(doc.Status))

	switch doc.Kind {
	case KindQuote:
		if !doc.ConvertedAt.IsZero() {
			rec.Set("converted_at", doc.ConvertedAt)
		}
	case KindSale:
		rec.Set("order_number", doc.OrderNumber)
		rec.Set("quote", doc.QuoteID)
		if doc.DeliveryDate.IsZero() {
			rec.Set("delivery_date", "")
		} else {
			rec.Set("delivery_date", doc.DeliveryDate)
		}
		p := doc.Payment
		if p == nil {
			p = &Payment{}
		}
		rec.Set("payment_method", string(p.Method))
		rec.Set("amount_paid", p.AmountPaid.InexactFloat64())
		rec.Set("change", p.Change.InexactFloat64())
		rec.Set("advance", p.Advance.InexactFloat64())
		rec.Set("bank_name", p.Bank.Bank)
		rec.Set("bank_account_number", p.Bank.AccountNumber)
		rec.Set("bank_account_holder", p.Bank.AccountHolder)
	}
}

// FindDocument returns owner's quote or sale by id.
func FindDocument(app core.App, kind Kind, owner, id string) (*Document, error) {
	rec, err := findOwned(app, collectionFor(kind), entityName(kind), owner, id)
	if err != nil {
		return nil, err
	}
	return DocumentFromRecord(kind, rec)
}

// ListDocuments returns owner's documents of kind, newest first. An empty
// status returns every status.
func ListDocuments(app core.App, kind Kind, owner string, status Status) ([]*Document, error) {
	filter := "owner = {:owner}"
	params := map[string]any{"owner": owner}
	if status != "" {
		filter += " && status = {:status}"
		params["status"] = string(status)
	}

	records, err := app.FindRecordsByFilter(collectionFor(kind), filter, "-created", 0, 0, params)
	if err != nil {
		return nil, &PersistenceError{Op: "list " + entityName(kind) + "s", Err: err}
	}

	docs := make([]*Document, 0, len(records))
	for _, r := range records {
		doc, err := DocumentFromRecord(kind, r)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// SaveDocument creates or updates doc. New sales receive the next order
// number. doc.ID and the timestamps are filled in from the stored record.
func SaveDocument(app core.App, doc *Document, now time.Time) error {
	var rec *core.Record
	if doc.ID == "" {
		col, err := app.FindCollectionByNameOrId(collectionFor(doc.Kind))
		if err != nil {
			return &PersistenceError{Op: "find collection", Err: err}
		}
		rec = core.NewRecord(col)
		if doc.Kind == KindSale && doc.OrderNumber == "" {
			number, err := NextOrderNumber(app, doc.Owner, now)
			if err != nil {
				return err
			}
			doc.OrderNumber = number
		}
		if doc.Status == "" {
			doc.Status = StatusPending
		}
	} else {
		existing, err := findOwned(app, collectionFor(doc.Kind), entityName(doc.Kind), doc.Owner, doc.ID)
		if err != nil {
			return err
		}
		rec = existing
	}

	applyDocument(rec, doc)
	if err := app.Save(rec); err != nil {
		return &PersistenceError{Op: "save " + entityName(doc.Kind), Err: err}
	}

	doc.ID = rec.Id
	doc.Created = rec.GetDateTime("created").Time()
	doc.Updated = rec.GetDateTime("updated").Time()
	return nil
}

// UpdateStatus moves a document to status after checking the lifecycle.
// Quotes cannot be converted this way; use ConvertQuote.
func UpdateStatus(app core.App, kind Kind, owner, id string, status Status) (*Document, error) {
	if kind == KindQuote && status == StatusConverted {
		return nil, fmt.Errorf("%w: use quote conversion", ErrInvalidTransition)
	}
	rec, err := findOwned(app, collectionFor(kind), entityName(kind), owner, id)
	if err != nil {
		return nil, err
	}
	if err := CheckTransition(kind, Status(rec.GetString("status")), status); err != nil {
		return nil, err
	}
	rec.Set("status", string(status))
	if err := app.Save(rec); err != nil {
		return nil, &PersistenceError{Op: "update status", Err: err}
	}
	return DocumentFromRecord(kind, rec)
}

// DeleteDocument removes owner's document when the lifecycle allows it.
func DeleteDocument(app core.App, kind Kind, owner, id string) error {
	rec, err := findOwned(app, collectionFor(kind), entityName(kind), owner, id)
	if err != nil {
		return err
	}
	doc, err := DocumentFromRecord(kind, rec)
	if err != nil {
		return err
	}
	if err := CheckDelete(doc); err != nil {
		return err
	}
	if err := app.Delete(rec); err != nil {
		return &PersistenceError{Op: "delete " + entityName(kind), Err: err}
	}
	return nil
}

// ConvertQuote turns a quote into a pending sale inside one transaction. The
// quote is re-read inside the transaction so a second conversion fails with
// ErrQuoteAlreadyConverted instead of creating another sale.
func ConvertQuote(app core.App, owner, quoteID string, now time.Time) (*Document, error) {
	var sale *Document

	err := app.RunInTransaction(func(txApp core.App) error {
		rec, err := findOwned(txApp, collections.Quotes, "quote", owner, quoteID)
		if err != nil {
			return err
		}
		quote, err := DocumentFromRecord(KindQuote, rec)
		if err != nil {
			return err
		}
		if err := CheckTransition(KindQuote, quote.Status, StatusConverted); err != nil {
			return err
		}

		sale = &Document{
			Kind:            KindSale,
			Owner:           owner,
			ClientID:        quote.ClientID,
			Client:          quote.Client,
			Items:           quote.Items,
			IncludeTax:      quote.IncludeTax,
			DiscountPercent: quote.DiscountPercent,
			Total:           quote.Total,
			Status:          StatusPending,
			QuoteID:         quote.ID,
		}
		if err := SaveDocument(txApp, sale, now); err != nil {
			return err
		}

		rec.Set("status", string(StatusConverted))
		rec.Set("converted_at", now)
		if err := txApp.Save(rec); err != nil {
			return &PersistenceError{Op: "mark quote converted", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
