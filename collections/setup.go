package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// Collection names.
const (
	Users           = "users"
	Clients         = "clients"
	Products        = "products"
	Quotes          = "quotes"
	Sales           = "sales"
	UserSettings    = "user_settings"
	SharedDocuments = "shared_documents"
)

const maxPDFSize = 20 << 20

// Setup programmatically creates/ensures the sales collections exist. The
// users auth collection is created by PocketBase itself.
func Setup(app core.App) {
	users, err := app.FindCollectionByNameOrId(Users)
	if err != nil {
		log.Fatalf("Auth collection %q is missing: %v", Users, err)
	}

	owner := func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "owner",
			Required:      true,
			CollectionId:  users.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
	}
	timestamps := func(c *core.Collection) {
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	}
	clientSnapshot := func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "client_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_email"})
		c.Fields.Add(&core.TextField{Name: "client_phone"})
		c.Fields.Add(&core.TextField{Name: "client_address"})
	}

	clients := ensureCollection(app, Clients, func(c *core.Collection) {
		owner(c)
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "address"})
		timestamps(c)
	})

	ensureCollection(app, Products, func(c *core.Collection) {
		owner(c)
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "description"})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    []string{"product", "process"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "unit_type",
			Required:  true,
			Values:    []string{"area", "linear"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Min: types.Pointer(0.0)})
		timestamps(c)
	})

	quotes := ensureCollection(app, Quotes, func(c *core.Collection) {
		owner(c)
		c.Fields.Add(&core.RelationField{Name: "client", CollectionId: clients.Id, MaxSelect: 1})
		clientSnapshot(c)
		c.Fields.Add(&core.JSONField{Name: "items"})
		c.Fields.Add(&core.BoolField{Name: "include_tax"})
		c.Fields.Add(&core.NumberField{Name: "discount_percent", Min: types.Pointer(0.0), Max: types.Pointer(100.0)})
		c.Fields.Add(&core.NumberField{Name: "total"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"pending", "sent", "converted"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "converted_at"})
		timestamps(c)
	})

	ensureCollection(app, Sales, func(c *core.Collection) {
		owner(c)
		c.Fields.Add(&core.RelationField{Name: "client", CollectionId: clients.Id, MaxSelect: 1})
		c.Fields.Add(&core.RelationField{Name: "quote", CollectionId: quotes.Id, MaxSelect: 1})
		c.Fields.Add(&core.TextField{Name: "order_number", Required: true})
		clientSnapshot(c)
		c.Fields.Add(&core.JSONField{Name: "items"})
		c.Fields.Add(&core.BoolField{Name: "include_tax"})
		c.Fields.Add(&core.NumberField{Name: "discount_percent", Min: types.Pointer(0.0), Max: types.Pointer(100.0)})
		c.Fields.Add(&core.NumberField{Name: "total"})
		c.Fields.Add(&core.SelectField{
			Name:      "payment_method",
			Values:    []string{"cash", "credit", "transfer"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "amount_paid"})
		c.Fields.Add(&core.NumberField{Name: "change"})
		c.Fields.Add(&core.NumberField{Name: "advance"})
		c.Fields.Add(&core.TextField{Name: "bank_name"})
		c.Fields.Add(&core.TextField{Name: "bank_account_number"})
		c.Fields.Add(&core.TextField{Name: "bank_account_holder"})
		c.Fields.Add(&core.DateField{Name: "delivery_date"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"pending", "in-progress", "completed", "cancelled"},
			MaxSelect: 1,
		})
		timestamps(c)
		c.AddIndex("idx_sales_owner_order_number", true, "owner, order_number", "")
	})

	ensureCollection(app, UserSettings, func(c *core.Collection) {
		owner(c)
		c.Fields.Add(&core.TextField{Name: "company_name"})
		c.Fields.Add(&core.TextField{Name: "company_address"})
		c.Fields.Add(&core.TextField{Name: "company_phone"})
		c.Fields.Add(&core.FileField{
			Name:      "logo",
			MaxSelect: 1,
			MaxSize:   2 << 20,
			MimeTypes: []string{"image/png", "image/jpeg"},
		})
		c.Fields.Add(&core.TextField{Name: "bank_name"})
		c.Fields.Add(&core.TextField{Name: "bank_account_number"})
		c.Fields.Add(&core.TextField{Name: "bank_account_holder"})
		c.Fields.Add(&core.TextField{Name: "language"})
		c.Fields.Add(&core.TextField{Name: "currency"})
		timestamps(c)
		c.AddIndex("idx_user_settings_owner", true, "owner", "")
	})

	// Shared PDFs must be reachable by whoever receives the link.
	ensureCollection(app, SharedDocuments, func(c *core.Collection) {
		owner(c)
		c.ViewRule = types.Pointer("")
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.FileField{
			Name:      "file",
			Required:  true,
			MaxSelect: 1,
			MaxSize:   maxPDFSize,
			MimeTypes: []string{"application/pdf"},
		})
		timestamps(c)
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
