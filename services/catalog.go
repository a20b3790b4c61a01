package services

import (
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"salesdesk/collections"
)

// ClientInput is the client form.
type ClientInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=500"`
}

// ProductInput is the product form. Prices are per m² or per linear metre
// depending on UnitType.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=1000"`
	Category    string  `json:"category" validate:"omitempty,oneof=product process"`
	UnitType    string  `json:"unitType" validate:"required,oneof=area linear"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

// ListClients returns owner's clients by name.
func ListClients(app core.App, owner string) ([]Client, error) {
	records, err := app.FindRecordsByFilter(collections.Clients, "owner = {:owner}", "name", 0, 0,
		map[string]any{"owner": owner})
	if err != nil {
		return nil, &PersistenceError{Op: "list clients", Err: err}
	}
	out := make([]Client, len(records))
	for i, r := range records {
		out[i] = ClientFromRecord(r)
	}
	return out, nil
}

// SaveClient creates a client, or updates owner's client id when id is set.
func SaveClient(app core.App, owner, id string, in ClientInput) (Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := ValidateStruct(in); err != nil {
		return Client{}, err
	}

	rec, err := ownedOrNew(app, collections.Clients, "client", owner, id)
	if err != nil {
		return Client{}, err
	}
	rec.Set("name", in.Name)
	rec.Set("email", in.Email)
	rec.Set("phone", strings.TrimSpace(in.Phone))
	rec.Set("address", strings.TrimSpace(in.Address))
	if err := app.Save(rec); err != nil {
		return Client{}, &PersistenceError{Op: "save client", Err: err}
	}
	return ClientFromRecord(rec), nil
}

// DeleteClient removes owner's client. Documents keep their snapshot.
func DeleteClient(app core.App, owner, id string) error {
	return deleteOwned(app, collections.Clients, "client", owner, id)
}

// ListProducts returns owner's catalog by name.
func ListProducts(app core.App, owner string) ([]Product, error) {
	records, err := app.FindRecordsByFilter(collections.Products, "owner = {:owner}", "name", 0, 0,
		map[string]any{"owner": owner})
	if err != nil {
		return nil, &PersistenceError{Op: "list products", Err: err}
	}
	out := make([]Product, len(records))
	for i, r := range records {
		out[i] = ProductFromRecord(r)
	}
	return out, nil
}

// SaveProduct creates a product, or updates owner's product id when id is set.
func SaveProduct(app core.App, owner, id string, in ProductInput) (Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Category == "" {
		in.Category = "product"
	}
	if err := ValidateStruct(in); err != nil {
		return Product{}, err
	}

	rec, err := ownedOrNew(app, collections.Products, "product", owner, id)
	if err != nil {
		return Product{}, err
	}
	rec.Set("name", in.Name)
	rec.Set("description", strings.TrimSpace(in.Description))
	rec.Set("category", in.Category)
	rec.Set("unit_type", in.UnitType)
	rec.Set("unit_price", in.UnitPrice)
	if err := app.Save(rec); err != nil {
		return Product{}, &PersistenceError{Op: "save product", Err: err}
	}
	return ProductFromRecord(rec), nil
}

// DeleteProduct removes owner's product. Line items keep their snapshot.
func DeleteProduct(app core.App, owner, id string) error {
	return deleteOwned(app, collections.Products, "product", owner, id)
}

func ownedOrNew(app core.App, collection, entity, owner, id string) (*core.Record, error) {
	if id != "" {
		return findOwned(app, collection, entity, owner, id)
	}
	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		return nil, &PersistenceError{Op: "find collection", Err: err}
	}
	rec := core.NewRecord(col)
	rec.Set("owner", owner)
	return rec, nil
}

func deleteOwned(app core.App, collection, entity, owner, id string) error {
	rec, err := findOwned(app, collection, entity, owner, id)
	if err != nil {
		return err
	}
	if err := app.Delete(rec); err != nil {
		return &PersistenceError{Op: "delete " + entity, Err: err}
	}
	return nil
}
