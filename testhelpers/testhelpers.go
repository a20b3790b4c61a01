// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestUser creates a verified auth record in the users collection.
func CreateTestUser(t *testing.T, app core.App, email string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.Users)
	if err != nil {
		t.Fatalf("failed to find users collection: %v", err)
	}

	record := core.NewRecord(col)
	record.SetEmail(email)
	record.SetPassword("test-password-123")
	record.SetVerified(true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test user: %v", err)
	}

	return record
}

// CreateTestClient creates a client owned by ownerID.
func CreateTestClient(t *testing.T, app core.App, ownerID, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.Clients)
	if err != nil {
		t.Fatalf("failed to find clients collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("owner", ownerID)
	record.Set("name", name)
	record.Set("email", "cliente@example.com")
	record.Set("phone", "+52 (55) 1234-5678")
	record.Set("address", "Av. Reforma 222")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test client: %v", err)
	}

	return record
}

// CreateTestProduct creates a product owned by ownerID.
func CreateTestProduct(t *testing.T, app core.App, ownerID, name, unitType string, price float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.Products)
	if err != nil {
		t.Fatalf("failed to find products collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("owner", ownerID)
	record.Set("name", name)
	record.Set("category", "product")
	record.Set("unit_type", unitType)
	record.Set("unit_price", price)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test product: %v", err)
	}

	return record
}

// TestItem returns a stored line item map for an area product priced at 100
// measuring 2x3, which totals 600.
func TestItem() map[string]any {
	return map[string]any{
		"productId":   "",
		"productName": "Lona front",
		"unitType":    "area",
		"unitPrice":   "100",
		"length":      "2",
		"width":       "3",
		"quantity":    "1",
	}
}

// CreateTestQuote creates a pending quote for client with one TestItem.
func CreateTestQuote(t *testing.T, app core.App, ownerID string, client *core.Record, total float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.Quotes)
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("owner", ownerID)
	setClient(record, client)
	record.Set("items", []map[string]any{TestItem()})
	record.Set("include_tax", true)
	record.Set("discount_percent", 10)
	record.Set("total", total)
	record.Set("status", "pending")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}

// CreateTestSale creates a cash sale with one TestItem in the given status.
func CreateTestSale(t *testing.T, app core.App, ownerID string, client *core.Record, orderNumber, status string, total float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.Sales)
	if err != nil {
		t.Fatalf("failed to find sales collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("owner", ownerID)
	setClient(record, client)
	record.Set("order_number", orderNumber)
	record.Set("items", []map[string]any{TestItem()})
	record.Set("include_tax", true)
	record.Set("discount_percent", 10)
	record.Set("total", total)
	record.Set("payment_method", "cash")
	record.Set("amount_paid", total)
	record.Set("status", status)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test sale: %v", err)
	}

	return record
}

func setClient(record *core.Record, client *core.Record) {
	if client == nil {
		record.Set("client_name", "Cliente de mostrador")
		return
	}
	record.Set("client", client.Id)
	record.Set("client_name", client.GetString("name"))
	record.Set("client_email", client.GetString("email"))
	record.Set("client_phone", client.GetString("phone"))
	record.Set("client_address", client.GetString("address"))
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
