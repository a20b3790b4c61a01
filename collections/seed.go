package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// DemoEmail and DemoPassword identify the account created by Seed.
const (
	DemoEmail    = "demo@salesdesk.local"
	DemoPassword = "demo-password-123"
)

type productDef struct {
	name        string
	description string
	category    string
	unitType    string
	unitPrice   float64
}

type clientDef struct {
	name    string
	email   string
	phone   string
	address string
}

var demoProducts = []productDef{
	{"Lona front 13 oz", "Impresión en gran formato", "product", "area", 180},
	{"Vinil adhesivo", "Vinil brillante para rotulación", "product", "area", 220},
	{"Bastidor de aluminio", "Perfil para marco", "product", "linear", 95},
	{"Instalación", "Colocación en sitio", "process", "linear", 60},
}

var demoClients = []clientDef{
	{"Ferretería López", "compras@ferrelopez.mx", "+52 55 1234 5678", "Av. Juárez 120, Centro"},
	{"Café La Esquina", "", "5512349876", ""},
}

// Seed creates a demo account with a small catalog, two clients and company
// settings. It does nothing when the demo account already exists.
func Seed(app core.App) error {
	if _, err := app.FindAuthRecordByEmail(Users, DemoEmail); err == nil {
		log.Printf("seed: demo account exists, skipping")
		return nil
	}

	return app.RunInTransaction(func(txApp core.App) error {
		usersCol, err := txApp.FindCollectionByNameOrId(Users)
		if err != nil {
			return fmt.Errorf("seed: could not find users collection: %w", err)
		}
		user := core.NewRecord(usersCol)
		user.SetEmail(DemoEmail)
		user.SetPassword(DemoPassword)
		user.SetVerified(true)
		user.Set("name", "Demo")
		if err := txApp.Save(user); err != nil {
			return fmt.Errorf("seed: could not create demo user: %w", err)
		}

		productsCol, err := txApp.FindCollectionByNameOrId(Products)
		if err != nil {
			return fmt.Errorf("seed: could not find products collection: %w", err)
		}
		for _, p := range demoProducts {
			rec := core.NewRecord(productsCol)
			rec.Set("owner", user.Id)
			rec.Set("name", p.name)
			rec.Set("description", p.description)
			rec.Set("category", p.category)
			rec.Set("unit_type", p.unitType)
			rec.Set("unit_price", p.unitPrice)
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("seed: could not create product %q: %w", p.name, err)
			}
		}

		clientsCol, err := txApp.FindCollectionByNameOrId(Clients)
		if err != nil {
			return fmt.Errorf("seed: could not find clients collection: %w", err)
		}
		for _, c := range demoClients {
			rec := core.NewRecord(clientsCol)
			rec.Set("owner", user.Id)
			rec.Set("name", c.name)
			rec.Set("email", c.email)
			rec.Set("phone", c.phone)
			rec.Set("address", c.address)
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("seed: could not create client %q: %w", c.name, err)
			}
		}

		settingsCol, err := txApp.FindCollectionByNameOrId(UserSettings)
		if err != nil {
			return fmt.Errorf("seed: could not find user_settings collection: %w", err)
		}
		settings := core.NewRecord(settingsCol)
		settings.Set("owner", user.Id)
		settings.Set("company_name", "Rótulos Demo")
		settings.Set("company_address", "Calle 5 de Mayo 42, Puebla")
		settings.Set("company_phone", "222 555 0101")
		settings.Set("bank_name", "BBVA")
		settings.Set("bank_account_number", "012180001234567890")
		settings.Set("bank_account_holder", "Rótulos Demo SA de CV")
		settings.Set("language", "es")
		settings.Set("currency", "MXN")
		if err := txApp.Save(settings); err != nil {
			return fmt.Errorf("seed: could not create settings: %w", err)
		}

		log.Printf("seed: created demo account %s with %d products and %d clients",
			DemoEmail, len(demoProducts), len(demoClients))
		return nil
	})
}
