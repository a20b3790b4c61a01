package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"salesdesk/services"
)

type clientView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func viewClient(c services.Client) clientView {
	return clientView{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, Address: c.Address}
}

type productView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	UnitType    services.UnitType `json:"unitType"`
	UnitLabel   string            `json:"unitLabel"`
	UnitPrice   string            `json:"unitPrice"`
}

func viewProduct(p services.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		UnitType:    p.UnitType,
		UnitLabel:   p.UnitType.Label(),
		UnitPrice:   p.UnitPrice.StringFixed(2),
	}
}

// HandleClientList returns the user's clients.
func HandleClientList(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		clients, err := services.ListClients(app, owner)
		if err != nil {
			return respondError(e, "clients", err)
		}
		out := make([]clientView, len(clients))
		for i, c := range clients {
			out[i] = viewClient(c)
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleClientGet returns one client.
func HandleClientGet(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		c, err := services.FindClient(app, owner, e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "clients", err)
		}
		return e.JSON(http.StatusOK, viewClient(c))
	}
}

// HandleClientSave creates a client (POST /clients) or updates one
// (PUT /clients/{id}).
func HandleClientSave(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		var in services.ClientInput
		if err := bindJSON(e, &in); err != nil {
			return respondError(e, "clients", err)
		}

		id := e.Request.PathValue("id")
		c, err := services.SaveClient(app, owner, id, in)
		if err != nil {
			return respondError(e, "clients", err)
		}

		status := http.StatusOK
		if id == "" {
			status = http.StatusCreated
			SetToast(e, "success", "Cliente agregado")
		} else {
			SetToast(e, "success", "Cliente actualizado")
		}
		return e.JSON(status, viewClient(c))
	}
}

// HandleClientDelete removes a client.
func HandleClientDelete(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		if err := services.DeleteClient(app, owner, e.Request.PathValue("id")); err != nil {
			return respondError(e, "clients", err)
		}
		SetToast(e, "success", "Cliente eliminado")
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleProductList returns the user's catalog.
func HandleProductList(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		products, err := services.ListProducts(app, owner)
		if err != nil {
			return respondError(e, "products", err)
		}
		out := make([]productView, len(products))
		for i, p := range products {
			out[i] = viewProduct(p)
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleProductGet returns one product.
func HandleProductGet(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		p, err := services.FindProduct(app, owner, e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "products", err)
		}
		return e.JSON(http.StatusOK, viewProduct(p))
	}
}

// HandleProductSave creates or updates a product.
func HandleProductSave(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		var in services.ProductInput
		if err := bindJSON(e, &in); err != nil {
			return respondError(e, "products", err)
		}

		id := e.Request.PathValue("id")
		p, err := services.SaveProduct(app, owner, id, in)
		if err != nil {
			return respondError(e, "products", err)
		}

		status := http.StatusOK
		if id == "" {
			status = http.StatusCreated
			SetToast(e, "success", "Producto agregado")
		} else {
			SetToast(e, "success", "Producto actualizado")
		}
		return e.JSON(status, viewProduct(p))
	}
}

// HandleProductDelete removes a product.
func HandleProductDelete(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		if err := services.DeleteProduct(app, owner, e.Request.PathValue("id")); err != nil {
			return respondError(e, "products", err)
		}
		SetToast(e, "success", "Producto eliminado")
		return e.NoContent(http.StatusNoContent)
	}
}
