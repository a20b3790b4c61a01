package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"salesdesk/services"
)

var kindLabels = map[services.Kind]string{
	services.KindQuote: "Cotización",
	services.KindSale:  "Venta",
}

// HandleDocumentList lists quotes newest first, or sales by nearest delivery
// date. ?status= filters by lifecycle status.
func HandleDocumentList(app core.App, kind services.Kind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}

		status := services.Status(e.Request.URL.Query().Get("status"))
		if status != "" && !services.ValidStatus(kind, status) {
			verr := &services.ValidationError{}
			verr.Add("status", "Estado desconocido")
			return respondError(e, string(kind), verr)
		}

		at := now()
		if kind == services.KindSale {
			orders, err := services.ListOrders(app, owner, status, at)
			if err != nil {
				return respondError(e, "sales", err)
			}
			out := make([]documentView, len(orders))
			for i, o := range orders {
				out[i] = viewDocument(o.Document, at)
			}
			return e.JSON(http.StatusOK, out)
		}

		docs, err := services.ListDocuments(app, kind, owner, status)
		if err != nil {
			return respondError(e, "quotes", err)
		}
		return e.JSON(http.StatusOK, viewDocuments(docs, at))
	}
}

// HandleDocumentGet returns one quote or sale.
func HandleDocumentGet(app core.App, kind services.Kind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		doc, err := services.FindDocument(app, kind, owner, e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, string(kind), err)
		}
		return e.JSON(http.StatusOK, viewDocument(doc, now()))
	}
}

// HandleDocumentSave creates a document (POST) or replaces an editable one
// (PUT /{id}). The total is always recomputed from the submitted items.
func HandleDocumentSave(app core.App, kind services.Kind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		var in services.DocumentInput
		if err := bindJSON(e, &in); err != nil {
			return respondError(e, string(kind), err)
		}

		var existing *services.Document
		if id := e.Request.PathValue("id"); id != "" {
			existing, err = services.FindDocument(app, kind, owner, id)
			if err != nil {
				return respondError(e, string(kind), err)
			}
			if err := checkEditable(existing); err != nil {
				return respondError(e, string(kind), err)
			}
		}

		form, err := services.FormFromInput(app, owner, kind, in, existing)
		if err != nil {
			return respondError(e, string(kind), err)
		}
		doc, err := form.Build(owner)
		if err != nil {
			return respondError(e, string(kind), err)
		}
		if existing != nil {
			doc.ID = existing.ID
			doc.Status = existing.Status
			doc.OrderNumber = existing.OrderNumber
			doc.QuoteID = existing.QuoteID
			doc.ConvertedAt = existing.ConvertedAt
		}

		at := now()
		if err := services.SaveDocument(app, doc, at); err != nil {
			return respondError(e, string(kind), err)
		}

		status := http.StatusOK
		verb := "actualizada"
		if existing == nil {
			status = http.StatusCreated
			verb = "guardada"
		}
		SetToast(e, "success", fmt.Sprintf("%s %s", kindLabels[kind], verb))
		return e.JSON(status, viewDocument(doc, at))
	}
}

func checkEditable(d *services.Document) error {
	switch {
	case d.Kind == services.KindQuote && d.Status == services.StatusConverted:
		return services.ErrQuoteAlreadyConverted
	case d.Kind == services.KindSale && d.Status == services.StatusCancelled:
		return fmt.Errorf("%w: cancelled sales cannot be edited", services.ErrInvalidTransition)
	}
	return nil
}

// HandleDocumentDelete removes a document the lifecycle allows deleting.
func HandleDocumentDelete(app core.App, kind services.Kind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		if err := services.DeleteDocument(app, kind, owner, e.Request.PathValue("id")); err != nil {
			return respondError(e, string(kind), err)
		}
		SetToast(e, "success", kindLabels[kind]+" eliminada")
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleQuoteSend marks a quote as sent.
func HandleQuoteSend(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		doc, err := services.UpdateStatus(app, services.KindQuote, owner, e.Request.PathValue("id"), services.StatusSent)
		if err != nil {
			return respondError(e, "quotes", err)
		}
		return e.JSON(http.StatusOK, viewDocument(doc, now()))
	}
}

// HandleQuoteConvert turns a quote into a pending sale.
func HandleQuoteConvert(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		at := now()
		sale, err := services.ConvertQuote(app, owner, e.Request.PathValue("id"), at)
		if err != nil {
			return respondError(e, "quotes", err)
		}
		SetToast(e, "success", "Cotización convertida en venta "+sale.OrderNumber)
		return e.JSON(http.StatusCreated, viewDocument(sale, at))
	}
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

// HandleSaleStatus changes a sale's status.
func HandleSaleStatus(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		var in statusInput
		if err := bindJSON(e, &in); err != nil {
			return respondError(e, "sales", err)
		}
		if err := services.ValidateStruct(in); err != nil {
			return respondError(e, "sales", err)
		}
		status := services.Status(in.Status)
		if !services.ValidStatus(services.KindSale, status) {
			verr := &services.ValidationError{}
			verr.Add("status", "Estado desconocido")
			return respondError(e, "sales", verr)
		}

		doc, err := services.UpdateStatus(app, services.KindSale, owner, e.Request.PathValue("id"), status)
		if err != nil {
			return respondError(e, "sales", err)
		}
		SetToast(e, "success", "Estado actualizado a "+status.Label())
		return e.JSON(http.StatusOK, viewDocument(doc, now()))
	}
}
