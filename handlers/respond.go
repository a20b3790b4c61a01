package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"

	"salesdesk/services"
)

// now is swapped in tests.
var now = time.Now

// ownerID returns the authenticated user's id.
func ownerID(e *core.RequestEvent) (string, error) {
	if e.Auth == nil {
		return "", e.UnauthorizedError("Inicia sesión para continuar", nil)
	}
	return e.Auth.Id, nil
}

// errorStatus maps a service error to its HTTP status and user message.
func errorStatus(err error) (int, string) {
	var (
		verr  *services.ValidationError
		nf    *services.NotFoundError
		inv   *services.InvalidInputError
		share *services.ShareError
		pers  *services.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, "Revisa los campos marcados"
	case errors.As(err, &nf):
		return http.StatusNotFound, "No encontrado"
	case errors.Is(err, services.ErrQuoteAlreadyConverted):
		return http.StatusConflict, "La cotización ya fue convertida en venta"
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict, "Cambio de estado no permitido"
	case errors.As(err, &share):
		switch {
		case errors.Is(err, services.ErrUnknownShareMethod):
			return http.StatusBadRequest, "Método de envío no válido"
		case errors.Is(err, services.ErrNotRendered):
			return http.StatusConflict, "No se pudo generar el documento"
		}
		return http.StatusBadGateway, "No se pudo subir el documento para compartir"
	case errors.As(err, &inv):
		return http.StatusBadRequest, inv.Error()
	case errors.As(err, &pers):
		return http.StatusInternalServerError, "Error al guardar los datos"
	}
	return http.StatusInternalServerError, "Error inesperado"
}

// respondError logs err under area and writes it as a toast for HTMX
// requests or as JSON otherwise.
func respondError(e *core.RequestEvent, area string, err error) error {
	var apiErr *router.ApiError
	if errors.As(err, &apiErr) {
		return err
	}

	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
		log.Printf("%s: %v", area, err)
	}

	if e.Request.Header.Get("HX-Request") == "true" {
		return ErrorToast(e, status, msg)
	}

	body := map[string]any{"error": msg}
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	return e.JSON(status, body)
}

// bindJSON decodes the request body into dst.
func bindJSON(e *core.RequestEvent, dst any) error {
	if err := e.BindBody(dst); err != nil {
		verr := &services.ValidationError{}
		verr.Add("body", "Solicitud inválida")
		return fmt.Errorf("%w: %v", verr, err)
	}
	return nil
}

// kindParam reads the {kind} path segment: quotes or sales.
func kindParam(e *core.RequestEvent) (services.Kind, bool) {
	switch e.Request.PathValue("kind") {
	case "quotes":
		return services.KindQuote, true
	case "sales":
		return services.KindSale, true
	}
	return "", false
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	return strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-", `"`, "").Replace(s)
}

func attachment(e *core.RequestEvent, contentType, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sanitizeFilename(filename)))
	_, err := e.Response.Write(data)
	return err
}
