package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"salesdesk/services"
)

// HandleImport imports clients or products from the "file" multipart field.
// ?report=xlsx answers with the row errors as a spreadsheet instead of JSON.
func HandleImport(app core.App, maxRows int) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			verr := &services.ValidationError{}
			verr.Add("file", "Selecciona un archivo .xlsx o .csv")
			return respondError(e, "import", verr)
		}
		defer file.Close()

		result, err := services.ImportSheet(app, owner, header.Filename, file, maxRows)
		if err != nil {
			return respondError(e, "import", err)
		}

		if e.Request.URL.Query().Get("report") == "xlsx" && len(result.Errors) > 0 {
			report, err := services.GenerateErrorReport(result.Errors)
			if err != nil {
				return respondError(e, "import", err)
			}
			return attachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
				"errores_importacion.xlsx", report)
		}

		toastType := "success"
		if len(result.Errors) > 0 {
			toastType = "warning"
		}
		SetToast(e, toastType, result.Message())
		return e.JSON(http.StatusOK, result)
	}
}
