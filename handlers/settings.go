package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"salesdesk/services"
)

const maxLogoUpload = 2 << 20

// HandleSettingsGet returns the user's settings, defaults when unsaved.
func HandleSettingsGet(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		s, err := services.LoadSettings(app, owner)
		if err != nil {
			return respondError(e, "settings", err)
		}
		return e.JSON(http.StatusOK, s)
	}
}

// HandleSettingsSave replaces the user's settings. The logo is managed by
// the logo endpoints.
func HandleSettingsSave(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		var in services.Settings
		if err := bindJSON(e, &in); err != nil {
			return respondError(e, "settings", err)
		}
		s, err := services.SaveSettings(app, owner, in)
		if err != nil {
			return respondError(e, "settings", err)
		}
		SetToast(e, "success", "Configuración guardada")
		return e.JSON(http.StatusOK, s)
	}
}

// HandleLogoUpload stores a PNG or JPEG sent as the "logo" multipart field.
func HandleLogoUpload(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}

		file, header, err := e.Request.FormFile("logo")
		if err != nil {
			return respondError(e, "settings", logoError("Selecciona una imagen"))
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxLogoUpload+1))
		if err != nil {
			return respondError(e, "settings", logoError("No se pudo leer la imagen"))
		}
		if len(data) > maxLogoUpload {
			return respondError(e, "settings", logoError("La imagen no debe exceder 2MB"))
		}
		if _, err := services.DecodeLogo(data); err != nil {
			if errors.Is(err, services.ErrUnsupportedLogo) {
				return respondError(e, "settings", logoError("El logo debe ser PNG o JPEG"))
			}
			return respondError(e, "settings", err)
		}

		f, err := filesystem.NewFileFromBytes(data, header.Filename)
		if err != nil {
			return respondError(e, "settings", err)
		}
		s, err := services.SetLogo(app, owner, f)
		if err != nil {
			return respondError(e, "settings", err)
		}
		SetToast(e, "success", "Logo actualizado")
		return e.JSON(http.StatusOK, s)
	}
}

// HandleLogoDelete removes the uploaded or linked logo.
func HandleLogoDelete(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		s, err := services.RemoveLogo(app, owner)
		if err != nil {
			return respondError(e, "settings", err)
		}
		SetToast(e, "success", "Logo eliminado")
		return e.JSON(http.StatusOK, s)
	}
}

func logoError(msg string) error {
	verr := &services.ValidationError{}
	verr.Add("logo", msg)
	return verr
}
