package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/services"
	"salesdesk/testhelpers"
)

func multipartRequest(t *testing.T, target, field, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHandleSettings_DefaultsThenSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "settings@example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/app/settings", nil)
	require.NoError(t, HandleSettingsGet(app)(newTestRequestEvent(app, req, rec, user)))
	var s services.Settings
	decodeJSON(t, rec, &s)
	assert.Equal(t, "MXN", s.Currency)
	assert.Equal(t, "es", s.Language)

	rec = httptest.NewRecorder()
	req = jsonRequest(t, http.MethodPut, "/api/app/settings", map[string]any{
		"companyName": "Rótulos Pérez",
		"currency":    "usd",
		"language":    "es-MX",
		"bankAccount": map[string]any{"bank": "BBVA", "accountNumber": "0123"},
	}, nil)
	require.NoError(t, HandleSettingsSave(app)(newTestRequestEvent(app, req, rec, user)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeJSON(t, rec, &s)
	assert.Equal(t, "USD", s.Currency)
	assert.Equal(t, "BBVA", s.Bank.Bank)

	rec = httptest.NewRecorder()
	req = jsonRequest(t, http.MethodPut, "/api/app/settings", map[string]any{"currency": "ZZZ", "language": "es"}, nil)
	require.NoError(t, HandleSettingsSave(app)(newTestRequestEvent(app, req, rec, user)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleLogoUploadAndDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "logo@example.com")

	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/api/app/settings/logo", "logo", "logo.png", pngBytes(t))
	require.NoError(t, HandleLogoUpload(app)(newTestRequestEvent(app, req, rec, user)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var s services.Settings
	decodeJSON(t, rec, &s)
	assert.Contains(t, s.LogoURL, "/api/files/")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/app/settings/logo", nil)
	require.NoError(t, HandleLogoDelete(app)(newTestRequestEvent(app, req, rec, user)))
	decodeJSON(t, rec, &s)
	assert.Empty(t, s.LogoURL)
}

func TestHandleLogoUpload_RejectsNonImage(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "badlogo@example.com")

	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/api/app/settings/logo", "logo", "logo.png", []byte("%PDF-1.4 not an image"))
	require.NoError(t, HandleLogoUpload(app)(newTestRequestEvent(app, req, rec, user)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "PNG o JPEG")
}
