package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/testhelpers"
)

func TestHandleImport_Clients(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "import@example.com")

	csv := "Nombre,Email,Teléfono\nAna Ruiz,ana@example.com,555\n,sin@example.com,\n"
	req := multipartRequest(t, "/api/app/import", "file", "clientes.csv", []byte(csv))
	rec := httptest.NewRecorder()
	require.NoError(t, HandleImport(app, 100)(newTestRequestEvent(app, req, rec, user)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Kind     string `json:"kind"`
		Imported int    `json:"imported"`
		Errors   []struct {
			Row int `json:"row"`
		} `json:"errors"`
	}
	decodeJSON(t, rec, &res)
	assert.Equal(t, "clients", res.Kind)
	assert.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "warning")
}

func TestHandleImport_ErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "report@example.com")

	csv := "Nombre del Producto,Tipo,Precio\nCubo,m3,10\n"
	req := multipartRequest(t, "/api/app/import?report=xlsx", "file", "productos.csv", []byte(csv))
	rec := httptest.NewRecorder()
	require.NoError(t, HandleImport(app, 100)(newTestRequestEvent(app, req, rec, user)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "errores_importacion.xlsx")
}

func TestHandleImport_MissingFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "nofile@example.com")

	req := multipartRequest(t, "/api/app/import", "other", "x.csv", []byte("a"))
	rec := httptest.NewRecorder()
	require.NoError(t, HandleImport(app, 100)(newTestRequestEvent(app, req, rec, user)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
