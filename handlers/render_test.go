package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/services"
	"salesdesk/testhelpers"
)

type stubUploader struct {
	url string
	err error
}

func (s *stubUploader) Upload(ctx context.Context, owner, filename string, data []byte) (string, error) {
	return s.url, s.err
}

func newRenderer(app core.App) *services.Renderer {
	return &services.Renderer{App: app, Logos: &services.LogoLoader{App: app}}
}

func TestHandleDocumentPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "pdf@example.com")
	client := testhelpers.CreateTestClient(t, app, user.Id, "Ana Ruiz")
	sale := testhelpers.CreateTestSale(t, app, user.Id, client, "PED-2610-007", "pending", 626.40)

	req := httptest.NewRequest(http.MethodGet, "/api/app/sales/"+sale.Id+"/pdf", nil)
	req.SetPathValue("kind", "sales")
	req.SetPathValue("id", sale.Id)
	rec := httptest.NewRecorder()
	require.NoError(t, HandleDocumentPDF(newRenderer(app))(newTestRequestEvent(app, req, rec, user)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "venta_PED-2610-007.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	assert.Empty(t, rec.Header().Get("X-Render-Failed"))
}

func TestHandleDocumentPDF_UnknownKind(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "kind@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/app/invoices/x/pdf", nil)
	req.SetPathValue("kind", "invoices")
	req.SetPathValue("id", "x")
	rec := httptest.NewRecorder()
	require.NoError(t, HandleDocumentPDF(newRenderer(app))(newTestRequestEvent(app, req, rec, user)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDocumentPreview(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "preview@example.com")
	quote := testhelpers.CreateTestQuote(t, app, user.Id, nil, 626.40)

	req := httptest.NewRequest(http.MethodGet, "/api/app/quotes/"+quote.Id+"/preview", nil)
	req.SetPathValue("kind", "quotes")
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	require.NoError(t, HandleDocumentPreview(newRenderer(app))(newTestRequestEvent(app, req, rec, user)))

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"<iframe",
		"data:application/pdf;base64,",
		"/api/app/quotes/"+quote.Id+"/pdf",
		"COTIZACIÓN "+strings.ToUpper(quote.Id[:8]),
	)
}

func TestHandleDocumentShare(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "share@example.com")
	client := testhelpers.CreateTestClient(t, app, user.Id, "Ana Ruiz")
	quote := testhelpers.CreateTestQuote(t, app, user.Id, client, 626.40)
	path := map[string]string{"kind": "quotes", "id": quote.Id}

	tests := []struct {
		name     string
		body     map[string]any
		uploader *stubUploader
		code     int
		check    func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:     "whatsapp",
			body:     map[string]any{"method": "whatsapp", "phone": "+52 (55) 1234-5678", "message": "Hola"},
			uploader: &stubUploader{url: "https://files.example.com/q.pdf"},
			code:     http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var v shareView
				decodeJSON(t, rec, &v)
				assert.Equal(t, "https://files.example.com/q.pdf", v.URL)
				assert.True(t, strings.HasPrefix(v.Link, "https://wa.me/525512345678?text=Hola"), v.Link)
				assert.NotEmpty(t, v.ID)
			},
		},
		{
			name:     "download",
			body:     map[string]any{"method": "download"},
			uploader: &stubUploader{},
			code:     http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
			},
		},
		{
			name:     "upload failure",
			body:     map[string]any{"method": "email", "email": "ana@example.com"},
			uploader: &stubUploader{err: errors.New("bucket unavailable")},
			code:     http.StatusBadGateway,
		},
		{
			name:     "unknown method",
			body:     map[string]any{"method": "fax"},
			uploader: &stubUploader{},
			code:     http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &services.Dispatcher{Uploader: tt.uploader}
			req := jsonRequest(t, http.MethodPost, "/api/app/quotes/"+quote.Id+"/share", tt.body, path)
			rec := httptest.NewRecorder()
			require.NoError(t, HandleDocumentShare(newRenderer(app), d)(newTestRequestEvent(app, req, rec, user)))
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, rec)
			}
		})
	}
}

func TestHandleDraftPreview(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "draft@example.com")
	client := testhelpers.CreateTestClient(t, app, user.Id, "Ana Ruiz")
	product := testhelpers.CreateTestProduct(t, app, user.Id, "Lona", "area", 100)

	body := map[string]any{
		"clientId":        client.Id,
		"items":           []map[string]any{{"productId": product.Id, "length": 2, "width": 3}},
		"discountPercent": 10,
	}
	req := jsonRequest(t, http.MethodPost, "/api/app/quotes/preview", body, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, HandleDraftPreview(app, newRenderer(app), services.KindQuote)(newTestRequestEvent(app, req, rec, user)))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"COTIZACIÓN (borrador)",
		"data:application/pdf;base64,",
	)

	n, err := app.CountRecords("quotes")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHandleDraftPreview_Invalid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "draft-bad@example.com")

	req := jsonRequest(t, http.MethodPost, "/api/app/sales/preview", map[string]any{"paymentMethod": "cash"}, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, HandleDraftPreview(app, newRenderer(app), services.KindSale)(newTestRequestEvent(app, req, rec, user)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
