package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/services"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"clientId": "x"}}, http.StatusUnprocessableEntity},
		{"not found", &services.NotFoundError{Entity: "sale", ID: "abc"}, http.StatusNotFound},
		{"already converted", fmt.Errorf("convert: %w", services.ErrQuoteAlreadyConverted), http.StatusConflict},
		{"transition", fmt.Errorf("%w: completed -> pending", services.ErrInvalidTransition), http.StatusConflict},
		{"unknown share method", &services.ShareError{Method: "fax", Err: services.ErrUnknownShareMethod}, http.StatusBadRequest},
		{"not rendered", &services.ShareError{Method: "email", Err: services.ErrNotRendered}, http.StatusConflict},
		{"upload failed", &services.ShareError{Method: "email", Err: errors.New("timeout")}, http.StatusBadGateway},
		{"invalid input", &services.InvalidInputError{Field: "range", Reason: "unknown"}, http.StatusBadRequest},
		{"persistence", &services.PersistenceError{Op: "save sale", Err: errors.New("disk full")}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestRespondError_JSONFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/app/clients", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, req, rec, nil)

	verr := &services.ValidationError{}
	verr.Add("name", "Este campo es obligatorio")
	require.NoError(t, respondError(e, "clients", verr))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decodeJSON(t, rec, &body)
	assert.Equal(t, "Este campo es obligatorio", body.Fields["name"])
}

func TestRespondError_HTMXToast(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/app/sales/abc", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, req, rec, nil)

	require.NoError(t, respondError(e, "sales", &services.NotFoundError{Entity: "sale", ID: "abc"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "No encontrado")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "PED-2610-001", sanitizeFilename("PED/2610:001"))
}

func TestRespondError_PassesAPIErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/app/analytics", nil)
	e := newTestRequestEvent(nil, req, httptest.NewRecorder(), nil)

	_, err := ownerID(e)
	require.Error(t, err)
	assert.Same(t, err, respondError(e, "analytics", err))
}
