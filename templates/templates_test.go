package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentPreview(t *testing.T) {
	var buf bytes.Buffer
	err := DocumentPreview(PreviewData{
		Title:       "Cotización <A1B2>",
		FileName:    "cotizacion_A1B2.pdf",
		DataURI:     "data:application/pdf;base64,JVBERi0=",
		DownloadURL: "/api/app/quotes/a1b2/pdf",
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `src="data:application/pdf;base64,JVBERi0="`)
	assert.Contains(t, html, "Cotización &lt;A1B2&gt;")
	assert.NotContains(t, html, "preview-warning")
}

func TestDocumentPreview_Failed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DocumentPreview(PreviewData{Failed: true}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "preview-warning")
}

func TestDashboard(t *testing.T) {
	var buf bytes.Buffer
	err := Dashboard(DashboardData{
		Clients: 3, PendingQuotes: 1, Revenue: "$626.40 MXN",
		Orders: []OrderRow{
			{ID: "s1", OrderNumber: "PED-2610-001", Client: "Ana", Delivery: "17/10/2026", Status: "Pendiente", Urgent: true},
		},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "$626.40 MXN")
	assert.Contains(t, html, `class="order urgent"`)
	assert.Contains(t, html, "PED-2610-001")
}
