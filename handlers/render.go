package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/services"
	"salesdesk/templates"
)

// renderRequested loads and renders the document named by the path.
func renderRequested(e *core.RequestEvent, r *services.Renderer) (*services.Document, *services.RenderedDocument, error) {
	owner, err := ownerID(e)
	if err != nil {
		return nil, nil, err
	}
	kind, ok := kindParam(e)
	if !ok {
		return nil, nil, &services.NotFoundError{Entity: "document kind", ID: e.Request.PathValue("kind")}
	}
	return r.Render(e.Request.Context(), kind, owner, e.Request.PathValue("id"))
}

// HandleDocumentPDF downloads a quote or sale as PDF. A failed render is
// served as the error document.
func HandleDocumentPDF(r *services.Renderer) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		_, rendered, err := renderRequested(e, r)
		if err != nil {
			return respondError(e, "pdf", err)
		}
		if rendered.Failed {
			e.Response.Header().Set("X-Render-Failed", "true")
		}
		return attachment(e, "application/pdf", rendered.FileName, rendered.Bytes)
	}
}

// HandleDocumentPreview shows the rendered PDF inline.
func HandleDocumentPreview(r *services.Renderer) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, rendered, err := renderRequested(e, r)
		if err != nil {
			return respondError(e, "preview", err)
		}

		ref := doc.ShortID()
		if doc.OrderNumber != "" {
			ref = doc.OrderNumber
		}
		data := templates.PreviewData{
			Title:       fmt.Sprintf("%s %s", doc.Title(), ref),
			FileName:    rendered.FileName,
			DataURI:     rendered.DataURI(),
			DownloadURL: strings.TrimSuffix(e.Request.URL.Path, "/preview") + "/pdf",
			Failed:      rendered.Failed,
		}
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return templates.DocumentPreview(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleDraftPreview renders the submitted, unsaved form so the editor can
// check the document before saving it. Nothing is written.
func HandleDraftPreview(app core.App, r *services.Renderer, kind services.Kind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		owner, err := ownerID(e)
		if err != nil {
			return err
		}
		var in services.DocumentInput
		if err := bindJSON(e, &in); err != nil {
			return respondError(e, "preview", err)
		}
		form, err := services.FormFromInput(app, owner, kind, in, nil)
		if err != nil {
			return respondError(e, "preview", err)
		}
		doc, err := form.Build(owner)
		if err != nil {
			return respondError(e, "preview", err)
		}
		doc.ID = uuid.NewString()
		doc.Status = services.StatusPending
		doc.Created = now()

		rendered, err := r.RenderDraft(e.Request.Context(), owner, doc)
		if err != nil {
			return respondError(e, "preview", err)
		}
		data := templates.PreviewData{
			Title:       doc.Title() + " (borrador)",
			FileName:    rendered.FileName,
			DataURI:     rendered.DataURI(),
			DownloadURL: rendered.DataURI(),
			Failed:      rendered.Failed,
		}
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return templates.DocumentPreview(data).Render(e.Request.Context(), e.Response)
	}
}

type shareInput struct {
	Method  string `json:"method" validate:"required,oneof=download email whatsapp"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"max=2000"`
}

type shareView struct {
	ID       string `json:"id"`
	Method   string `json:"method"`
	FileName string `json:"fileName"`
	URL      string `json:"url"`
	Link     string `json:"link"`
}

// HandleDocumentShare renders a document and delivers it by download, email
// or WhatsApp. Email and WhatsApp answer with the link for the client to open.
func HandleDocumentShare(r *services.Renderer, d *services.Dispatcher) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in shareInput
		if err := bindJSON(e, &in); err != nil {
			return respondError(e, "share", err)
		}
		if in.Method != "" && in.Method != "download" && in.Method != "email" && in.Method != "whatsapp" {
			return respondError(e, "share", &services.ShareError{
				Method: in.Method,
				Err:    services.ErrUnknownShareMethod,
			})
		}
		if err := services.ValidateStruct(in); err != nil {
			return respondError(e, "share", err)
		}

		doc, rendered, err := renderRequested(e, r)
		if err != nil {
			return respondError(e, "share", err)
		}

		req := services.ShareRequest{
			Method:  services.ShareMethod(in.Method),
			Email:   strings.TrimSpace(in.Email),
			Phone:   in.Phone,
			Subject: in.Subject,
			Message: in.Message,
		}
		if req.Email == "" {
			req.Email = doc.Client.Email
		}
		if req.Phone == "" {
			req.Phone = doc.Client.Phone
		}
		if req.Subject == "" {
			req.Subject = strings.TrimSuffix(rendered.FileName, ".pdf")
		}
		if req.Message == "" {
			req.Message = fmt.Sprintf("Hola %s, te compartimos tu documento.", doc.Client.Name)
		}

		owner, _ := ownerID(e)
		res, err := d.Share(e.Request.Context(), owner, rendered, req)
		if err != nil {
			return respondError(e, "share", err)
		}

		if res.Method == services.ShareDownload {
			return attachment(e, "application/pdf", res.FileName, res.Bytes)
		}
		return e.JSON(http.StatusOK, shareView{
			ID:       res.ID,
			Method:   string(res.Method),
			FileName: res.FileName,
			URL:      res.URL,
			Link:     res.Link,
		})
	}
}
