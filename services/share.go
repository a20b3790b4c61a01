package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ShareMethod is a delivery channel for a rendered document.
type ShareMethod string

const (
	ShareDownload ShareMethod = "download"
	ShareEmail    ShareMethod = "email"
	ShareWhatsApp ShareMethod = "whatsapp"
)

var (
	// ErrUnknownShareMethod is wrapped in the ShareError for an unsupported method.
	ErrUnknownShareMethod = errors.New("unknown share method")
	// ErrNotRendered is wrapped in the ShareError for an error document.
	ErrNotRendered = errors.New("document could not be rendered")
)

const downloadLinkText = "\n\nPuedes descargar el documento aquí: "

// ShareRequest carries the recipient and text for a share.
type ShareRequest struct {
	Method  ShareMethod
	Email   string
	Phone   string
	Subject string
	Message string
}

// ShareResult describes a completed share. Download results carry the bytes;
// email and WhatsApp results carry the uploaded URL and the link to open.
type ShareResult struct {
	ID       string
	Method   ShareMethod
	FileName string
	Bytes    []byte
	URL      string
	Link     string
}

// Dispatcher delivers rendered documents.
type Dispatcher struct {
	Uploader Uploader
	Timeout  time.Duration
}

// Share delivers doc using req.Method. Upload failures are returned as
// ShareError and never fall back to a download.
func (d *Dispatcher) Share(ctx context.Context, owner string, doc *RenderedDocument, req ShareRequest) (*ShareResult, error) {
	if doc == nil || doc.Failed || len(doc.Bytes) == 0 {
		return nil, &ShareError{Method: string(req.Method), Err: ErrNotRendered}
	}

	result := &ShareResult{ID: uuid.NewString(), Method: req.Method, FileName: doc.FileName}

	switch req.Method {
	case ShareDownload:
		result.Bytes = doc.Bytes
		return result, nil
	case ShareEmail, ShareWhatsApp:
	default:
		return nil, &ShareError{Method: string(req.Method), Err: fmt.Errorf("%w %q", ErrUnknownShareMethod, req.Method)}
	}

	if d.Uploader == nil {
		return nil, &ShareError{Method: string(req.Method), Err: errors.New("no uploader configured")}
	}

	uploadCtx := ctx
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	link, err := d.Uploader.Upload(uploadCtx, owner, doc.FileName, doc.Bytes)
	if err != nil {
		log.Printf("share: upload %s for %s failed: %v", result.ID, req.Method, err)
		return nil, &ShareError{Method: string(req.Method), Err: err}
	}
	result.URL = link

	if req.Method == ShareEmail {
		result.Link = EmailLink(req.Email, req.Subject, req.Message, link)
	} else {
		result.Link = WhatsAppLink(req.Phone, req.Message, link)
	}
	return result, nil
}

// EmailLink builds a mailto: URL whose body ends with the download link.
func EmailLink(recipient, subject, message, pdfURL string) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		recipient, encodeComponent(subject), encodeComponent(message+downloadLinkText+pdfURL))
}

// WhatsAppLink builds a wa.me URL for phone (digits only) with the message
// and download link. An empty phone lets the user pick a chat.
func WhatsAppLink(phone, message, pdfURL string) string {
	text := encodeComponent(message + downloadLinkText + pdfURL)
	digits := onlyDigits(phone)
	if digits == "" {
		return "https://wa.me/?text=" + text
	}
	return "https://wa.me/" + digits + "?text=" + text
}

// encodeComponent escapes s for use inside a URL query value, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
