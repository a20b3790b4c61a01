package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/testhelpers"
)

type fakeUploader struct {
	url   string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeUploader) Upload(ctx context.Context, owner, filename string, data []byte) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func renderedSample() *RenderedDocument {
	return &RenderedDocument{Bytes: []byte("%PDF-1.3 sample"), FileName: "cotizacion_ABC.pdf", Pages: 1}
}

func TestShare_Download(t *testing.T) {
	up := &fakeUploader{}
	d := &Dispatcher{Uploader: up}

	res, err := d.Share(context.Background(), "u1", renderedSample(), ShareRequest{Method: ShareDownload})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3 sample"), res.Bytes)
	assert.Equal(t, "cotizacion_ABC.pdf", res.FileName)
	assert.Equal(t, 0, up.calls, "download never touches the network")
}

func TestShare_Email(t *testing.T) {
	up := &fakeUploader{url: "https://files.example.com/doc.pdf"}
	d := &Dispatcher{Uploader: up}

	res, err := d.Share(context.Background(), "u1", renderedSample(), ShareRequest{
		Method:  ShareEmail,
		Email:   "ana@example.com",
		Subject: "Cotización",
		Message: "Hola Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/doc.pdf", res.URL)
	assert.True(t, strings.HasPrefix(res.Link, "mailto:ana@example.com?subject=Cotizaci%C3%B3n&body=Hola%20Ana"))
	assert.Contains(t, res.Link, "https%3A%2F%2Ffiles.example.com%2Fdoc.pdf")
}

func TestShare_WhatsApp(t *testing.T) {
	up := &fakeUploader{url: "https://files.example.com/doc.pdf"}
	d := &Dispatcher{Uploader: up}

	res, err := d.Share(context.Background(), "u1", renderedSample(), ShareRequest{
		Method:  ShareWhatsApp,
		Phone:   "+52 (55) 1234-5678",
		Message: "Su ticket",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Link, "https://wa.me/525512345678?text=Su%20ticket"))
}

func TestShare_UploadFailureDoesNotFallBack(t *testing.T) {
	up := &fakeUploader{err: errors.New("storage offline")}
	d := &Dispatcher{Uploader: up}

	res, err := d.Share(context.Background(), "u1", renderedSample(), ShareRequest{Method: ShareEmail})
	assert.Nil(t, res)
	var serr *ShareError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "email", serr.Method)
}

func TestShare_Timeout(t *testing.T) {
	up := &fakeUploader{url: "x", delay: time.Second}
	d := &Dispatcher{Uploader: up, Timeout: 20 * time.Millisecond}

	_, err := d.Share(context.Background(), "u1", renderedSample(), ShareRequest{Method: ShareWhatsApp})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestShare_Rejects(t *testing.T) {
	d := &Dispatcher{Uploader: &fakeUploader{url: "x"}}

	_, err := d.Share(context.Background(), "u1", renderedSample(), ShareRequest{Method: "fax"})
	var serr *ShareError
	assert.True(t, errors.As(err, &serr))

	failed := &RenderedDocument{Failed: true, Bytes: []byte("%PDF"), Err: errors.New("boom")}
	_, err = d.Share(context.Background(), "u1", failed, ShareRequest{Method: ShareDownload})
	assert.True(t, errors.As(err, &serr))
}

func TestWhatsAppLink_NoPhone(t *testing.T) {
	link := WhatsAppLink("", "Hola", "https://x.test/a.pdf")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/?text=Hola"))
}

func TestBlobStore_Upload(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "share@example.com")

	store := &BlobStore{App: app, PublicURL: "https://ventas.example.com"}
	link, err := store.Upload(context.Background(), user.Id, "cotizacion_ABC.pdf", []byte("%PDF-1.4\n%%EOF\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://ventas.example.com/api/files/shared_documents/"))
	assert.True(t, strings.HasSuffix(link, ".pdf"))

	// the stored blob is readable back through the app filesystem
	parts := strings.Split(link, "/")
	rec, err := app.FindRecordById("shared_documents", parts[len(parts)-2])
	require.NoError(t, err)
	fsys, err := app.NewFilesystem()
	require.NoError(t, err)
	defer fsys.Close()
	r, err := fsys.GetReader(rec.BaseFilesPath() + "/" + rec.GetString("file"))
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4\n%%EOF\n", string(b))
}
