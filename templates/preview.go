package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// PreviewData drives the inline document viewer.
type PreviewData struct {
	Title       string
	FileName    string
	DataURI     string
	DownloadURL string
	Failed      bool
}

// DocumentPreview embeds a rendered PDF in an iframe with a download link.
func DocumentPreview(d PreviewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="document-preview"><header><h2>%s</h2><a href="%s" download="%s">Descargar PDF</a></header>`,
			templ.EscapeString(d.Title), templ.EscapeString(d.DownloadURL), templ.EscapeString(d.FileName))
		if err != nil {
			return err
		}
		if d.Failed {
			if _, err := io.WriteString(w, `<p class="preview-warning">No se pudo generar el documento completo.</p>`); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(w, `<iframe title="%s" src="%s" width="100%%" height="800"></iframe></div>`,
			templ.EscapeString(d.FileName), templ.EscapeString(d.DataURI))
		return err
	})
}
