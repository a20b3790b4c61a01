package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/sync/errgroup"
)

// Renderer gathers a document's client, settings and logo and renders it.
type Renderer struct {
	App         core.App
	Logos       *LogoLoader
	LogoTimeout time.Duration
}

// Render loads owner's document and renders it. Only a missing document or
// a store failure is returned as an error; rendering problems come back as
// an error document.
func (r *Renderer) Render(ctx context.Context, kind Kind, owner, id string) (*Document, *RenderedDocument, error) {
	var (
		doc      *Document
		client   ClientSnapshot
		settings Settings
		logo     *Logo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doc, err = FindDocument(r.App, kind, owner, id)
		if err != nil {
			return err
		}
		client = r.documentClient(owner, doc)
		return nil
	})
	g.Go(func() error {
		var err error
		settings, logo, err = r.loadBranding(gctx, owner)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return doc, RenderDocument(doc, client, settings, logo), nil
}

// RenderDraft renders an unsaved document, used for previews while editing.
func (r *Renderer) RenderDraft(ctx context.Context, owner string, doc *Document) (*RenderedDocument, error) {
	settings, logo, err := r.loadBranding(ctx, owner)
	if err != nil {
		return nil, err
	}
	return RenderDocument(doc, doc.Client, settings, logo), nil
}

// documentClient is the client as it was saved on doc, so later edits to the
// client record never change an issued document. Legacy records saved
// without a snapshot take their missing fields from the client record.
func (r *Renderer) documentClient(owner string, doc *Document) ClientSnapshot {
	snap := doc.Client
	if doc.ClientID == "" || snap.Name != "" {
		return snap
	}
	c, err := FindClient(r.App, owner, doc.ClientID)
	if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			log.Printf("render: could not load client %s: %v", doc.ClientID, err)
		}
		return snap
	}

	live := c.Snapshot()
	snap.Name = live.Name
	if snap.Email == "" {
		snap.Email = live.Email
	}
	if snap.Phone == "" {
		snap.Phone = live.Phone
	}
	if snap.Address == "" {
		snap.Address = live.Address
	}
	return snap
}

// loadBranding returns settings and the logo. A logo that cannot be loaded is
// logged and dropped so the document still renders.
func (r *Renderer) loadBranding(ctx context.Context, owner string) (Settings, *Logo, error) {
	settings, err := LoadSettings(r.App, owner)
	if err != nil {
		return Settings{}, nil, err
	}
	if r.Logos == nil || !settings.HasLogo() {
		return settings, nil, nil
	}

	logoCtx := ctx
	if r.LogoTimeout > 0 {
		var cancel context.CancelFunc
		logoCtx, cancel = context.WithTimeout(ctx, r.LogoTimeout)
		defer cancel()
	}
	logo, err := r.Logos.Load(logoCtx, settings)
	if err != nil {
		log.Printf("render: logo unavailable for %s, rendering without it: %v", owner, err)
		return settings, nil, nil
	}
	return settings, logo, nil
}
