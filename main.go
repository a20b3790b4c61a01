package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/collections"
	"salesdesk/config"
	"salesdesk/handlers"
	"salesdesk/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := services.SetDefaults(cfg.DefaultLanguage, cfg.DefaultCurrency); err != nil {
		log.Fatalf("config: %v", err)
	}

	app := pocketbase.New()

	renderer := &services.Renderer{
		App:         app,
		Logos:       &services.LogoLoader{App: app},
		LogoTimeout: cfg.LogoTimeout,
	}
	dispatcher := &services.Dispatcher{
		Uploader: &services.BlobStore{App: app, PublicURL: cfg.PublicURL},
		Timeout:  cfg.ShareTimeout,
	}

	app.RootCmd.AddCommand(newRenderCommand(app, renderer))

	// Create collections, migrate legacy data and seed on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if n, err := collections.MigrateLegacyLineItems(app); err != nil {
			log.Printf("Warning: line item migration failed: %v", err)
		} else if n > 0 {
			log.Printf("migrated legacy line items in %d documents", n)
		}
		if cfg.SeedDemo {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		g := se.Router.Group("/api/app")
		g.Bind(apis.RequireAuth())
		g.BindFunc(handlers.SettingsMiddleware(app))

		// ── Clients ─────────────────────────────────────────────
		g.GET("/clients", handlers.HandleClientList(app))
		g.POST("/clients", handlers.HandleClientSave(app))
		g.GET("/clients/{id}", handlers.HandleClientGet(app))
		g.PUT("/clients/{id}", handlers.HandleClientSave(app))
		g.DELETE("/clients/{id}", handlers.HandleClientDelete(app))

		// ── Products ────────────────────────────────────────────
		g.GET("/products", handlers.HandleProductList(app))
		g.POST("/products", handlers.HandleProductSave(app))
		g.GET("/products/{id}", handlers.HandleProductGet(app))
		g.PUT("/products/{id}", handlers.HandleProductSave(app))
		g.DELETE("/products/{id}", handlers.HandleProductDelete(app))

		// ── Quotes and sales ────────────────────────────────────
		// quotes and sales share handlers; only the lifecycle routes differ
		for _, k := range []struct {
			slug string
			kind services.Kind
		}{
			{"quotes", services.KindQuote},
			{"sales", services.KindSale},
		} {
			g.GET("/"+k.slug, handlers.HandleDocumentList(app, k.kind))
			g.POST("/"+k.slug, handlers.HandleDocumentSave(app, k.kind))
			g.GET("/"+k.slug+"/{id}", handlers.HandleDocumentGet(app, k.kind))
			g.PUT("/"+k.slug+"/{id}", handlers.HandleDocumentSave(app, k.kind))
			g.DELETE("/"+k.slug+"/{id}", handlers.HandleDocumentDelete(app, k.kind))
			g.POST("/"+k.slug+"/preview", handlers.HandleDraftPreview(app, renderer, k.kind))
		}
		g.POST("/quotes/{id}/send", handlers.HandleQuoteSend(app))
		g.POST("/quotes/{id}/convert", handlers.HandleQuoteConvert(app))
		g.PATCH("/sales/{id}/status", handlers.HandleSaleStatus(app))

		// ── Rendering and sharing ───────────────────────────────
		g.GET("/{kind}/{id}/pdf", handlers.HandleDocumentPDF(renderer))
		g.GET("/{kind}/{id}/preview", handlers.HandleDocumentPreview(renderer))
		g.POST("/{kind}/{id}/share", handlers.HandleDocumentShare(renderer, dispatcher))

		// ── Settings ────────────────────────────────────────────
		g.GET("/settings", handlers.HandleSettingsGet(app))
		g.PUT("/settings", handlers.HandleSettingsSave(app))
		g.POST("/settings/logo", handlers.HandleLogoUpload(app))
		g.DELETE("/settings/logo", handlers.HandleLogoDelete(app))

		// ── Import, analytics, dashboard ────────────────────────
		g.POST("/import", handlers.HandleImport(app, cfg.MaxImportRows))
		g.GET("/analytics", handlers.HandleAnalytics(app))
		g.GET("/analytics/export", handlers.HandleAnalyticsExport(app))
		g.GET("/dashboard", handlers.HandleDashboard(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
