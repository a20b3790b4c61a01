package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"salesdesk/services"
)

type contextKey string

const SettingsKey contextKey = "settings"

// GetSettings returns the settings loaded by SettingsMiddleware, or the
// defaults when none were loaded.
func GetSettings(r *http.Request) services.Settings {
	if val, ok := r.Context().Value(SettingsKey).(services.Settings); ok {
		return val
	}
	return services.DefaultSettings()
}

// SettingsMiddleware loads the authenticated user's settings into the request
// context so handlers can format money in the user's currency. Anonymous
// requests pass through untouched.
func SettingsMiddleware(app core.App) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth == nil {
			return e.Next()
		}

		settings, err := services.LoadSettings(app, e.Auth.Id)
		if err != nil {
			log.Printf("middleware: settings for %s unavailable, using defaults: %v", e.Auth.Id, err)
			settings = services.DefaultSettings()
		}

		ctx := context.WithValue(e.Request.Context(), SettingsKey, settings)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}
