package services

import (
	"errors"
	"strings"
	"sync"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"salesdesk/collections"
)

// Built-in language and currency for users without saved settings.
const (
	DefaultLanguage = "es"
	DefaultCurrency = "MXN"
)

// ErrDefaultsSet is returned when SetDefaults is called more than once.
var ErrDefaultsSet = errors.New("settings defaults already set")

// defaults is written at most once, at startup before serving.
var defaults = struct {
	sync.RWMutex
	set bool
	s   Settings
}{s: Settings{Language: DefaultLanguage, Currency: DefaultCurrency}}

// SetDefaults validates and installs the language and currency used for users
// that have not saved settings. Only the first call takes effect.
func SetDefaults(lang, cur string) error {
	s := Settings{Language: strings.TrimSpace(lang), Currency: strings.ToUpper(strings.TrimSpace(cur))}
	if err := ValidateSettings(s); err != nil {
		return err
	}

	defaults.Lock()
	defer defaults.Unlock()
	if defaults.set {
		return ErrDefaultsSet
	}
	defaults.set = true
	defaults.s = s
	return nil
}

// Settings is the per-user company profile read by pricing and rendering.
type Settings struct {
	CompanyName    string      `json:"companyName"`
	CompanyAddress string      `json:"companyAddress"`
	CompanyPhone   string      `json:"companyPhone"`
	LogoURL        string      `json:"logoUrl"` // file URL of the uploaded logo, read-only
	Bank           BankAccount `json:"bankAccount"`
	Language       string      `json:"language"`
	Currency       string      `json:"currency"`

	// logoKey is the blob key of an uploaded logo, empty when none.
	logoKey string
}

// DefaultSettings is used when a user has not saved any settings yet.
func DefaultSettings() Settings {
	defaults.RLock()
	defer defaults.RUnlock()
	return defaults.s
}

// HasLogo reports whether an uploaded logo is configured.
func (s Settings) HasLogo() bool {
	return s.logoKey != ""
}

// ValidateSettings checks the language tag and currency code.
func ValidateSettings(s Settings) error {
	verr := &ValidationError{}
	if _, err := language.Parse(s.Language); err != nil {
		verr.Add("language", "unknown language tag")
	}
	if _, err := currency.ParseISO(strings.ToUpper(s.Currency)); err != nil {
		verr.Add("currency", "unknown ISO 4217 currency code")
	}
	return verr.OrNil()
}

func findSettingsRecord(app core.App, owner string) (*core.Record, error) {
	return app.FindFirstRecordByFilter(collections.UserSettings, "owner = {:owner}",
		map[string]any{"owner": owner})
}

func settingsFromRecord(r *core.Record) Settings {
	s := Settings{
		CompanyName:    r.GetString("company_name"),
		CompanyAddress: r.GetString("company_address"),
		CompanyPhone:   r.GetString("company_phone"),
		Bank: BankAccount{
			Bank:          r.GetString("bank_name"),
			AccountNumber: r.GetString("bank_account_number"),
			AccountHolder: r.GetString("bank_account_holder"),
		},
		Language: r.GetString("language"),
		Currency: r.GetString("currency"),
	}
	def := DefaultSettings()
	if s.Language == "" {
		s.Language = def.Language
	}
	if s.Currency == "" {
		s.Currency = def.Currency
	}
	if logo := r.GetString("logo"); logo != "" {
		s.logoKey = r.BaseFilesPath() + "/" + logo
		s.LogoURL = "/api/files/" + r.Collection().Name + "/" + r.Id + "/" + logo
	}
	return s
}

// LoadSettings returns owner's settings, or the defaults when none were saved.
func LoadSettings(app core.App, owner string) (Settings, error) {
	rec, err := findSettingsRecord(app, owner)
	if err != nil {
		if isNoRows(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, &PersistenceError{Op: "load settings", Err: err}
	}
	return settingsFromRecord(rec), nil
}

// SaveSettings validates and stores owner's settings. The uploaded logo is
// managed separately by SetLogo and RemoveLogo.
func SaveSettings(app core.App, owner string, s Settings) (Settings, error) {
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	s.Language = strings.TrimSpace(s.Language)
	if err := ValidateSettings(s); err != nil {
		return Settings{}, err
	}

	rec, err := settingsRecordForUpdate(app, owner)
	if err != nil {
		return Settings{}, err
	}
	rec.Set("company_name", strings.TrimSpace(s.CompanyName))
	rec.Set("company_address", strings.TrimSpace(s.CompanyAddress))
	rec.Set("company_phone", strings.TrimSpace(s.CompanyPhone))
	rec.Set("bank_name", strings.TrimSpace(s.Bank.Bank))
	rec.Set("bank_account_number", strings.TrimSpace(s.Bank.AccountNumber))
	rec.Set("bank_account_holder", strings.TrimSpace(s.Bank.AccountHolder))
	rec.Set("language", s.Language)
	rec.Set("currency", s.Currency)

	if err := app.Save(rec); err != nil {
		return Settings{}, &PersistenceError{Op: "save settings", Err: err}
	}
	return settingsFromRecord(rec), nil
}

// SetLogo stores an uploaded logo image, replacing any previous one.
func SetLogo(app core.App, owner string, file *filesystem.File) (Settings, error) {
	rec, err := settingsRecordForUpdate(app, owner)
	if err != nil {
		return Settings{}, err
	}
	rec.Set("logo", file)
	if err := app.Save(rec); err != nil {
		return Settings{}, &PersistenceError{Op: "save logo", Err: err}
	}
	return settingsFromRecord(rec), nil
}

// RemoveLogo clears the uploaded logo.
func RemoveLogo(app core.App, owner string) (Settings, error) {
	rec, err := findSettingsRecord(app, owner)
	if err != nil {
		if isNoRows(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, &PersistenceError{Op: "load settings", Err: err}
	}
	rec.Set("logo", "")
	if err := app.Save(rec); err != nil {
		return Settings{}, &PersistenceError{Op: "remove logo", Err: err}
	}
	return settingsFromRecord(rec), nil
}

func settingsRecordForUpdate(app core.App, owner string) (*core.Record, error) {
	rec, err := findSettingsRecord(app, owner)
	if err == nil {
		return rec, nil
	}
	if !isNoRows(err) {
		return nil, &PersistenceError{Op: "load settings", Err: err}
	}
	col, err := app.FindCollectionByNameOrId(collections.UserSettings)
	if err != nil {
		return nil, &PersistenceError{Op: "find settings collection", Err: err}
	}
	rec = core.NewRecord(col)
	rec.Set("owner", owner)
	def := DefaultSettings()
	rec.Set("language", def.Language)
	rec.Set("currency", def.Currency)
	return rec, nil
}
