package services

import (
	"errors"
	"testing"

	"github.com/pocketbase/pocketbase/tools/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/testhelpers"
)

func TestLoadSettings_Defaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "new@example.com")

	s, err := LoadSettings(app, user.Id)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.False(t, s.HasLogo())
}

func TestSaveSettings(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "owner@example.com")

	saved, err := SaveSettings(app, user.Id, Settings{
		CompanyName:    "  Rótulos Norte ",
		CompanyAddress: "Calle 1",
		CompanyPhone:   "555",
		Bank:           BankAccount{Bank: "Banorte", AccountNumber: "123", AccountHolder: "RN"},
		Language:       "es-MX",
		Currency:       "usd",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rótulos Norte", saved.CompanyName)
	assert.Equal(t, "USD", saved.Currency)

	loaded, err := LoadSettings(app, user.Id)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	_, err = SaveSettings(app, user.Id, Settings{Language: "es", Currency: "PESOS"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "currency")
}

func TestSetAndRemoveLogo(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "logo@example.com")

	file, err := filesystem.NewFileFromBytes(testPNG(t), "logo.png")
	require.NoError(t, err)

	s, err := SetLogo(app, user.Id, file)
	require.NoError(t, err)
	assert.True(t, s.HasLogo())
	assert.Contains(t, s.LogoURL, "/api/files/user_settings/")

	s, err = RemoveLogo(app, user.Id)
	require.NoError(t, err)
	assert.False(t, s.HasLogo())
}

func TestSetDefaults(t *testing.T) {
	defaults.Lock()
	saved := defaults.s
	defaults.Unlock()
	t.Cleanup(func() {
		defaults.Lock()
		defaults.set, defaults.s = false, saved
		defaults.Unlock()
	})

	var verr *ValidationError
	require.ErrorAs(t, SetDefaults("en", "XYZW"), &verr)
	assert.Equal(t, saved, DefaultSettings())

	require.NoError(t, SetDefaults("en", "usd"))
	assert.Equal(t, Settings{Language: "en", Currency: "USD"}, DefaultSettings())

	assert.ErrorIs(t, SetDefaults("es", "MXN"), ErrDefaultsSet)
	assert.Equal(t, "USD", DefaultSettings().Currency)
	assert.Equal(t, "$5.00 USD", FormatMoney(d("5"), "bogus"))
}
