package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/testhelpers"
)

func TestSaveClient(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "catalog@example.com")

	c, err := SaveClient(app, user.Id, "", ClientInput{Name: "  Ana Ruiz ", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Ana Ruiz", c.Name)

	c, err = SaveClient(app, user.Id, c.ID, ClientInput{Name: "Ana R.", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "Ana R.", c.Name)
	assert.Empty(t, c.Email)

	_, err = SaveClient(app, user.Id, "", ClientInput{Email: "bad"})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")

	list, err := ListClients(app, user.Id)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveClient_OtherOwner(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	owner := testhelpers.CreateTestUser(t, app, "a@example.com")
	other := testhelpers.CreateTestUser(t, app, "b@example.com")
	client := testhelpers.CreateTestClient(t, app, owner.Id, "Ana")

	_, err := SaveClient(app, other.Id, client.Id, ClientInput{Name: "Robado"})
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))

	err = DeleteClient(app, other.Id, client.Id)
	assert.True(t, errors.As(err, &nf))
}

func TestDeleteClient_KeepsSnapshot(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "snap@example.com")
	client := testhelpers.CreateTestClient(t, app, user.Id, "Ana Ruiz")
	quote := testhelpers.CreateTestQuote(t, app, user.Id, client, 626.40)

	require.NoError(t, DeleteClient(app, user.Id, client.Id))

	doc, err := FindDocument(app, KindQuote, user.Id, quote.Id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", doc.Client.Name)
}

func TestSaveProduct(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "products@example.com")

	p, err := SaveProduct(app, user.Id, "", ProductInput{Name: "Lona", UnitType: "area", UnitPrice: 120.5})
	require.NoError(t, err)
	assert.Equal(t, UnitArea, p.UnitType)
	assert.Equal(t, "product", p.Category)
	assert.True(t, p.UnitPrice.Equal(d("120.5")))

	_, err = SaveProduct(app, user.Id, "", ProductInput{Name: "Cubo", UnitType: "m3", UnitPrice: -1})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "unitType")
	assert.Contains(t, fields, "unitPrice")

	require.NoError(t, DeleteProduct(app, user.Id, p.ID))
	list, err := ListProducts(app, user.Id)
	require.NoError(t, err)
	assert.Empty(t, list)
}
