package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesdesk/collections"
	"salesdesk/testhelpers"
)

func xlsxOf(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestParseCSV(t *testing.T) {
	headers, rows, err := parseCSV(strings.NewReader("Nombre,Email\nAna,ana@example.com\nLuis\n"))
	if err != nil {
		t.Fatalf("parseCSV() error = %v", err)
	}
	if len(headers) != 2 || len(rows) != 2 {
		t.Errorf("got %d headers, %d rows", len(headers), len(rows))
	}

	if _, _, err := parseCSV(strings.NewReader("Nombre,Email\n")); err == nil {
		t.Error("expected error for header-only file")
	}
}

func TestDetectImportKind(t *testing.T) {
	tests := []struct {
		headers []string
		want    ImportKind
		ok      bool
	}{
		{[]string{"Nombre", "Email", "Teléfono"}, ImportClients, true},
		{[]string{" nombre ", "EMAIL"}, ImportClients, true},
		{[]string{"Nombre del Producto", "Precio"}, ImportProducts, true},
		{[]string{"Nombre", "Tipo", "Precio"}, ImportProducts, true},
		{[]string{"Nombre", "Precio"}, "", false},
	}
	for _, tt := range tests {
		got, ok := detectImportKind(headerIndex(tt.headers))
		if got != tt.want || ok != tt.ok {
			t.Errorf("detectImportKind(%v) = %q, %v; want %q, %v", tt.headers, got, ok, tt.want, tt.ok)
		}
	}
}

func TestImportSheet_Clients(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "import@example.com")

	file := xlsxOf(t, [][]any{
		{"Nombre", "Email", "Teléfono", "Dirección"},
		{"Ana Ruiz", "ana@example.com", "555 123 4567", "Av. Juárez 10"},
		{"", "", "", ""},
		{"", "sin-nombre@example.com", "", ""},
		{"Luis", "no-es-email", "", ""},
		{"Marta", "", "", ""},
	})

	res, err := ImportSheet(app, user.Id, "clientes.xlsx", file, 100)
	require.NoError(t, err)
	assert.Equal(t, ImportClients, res.Kind)
	assert.Equal(t, 4, res.TotalRows)
	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 4, res.Errors[0].Row)
	assert.Equal(t, "Nombre", res.Errors[0].Field)
	assert.Equal(t, 5, res.Errors[1].Row)
	assert.Equal(t, "Email", res.Errors[1].Field)
	assert.Equal(t, "Se importaron 2 clientes", res.Message())

	records, err := app.FindRecordsByFilter(collections.Clients, "owner = {:owner}", "name", 0, 0,
		map[string]any{"owner": user.Id})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ana Ruiz", records[0].GetString("name"))
	assert.Equal(t, "Av. Juárez 10", records[0].GetString("address"))
}

func TestImportSheet_ProductsCSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "import2@example.com")

	csvData := "Nombre del Producto,Descripción,Tipo,Precio\n" +
		"Lona front,Impresión,m2,\"$1,250.50\"\n" +
		"Vinil corte,,ml,80\n" +
		"Cubo,,m3,10\n" +
		"Malla,,,abc\n"

	res, err := ImportSheet(app, user.Id, "productos.CSV", strings.NewReader(csvData), 0)
	require.NoError(t, err)
	assert.Equal(t, ImportProducts, res.Kind)
	assert.Equal(t, 2, res.Imported)
	assert.Len(t, res.Errors, 2)

	lona, err := app.FindFirstRecordByFilter(collections.Products, "owner = {:owner} && name = 'Lona front'",
		map[string]any{"owner": user.Id})
	require.NoError(t, err)
	assert.Equal(t, "area", lona.GetString("unit_type"))
	assert.InDelta(t, 1250.50, lona.GetFloat("unit_price"), 0.001)

	vinil, err := app.FindFirstRecordByFilter(collections.Products, "owner = {:owner} && name = 'Vinil corte'",
		map[string]any{"owner": user.Id})
	require.NoError(t, err)
	assert.Equal(t, "linear", vinil.GetString("unit_type"))
}

func TestImportSheet_Rejects(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "import3@example.com")

	tests := []struct {
		name     string
		fileName string
		data     string
		maxRows  int
	}{
		{"unsupported extension", "datos.txt", "Nombre,Email\nAna,a@b.co\n", 0},
		{"unknown headers", "datos.csv", "Foo,Bar\n1,2\n", 0},
		{"too many rows", "datos.csv", "Nombre,Email\nA,\nB,\nC,\n", 2},
		{"header only", "datos.csv", "Nombre,Email\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportSheet(app, user.Id, tt.fileName, strings.NewReader(tt.data), tt.maxRows)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
		})
	}
}

func TestGenerateErrorReport(t *testing.T) {
	errs := []ImportRowError{
		{Row: 3, Field: "Email", Message: "Email email inválido"},
		{Row: 5, Field: "Nombre", Message: "=cmd"},
	}
	data, err := GenerateErrorReport(errs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytesReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, _ := f.GetCellValue("Errores", "A2")
	assert.Equal(t, "3", v)
	v, _ = f.GetCellValue("Errores", "C3")
	assert.Equal(t, "'=cmd", v)
}
