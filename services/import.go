package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salesdesk/collections"
)

// ImportKind is what an uploaded sheet contains, decided from its headers.
type ImportKind string

const (
	ImportClients  ImportKind = "clients"
	ImportProducts ImportKind = "products"
)

// ImportRowError is a problem with one spreadsheet row. Row is 1-based and
// counts the header.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarizes an import. Rows with errors are skipped.
type ImportResult struct {
	Kind      ImportKind       `json:"kind"`
	TotalRows int              `json:"total_rows"`
	Imported  int              `json:"imported"`
	Errors    []ImportRowError `json:"errors"`
}

// Message is the user-facing summary.
func (r *ImportResult) Message() string {
	noun := "clientes"
	if r.Kind == ImportProducts {
		noun = "productos"
	}
	return fmt.Sprintf("Se importaron %d %s", r.Imported, noun)
}

type clientRow struct {
	Name    string `json:"Nombre" validate:"required,max=200"`
	Email   string `json:"Email" validate:"omitempty,email"`
	Phone   string `json:"Teléfono" validate:"max=50"`
	Address string `json:"Dirección" validate:"max=500"`
}

type productRow struct {
	Name        string  `json:"Nombre del Producto" validate:"required,max=200"`
	Description string  `json:"Descripción" validate:"max=1000"`
	UnitType    string  `json:"Tipo"`
	Price       float64 `json:"Precio" validate:"gte=0"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads the first sheet of an xlsx file.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// headerIndex maps trimmed, lower-cased header text to its column.
func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// detectImportKind applies the header rules: Nombre and Email mean clients,
// Nombre del Producto or Tipo mean products.
func detectImportKind(idx map[string]int) (ImportKind, bool) {
	_, name := idx["nombre"]
	_, email := idx["email"]
	if name && email {
		return ImportClients, true
	}
	_, productName := idx["nombre del producto"]
	_, kind := idx["tipo"]
	if productName || kind {
		return ImportProducts, true
	}
	return "", false
}

// cell returns the first non-empty value among the named columns.
func cell(row []string, idx map[string]int, names ...string) string {
	for _, n := range names {
		if i, ok := idx[n]; ok && i < len(row) {
			if v := strings.TrimSpace(row[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

// ImportSheet reads a .csv or .xlsx upload of clients or products and
// creates the valid rows for owner in one transaction.
func ImportSheet(app core.App, owner, fileName string, file io.Reader, maxRows int) (*ImportResult, error) {
	var (
		headers []string
		rows    [][]string
		err     error
	)
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		headers, rows, err = parseCSV(file)
	case strings.HasSuffix(lower, ".xlsx"):
		headers, rows, err = parseExcel(file)
	default:
		return nil, invalidImport("file", "El archivo debe ser .xlsx o .csv")
	}
	if err != nil {
		return nil, invalidImport("file", err.Error())
	}
	if maxRows > 0 && len(rows) > maxRows {
		return nil, invalidImport("file", fmt.Sprintf("El archivo excede el máximo de %d filas", maxRows))
	}

	idx := headerIndex(headers)
	kind, ok := detectImportKind(idx)
	if !ok {
		return nil, invalidImport("file", "Encabezados no reconocidos: usa Nombre y Email para clientes o Nombre del Producto y Tipo para productos")
	}

	result := &ImportResult{Kind: kind, TotalRows: len(rows)}
	collection := collections.Clients
	if kind == ImportProducts {
		collection = collections.Products
	}

	err = app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId(collection)
		if err != nil {
			return fmt.Errorf("find %s collection: %w", collection, err)
		}

		for i, row := range rows {
			rowNum := i + 2
			if isBlankRow(row) {
				result.TotalRows--
				continue
			}

			rec := core.NewRecord(col)
			rec.Set("owner", owner)

			var rowErrs []ImportRowError
			if kind == ImportClients {
				rowErrs = fillClientRow(rec, row, idx, rowNum)
			} else {
				rowErrs = fillProductRow(rec, row, idx, rowNum)
			}
			if len(rowErrs) > 0 {
				result.Errors = append(result.Errors, rowErrs...)
				continue
			}

			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("save row %d: %w", rowNum, err)
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, &PersistenceError{Op: "import " + string(kind), Err: err}
	}
	return result, nil
}

func fillClientRow(rec *core.Record, row []string, idx map[string]int, rowNum int) []ImportRowError {
	r := clientRow{
		Name:    cell(row, idx, "nombre", "name"),
		Email:   cell(row, idx, "email"),
		Phone:   cell(row, idx, "teléfono", "telefono", "phone"),
		Address: cell(row, idx, "dirección", "direccion", "address"),
	}
	if errs := rowErrors(rowNum, ValidateStruct(r)); len(errs) > 0 {
		return errs
	}
	rec.Set("name", r.Name)
	rec.Set("email", r.Email)
	rec.Set("phone", r.Phone)
	rec.Set("address", r.Address)
	return nil
}

func fillProductRow(rec *core.Record, row []string, idx map[string]int, rowNum int) []ImportRowError {
	r := productRow{
		Name:        cell(row, idx, "nombre del producto", "nombre", "name"),
		Description: cell(row, idx, "descripción", "descripcion", "description"),
		UnitType:    cell(row, idx, "tipo", "type"),
	}

	var errs []ImportRowError
	if raw := cell(row, idx, "precio", "price"); raw != "" {
		price, err := decimal.NewFromString(strings.TrimPrefix(strings.ReplaceAll(raw, ",", ""), "$"))
		if err != nil {
			errs = append(errs, ImportRowError{Row: rowNum, Field: "Precio", Message: "Precio inválido"})
		} else {
			r.Price = price.InexactFloat64()
		}
	}
	unit, ok := ParseUnitType(r.UnitType)
	if !ok {
		errs = append(errs, ImportRowError{Row: rowNum, Field: "Tipo", Message: "Tipo debe ser m2 o ml"})
	}
	errs = append(errs, rowErrors(rowNum, ValidateStruct(r))...)
	if len(errs) > 0 {
		return errs
	}

	rec.Set("name", r.Name)
	rec.Set("description", r.Description)
	rec.Set("category", "product")
	rec.Set("unit_type", string(unit))
	rec.Set("unit_price", r.Price)
	return nil
}

func rowErrors(rowNum int, err error) []ImportRowError {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	out := make([]ImportRowError, 0, len(verr.Fields))
	for field, msg := range verr.Fields {
		out = append(out, ImportRowError{Row: rowNum, Field: field, Message: field + " " + msg})
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func invalidImport(field, msg string) error {
	verr := &ValidationError{}
	verr.Add(field, msg)
	return verr
}

// GenerateErrorReport creates a downloadable .xlsx file from import errors.
func GenerateErrorReport(errs []ImportRowError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errores"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Fila")
	f.SetCellValue(sheet, "B1", "Campo")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errs {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, sanitizeExcelCell(e.Field))
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
