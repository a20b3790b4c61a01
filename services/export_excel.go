package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const salesSheet = "Ventas"

var salesExportHeaders = []string{"Número de Pedido", "Cliente", "Fecha", "Total", "Método de Pago", "Estado"}

// SalesExportFileName names the export for r on day now.
func SalesExportFileName(r TimeRange, now time.Time) string {
	return fmt.Sprintf("ventas_%s_%s.xlsx", r, now.Format("2006-01-02"))
}

// GenerateSalesExcel writes the sales in sum to a single-sheet workbook with
// one row per sale and a totals row.
func GenerateSalesExcel(sum SalesSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), salesSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F"}
	lastCol := columns[len(columns)-1]
	widths := []float64{18, 36, 12, 14, 16, 14}
	for i, col := range columns {
		if err := f.SetColWidth(salesSheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#1E3A5F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	moneyFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	for i, h := range salesExportHeaders {
		f.SetCellValue(salesSheet, columns[i]+"1", h)
	}
	f.SetCellStyle(salesSheet, "A1", lastCol+"1", headerStyle)

	row := 2
	for _, s := range sum.Sales {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(salesSheet, "A"+r, sanitizeExcelCell(s.OrderNumber))
		f.SetCellValue(salesSheet, "B"+r, sanitizeExcelCell(s.Client.Name))
		f.SetCellValue(salesSheet, "C"+r, FormatDate(s.Created))
		f.SetCellValue(salesSheet, "D"+r, s.Total.InexactFloat64())
		method := ""
		if s.Payment != nil {
			method = s.Payment.Method.Label()
		}
		f.SetCellValue(salesSheet, "E"+r, method)
		f.SetCellValue(salesSheet, "F"+r, s.Status.Label())

		f.SetCellStyle(salesSheet, "A"+r, lastCol+r, rowStyle)
		f.SetCellStyle(salesSheet, "D"+r, "D"+r, moneyStyle)
		row++
	}

	if len(sum.Sales) > 0 {
		r := fmt.Sprintf("%d", row+1)
		f.SetCellValue(salesSheet, "C"+r, "Total:")
		f.SetCellFormula(salesSheet, "D"+r, fmt.Sprintf("SUM(D2:D%d)", row-1))
		f.SetCellStyle(salesSheet, "C"+r, "D"+r, totalStyle)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
