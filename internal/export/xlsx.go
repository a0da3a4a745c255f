package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerline/invoice-pipeline/internal/record"
)

// WriteXLSX returns an XLSX workbook (as bytes) with the same column layout
// as the CSV export.
func WriteXLSX(records []record.InvoiceRecord) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Invoices"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, h := range record.CSVHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, rec := range records {
		for colIdx, v := range rec.CSVRow() {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen the columns people actually read.
	_ = f.SetColWidth(sheet, "A", "A", 28) // contact
	_ = f.SetColWidth(sheet, "B", "B", 26) // email
	_ = f.SetColWidth(sheet, "K", "M", 18) // invoice number + dates
	_ = f.SetColWidth(sheet, "O", "P", 32) // item code + description

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
