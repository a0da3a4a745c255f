// Package export serializes assembled records for delivery: a fixed-column
// CSV/XLSX table for accounting imports, or a JSON payload per record to an
// HTTP callback.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ledgerline/invoice-pipeline/internal/record"
)

// WriteCSV writes the header row plus one fixed-column row per record.
func WriteCSV(w io.Writer, records []record.InvoiceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(record.CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(rec.CSVRow()); err != nil {
			return fmt.Errorf("write row for %s: %w", rec.SourcePath, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
