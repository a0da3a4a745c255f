package record

import (
	"log/slog"

	"github.com/ledgerline/invoice-pipeline/constants"
	"github.com/ledgerline/invoice-pipeline/internal/config"
	"github.com/ledgerline/invoice-pipeline/internal/llm"
	"github.com/ledgerline/invoice-pipeline/internal/normalize"
)

type Assembler struct {
	cfg    config.InvoiceConfig
	logger *slog.Logger
}

func NewAssembler(cfg config.InvoiceConfig, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{cfg: cfg, logger: logger}
}

// Assemble merges the normalized field set into one finished record,
// applying schema defaults for anything still missing. Assembly never fails
// for missing data; lengthMismatch reports line-item truncation.
func (a *Assembler) Assemble(sourcePath string, fields llm.RawFieldSet) (InvoiceRecord, bool) {
	rec := InvoiceRecord{
		SourcePath:    sourcePath,
		ContactName:   fields.Get(llm.FieldContactName).Scalar(),
		EmailAddress:  fields.Get(llm.FieldEmailAddress).Scalar(),
		City:          fields.Get(llm.FieldCity).Scalar(),
		Region:        fields.Get(llm.FieldRegion).Scalar(),
		PostalCode:    fields.Get(llm.FieldPostalCode).Scalar(),
		Country:       fields.Get(llm.FieldCountry).Scalar(),
		InvoiceNumber: fields.Get(llm.FieldInvoiceNumber).Scalar(),
		InvoiceDate:   fields.Get(llm.FieldInvoiceDate).Scalar(),
		DueDate:       fields.Get(llm.FieldDueDate).Scalar(),
		Total:         fields.Get(llm.FieldTotal).Scalar(),
		TaxAmount:     fields.Get(llm.FieldTaxAmount).Scalar(),
		NetAmount:     fields.Get(normalize.FieldNetAmount).Scalar(),
		AccountCode:   fields.Get(llm.FieldAccountCode).Scalar(),
		TaxType:       fields.Get(llm.FieldTaxType).Scalar(),
		Currency:      fields.Get(llm.FieldCurrency).Scalar(),
		Tracking: Tracking{
			Name1:   fields.Get(llm.FieldTrackingName1).Scalar(),
			Option1: fields.Get(llm.FieldTrackingOption1).Scalar(),
			Name2:   fields.Get(llm.FieldTrackingName2).Scalar(),
			Option2: fields.Get(llm.FieldTrackingOption2).Scalar(),
		},
	}

	addressFields := []string{llm.FieldAddressLine1, llm.FieldAddressLine2, llm.FieldAddressLine3, llm.FieldAddressLine4}
	for i, name := range addressFields {
		rec.AddressLines[i] = fields.Get(name).Scalar()
	}

	// Schema defaults for anything the document never yielded.
	if rec.InvoiceNumber == "" {
		rec.InvoiceNumber = constants.UnknownInvoiceNumber
	}
	if rec.InvoiceDate == "" {
		rec.InvoiceDate = constants.InvalidDate
		rec.DueDate = constants.InvalidDueDate
	}
	if rec.Total == "" {
		rec.Total = constants.ZeroAmount
		rec.TaxAmount = constants.ZeroAmount
		rec.NetAmount = constants.ZeroAmount
	}
	if rec.AccountCode == "" {
		rec.AccountCode = a.cfg.AccountCode
	}
	if rec.TaxType == "" {
		rec.TaxType = a.cfg.TaxType
	}
	if rec.Currency == "" {
		rec.Currency = a.cfg.Currency
	}
	if rec.Tracking.Name1 == "" {
		rec.Tracking.Name1 = a.cfg.TrackingName
	}

	var mismatch bool
	rec.LineItems, mismatch = a.buildLineItems(fields)
	if mismatch {
		a.logger.Warn("assemble.line_items.length_mismatch",
			"source", sourcePath, "kept", len(rec.LineItems))
	}

	return rec, mismatch
}

// buildLineItems zips the parallel line-item arrays. Arrays of unequal
// length truncate to the shortest populated one; empty columns contribute
// empty strings rather than shortening the invoice.
func (a *Assembler) buildLineItems(fields llm.RawFieldSet) ([]LineItem, bool) {
	codes := fields.Get(llm.FieldItemCode).List()
	descs := fields.Get(llm.FieldDescription).List()
	qtys := fields.Get(llm.FieldQuantity).List()
	units := fields.Get(llm.FieldUnitAmount).List()

	n, mismatch := itemCount(len(codes), len(descs), len(qtys), len(units))
	if n == 0 {
		// Single-line collapse: the invoice had no product table, but the
		// record still carries one line priced at the net amount.
		return []LineItem{{
			Quantity:   constants.DefaultQuantity,
			UnitAmount: fields.Get(normalize.FieldNetAmount).Scalar(),
		}}, false
	}

	items := make([]LineItem, n)
	for i := 0; i < n; i++ {
		items[i] = LineItem{
			ItemCode:    at(codes, i),
			Description: at(descs, i),
			Quantity:    at(qtys, i),
			UnitAmount:  at(units, i),
		}
		if items[i].Quantity == "" {
			items[i].Quantity = constants.DefaultQuantity
		}
	}
	return items, mismatch
}

// itemCount returns the shortest non-zero length and whether the populated
// arrays disagreed.
func itemCount(lens ...int) (int, bool) {
	shortest, longest := 0, 0
	for _, l := range lens {
		if l == 0 {
			continue
		}
		if shortest == 0 || l < shortest {
			shortest = l
		}
		if l > longest {
			longest = l
		}
	}
	return shortest, shortest != longest
}

func at(vs []string, i int) string {
	if i < len(vs) {
		return vs[i]
	}
	return ""
}
