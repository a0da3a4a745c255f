// Package record defines the canonical invoice record produced once per
// document, plus its stable tabular projection for accounting imports.
package record

import "github.com/ledgerline/invoice-pipeline/constants"

// LineItem is one product-table row. Quantity and UnitAmount are decimal
// strings; a collapsed single-line invoice has Quantity "1".
type LineItem struct {
	ItemCode    string `json:"item_code"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitAmount  string `json:"unit_amount"`
}

// Tracking is the categorical classification pair derived from
// purchase-order identifiers.
type Tracking struct {
	Name1   string `json:"tracking_name1"`
	Option1 string `json:"tracking_option1"`
	Name2   string `json:"tracking_name2"`
	Option2 string `json:"tracking_option2"`
}

// InvoiceRecord is the normalized output unit, one per input document. Every
// schema field is always present, sentinel or empty when undetermined, so the
// column set never varies. Records are immutable once assembled; corrections
// happen only by re-running the pipeline on the source document.
type InvoiceRecord struct {
	SourcePath string `json:"source_path"`

	ContactName  string                            `json:"contact_name"`
	EmailAddress string                            `json:"email"`
	AddressLines [constants.MaxAddressLines]string `json:"address_lines"`
	City         string                            `json:"city"`
	Region       string                            `json:"region"`
	PostalCode   string                            `json:"postal_code"`
	Country      string                            `json:"country"`

	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"` // DD/MM/YYYY or sentinel
	DueDate       string `json:"due_date"`     // DD/MM/YYYY or sentinel

	LineItems []LineItem `json:"line_items"`

	Total     string `json:"total"`      // gross, 2 decimals
	TaxAmount string `json:"tax_amount"` // 2 decimals
	NetAmount string `json:"net_amount"` // 2 decimals, net + tax == total

	AccountCode string   `json:"account_code"`
	TaxType     string   `json:"tax_type"`
	Currency    string   `json:"currency"`
	Tracking    Tracking `json:"tracking"`
}

// CSVHeader is the fixed accounting-import column order. Asterisked columns
// are the import format's required fields.
var CSVHeader = []string{
	"*ContactName", "EmailAddress",
	"POAddressLine1", "POAddressLine2", "POAddressLine3", "POAddressLine4",
	"POCity", "PORegion", "POPostalCode", "POCountry",
	"*InvoiceNumber", "*InvoiceDate", "*DueDate", "Total",
	"InventoryItemCode", "Description", "*Quantity", "*UnitAmount",
	"*AccountCode", "*TaxType", "TaxAmount",
	"TrackingName1", "TrackingOption1", "TrackingName2", "TrackingOption2",
	"Currency",
}

// CSVRow projects the record onto CSVHeader's column order. Multiple line
// items collapse into single cells joined with "; ", keeping one row per
// document.
func (r InvoiceRecord) CSVRow() []string {
	return []string{
		r.ContactName, r.EmailAddress,
		r.AddressLines[0], r.AddressLines[1], r.AddressLines[2], r.AddressLines[3],
		r.City, r.Region, r.PostalCode, r.Country,
		r.InvoiceNumber, r.InvoiceDate, r.DueDate, r.Total,
		r.joinItems(func(li LineItem) string { return li.ItemCode }),
		r.joinItems(func(li LineItem) string { return li.Description }),
		r.joinItems(func(li LineItem) string { return li.Quantity }),
		r.joinItems(func(li LineItem) string { return li.UnitAmount }),
		r.AccountCode, r.TaxType, r.TaxAmount,
		r.Tracking.Name1, r.Tracking.Option1, r.Tracking.Name2, r.Tracking.Option2,
		r.Currency,
	}
}

func (r InvoiceRecord) joinItems(pick func(LineItem) string) string {
	switch len(r.LineItems) {
	case 0:
		return ""
	case 1:
		return pick(r.LineItems[0])
	}
	out := pick(r.LineItems[0])
	for _, li := range r.LineItems[1:] {
		out += "; " + pick(li)
	}
	return out
}
