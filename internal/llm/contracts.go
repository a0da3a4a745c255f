package llm

import "context"

// Canonical field names shared by the extractor, fallback resolver, and
// record assembler. They match the output schema column names minus the
// leading asterisk the accounting import format uses for required columns.
const (
	FieldContactName     = "ContactName"
	FieldEmailAddress    = "EmailAddress"
	FieldAddressLine1    = "POAddressLine1"
	FieldAddressLine2    = "POAddressLine2"
	FieldAddressLine3    = "POAddressLine3"
	FieldAddressLine4    = "POAddressLine4"
	FieldCity            = "POCity"
	FieldRegion          = "PORegion"
	FieldPostalCode      = "POPostalCode"
	FieldCountry         = "POCountry"
	FieldInvoiceNumber   = "InvoiceNumber"
	FieldInvoiceDate     = "InvoiceDate"
	FieldDueDate         = "DueDate"
	FieldTotal           = "Total"
	FieldItemCode        = "InventoryItemCode"
	FieldDescription     = "Description"
	FieldQuantity        = "Quantity"
	FieldUnitAmount      = "UnitAmount"
	FieldAccountCode     = "AccountCode"
	FieldTaxType         = "TaxType"
	FieldTaxAmount       = "TaxAmount"
	FieldTrackingName1   = "TrackingName1"
	FieldTrackingOption1 = "TrackingOption1"
	FieldTrackingName2   = "TrackingName2"
	FieldTrackingOption2 = "TrackingOption2"
	FieldCurrency        = "Currency"
)

// FieldNames lists every known field in output column order.
var FieldNames = []string{
	FieldContactName, FieldEmailAddress,
	FieldAddressLine1, FieldAddressLine2, FieldAddressLine3, FieldAddressLine4,
	FieldCity, FieldRegion, FieldPostalCode, FieldCountry,
	FieldInvoiceNumber, FieldInvoiceDate, FieldDueDate, FieldTotal,
	FieldItemCode, FieldDescription, FieldQuantity, FieldUnitAmount,
	FieldAccountCode, FieldTaxType, FieldTaxAmount,
	FieldTrackingName1, FieldTrackingOption1, FieldTrackingName2, FieldTrackingOption2,
	FieldCurrency,
}

// listFields are the line-item fields that may legitimately repeat.
var listFields = map[string]bool{
	FieldItemCode:    true,
	FieldDescription: true,
	FieldQuantity:    true,
	FieldUnitAmount:  true,
}

// IsListField reports whether the named field may carry repeated values.
func IsListField(name string) bool { return listFields[name] }

// Value is a raw extracted field value: either a scalar or an ordered list
// (line-item columns). The zero Value is empty.
type Value struct {
	scalar string
	list   []string
	isList bool
}

func Scalar(s string) Value { return Value{scalar: s} }

func List(vs ...string) Value { return Value{list: vs, isList: true} }

func (v Value) IsList() bool { return v.isList }

// Scalar returns the value as a single string; for lists this is the first
// element.
func (v Value) Scalar() string {
	if v.isList {
		if len(v.list) == 0 {
			return ""
		}
		return v.list[0]
	}
	return v.scalar
}

// List returns the value as a slice; a scalar collapses to a one-element list.
func (v Value) List() []string {
	if v.isList {
		return v.list
	}
	if v.scalar == "" {
		return nil
	}
	return []string{v.scalar}
}

func (v Value) Empty() bool {
	if v.isList {
		for _, s := range v.list {
			if s != "" {
				return false
			}
		}
		return true
	}
	return v.scalar == ""
}

// RawFieldSet is the one stable result type for the extraction response,
// regardless of whether the service answered in delimited lines or JSON.
type RawFieldSet map[string]Value

func (r RawFieldSet) Get(name string) Value { return r[name] }

func (r RawFieldSet) Has(name string) bool { return !r[name].Empty() }

func (r RawFieldSet) Set(name string, v Value) { r[name] = v }

// SetIfEmpty fills a gap without clobbering anything the extractor supplied.
func (r RawFieldSet) SetIfEmpty(name string, v Value) {
	if !r.Has(name) {
		r[name] = v
	}
}

// Clone returns a shallow copy; Value is immutable so this is sufficient.
func (r RawFieldSet) Clone() RawFieldSet {
	out := make(RawFieldSet, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FieldExtractor is the extraction-service boundary the pipeline depends on.
// The raw response bytes are returned alongside the parsed set for logging.
type FieldExtractor interface {
	Extract(ctx context.Context, corpus string) (RawFieldSet, []byte, error)
}
