package llm

import (
	"fmt"
	"strings"
)

// PromptConfig carries the formatting defaults the prompt instructs the
// service to apply.
type PromptConfig struct {
	Currency        string
	AccountCode     string
	TaxType         string
	DisallowedNames []string
}

// BuildSystemPrompt returns the fixed system instruction.
func BuildSystemPrompt() string {
	return "You are a helpful assistant for extracting structured details from invoices."
}

// BuildUserPrompt names every target field, its shape, and its formatting
// rules, and embeds the document corpus. The service may answer either as a
// JSON object or as one 'Field: value' line per field; both are accepted.
func BuildUserPrompt(corpus string, cfg PromptConfig) string {
	avoid := "supplier or intermediary names"
	if len(cfg.DisallowedNames) > 0 {
		avoid = fmt.Sprintf("supplier names such as %q", strings.Join(cfg.DisallowedNames, `", "`))
	}

	var b strings.Builder
	b.WriteString("Below is the text of an invoice:\n\n")
	b.WriteString(corpus)
	b.WriteString("\n\nExtract the following details:\n")
	fmt.Fprintf(&b, "1. ContactName: the payee company name from prominent branding or header text. Avoid %s in Ship To or Billing sections. Ignore logos, URLs, or IP addresses.\n", avoid)
	b.WriteString("2. EmailAddress: the first valid email address, or empty.\n")
	b.WriteString("3. POAddressLine1-4: up to 4 lines of the Ship To or Delivery address, top to bottom. Leave unused lines empty.\n")
	b.WriteString("4. POCity, PORegion, POPostalCode, POCountry: from the same address; leave blank when missing.\n")
	b.WriteString("5. InvoiceNumber: from headings like 'Invoice No' or 'Invoice Number'.\n")
	b.WriteString("6. InvoiceDate: formatted as DD/MM/YYYY.\n")
	b.WriteString("7. DueDate: from payment terms, formatted as DD/MM/YYYY.\n")
	b.WriteString("8. Total: the gross invoice total as a plain decimal.\n")
	b.WriteString("9. InventoryItemCode, Description, Quantity, UnitAmount: one entry per product table row; repeat values in order for multi-line invoices.\n")
	fmt.Fprintf(&b, "10. AccountCode: default to %q unless another account code is explicit.\n", cfg.AccountCode)
	fmt.Fprintf(&b, "11. TaxType: extract or default to %q.\n", cfg.TaxType)
	b.WriteString("12. TaxAmount: the total tax value as a plain decimal.\n")
	b.WriteString("13. TrackingName1/TrackingOption1 and TrackingName2/TrackingOption2: any tracking labels and their values, such as order references.\n")
	fmt.Fprintf(&b, "14. Currency: extract or default to %q.\n", cfg.Currency)
	b.WriteString("\nProvide the results in this exact format, one line per field:\n")
	for _, name := range FieldNames {
		fmt.Fprintf(&b, "%s: [%s]\n", name, name)
	}
	b.WriteString("\nUse an empty value for anything the invoice does not show. Do not add explanations.")
	return b.String()
}
