// Package fallback applies deterministic pattern rules to fill fields the
// extraction service left empty. It only ever fills gaps; a value the
// extractor supplied is never overwritten.
package fallback

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/ledgerline/invoice-pipeline/constants"
	"github.com/ledgerline/invoice-pipeline/internal/llm"
)

var (
	reSupplier  = regexp.MustCompile(`(?i)(?:Supplier|From):\s*([\w][\w &.'-]*)`)
	reEmail     = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	reInvoiceNo = regexp.MustCompile(`(?i)invoice\s*(?:no\.?|number|#)\s*[:\s]\s*([A-Za-z0-9/-]+)`)
)

type Resolver struct {
	disallowed     []string
	unknownContact string
	logger         *slog.Logger
}

func NewResolver(disallowedNames []string, unknownContact string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if unknownContact == "" {
		unknownContact = "Unknown (Check Invoice)"
	}
	return &Resolver{disallowed: disallowedNames, unknownContact: unknownContact, logger: logger}
}

// Resolve returns a copy of raw with corpus-derived values filled into empty
// fields and grouped sentinels applied to anything still unrecoverable.
func (r *Resolver) Resolve(corpus string, raw llm.RawFieldSet) llm.RawFieldSet {
	out := raw.Clone()
	if out == nil {
		out = make(llm.RawFieldSet)
	}

	if !out.Has(llm.FieldContactName) {
		if m := reSupplier.FindStringSubmatch(corpus); m != nil {
			name := strings.TrimSpace(m[1])
			if r.isDisallowed(name) {
				r.logger.Warn("fallback.contact.disallowed_alias", "name", name)
				name = r.unknownContact
			}
			out.Set(llm.FieldContactName, llm.Scalar(name))
		}
	}

	if !out.Has(llm.FieldEmailAddress) {
		if m := reEmail.FindString(corpus); m != "" {
			out.Set(llm.FieldEmailAddress, llm.Scalar(m))
		}
	}

	if !out.Has(llm.FieldInvoiceNumber) {
		if m := reInvoiceNo.FindStringSubmatch(corpus); m != nil {
			out.Set(llm.FieldInvoiceNumber, llm.Scalar(strings.TrimSpace(m[1])))
		}
	}
	out.SetIfEmpty(llm.FieldInvoiceNumber, llm.Scalar(constants.UnknownInvoiceNumber))

	// Dates sentinel together: an invalid due date never pairs with a valid
	// invoice date, and vice versa.
	if !out.Has(llm.FieldInvoiceDate) {
		out.Set(llm.FieldInvoiceDate, llm.Scalar(constants.InvalidDate))
		out.Set(llm.FieldDueDate, llm.Scalar(constants.InvalidDueDate))
	}

	// Total and tax zero-fill as a pair; a partial fill would break the
	// net + tax == total invariant downstream. Unit amounts are line-item
	// data, not part of the pair: whatever the extractor reported stays, and
	// the normalizer prices a collapsed line when nothing was reported.
	if !out.Has(llm.FieldTotal) {
		out.Set(llm.FieldTotal, llm.Scalar(constants.ZeroAmount))
		out.Set(llm.FieldTaxAmount, llm.Scalar(constants.ZeroAmount))
	}

	return out
}

func (r *Resolver) isDisallowed(name string) bool {
	for _, d := range r.disallowed {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(d)) {
			return true
		}
	}
	return false
}
