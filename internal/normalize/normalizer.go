// Package normalize converts raw field strings into their canonical forms:
// record dates, the due-date policy, the gross-to-net tax split, and tracking
// classification.
package normalize

import (
	"log/slog"

	"github.com/ledgerline/invoice-pipeline/constants"
	"github.com/ledgerline/invoice-pipeline/internal/config"
	"github.com/ledgerline/invoice-pipeline/internal/llm"
)

// FieldNetAmount is a derived field the normalizer adds to the set. It is not
// part of the extraction response schema.
const FieldNetAmount = "NetAmount"

type Normalizer struct {
	cfg    config.InvoiceConfig
	logger *slog.Logger
}

func NewNormalizer(cfg config.InvoiceConfig, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.TrackingRules) == 0 {
		cfg.TrackingRules = config.DefaultTrackingRules()
	}
	return &Normalizer{cfg: cfg, logger: logger}
}

// Outcome carries the normalized set plus flags the batch report cares about.
type Outcome struct {
	Fields         llm.RawFieldSet
	DateUnparsable bool
}

// Normalize transforms the filled field set in canonical-form order: dates
// first (the due-date policy depends on the normalized invoice date), then
// the money split, then tracking. The input set is not mutated.
func (n *Normalizer) Normalize(fields llm.RawFieldSet) Outcome {
	out := fields.Clone()
	if out == nil {
		out = make(llm.RawFieldSet)
	}
	res := Outcome{Fields: out}

	res.DateUnparsable = n.normalizeDates(out)
	n.normalizeMoney(out)
	n.normalizeTracking(out)
	return res
}

func (n *Normalizer) normalizeDates(out llm.RawFieldSet) (unparsable bool) {
	raw := out.Get(llm.FieldInvoiceDate).Scalar()
	if raw == constants.InvalidDate {
		out.Set(llm.FieldDueDate, llm.Scalar(constants.InvalidDueDate))
		return false // already sentinel, nothing newly unparsable
	}

	formatted, ok := FormatDate(raw)
	if !ok {
		n.logger.Warn("normalize.date.unparsable", "raw", raw)
		out.Set(llm.FieldInvoiceDate, llm.Scalar(constants.InvalidDate))
		out.Set(llm.FieldDueDate, llm.Scalar(constants.InvalidDueDate))
		return true
	}
	out.Set(llm.FieldInvoiceDate, llm.Scalar(formatted))

	// The fixed end-of-next-month policy wins over any due date the service
	// reported; payment-terms text in the corpus does not override it.
	if due, ok := DueDate(formatted); ok {
		out.Set(llm.FieldDueDate, llm.Scalar(due))
	} else {
		out.Set(llm.FieldDueDate, llm.Scalar(constants.InvalidDueDate))
	}
	return false
}

func (n *Normalizer) normalizeMoney(out llm.RawFieldSet) {
	grossCents, ok := ParseAmountCents(out.Get(llm.FieldTotal).Scalar())
	if !ok {
		n.logger.Warn("normalize.total.unparsable", "raw", out.Get(llm.FieldTotal).Scalar())
		grossCents = 0
	}
	netCents, taxCents := SplitTotal(grossCents, n.cfg.TaxRate)

	out.Set(llm.FieldTotal, llm.Scalar(FormatCents(grossCents)))
	out.Set(llm.FieldTaxAmount, llm.Scalar(FormatCents(taxCents)))
	out.Set(FieldNetAmount, llm.Scalar(FormatCents(netCents)))

	// Unit amounts reported per line item are cleaned but kept as-is; when
	// none were reported the net amount stands in for a collapsed single line.
	if v := out.Get(llm.FieldUnitAmount); !v.Empty() {
		var cleaned []string
		for _, s := range v.List() {
			cents, ok := ParseAmountCents(s)
			if !ok {
				cents = 0
			}
			cleaned = append(cleaned, FormatCents(cents))
		}
		if v.IsList() {
			out.Set(llm.FieldUnitAmount, llm.List(cleaned...))
		} else {
			out.Set(llm.FieldUnitAmount, llm.Scalar(cleaned[0]))
		}
	} else {
		out.Set(llm.FieldUnitAmount, llm.Scalar(FormatCents(netCents)))
	}

	// Quantities are numbers; unit suffixes like "2 pcs" are stripped. A
	// quantity that strips to nothing stays empty for the assembler's default.
	if v := out.Get(llm.FieldQuantity); !v.Empty() {
		var cleaned []string
		for _, s := range v.List() {
			cleaned = append(cleaned, CleanAmount(s))
		}
		if v.IsList() {
			out.Set(llm.FieldQuantity, llm.List(cleaned...))
		} else {
			out.Set(llm.FieldQuantity, llm.Scalar(cleaned[0]))
		}
	}
}

func (n *Normalizer) normalizeTracking(out llm.RawFieldSet) {
	identifier := out.Get(llm.FieldTrackingOption1).Scalar()
	label := ClassifyTracking(identifier, n.cfg.TrackingRules)
	if label == constants.UnclassifiedTracking {
		n.logger.Warn("normalize.tracking.unclassified", "identifier", identifier)
	}
	out.Set(llm.FieldTrackingOption1, llm.Scalar(label))
}
