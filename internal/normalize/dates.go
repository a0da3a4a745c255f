package normalize

import (
	"strings"
	"time"

	"github.com/ledgerline/invoice-pipeline/constants"
)

// dateLayouts are the input shapes seen on real invoices, tried in order:
// day-abbreviated month-2-digit year, day/month/year, ISO year-month-day.
var dateLayouts = []string{
	"02-Jan-06",
	"02/01/2006",
	"2006-01-02",
	"2-Jan-06",
	"2/1/2006",
}

// FormatDate converts a raw date string to DD/MM/YYYY. The second return is
// false when no known layout matches.
func FormatDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(constants.DateLayout), true
		}
	}
	return "", false
}

// DueDate computes the fixed "net end-of-next-month" policy: the last
// calendar day of the month following the invoice month. December rolls over
// into January of the next year. invoiceDate must already be DD/MM/YYYY.
func DueDate(invoiceDate string) (string, bool) {
	t, err := time.Parse(constants.DateLayout, invoiceDate)
	if err != nil {
		return "", false
	}
	// Day 0 of month+2 normalizes to the last day of month+1.
	end := time.Date(t.Year(), t.Month()+2, 0, 0, 0, 0, 0, time.UTC)
	return end.Format(constants.DateLayout), true
}
