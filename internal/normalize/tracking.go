package normalize

import (
	"strings"

	"github.com/ledgerline/invoice-pipeline/constants"
	"github.com/ledgerline/invoice-pipeline/internal/config"
)

// ClassifyTracking maps a purchase-order-like identifier to a tracking label
// by scanning the ordered marker rules; the first marker contained in the
// identifier wins. An identifier that matches no marker classifies as the
// explicit unclassified label. An absent identifier stays empty; the two
// outcomes are deliberately distinct.
func ClassifyTracking(identifier string, rules []config.TrackingRule) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return ""
	}
	for _, rule := range rules {
		if strings.Contains(identifier, rule.Marker) {
			return rule.Label
		}
	}
	return constants.UnclassifiedTracking
}
