package constants

// Sentinel values stand in for fields that could not be determined. They are
// real output values, never omitted keys, so downstream imports stay
// schema-stable.
const (
	UnknownInvoiceNumber = "Unknown Invoice Number"
	InvalidDate          = "Invalid Date"
	InvalidDueDate       = "Invalid Due Date"
	ZeroAmount           = "0.00"
	DefaultQuantity      = "1"

	// UnclassifiedTracking is returned when a purchase-order identifier is
	// present but matches no tracking marker. Distinct from the empty string,
	// which means no identifier was found at all.
	UnclassifiedTracking = "ERROR"
)

// DateLayout is the canonical DD/MM/YYYY output format for all record dates.
const DateLayout = "02/01/2006"

// MaxAddressLines is the number of address slots in the output schema.
const MaxAddressLines = 4
