package pipeline

import "errors"

// ErrDocumentUnreadable reports that the source document could not be opened
// or parsed at all, or yielded no corpus from either extraction path. Fatal
// for the document; the batch continues.
var ErrDocumentUnreadable = errors.New("document unreadable")

// ErrDocumentTimedOut reports that the per-document deadline expired before
// a record could be produced. Fatal for the document, no retry; the batch
// continues.
var ErrDocumentTimedOut = errors.New("document processing timed out")

// WarningKind identifies a recoverable degradation. Every kind still
// produces a record, completed with sentinel or default values.
type WarningKind string

const (
	WarnOCRUnavailable      WarningKind = "OPTICAL_RECOGNITION_UNAVAILABLE"
	WarnExtractionFailed    WarningKind = "EXTRACTION_FAILED"
	WarnDateUnparsable      WarningKind = "DATE_UNPARSABLE"
	WarnFieldLengthMismatch WarningKind = "FIELD_LENGTH_MISMATCH"
)

// Status summarizes one document's outcome for batch reporting.
type Status string

const (
	StatusOK       Status = "OK"
	StatusWarnings Status = "OK_WITH_WARNINGS"
	StatusFailed   Status = "FAILED"
)
