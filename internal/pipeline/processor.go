// Package pipeline coordinates the document-to-record flow: corpus
// acquisition, field extraction, fallback resolution, normalization, and
// record assembly. Documents are processed independently; nothing mutable is
// shared between them.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/invoice-pipeline/internal/fallback"
	"github.com/ledgerline/invoice-pipeline/internal/llm"
	"github.com/ledgerline/invoice-pipeline/internal/normalize"
	"github.com/ledgerline/invoice-pipeline/internal/ocr"
	"github.com/ledgerline/invoice-pipeline/internal/record"
)

// TextAcquirer produces the per-document corpus. Satisfied by *ocr.Acquirer;
// kept as an interface so tests can stub the toolchain away.
type TextAcquirer interface {
	Acquire(ctx context.Context, path string) (ocr.Result, error)
}

// Result is one document's outcome. Exactly one of Record/Err is meaningful:
// a failed document carries no record, and every produced record lists the
// warning kinds that degraded it.
type Result struct {
	JobID      uuid.UUID
	SourcePath string
	Status     Status
	Warnings   []WarningKind
	Record     *record.InvoiceRecord
	Err        error
	Duration   time.Duration
}

func (r Result) Failed() bool { return r.Status == StatusFailed }

type Processor struct {
	logger     *slog.Logger
	acquirer   TextAcquirer
	extractor  llm.FieldExtractor
	resolver   *fallback.Resolver
	normalizer *normalize.Normalizer
	assembler  *record.Assembler
}

func NewProcessor(
	logger *slog.Logger,
	acquirer TextAcquirer,
	extractor llm.FieldExtractor,
	resolver *fallback.Resolver,
	normalizer *normalize.Normalizer,
	assembler *record.Assembler,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:     logger,
		acquirer:   acquirer,
		extractor:  extractor,
		resolver:   resolver,
		normalizer: normalizer,
		assembler:  assembler,
	}
}

// Process runs the whole pipeline for one document. It never returns a Go
// error: failures are reported on the Result so one bad document cannot
// abort a batch.
func (p *Processor) Process(ctx context.Context, path string) (res Result) {
	start := time.Now()
	res.JobID = uuid.New()
	res.SourcePath = path

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline.panic", "job_id", res.JobID, "path", path, "panic", r)
			res.Status = StatusFailed
			res.Record = nil
			res.Err = fmt.Errorf("internal error: %v", r)
		}
		res.Duration = time.Since(start)
	}()

	acq, err := p.acquirer.Acquire(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return p.failTimeout(res, path, err)
		}
		p.logger.Error("pipeline.acquire.failed", "job_id", res.JobID, "path", path, "error", err)
		res.Status = StatusFailed
		res.Err = fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
		return res
	}
	if acq.Empty() {
		p.logger.Error("pipeline.acquire.empty", "job_id", res.JobID, "path", path)
		res.Status = StatusFailed
		res.Err = fmt.Errorf("%w: no text from either extraction path", ErrDocumentUnreadable)
		return res
	}
	if acq.OCRUnavailable {
		res.Warnings = append(res.Warnings, WarnOCRUnavailable)
	}
	corpus := acq.Corpus()

	raw, _, err := p.extractor.Extract(ctx, corpus)
	if err != nil {
		if ctx.Err() != nil {
			return p.failTimeout(res, path, err)
		}
		// Recoverable: the document proceeds through fallback with
		// corpus-only evidence.
		p.logger.Warn("pipeline.extract.failed", "job_id", res.JobID, "path", path, "error", err)
		res.Warnings = append(res.Warnings, WarnExtractionFailed)
		raw = make(llm.RawFieldSet)
	}

	filled := p.resolver.Resolve(corpus, raw)

	norm := p.normalizer.Normalize(filled)
	if norm.DateUnparsable {
		res.Warnings = append(res.Warnings, WarnDateUnparsable)
	}

	rec, mismatch := p.assembler.Assemble(path, norm.Fields)
	if mismatch {
		res.Warnings = append(res.Warnings, WarnFieldLengthMismatch)
	}

	res.Record = &rec
	if len(res.Warnings) > 0 {
		res.Status = StatusWarnings
	} else {
		res.Status = StatusOK
	}

	p.logger.Info("pipeline.document.done",
		"job_id", res.JobID,
		"path", path,
		"status", res.Status,
		"warnings", len(res.Warnings),
		"contact", rec.ContactName,
		"invoice_number", rec.InvoiceNumber,
		"total", rec.Total,
	)
	return res
}

// failTimeout reports a document whose per-document deadline expired
// mid-stage. There is no retry; the batch moves on.
func (p *Processor) failTimeout(res Result, path string, err error) Result {
	p.logger.Error("pipeline.timeout", "job_id", res.JobID, "path", path, "error", err)
	res.Status = StatusFailed
	res.Record = nil
	res.Err = fmt.Errorf("%w: %v", ErrDocumentTimedOut, err)
	return res
}
