package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/invoice-pipeline/constants"
	"github.com/ledgerline/invoice-pipeline/internal/config"
	"github.com/ledgerline/invoice-pipeline/internal/fallback"
	"github.com/ledgerline/invoice-pipeline/internal/llm"
	"github.com/ledgerline/invoice-pipeline/internal/normalize"
	"github.com/ledgerline/invoice-pipeline/internal/ocr"
	"github.com/ledgerline/invoice-pipeline/internal/record"
)

type stubAcquirer struct {
	res ocr.Result
	err error
}

func (s stubAcquirer) Acquire(ctx context.Context, path string) (ocr.Result, error) {
	return s.res, s.err
}

type stubExtractor struct {
	fields llm.RawFieldSet
	err    error
	corpus string // last corpus seen
}

func (s *stubExtractor) Extract(ctx context.Context, corpus string) (llm.RawFieldSet, []byte, error) {
	s.corpus = corpus
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.fields.Clone(), nil, nil
}

func newTestProcessor(acq TextAcquirer, ext llm.FieldExtractor) *Processor {
	inv := config.InvoiceConfig{
		TaxRate:       0.20,
		AccountCode:   "540",
		TaxType:       "20% (VAT on Expenses)",
		Currency:      "GBP",
		TrackingName:  "Website",
		TrackingRules: config.DefaultTrackingRules(),
	}
	return NewProcessor(nil, acq, ext,
		fallback.NewResolver([]string{"Catercall Ltd"}, "Unknown (Check Invoice)", nil),
		normalize.NewNormalizer(inv, nil),
		record.NewAssembler(inv, nil),
	)
}

func TestProcessHappyPath(t *testing.T) {
	fields := make(llm.RawFieldSet)
	fields.Set(llm.FieldContactName, llm.Scalar("Duck Island Limited"))
	fields.Set(llm.FieldInvoiceNumber, llm.Scalar("0000027558"))
	fields.Set(llm.FieldInvoiceDate, llm.Scalar("13-Nov-24"))
	fields.Set(llm.FieldTotal, llm.Scalar("11.38"))
	fields.Set(llm.FieldTrackingOption1, llm.Scalar("H150690"))

	p := newTestProcessor(
		stubAcquirer{res: ocr.Result{TextLayer: "Invoice text"}},
		&stubExtractor{fields: fields},
	)

	res := p.Process(context.Background(), "inv.pdf")
	if res.Status != StatusOK {
		t.Fatalf("status = %q, warnings %v, err %v", res.Status, res.Warnings, res.Err)
	}
	if res.Record == nil {
		t.Fatal("no record")
	}
	rec := res.Record
	if rec.ContactName != "Duck Island Limited" || rec.InvoiceNumber != "0000027558" {
		t.Errorf("identity fields = %q / %q", rec.ContactName, rec.InvoiceNumber)
	}
	if rec.InvoiceDate != "13/11/2024" || rec.DueDate != "31/12/2024" {
		t.Errorf("dates = %q / %q", rec.InvoiceDate, rec.DueDate)
	}
	if rec.Total != "11.38" || rec.TaxAmount != "1.90" || rec.NetAmount != "9.48" {
		t.Errorf("money = %q / %q / %q", rec.Total, rec.TaxAmount, rec.NetAmount)
	}
	if rec.Tracking.Option1 != "Hotel Buyer" {
		t.Errorf("tracking option = %q", rec.Tracking.Option1)
	}
	if res.JobID == uuid.Nil {
		t.Error("job id not assigned")
	}
}

func TestProcessCorpusJoinsBothHalves(t *testing.T) {
	ext := &stubExtractor{fields: llm.RawFieldSet{llm.FieldContactName: llm.Scalar("Acme")}}
	p := newTestProcessor(
		stubAcquirer{res: ocr.Result{TextLayer: "", OCRText: "Supplier: Acme"}},
		ext,
	)

	res := p.Process(context.Background(), "scan.pdf")
	if res.Failed() {
		t.Fatalf("failed: %v", res.Err)
	}
	if ext.corpus != "\nSupplier: Acme" {
		t.Errorf("corpus = %q, want text layer and recognized text joined by newline", ext.corpus)
	}
}

func TestProcessUnreadableDocument(t *testing.T) {
	p := newTestProcessor(
		stubAcquirer{err: errors.New("parse document: xref table corrupt")},
		&stubExtractor{},
	)

	res := p.Process(context.Background(), "broken.pdf")
	if res.Status != StatusFailed {
		t.Fatalf("status = %q", res.Status)
	}
	if !errors.Is(res.Err, ErrDocumentUnreadable) {
		t.Errorf("err = %v, want ErrDocumentUnreadable", res.Err)
	}
	if res.Record != nil {
		t.Error("failed document must not carry a record")
	}
}

func TestProcessEmptyCorpusFails(t *testing.T) {
	p := newTestProcessor(
		stubAcquirer{res: ocr.Result{TextLayer: "  \n", OCRText: ""}},
		&stubExtractor{},
	)

	res := p.Process(context.Background(), "blank.pdf")
	if res.Status != StatusFailed || !errors.Is(res.Err, ErrDocumentUnreadable) {
		t.Fatalf("status = %q, err = %v", res.Status, res.Err)
	}
}

func TestProcessDeadlineExpiryFails(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	p := newTestProcessor(
		stubAcquirer{res: ocr.Result{TextLayer: "Invoice text"}},
		&stubExtractor{err: context.DeadlineExceeded},
	)

	res := p.Process(ctx, "slow.pdf")
	if res.Status != StatusFailed {
		t.Fatalf("status = %q, want failed on deadline expiry", res.Status)
	}
	if !errors.Is(res.Err, ErrDocumentTimedOut) {
		t.Errorf("err = %v, want ErrDocumentTimedOut", res.Err)
	}
	if errors.Is(res.Err, ErrDocumentUnreadable) {
		t.Error("a timeout is not an unreadable document")
	}
	if res.Record != nil {
		t.Error("timed-out document must not carry a record")
	}
	if hasWarning(res, WarnExtractionFailed) {
		t.Error("expiry must not downgrade to an extraction warning")
	}
}

func TestProcessExtractionFailureFallsBack(t *testing.T) {
	p := newTestProcessor(
		stubAcquirer{res: ocr.Result{TextLayer: "Supplier: Nisbets\nInvoice No: 30114156"}},
		&stubExtractor{err: errors.New("service unavailable")},
	)

	res := p.Process(context.Background(), "inv.pdf")
	if res.Status != StatusWarnings {
		t.Fatalf("status = %q, err = %v", res.Status, res.Err)
	}
	if !hasWarning(res, WarnExtractionFailed) {
		t.Errorf("warnings = %v, want extraction failure recorded", res.Warnings)
	}
	if res.Record == nil {
		t.Fatal("extraction failure still produces a record")
	}
	if res.Record.ContactName != "Nisbets" {
		t.Errorf("contact = %q, want fallback value", res.Record.ContactName)
	}
	if res.Record.InvoiceNumber != "30114156" {
		t.Errorf("invoice number = %q, want fallback value", res.Record.InvoiceNumber)
	}
	if res.Record.Total != constants.ZeroAmount {
		t.Errorf("total = %q, want zero sentinel", res.Record.Total)
	}
}

func TestProcessOCRUnavailableIsAWarning(t *testing.T) {
	p := newTestProcessor(
		stubAcquirer{res: ocr.Result{TextLayer: "Invoice text", OCRUnavailable: true}},
		&stubExtractor{fields: llm.RawFieldSet{llm.FieldContactName: llm.Scalar("Acme")}},
	)

	res := p.Process(context.Background(), "inv.pdf")
	if res.Status != StatusWarnings {
		t.Fatalf("status = %q", res.Status)
	}
	if !hasWarning(res, WarnOCRUnavailable) {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if res.Record == nil {
		t.Fatal("degraded corpus still produces a record")
	}
}

func TestProcessIsDeterministic(t *testing.T) {
	fields := make(llm.RawFieldSet)
	fields.Set(llm.FieldContactName, llm.Scalar("Acme"))
	fields.Set(llm.FieldInvoiceDate, llm.Scalar("05/12/2024"))
	fields.Set(llm.FieldTotal, llm.Scalar("55.82"))

	p := newTestProcessor(
		stubAcquirer{res: ocr.Result{TextLayer: "Invoice text"}},
		&stubExtractor{fields: fields},
	)

	a := p.Process(context.Background(), "inv.pdf")
	b := p.Process(context.Background(), "inv.pdf")
	if a.Record == nil || b.Record == nil {
		t.Fatal("expected records from both runs")
	}
	if !reflect.DeepEqual(*a.Record, *b.Record) {
		t.Errorf("same input produced different records:\n%+v\n%+v", *a.Record, *b.Record)
	}
}

func hasWarning(res Result, kind WarningKind) bool {
	for _, w := range res.Warnings {
		if w == kind {
			return true
		}
	}
	return false
}
