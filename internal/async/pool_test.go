package async

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ledgerline/invoice-pipeline/internal/config"
	"github.com/ledgerline/invoice-pipeline/internal/fallback"
	"github.com/ledgerline/invoice-pipeline/internal/llm"
	"github.com/ledgerline/invoice-pipeline/internal/normalize"
	"github.com/ledgerline/invoice-pipeline/internal/ocr"
	"github.com/ledgerline/invoice-pipeline/internal/pipeline"
	"github.com/ledgerline/invoice-pipeline/internal/record"
)

// pathAcquirer fails any path containing "bad" and otherwise echoes the path
// into the corpus so results are attributable.
type pathAcquirer struct{}

func (pathAcquirer) Acquire(ctx context.Context, path string) (ocr.Result, error) {
	if strings.Contains(path, "bad") {
		return ocr.Result{}, errors.New("parse document: damaged")
	}
	return ocr.Result{TextLayer: "Supplier: " + strings.TrimSuffix(path, ".pdf")}, nil
}

type noopExtractor struct{}

func (noopExtractor) Extract(ctx context.Context, corpus string) (llm.RawFieldSet, []byte, error) {
	return nil, nil, errors.New("offline")
}

// slowExtractor blocks until the per-document context expires.
type slowExtractor struct{}

func (slowExtractor) Extract(ctx context.Context, corpus string) (llm.RawFieldSet, []byte, error) {
	<-ctx.Done()
	return nil, nil, ctx.Err()
}

func newTestPool(ext llm.FieldExtractor, opts ...Option) *Pool {
	inv := config.InvoiceConfig{
		TaxRate:       0.20,
		AccountCode:   "540",
		TaxType:       "20% (VAT on Expenses)",
		Currency:      "GBP",
		TrackingName:  "Website",
		TrackingRules: config.DefaultTrackingRules(),
	}
	proc := pipeline.NewProcessor(nil, pathAcquirer{}, ext,
		fallback.NewResolver(nil, "Unknown (Check Invoice)", nil),
		normalize.NewNormalizer(inv, nil),
		record.NewAssembler(inv, nil),
	)
	return NewPool(proc, nil, opts...)
}

func TestPoolRunPreservesInputOrder(t *testing.T) {
	paths := []string{"alpha.pdf", "bravo.pdf", "charlie.pdf", "delta.pdf"}
	p := newTestPool(noopExtractor{}, WithWorkers(3))

	results := p.Run(context.Background(), paths)
	if len(results) != len(paths) {
		t.Fatalf("results = %d, want %d", len(results), len(paths))
	}
	for i, res := range results {
		if res.SourcePath != paths[i] {
			t.Errorf("result %d is for %q, want %q", i, res.SourcePath, paths[i])
		}
		if res.Record == nil {
			t.Errorf("result %d has no record", i)
			continue
		}
		if want := strings.TrimSuffix(paths[i], ".pdf"); res.Record.ContactName != want {
			t.Errorf("result %d contact = %q, want %q", i, res.Record.ContactName, want)
		}
	}
}

func TestPoolFailedDocumentDoesNotAbortBatch(t *testing.T) {
	paths := []string{"good.pdf", "bad.pdf", "fine.pdf"}
	p := newTestPool(noopExtractor{}, WithWorkers(2))

	results := p.Run(context.Background(), paths)
	if !results[1].Failed() {
		t.Errorf("bad.pdf status = %q, want failed", results[1].Status)
	}
	if results[0].Failed() || results[2].Failed() {
		t.Error("healthy documents must not be affected by a failed one")
	}
}

func TestPoolDocTimeoutReportsFailure(t *testing.T) {
	p := newTestPool(slowExtractor{},
		WithWorkers(2),
		WithDocTimeout(20*time.Millisecond),
	)

	results := p.Run(context.Background(), []string{"slow.pdf", "also-slow.pdf"})
	for _, res := range results {
		if !res.Failed() {
			t.Errorf("%s status = %q, want failed on deadline expiry", res.SourcePath, res.Status)
		}
		if !errors.Is(res.Err, pipeline.ErrDocumentTimedOut) {
			t.Errorf("%s err = %v, want ErrDocumentTimedOut", res.SourcePath, res.Err)
		}
		if res.Record != nil {
			t.Errorf("%s carries a record despite timing out", res.SourcePath)
		}
	}
}

func TestSummarize(t *testing.T) {
	results := []pipeline.Result{
		{Status: pipeline.StatusOK},
		{Status: pipeline.StatusWarnings},
		{Status: pipeline.StatusWarnings},
		{Status: pipeline.StatusFailed},
	}
	s := Summarize(results)
	if s.OK != 1 || s.Warnings != 2 || s.Failed != 1 {
		t.Errorf("summary = %+v", s)
	}
}
