package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI, default 300
	MaxPages      int    // 0 = no limit
}

// Result carries both halves of the corpus plus what went wrong along the way.
// The text layer and the optical pass are always attempted independently; a
// failed optical pass leaves OCRText empty and sets OCRUnavailable instead of
// failing the document.
type Result struct {
	TextLayer      string
	OCRText        string
	Pages          int
	Language       string
	Warnings       []string
	OCRUnavailable bool
	Duration       time.Duration
}

// Corpus is the combined document text handed to extraction: the text layer
// and the recognized text joined by a single newline, both halves page-ordered.
func (r Result) Corpus() string {
	return r.TextLayer + "\n" + r.OCRText
}

// Empty reports whether neither half produced any usable text.
func (r Result) Empty() bool {
	return strings.TrimSpace(r.TextLayer) == "" && strings.TrimSpace(r.OCRText) == ""
}

// Acquirer produces one text corpus per document from the embedded text layer
// plus an optical-recognition pass over rendered page images.
type Acquirer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
	verify func(path string) error
}

func NewAcquirer(cfg Config, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	a := &Acquirer{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	a.verify = a.verifyReadable
	return a
}

// Acquire runs both extraction paths over the document. The returned error is
// non-nil only when the document itself cannot be opened or parsed; every
// toolchain problem downgrades to a warning on the Result.
func (a *Acquirer) Acquire(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	var res Result
	res.Language = a.cfg.TesseractLang

	if err := a.verify(path); err != nil {
		return res, err
	}

	text, pages, warns, err := a.pdfToText(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		a.logger.Warn("acquire.textlayer.failed", "path", path, "error", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("text layer: %v", err))
	} else {
		res.TextLayer = text
		res.Pages = pages
	}

	ocrText, ocrPages, warns, err := a.pdfToOCR(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		a.logger.Warn("acquire.ocr.unavailable", "path", path, "error", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("optical pass: %v", err))
		res.OCRUnavailable = true
	} else {
		res.OCRText = ocrText
		if ocrPages > res.Pages {
			res.Pages = ocrPages
		}
	}

	res.Duration = time.Since(start)
	a.logger.Debug("acquire.done",
		"path", path,
		"pages", res.Pages,
		"text_bytes", len(res.TextLayer),
		"ocr_bytes", len(res.OCRText),
		"ocr_unavailable", res.OCRUnavailable,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// verifyReadable confirms the file parses as a PDF before any binary is
// spawned, so unreadable documents fail fast with a precise cause.
func (a *Acquirer) verifyReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document has no pages")
	}
	return nil
}
