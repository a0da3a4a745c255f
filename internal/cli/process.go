package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerline/invoice-pipeline/internal/async"
	"github.com/ledgerline/invoice-pipeline/internal/config"
	"github.com/ledgerline/invoice-pipeline/internal/export"
	"github.com/ledgerline/invoice-pipeline/internal/fallback"
	"github.com/ledgerline/invoice-pipeline/internal/llm/openai"
	"github.com/ledgerline/invoice-pipeline/internal/normalize"
	"github.com/ledgerline/invoice-pipeline/internal/ocr"
	"github.com/ledgerline/invoice-pipeline/internal/pipeline"
	"github.com/ledgerline/invoice-pipeline/internal/record"
)

var (
	processDir     string
	processOut     string
	processXLSX    string
	processWebhook string
	processWorkers int
	logLevel       string
)

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Process invoice PDFs into records",
	Long:  "Process one or more invoice PDFs (given as arguments or discovered\nvia --dir) and export the assembled records.",
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processDir, "dir", "", "directory to scan for *.pdf documents")
	processCmd.Flags().StringVar(&processOut, "out", "", "output CSV file path")
	processCmd.Flags().StringVar(&processXLSX, "xlsx", "", "output XLSX file path")
	processCmd.Flags().StringVar(&processWebhook, "webhook", "", "webhook URL to deliver records to (overrides WEBHOOK_URL)")
	processCmd.Flags().IntVar(&processWorkers, "workers", 0, "concurrent documents (overrides BATCH_WORKERS)")
	processCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	cfg := config.Load()
	if processWebhook != "" {
		cfg.Delivery.WebhookURL = processWebhook
	}
	if processWorkers > 0 {
		cfg.Batch.Workers = processWorkers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	paths, err := collectDocuments(args, processDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents to process: pass file paths or --dir")
	}

	acquirer := ocr.NewAcquirer(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)

	extractor := openai.NewClient(openai.Config{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, openai.PromptSettings{
		Currency:        cfg.Invoice.Currency,
		AccountCode:     cfg.Invoice.AccountCode,
		TaxType:         cfg.Invoice.TaxType,
		DisallowedNames: cfg.Invoice.DisallowedNames,
	}, logger)

	proc := pipeline.NewProcessor(
		logger,
		acquirer,
		extractor,
		fallback.NewResolver(cfg.Invoice.DisallowedNames, cfg.Invoice.UnknownContact, logger),
		normalize.NewNormalizer(cfg.Invoice, logger),
		record.NewAssembler(cfg.Invoice, logger),
	)

	pool := async.NewPool(proc, logger,
		async.WithWorkers(cfg.Batch.Workers),
		async.WithDocTimeout(cfg.Batch.DocTimeout),
	)

	logger.Info("batch.start", "documents", len(paths), "workers", cfg.Batch.Workers)
	results := pool.Run(cmd.Context(), paths)

	var records []record.InvoiceRecord
	for _, res := range results {
		if res.Record != nil {
			records = append(records, *res.Record)
		}
	}

	if processOut != "" {
		f, err := os.Create(processOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", processOut, err)
		}
		if err := export.WriteCSV(f, records); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("batch.csv.written", "path", processOut, "records", len(records))
	}

	if processXLSX != "" {
		b, err := export.WriteXLSX(records)
		if err != nil {
			return err
		}
		if err := os.WriteFile(processXLSX, b, 0644); err != nil {
			return fmt.Errorf("write %s: %w", processXLSX, err)
		}
		logger.Info("batch.xlsx.written", "path", processXLSX, "records", len(records))
	}

	delivered, deliveryFailed := 0, 0
	if cfg.Delivery.WebhookURL != "" {
		sender := export.NewWebhookSender(cfg.Delivery.WebhookURL, cfg.Delivery.Timeout, logger)
		for _, rec := range records {
			if err := sender.Send(cmd.Context(), rec); err != nil {
				logger.Error("batch.webhook.failed", "source", rec.SourcePath, "error", err)
				deliveryFailed++
			} else {
				delivered++
			}
		}
	}

	printReport(results, delivered, deliveryFailed)

	summary := async.Summarize(results)
	if summary.Failed == len(results) {
		return fmt.Errorf("all %d documents failed", summary.Failed)
	}
	return nil
}

func printReport(results []pipeline.Result, delivered, deliveryFailed int) {
	summary := async.Summarize(results)
	fmt.Printf("Processed %d documents: %d ok, %d with warnings, %d failed\n",
		len(results), summary.OK, summary.Warnings, summary.Failed)
	for _, res := range results {
		switch res.Status {
		case pipeline.StatusOK:
			fmt.Printf("  ok      %s\n", res.SourcePath)
		case pipeline.StatusWarnings:
			kinds := make([]string, len(res.Warnings))
			for i, w := range res.Warnings {
				kinds[i] = string(w)
			}
			fmt.Printf("  warn    %s (%s)\n", res.SourcePath, strings.Join(kinds, ", "))
		case pipeline.StatusFailed:
			fmt.Printf("  failed  %s: %v\n", res.SourcePath, res.Err)
		}
	}
	if delivered+deliveryFailed > 0 {
		fmt.Printf("Webhook delivery: %d sent, %d failed\n", delivered, deliveryFailed)
	}
}

func collectDocuments(args []string, dir string) ([]string, error) {
	paths := append([]string(nil), args...)
	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
