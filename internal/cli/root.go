package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:     "invoicepipe",
	Short:   "Convert invoice documents into accounting-ready records",
	Long:    "invoicepipe extracts structured invoice records from PDF documents\nusing the embedded text layer, an OCR pass, and a language-model\nextraction step, and exports them as CSV, XLSX, or webhook payloads.",
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
