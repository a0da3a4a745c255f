package main

import "github.com/ledgerline/invoice-pipeline/internal/cli"

func main() {
	cli.Execute()
}
