// cmd/tools/proposal-render/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/models"
	"quotation-workers/internal/quotation/document"
	"quotation-workers/internal/quotation/intake"
	"quotation-workers/internal/quotation/reference"
)

// Renders a proposal PDF from a request file without sending anything.
func main() {
	in := flag.String("in", "", "Path to a quotation request JSON file")
	out := flag.String("out", "proposal.pdf", "Output PDF path")
	ref := flag.String("ref", "", "Reference number to print (generated when empty)")
	cfgPath := flag.String("config", "", "Config file (defaults to configs/config.yaml)")
	flag.Parse()

	if *in == "" {
		fmt.Println("Error: -in is required.")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		fmt.Printf("Error reading request: %v\n", err)
		os.Exit(1)
	}

	validator, err := intake.NewValidator(cfg.Quotation)
	if err != nil {
		fmt.Printf("Error building validator: %v\n", err)
		os.Exit(1)
	}
	req, err := validator.ValidateJSON(raw)
	if err != nil {
		fmt.Printf("Invalid request: %v\n", err)
		os.Exit(1)
	}

	number := *ref
	if number == "" {
		number = reference.NewGenerator(cfg.Quotation.Reference.Prefix).Generate(req.FullName)
	}
	record := models.NewQuotationRecord(req, number, time.Now())

	log := logger.NewStructured(cfg.Logging.Level, "console")
	pdf, err := document.NewComposer(cfg.Quotation, log).Compose(record)
	if err != nil {
		fmt.Printf("Error composing proposal: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, pdf, 0o644); err != nil {
		fmt.Printf("Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d bytes, reference %s)\n", *out, len(pdf), number)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
