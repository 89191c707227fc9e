// cmd/tools/quotation-export/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/common/database"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/quotation/report"
	"quotation-workers/internal/quotation/storage"
)

func main() {
	since := flag.Duration("since", 30*24*time.Hour, "Export quotations submitted within this window")
	out := flag.String("out", "quotations.xlsx", "Output workbook path")
	cfgPath := flag.String("config", "", "Config file (defaults to configs/config.yaml)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *cfgPath != "" {
		cfg, err = config.LoadFromFile(*cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Postgres.Host == "" {
		fmt.Println("Error: database.postgres.host is not configured.")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	log := logger.NewStructured(cfg.Logging.Level, "console")
	now := time.Now()
	quotations, err := storage.NewPostgresStore(pg.DB, log).List(ctx, now.Add(-*since))
	if err != nil {
		fmt.Printf("Error listing quotations: %v\n", err)
		os.Exit(1)
	}

	data, err := report.Export(quotations, cfg.Quotation, now)
	if err != nil {
		fmt.Printf("Error building workbook: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Printf("Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d quotations to %s\n", len(quotations), *out)
}
