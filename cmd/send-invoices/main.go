package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/skylineglobal/invoice-mailer/internal/assets"
	"github.com/skylineglobal/invoice-mailer/internal/batch"
	"github.com/skylineglobal/invoice-mailer/internal/config"
	"github.com/skylineglobal/invoice-mailer/internal/googleauth"
	"github.com/skylineglobal/invoice-mailer/internal/logger"
	"github.com/skylineglobal/invoice-mailer/internal/mailer"
	"github.com/skylineglobal/invoice-mailer/internal/render"
	"github.com/skylineglobal/invoice-mailer/internal/sheet"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	flag.Parse()

	// Load fails on placeholder values before any network call happens.
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration check failed")
	}

	// Create context with timeout so one stuck call doesn't hang the batch forever
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("spreadsheet_id", cfg.SpreadsheetID).
		Str("tab", cfg.SheetTab).
		Str("range", cfg.DataRange).
		Msg("Starting invoice batch")

	sheetsSvc, gmailSvc, err := googleauth.Services(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Authentication failed")
	}

	// The logo is optional: a failed load only means invoices go out without it.
	var logo []byte
	if cfg.LogoPath != "" {
		logo, err = assets.LoadLogo(ctx, cfg.LogoPath)
		if err != nil {
			log.Warn().Err(err).Str("logo_path", cfg.LogoPath).Msg("Logo unavailable, continuing without it")
			logo = nil
		}
	}

	runner := &batch.Runner{
		Sheet:    sheet.NewClient(sheetsSvc, cfg.SpreadsheetID, cfg.SheetTab, cfg.DataRange, cfg.Columns.Status),
		Renderer: render.New(cfg.Business, logo, assets.ImageType(cfg.LogoPath)),
		Sender:   mailer.NewGmailSender(gmailSvc),
		Config:   cfg,
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Batch failed")
	}

	fmt.Printf("Done. Processed: %d invoice(s).\n", summary.Processed)
}
