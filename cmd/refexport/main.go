package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/arogya-labs/referral-digitizer/internal/common"
	"github.com/arogya-labs/referral-digitizer/internal/export"
	"github.com/arogya-labs/referral-digitizer/internal/store"
)

func main() {
	var (
		out     = flag.String("out", "records.xlsx", "output XLSX file path")
		fromStr = flag.String("from", "", "from date YYYY-MM-DD (inclusive)")
		toStr   = flag.String("to", "", "to date YYYY-MM-DD (inclusive)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.ValidateStore(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	var from, to *time.Time
	if *fromStr != "" {
		parsed, err := time.Parse("2006-01-02", *fromStr)
		if err != nil {
			logger.Error("invalid -from date, use YYYY-MM-DD", "value", *fromStr, "error", err)
			os.Exit(2)
		}
		from = &parsed
	}
	if *toStr != "" {
		parsed, err := time.Parse("2006-01-02", *toStr)
		if err != nil {
			logger.Error("invalid -to date, use YYYY-MM-DD", "value", *toStr, "error", err)
			os.Exit(2)
		}
		to = &parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.NewS3Store(ctx, store.S3Config{
		Bucket:          cfg.Store.Bucket,
		Region:          cfg.Store.Region,
		Endpoint:        cfg.Store.Endpoint,
		AccessKeyID:     cfg.Store.AccessKeyID,
		SecretAccessKey: cfg.Store.SecretAccessKey,
	}, logger)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}

	svc := export.NewService(st, logger)
	data, err := svc.ExportRecordsXLSX(ctx, from, to)
	if err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("write workbook", "path", *out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d bytes)\n", *out, len(data))
}
