package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/arogya-labs/referral-digitizer/internal/common"
	"github.com/arogya-labs/referral-digitizer/internal/ingest"
	"github.com/arogya-labs/referral-digitizer/internal/llm/gemini"
	"github.com/arogya-labs/referral-digitizer/internal/persist"
	"github.com/arogya-labs/referral-digitizer/internal/pipeline"
	"github.com/arogya-labs/referral-digitizer/internal/store"
)

// refwatchd watches a local inbox directory, uploads new referral-form scans
// into the artifact store, and (unless -upload-only) runs extraction on each.
func main() {
	var (
		inbox      = flag.String("inbox", "", "inbox directory to watch (default: INBOX_DIR)")
		uploadOnly = flag.Bool("upload-only", false, "upload scans without triggering extraction")
		scan       = flag.Bool("scan", true, "emit files already present in the inbox at startup")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	validate := cfg.Validate
	if *uploadOnly {
		validate = cfg.ValidateStore
	}
	if err := validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	dir := *inbox
	if dir == "" {
		dir = cfg.Ingest.InboxDir
	}
	if dir == "" {
		logger.Error("usage: refwatchd -inbox <dir> (or set INBOX_DIR)")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

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

	uploader := ingest.NewUploader(st, logger)

	var proc *pipeline.Processor
	if !*uploadOnly {
		checklistClient := gemini.NewClient(gemini.Config{
			APIKey:      cfg.Gemini.APIKey,
			Model:       cfg.Gemini.ChecklistModel,
			Temperature: cfg.Gemini.Temperature,
			Timeout:     cfg.Gemini.Timeout,
		}, logger)
		detailsClient := gemini.NewClient(gemini.Config{
			APIKey:      cfg.Gemini.APIKey,
			Model:       cfg.Gemini.DetailsModel,
			Temperature: cfg.Gemini.Temperature,
			Timeout:     cfg.Gemini.Timeout,
		}, logger)
		proc = pipeline.NewProcessor(logger, st, checklistClient, detailsClient, persist.New(st, logger))
	}

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: *scan,
		Debounce:    cfg.Ingest.Debounce,
	})
	if err != nil {
		logger.Error("start watcher", "inbox", dir, "error", err)
		os.Exit(1)
	}

	logger.Info("watching inbox", "dir", dir, "upload_only", *uploadOnly)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case werr, ok := <-errs:
			if ok && werr != nil {
				logger.Error("watch error", "error", werr)
			}
		case path, ok := <-events:
			if !ok {
				return
			}
			key, err := uploader.UploadScan(ctx, path)
			if err != nil {
				logger.Error("upload failed", "path", path, "error", err)
				continue
			}
			if proc == nil {
				continue
			}
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if _, err := proc.ProcessImage(runCtx, key); err != nil {
				logger.Error("extraction failed", "key", key, "error", err)
			}
			cancel()
		}
	}
}
